package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TusharRokade31/dharamshala_backend/models"
	"github.com/TusharRokade31/dharamshala_backend/repositories"
)

type CategoryController struct {
	repo *repositories.CategoryRepository
}

func NewCategoryController(repo *repositories.CategoryRepository) *CategoryController {
	return &CategoryController{repo: repo}
}

// CreateCategory creates a new category at version 1
func (cc *CategoryController) CreateCategory(c echo.Context) error {
	var req models.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Category name is required and must be 2-100 characters",
		})
	}

	category, err := cc.repo.Create(c.Request().Context(), req.Name)
	if err != nil {
		if err == repositories.ErrCategoryNameUsed {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Category with this name already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create category",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Category created successfully",
		Data:    category,
	})
}

// GetAllCategories retrieves all live categories
func (cc *CategoryController) GetAllCategories(c echo.Context) error {
	categories, err := cc.repo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve categories",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories retrieved successfully",
		Data:    categories,
	})
}

// GetCategory retrieves a category by ID
func (cc *CategoryController) GetCategory(c echo.Context) error {
	objectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	category, err := cc.repo.Get(c.Request().Context(), objectID)
	if err != nil {
		if err == repositories.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Category not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve category",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category retrieved successfully",
		Data:    category,
	})
}

// UpdateCategory updates a category, writing a new version row
func (cc *CategoryController) UpdateCategory(c echo.Context) error {
	objectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	var req models.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Category name is required and must be 2-100 characters",
		})
	}

	category, err := cc.repo.Update(c.Request().Context(), objectID, req.Name)
	if err != nil {
		switch err {
		case repositories.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Category not found",
			})
		case repositories.ErrCategoryNameUsed:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Category with this name already exists",
			})
		case repositories.ErrVersionConflict:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Category was modified concurrently, please retry",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update category",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category updated successfully",
		Data:    category,
	})
}

// DeleteCategory soft-deletes a category, keeping its version history
func (cc *CategoryController) DeleteCategory(c echo.Context) error {
	objectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	err = cc.repo.SoftDelete(c.Request().Context(), objectID)
	if err != nil {
		switch err {
		case repositories.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Category not found",
			})
		case repositories.ErrCategoryInUse:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Cannot delete category: it is being used by blogs",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete category",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category deleted successfully",
	})
}

// GetCategoryVersions returns the version history, ascending
func (cc *CategoryController) GetCategoryVersions(c echo.Context) error {
	objectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	versions, err := cc.repo.Versions(c.Request().Context(), objectID)
	if err != nil {
		if err == repositories.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Category not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve category versions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category versions retrieved successfully",
		Data:    versions,
	})
}
