package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TusharRokade31/dharamshala_backend/config"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
	"github.com/TusharRokade31/dharamshala_backend/models"
	"github.com/TusharRokade31/dharamshala_backend/utils"
)

// BlogController handles blog posts written by admins
type BlogController struct {
	db *mongo.Client
}

// NewBlogController creates a new blog controller
func NewBlogController(db *mongo.Client) *BlogController {
	return &BlogController{db: db}
}

// CreateBlog creates a blog post under an existing category
func (bc *BlogController) CreateBlog(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	authorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var request models.BlogRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	categoryID, err := primitive.ObjectIDFromHex(request.CategoryID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	count, err := config.GetCollection(bc.db, "categories").CountDocuments(ctx,
		bson.M{"_id": categoryID, "isDeleted": false})
	if err != nil || count == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown category",
		})
	}

	now := time.Now()
	blog := models.Blog{
		ID:         primitive.NewObjectID(),
		Title:      utils.SanitizeInput(request.Title),
		Slug:       utils.Slugify(request.Title),
		Content:    request.Content,
		CategoryID: categoryID,
		AuthorID:   authorID,
		CoverImage: request.CoverImage,
		Published:  request.Published,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := config.GetCollection(bc.db, "blogs").InsertOne(ctx, blog); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A blog with this title already exists",
			})
		}
		log.Printf("Failed to create blog: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create blog",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Blog created successfully",
		Data:    blog,
	})
}

// GetBlogs lists published posts, optionally filtered by category slug
func (bc *BlogController) GetBlogs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"published": true}
	if categorySlug := c.QueryParam("category"); categorySlug != "" {
		var category models.Category
		err := config.GetCollection(bc.db, "categories").FindOne(ctx,
			bson.M{"slug": categorySlug, "isDeleted": false}).Decode(&category)
		if err != nil {
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "Blogs retrieved successfully",
				Data:    []models.Blog{},
			})
		}
		filter["categoryId"] = category.ID
	}

	cursor, err := config.GetCollection(bc.db, "blogs").Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching blogs",
		})
	}
	defer cursor.Close(ctx)

	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error decoding blogs",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Blogs retrieved successfully",
		Data:    blogs,
	})
}

// GetBlogBySlug returns a single published post
func (bc *BlogController) GetBlogBySlug(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var blog models.Blog
	err := config.GetCollection(bc.db, "blogs").FindOne(ctx,
		bson.M{"slug": c.Param("slug"), "published": true}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Blog not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching blog",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Blog retrieved successfully",
		Data:    blog,
	})
}

// UpdateBlog modifies a post
func (bc *BlogController) UpdateBlog(c echo.Context) error {
	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid blog ID",
		})
	}

	var request models.BlogRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	categoryID, err := primitive.ObjectIDFromHex(request.CategoryID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	count, err := config.GetCollection(bc.db, "categories").CountDocuments(ctx,
		bson.M{"_id": categoryID, "isDeleted": false})
	if err != nil || count == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown category",
		})
	}

	update := bson.M{
		"title":      utils.SanitizeInput(request.Title),
		"slug":       utils.Slugify(request.Title),
		"content":    request.Content,
		"categoryId": categoryID,
		"coverImage": request.CoverImage,
		"published":  request.Published,
		"updatedAt":  time.Now(),
	}
	result, err := config.GetCollection(bc.db, "blogs").UpdateOne(ctx,
		bson.M{"_id": blogID}, bson.M{"$set": update})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A blog with this title already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update blog",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Blog not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Blog updated successfully",
	})
}

// DeleteBlog removes a post
func (bc *BlogController) DeleteBlog(c echo.Context) error {
	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid blog ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(bc.db, "blogs").DeleteOne(ctx, bson.M{"_id": blogID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete blog",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Blog not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Blog deleted successfully",
	})
}
