package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/TusharRokade31/dharamshala_backend/controllers"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
)

// RegisterCategoryRoutes sets up public category reads and admin-only writes
func RegisterCategoryRoutes(e *echo.Echo, categoryController *controllers.CategoryController) {
	// Public reads
	e.GET("/api/blog/categories", categoryController.GetAllCategories)
	e.GET("/api/blog/categories/:id", categoryController.GetCategory)
	e.GET("/api/blog/categories/:id/versions", categoryController.GetCategoryVersions)

	// Admin writes
	admin := e.Group("/api/blog/categories")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireUserType("admin"))

	admin.POST("", categoryController.CreateCategory)
	admin.PUT("/:id", categoryController.UpdateCategory)
	admin.DELETE("/:id", categoryController.DeleteCategory)
}
