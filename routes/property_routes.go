package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/TusharRokade31/dharamshala_backend/controllers"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
)

// RegisterPropertyRoutes sets up public search and owner management routes
func RegisterPropertyRoutes(e *echo.Echo, propertyController *controllers.PropertyController) {
	// Public browsing
	e.GET("/api/properties", propertyController.SearchProperties)
	e.GET("/api/properties/:id", propertyController.GetProperty)

	// Owner management
	owner := e.Group("/api/owner/properties")
	owner.Use(middleware.JWTMiddleware())
	owner.Use(middleware.RequireUserType("owner", "admin"))

	owner.POST("", propertyController.CreateProperty)
	owner.GET("", propertyController.GetOwnerProperties)
	owner.PUT("/:id", propertyController.UpdateProperty)
	owner.DELETE("/:id", propertyController.DeleteProperty)
	owner.POST("/:id/photos", propertyController.UploadPropertyPhotos)
}
