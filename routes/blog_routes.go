package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/TusharRokade31/dharamshala_backend/controllers"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
)

// RegisterBlogRoutes sets up public blog reads and admin-only writes
func RegisterBlogRoutes(e *echo.Echo, blogController *controllers.BlogController) {
	e.GET("/api/blogs", blogController.GetBlogs)
	e.GET("/api/blogs/:slug", blogController.GetBlogBySlug)

	admin := e.Group("/api/blogs")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireUserType("admin"))

	admin.POST("", blogController.CreateBlog)
	admin.PUT("/:id", blogController.UpdateBlog)
	admin.DELETE("/:id", blogController.DeleteBlog)
}
