package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/TusharRokade31/dharamshala_backend/controllers"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
)

// RegisterAdminRoutes sets up moderation and statistics routes
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController) {
	r := e.Group("/api/admin")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.RequireUserType("admin"))

	r.GET("/properties/pending", adminController.GetPendingProperties)
	r.PUT("/properties/:id/approve", adminController.ApproveProperty)
	r.PUT("/properties/:id/reject", adminController.RejectProperty)
	r.GET("/users", adminController.GetAllUsers)
	r.GET("/dashboard", adminController.GetDashboardStats)
}
