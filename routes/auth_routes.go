package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/TusharRokade31/dharamshala_backend/controllers"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
)

// RegisterAuthRoutes sets up authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	auth := e.Group("/api/auth")

	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)
	auth.POST("/google", authController.GoogleLogin)
	auth.POST("/forgot-password", authController.ForgotPassword)
	auth.POST("/reset-password", authController.ResetPassword)

	// Logout needs a valid token to blacklist
	auth.POST("/logout", authController.Logout, middleware.JWTMiddleware())
}
