package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/TusharRokade31/dharamshala_backend/controllers"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
)

// RegisterStateRoutes sets up the location directory routes
func RegisterStateRoutes(e *echo.Echo, stateController *controllers.StateController) {
	e.GET("/api/states", stateController.GetStates)

	admin := e.Group("/api/states")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireUserType("admin"))

	admin.POST("", stateController.CreateState)
	admin.DELETE("/:id", stateController.DeleteState)
}
