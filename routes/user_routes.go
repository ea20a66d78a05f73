package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TusharRokade31/dharamshala_backend/controllers"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
	"github.com/TusharRokade31/dharamshala_backend/models"
	"github.com/TusharRokade31/dharamshala_backend/websocket"
)

// RegisterUserRoutes sets up profile and websocket routes
func RegisterUserRoutes(e *echo.Echo, userController *controllers.UserController, hub *websocket.Hub) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/users/profile", userController.GetProfile)
	r.PUT("/users/profile", userController.UpdateProfile)
	r.POST("/users/profile-picture", userController.UploadProfilePicture)

	// Live notifications over websocket
	r.GET("/ws", func(c echo.Context) error {
		claims := middleware.GetUserFromToken(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
			})
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID",
			})
		}
		return websocket.HandleWebSocket(c, hub, userID)
	})
}
