package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TusharRokade31/dharamshala_backend/controllers"
	"github.com/TusharRokade31/dharamshala_backend/repositories"
	"github.com/TusharRokade31/dharamshala_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	propertyController := controllers.NewPropertyController(db)
	bookingController := controllers.NewBookingController(db, hub)
	paymentController := controllers.NewPaymentController(db, repositories.NewPaymentRepository(db), hub)
	categoryController := controllers.NewCategoryController(repositories.NewCategoryRepository(db))
	blogController := controllers.NewBlogController(db)
	stateController := controllers.NewStateController(db)
	adminController := controllers.NewAdminController(db)

	RegisterAuthRoutes(e, authController)
	RegisterUserRoutes(e, userController, hub)
	RegisterPropertyRoutes(e, propertyController)
	RegisterBookingRoutes(e, bookingController)
	RegisterPaymentRoutes(e, paymentController)
	RegisterCategoryRoutes(e, categoryController)
	RegisterBlogRoutes(e, blogController)
	RegisterStateRoutes(e, stateController)
	RegisterAdminRoutes(e, adminController)
}
