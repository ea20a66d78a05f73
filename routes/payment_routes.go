package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/TusharRokade31/dharamshala_backend/controllers"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
)

// RegisterPaymentRoutes sets up payment initiation, status polling and the
// gateway webhook
func RegisterPaymentRoutes(e *echo.Echo, paymentController *controllers.PaymentController) {
	// Webhook is authenticated by its X-VERIFY checksum, not by JWT
	e.POST("/api/payments/phonepe/webhook", paymentController.HandleWebhook)

	r := e.Group("/api/payments")
	r.Use(middleware.JWTMiddleware())

	r.POST("/initiate", paymentController.InitiatePayment)
	r.GET("/status/:merchantTransactionId", paymentController.CheckPaymentStatus)
}
