package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TusharRokade31/dharamshala_backend/config"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
	"github.com/TusharRokade31/dharamshala_backend/models"
	"github.com/TusharRokade31/dharamshala_backend/repositories"
	"github.com/TusharRokade31/dharamshala_backend/security"
	"github.com/TusharRokade31/dharamshala_backend/services"
	"github.com/TusharRokade31/dharamshala_backend/utils"
	"github.com/TusharRokade31/dharamshala_backend/websocket"
)

// PaymentController handles payment initiation, the gateway webhook and
// client status polling
type PaymentController struct {
	db         *mongo.Client
	payments   *repositories.PaymentRepository
	hub        *websocket.Hub
	newGateway func() (*services.PhonePeService, error)
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *mongo.Client, payments *repositories.PaymentRepository, hub *websocket.Hub) *PaymentController {
	return &PaymentController{
		db:         db,
		payments:   payments,
		hub:        hub,
		newGateway: services.NewPhonePeService,
	}
}

// InitiatePaymentRequest model
type InitiatePaymentRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
}

// InitiatePayment creates a pending payment for a draft booking and returns
// the gateway redirect URL
func (pc *PaymentController) InitiatePayment(c echo.Context) error {
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

	var request InitiatePaymentRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Booking ID is required",
		})
	}

	bookingID, err := primitive.ObjectIDFromHex(request.BookingID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	// The booking id from the client is a hint only; ownership and state
	// are re-checked against the database
	bookingsCollection := config.GetCollection(pc.db, "bookings")
	var booking models.Booking
	err = bookingsCollection.FindOne(ctx, bson.M{"_id": bookingID, "userId": userID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Booking not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding booking",
		})
	}

	if !models.CanTransitionBooking(booking.Status, models.BookingStatusPaymentPending) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: fmt.Sprintf("Booking in status %q cannot be paid for", booking.Status),
		})
	}

	// The dates were only checked at draft time; another booking may have
	// claimed them since
	conflictCount, err := bookingsCollection.CountDocuments(ctx,
		roomConflictFilter(booking.RoomID, booking.CheckIn, booking.CheckOut, booking.ID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking availability",
		})
	}
	if conflictCount > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Room is no longer available for the selected dates",
		})
	}

	gateway, err := pc.newGateway()
	if err != nil {
		log.Printf("Payment gateway unavailable: %v", err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Payment gateway is not configured",
		})
	}

	// Claim the booking before talking to the gateway. The from-status
	// filter makes concurrent initiations lose here instead of creating a
	// second pending payment.
	now := time.Now()
	claim, err := bookingsCollection.UpdateOne(ctx,
		bson.M{"_id": booking.ID, "status": booking.Status},
		bson.M{"$set": bson.M{"status": models.BookingStatusPaymentPending, "updatedAt": now}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update booking",
		})
	}
	if claim.MatchedCount == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Booking status changed, please refresh and retry",
		})
	}

	merchantTransactionID := "MT" + uuid.New().String()
	amountPaise := models.AmountToPaise(booking.Amount)

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + os.Getenv("PORT")
	}
	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = baseURL
	}

	payload := models.PhonePePayPayload{
		MerchantID:            gateway.MerchantID(),
		MerchantTransactionID: merchantTransactionID,
		MerchantUserID:        claims.UserID,
		Amount:                amountPaise,
		RedirectURL:           fmt.Sprintf("%s/payment/verify?merchantTransactionId=%s", clientURL, merchantTransactionID),
		RedirectMode:          "REDIRECT",
		CallbackURL:           fmt.Sprintf("%s/api/payments/phonepe/webhook", baseURL),
	}
	payload.PaymentInstrument.Type = "PAY_PAGE"

	redirectURL, err := gateway.InitiatePayment(ctx, payload)
	if err != nil {
		log.Printf("Failed to initiate PhonePe payment: %v", err)
		pc.releaseBookingClaim(ctx, &booking)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to initiate payment",
		})
	}

	payment := &models.Payment{
		ID:                    primitive.NewObjectID(),
		MerchantTransactionID: merchantTransactionID,
		BookingID:             booking.ID,
		UserID:                userID,
		Amount:                amountPaise,
		Status:                models.PaymentStatusPending,
		RedirectURL:           redirectURL,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := pc.payments.Create(ctx, payment); err != nil {
		log.Printf("Failed to save payment: %v", err)
		pc.releaseBookingClaim(ctx, &booking)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create payment",
		})
	}

	_, err = bookingsCollection.UpdateOne(ctx,
		bson.M{"_id": booking.ID, "status": models.BookingStatusPaymentPending},
		bson.M{"$set": bson.M{"paymentId": payment.ID, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Printf("Failed to attach payment to booking %s: %v", booking.ID.Hex(), err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Payment initiated successfully",
		Data: models.PaymentInitResponse{
			MerchantTransactionID: merchantTransactionID,
			RedirectURL:           redirectURL,
		},
	})
}

// releaseBookingClaim puts a booking back in its pre-initiation status after
// a failed payment setup. Filtered on payment_pending so a webhook that
// already settled the booking is left alone.
func (pc *PaymentController) releaseBookingClaim(ctx context.Context, booking *models.Booking) {
	_, err := config.GetCollection(pc.db, "bookings").UpdateOne(ctx,
		bson.M{"_id": booking.ID, "status": models.BookingStatusPaymentPending},
		bson.M{"$set": bson.M{"status": booking.Status, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Printf("Failed to release booking %s after payment init failure: %v", booking.ID.Hex(), err)
	}
}

// HandleWebhook processes the gateway callback. The X-VERIFY header is
// checked before the payload is decoded; a mismatch is rejected outright.
func (pc *PaymentController) HandleWebhook(c echo.Context) error {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if mediaType, _, found := strings.Cut(contentType, ";"); found {
		contentType = mediaType
	}
	if !security.ValidateContentType(strings.TrimSpace(contentType)) {
		return c.JSON(http.StatusUnsupportedMediaType, models.Response{
			Status:  http.StatusUnsupportedMediaType,
			Message: "Unsupported content type",
		})
	}

	headerChecksum := c.Request().Header.Get("X-VERIFY")
	if headerChecksum == "" {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Missing X-VERIFY header",
		})
	}

	var body models.PhonePeWebhookBody
	if err := c.Bind(&body); err != nil || body.Response == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid webhook body",
		})
	}

	gateway, err := pc.newGateway()
	if err != nil {
		log.Printf("Payment gateway unavailable during webhook: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Payment gateway is not configured",
		})
	}

	payload, err := gateway.VerifyWebhook(body.Response, headerChecksum)
	if err != nil {
		if err == services.ErrSignatureMismatch {
			log.Printf("Webhook rejected: signature mismatch, headers: %v",
				security.SanitizeHeaders(c.Request().Header))
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid webhook signature",
			})
		}
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid webhook payload",
		})
	}

	merchantTransactionID := payload.Data.MerchantTransactionID
	state := services.MapGatewayCode(payload.Code)

	if state == services.PaymentStatePending {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Payment still pending",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pc.settlePayment(ctx, merchantTransactionID, state, payload.Code); err != nil {
		if err == repositories.ErrPaymentNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Payment not found",
			})
		}
		log.Printf("Failed to settle payment %s from webhook: %v", merchantTransactionID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process payment",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Webhook processed",
	})
}

// CheckPaymentStatus is the client-side verification step after returning
// from the gateway. Already-terminal payments are returned as-is without a
// second transition.
func (pc *PaymentController) CheckPaymentStatus(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	merchantTransactionID := c.Param("merchantTransactionId")
	if merchantTransactionID == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing merchant transaction ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	payment, err := pc.payments.FindByMerchantTransactionID(ctx, merchantTransactionID)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No payment to verify",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding payment",
		})
	}

	if payment.UserID.Hex() != claims.UserID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Payment belongs to another user",
		})
	}

	if payment.Status != models.PaymentStatusPending {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Payment already settled",
			Data:    payment,
		})
	}

	gateway, err := pc.newGateway()
	if err != nil {
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Payment gateway is not configured",
		})
	}

	state, code, err := gateway.CheckStatus(ctx, merchantTransactionID)
	if err != nil {
		log.Printf("Failed to check payment status for %s: %v", merchantTransactionID, err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to verify payment with gateway",
		})
	}

	if state == services.PaymentStatePending {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Payment still pending",
			Data:    payment,
		})
	}

	if err := pc.settlePayment(ctx, merchantTransactionID, state, code); err != nil {
		log.Printf("Failed to settle payment %s from status poll: %v", merchantTransactionID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process payment",
		})
	}

	settled, err := pc.payments.FindByMerchantTransactionID(ctx, merchantTransactionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding payment",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment verified",
		Data:    settled,
	})
}

// settlePayment applies a terminal gateway state to the payment and its
// booking. MarkTerminal is conditional on the payment still being pending,
// so redundant webhook/poll invocations settle at most once.
func (pc *PaymentController) settlePayment(ctx context.Context, merchantTransactionID, state, code string) error {
	paymentStatus := models.PaymentStatusFailed
	bookingStatus := models.BookingStatusPaymentFailed
	if state == services.PaymentStateSuccess {
		paymentStatus = models.PaymentStatusSuccess
		bookingStatus = models.BookingStatusConfirmed
	}

	payment, transitioned, err := pc.payments.MarkTerminal(ctx, merchantTransactionID, paymentStatus, code)
	if err != nil {
		return err
	}
	if !transitioned {
		// Already settled by the racing webhook/poll, nothing more to do
		return nil
	}

	bookingsCollection := config.GetCollection(pc.db, "bookings")
	result, err := bookingsCollection.UpdateOne(ctx,
		bson.M{"_id": payment.BookingID, "status": models.BookingStatusPaymentPending},
		bson.M{"$set": bson.M{"status": bookingStatus, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		log.Printf("Booking %s was not in payment_pending when payment %s settled", payment.BookingID.Hex(), merchantTransactionID)
	}

	if err := pc.hub.NotifyPaymentUpdate(payment.UserID, payment); err != nil {
		log.Printf("Failed to send payment notification: %v", err)
	}

	if paymentStatus == models.PaymentStatusSuccess {
		go pc.sendConfirmationEmail(payment)
	}

	return nil
}

// sendConfirmationEmail looks up the booking context and emails the guest
func (pc *PaymentController) sendConfirmationEmail(payment *models.Payment) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var user models.User
	if err := config.GetCollection(pc.db, "users").FindOne(ctx, bson.M{"_id": payment.UserID}).Decode(&user); err != nil {
		log.Printf("Failed to load user for confirmation email: %v", err)
		return
	}

	var booking models.Booking
	if err := config.GetCollection(pc.db, "bookings").FindOne(ctx, bson.M{"_id": payment.BookingID}).Decode(&booking); err != nil {
		log.Printf("Failed to load booking for confirmation email: %v", err)
		return
	}

	var property models.Property
	if err := config.GetCollection(pc.db, "properties").FindOne(ctx, bson.M{"_id": booking.PropertyID}).Decode(&property); err != nil {
		log.Printf("Failed to load property for confirmation email: %v", err)
		return
	}

	if err := utils.SendBookingConfirmationEmail(user.Email, user.FullName, property.Name,
		payment.MerchantTransactionID, booking.CheckIn, booking.CheckOut, booking.Amount); err != nil {
		log.Printf("Failed to send booking confirmation email: %v", err)
	}
}
