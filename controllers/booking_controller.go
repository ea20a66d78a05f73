package controllers

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TusharRokade31/dharamshala_backend/config"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
	"github.com/TusharRokade31/dharamshala_backend/models"
	"github.com/TusharRokade31/dharamshala_backend/websocket"
)

// BookingController handles booking creation and lifecycle
type BookingController struct {
	db  *mongo.Client
	hub *websocket.Hub
}

// NewBookingController creates a new booking controller
func NewBookingController(db *mongo.Client, hub *websocket.Hub) *BookingController {
	return &BookingController{db: db, hub: hub}
}

// roomConflictFilter matches bookings that block a room for the given date
// range. Confirmed and in-payment bookings block; drafts do not. Pass
// primitive.NilObjectID to exclude nothing.
func roomConflictFilter(roomID primitive.ObjectID, checkIn, checkOut time.Time, exclude primitive.ObjectID) bson.M {
	filter := bson.M{
		"roomId":   roomID,
		"status":   bson.M{"$in": []string{models.BookingStatusConfirmed, models.BookingStatusPaymentPending}},
		"checkIn":  bson.M{"$lt": checkOut},
		"checkOut": bson.M{"$gt": checkIn},
	}
	if exclude != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	return filter
}

// CreateBooking creates a draft booking after validating the room and dates.
// The amount is computed server-side from the room's nightly price.
func (bc *BookingController) CreateBooking(c echo.Context) error {
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

	var request models.BookingRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	propertyID, err := primitive.ObjectIDFromHex(request.PropertyID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid property ID",
		})
	}
	roomID, err := primitive.ObjectIDFromHex(request.RoomID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid room ID",
		})
	}

	checkIn := request.CheckIn.Truncate(24 * time.Hour)
	checkOut := request.CheckOut.Truncate(24 * time.Hour)
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Check-out must be after check-in",
		})
	}
	if checkIn.Before(time.Now().Truncate(24 * time.Hour)) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Check-in date is in the past",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var property models.Property
	err = config.GetCollection(bc.db, "properties").FindOne(ctx, bson.M{
		"_id":        propertyID,
		"isApproved": true,
		"isDeleted":  false,
	}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Property not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding property",
		})
	}

	var room *models.Room
	for i := range property.Rooms {
		if property.Rooms[i].ID == roomID && property.Rooms[i].IsActive {
			room = &property.Rooms[i]
			break
		}
	}
	if room == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Room not found",
		})
	}
	if request.Guests > room.Capacity {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Room capacity is %d guests", room.Capacity),
		})
	}

	bookingsCollection := config.GetCollection(bc.db, "bookings")

	// A room is unavailable when a confirmed or in-payment booking
	// overlaps the requested range
	conflictCount, err := bookingsCollection.CountDocuments(ctx,
		roomConflictFilter(roomID, checkIn, checkOut, primitive.NilObjectID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking availability",
		})
	}
	if conflictCount > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Room is not available for the selected dates",
		})
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	now := time.Now()
	booking := models.Booking{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		PropertyID: propertyID,
		RoomID:     roomID,
		Guests:     request.Guests,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Amount:     float64(nights) * room.PricePerNight,
		Status:     models.BookingStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := bookingsCollection.InsertOne(ctx, booking); err != nil {
		log.Printf("Failed to create booking: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create booking",
		})
	}

	if err := bc.hub.NotifyBookingRequest(property.OwnerID, booking); err != nil {
		log.Printf("Failed to send booking notification: %v", err)
	}

	return c.JSON(http.StatusCreated, models.BookingResponse{
		Status:  http.StatusCreated,
		Message: "Booking created successfully",
		Data:    &booking,
	})
}

// GetUserBookings returns the authenticated user's bookings, newest first
func (bc *BookingController) GetUserBookings(c echo.Context) error {
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

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := config.GetCollection(bc.db, "bookings").Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching bookings",
		})
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error decoding bookings",
		})
	}

	return c.JSON(http.StatusOK, models.BookingsResponse{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// GetOwnerBookings returns bookings for all properties owned by the
// authenticated owner
func (bc *BookingController) GetOwnerBookings(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	propCursor, err := config.GetCollection(bc.db, "properties").Find(ctx,
		bson.M{"ownerId": ownerID, "isDeleted": false},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching properties",
		})
	}
	defer propCursor.Close(ctx)

	var props []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := propCursor.All(ctx, &props); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error decoding properties",
		})
	}

	propertyIDs := make([]primitive.ObjectID, 0, len(props))
	for _, p := range props {
		propertyIDs = append(propertyIDs, p.ID)
	}

	bookings := []models.Booking{}
	if len(propertyIDs) > 0 {
		opts := options.Find().SetSort(bson.M{"createdAt": -1})
		cursor, err := config.GetCollection(bc.db, "bookings").Find(ctx,
			bson.M{"propertyId": bson.M{"$in": propertyIDs}}, opts)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Error fetching bookings",
			})
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &bookings); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Error decoding bookings",
			})
		}
	}

	return c.JSON(http.StatusOK, models.BookingsResponse{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// GetBooking returns a single booking owned by the authenticated user
func (bc *BookingController) GetBooking(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	booking, status, msg := bc.loadUserBooking(c, claims.UserID)
	if booking == nil {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	return c.JSON(http.StatusOK, models.BookingResponse{
		Status:  http.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    booking,
	})
}

// CancelBooking cancels a booking that has not completed yet
func (bc *BookingController) CancelBooking(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	booking, status, msg := bc.loadUserBooking(c, claims.UserID)
	if booking == nil {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	if !models.CanTransitionBooking(booking.Status, models.BookingStatusCancelled) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: fmt.Sprintf("Booking in status %q cannot be cancelled", booking.Status),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// The status filter guards against a payment settling between the
	// read above and this write
	result, err := config.GetCollection(bc.db, "bookings").UpdateOne(ctx,
		bson.M{"_id": booking.ID, "status": booking.Status},
		bson.M{"$set": bson.M{"status": models.BookingStatusCancelled, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to cancel booking",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Booking status changed, please refresh and retry",
		})
	}

	booking.Status = models.BookingStatusCancelled
	if err := bc.hub.NotifyBookingUpdate(booking.UserID, booking); err != nil {
		log.Printf("Failed to send booking notification: %v", err)
	}

	return c.JSON(http.StatusOK, models.BookingResponse{
		Status:  http.StatusOK,
		Message: "Booking cancelled successfully",
		Data:    booking,
	})
}

// GetBookingQRCode renders a check-in QR code for a confirmed booking
func (bc *BookingController) GetBookingQRCode(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	booking, status, msg := bc.loadUserBooking(c, claims.UserID)
	if booking == nil {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	if booking.Status != models.BookingStatusConfirmed {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "QR code is only available for confirmed bookings",
		})
	}

	content := fmt.Sprintf("booking:%s:checkin:%s", booking.ID.Hex(), booking.CheckIn.Format("2006-01-02"))
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}
	code, err = barcode.Scale(code, 256, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to scale QR code",
		})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode QR code",
		})
	}

	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// GetBookingRetryContext returns what the client needs to rebuild the
// booking flow after a failed payment
func (bc *BookingController) GetBookingRetryContext(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	booking, status, msg := bc.loadUserBooking(c, claims.UserID)
	if booking == nil {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	if !models.CanTransitionBooking(booking.Status, models.BookingStatusPaymentPending) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: fmt.Sprintf("Booking in status %q cannot be retried", booking.Status),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var property models.Property
	err := config.GetCollection(bc.db, "properties").FindOne(ctx, bson.M{
		"_id":        booking.PropertyID,
		"isApproved": true,
		"isDeleted":  false,
	}).Decode(&property)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Property is no longer available",
		})
	}

	var roomName string
	for _, room := range property.Rooms {
		if room.ID == booking.RoomID {
			roomName = room.Name
			break
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Retry context retrieved successfully",
		Data: map[string]interface{}{
			"bookingId":    booking.ID.Hex(),
			"propertyId":   property.ID.Hex(),
			"propertySlug": property.Slug,
			"propertyName": property.Name,
			"roomId":       booking.RoomID.Hex(),
			"roomName":     roomName,
			"checkIn":      booking.CheckIn.Format("2006-01-02"),
			"checkOut":     booking.CheckOut.Format("2006-01-02"),
			"guests":       booking.Guests,
		},
	})
}

// loadUserBooking fetches the booking from the :id param and checks the
// caller owns it. Returns nil with an HTTP status and message on failure.
func (bc *BookingController) loadUserBooking(c echo.Context, userIDHex string) (*models.Booking, int, string) {
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, http.StatusBadRequest, "Invalid user ID"
	}
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, http.StatusBadRequest, "Invalid booking ID"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var booking models.Booking
	err = config.GetCollection(bc.db, "bookings").FindOne(ctx, bson.M{"_id": bookingID, "userId": userID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, http.StatusNotFound, "Booking not found"
		}
		return nil, http.StatusInternalServerError, "Error finding booking"
	}
	return &booking, 0, ""
}
