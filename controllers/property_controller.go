package controllers

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TusharRokade31/dharamshala_backend/config"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
	"github.com/TusharRokade31/dharamshala_backend/models"
	"github.com/TusharRokade31/dharamshala_backend/utils"
)

// PropertyController handles owner property management and public search
type PropertyController struct {
	db *mongo.Client
}

// NewPropertyController creates a new property controller
func NewPropertyController(db *mongo.Client) *PropertyController {
	return &PropertyController{db: db}
}

// CreateProperty registers a new property for the authenticated owner.
// New properties await admin approval before appearing in search.
func (pc *PropertyController) CreateProperty(c echo.Context) error {
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

	var request models.PropertyRequest
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

	stateID, err := primitive.ObjectIDFromHex(request.StateID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid state ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	count, err := config.GetCollection(pc.db, "states").CountDocuments(ctx, bson.M{"_id": stateID})
	if err != nil || count == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown state",
		})
	}

	rooms := make([]models.Room, 0, len(request.Rooms))
	for _, r := range request.Rooms {
		rooms = append(rooms, models.Room{
			ID:            primitive.NewObjectID(),
			Name:          utils.SanitizeInput(r.Name),
			Capacity:      r.Capacity,
			PricePerNight: r.PricePerNight,
			IsActive:      true,
		})
	}

	now := time.Now()
	property := models.Property{
		ID:          primitive.NewObjectID(),
		OwnerID:     ownerID,
		Name:        utils.SanitizeInput(request.Name),
		Slug:        utils.Slugify(request.Name),
		Description: utils.SanitizeInput(request.Description),
		StateID:     stateID,
		Address:     utils.SanitizeInput(request.Address),
		Rooms:       rooms,
		IsApproved:  false,
		IsDeleted:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := config.GetCollection(pc.db, "properties").InsertOne(ctx, property); err != nil {
		log.Printf("Failed to create property: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create property",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Property submitted for approval",
		Data:    property,
	})
}

// UpdateProperty modifies an owner's property and resets approval
func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	property, status, msg := pc.loadOwnedProperty(c, claims.UserID)
	if property == nil {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	var request models.PropertyRequest
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

	stateID, err := primitive.ObjectIDFromHex(request.StateID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid state ID",
		})
	}

	// Room IDs are preserved by name match so existing bookings keep
	// pointing at the same room
	existingByName := make(map[string]primitive.ObjectID, len(property.Rooms))
	for _, r := range property.Rooms {
		existingByName[r.Name] = r.ID
	}
	rooms := make([]models.Room, 0, len(request.Rooms))
	for _, r := range request.Rooms {
		name := utils.SanitizeInput(r.Name)
		id, ok := existingByName[name]
		if !ok {
			id = primitive.NewObjectID()
		}
		rooms = append(rooms, models.Room{
			ID:            id,
			Name:          name,
			Capacity:      r.Capacity,
			PricePerNight: r.PricePerNight,
			IsActive:      true,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	update := bson.M{
		"name":        utils.SanitizeInput(request.Name),
		"slug":        utils.Slugify(request.Name),
		"description": utils.SanitizeInput(request.Description),
		"stateId":     stateID,
		"address":     utils.SanitizeInput(request.Address),
		"rooms":       rooms,
		"isApproved":  false,
		"updatedAt":   time.Now(),
	}
	_, err = config.GetCollection(pc.db, "properties").UpdateOne(ctx,
		bson.M{"_id": property.ID}, bson.M{"$set": update})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update property",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Property updated and resubmitted for approval",
	})
}

// DeleteProperty soft-deletes an owner's property
func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	property, status, msg := pc.loadOwnedProperty(c, claims.UserID)
	if property == nil {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	activeBookings, err := config.GetCollection(pc.db, "bookings").CountDocuments(ctx, bson.M{
		"propertyId": property.ID,
		"status":     bson.M{"$in": []string{models.BookingStatusConfirmed, models.BookingStatusPaymentPending}},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking bookings",
		})
	}
	if activeBookings > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Property has active bookings and cannot be deleted",
		})
	}

	_, err = config.GetCollection(pc.db, "properties").UpdateOne(ctx,
		bson.M{"_id": property.ID},
		bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete property",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Property deleted successfully",
	})
}

// GetOwnerProperties lists the authenticated owner's properties
func (pc *PropertyController) GetOwnerProperties(c echo.Context) error {
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

	cursor, err := config.GetCollection(pc.db, "properties").Find(ctx,
		bson.M{"ownerId": ownerID, "isDeleted": false},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching properties",
		})
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error decoding properties",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Properties retrieved successfully",
		Data:    properties,
	})
}

// GetProperty returns a single approved property by ID
func (pc *PropertyController) GetProperty(c echo.Context) error {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid property ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var property models.Property
	err = config.GetCollection(pc.db, "properties").FindOne(ctx, bson.M{
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
			Message: "Error fetching property",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Property retrieved successfully",
		Data:    property,
	})
}

// SearchProperties lists approved properties, optionally filtered by state
// slug, guest count and date availability
func (pc *PropertyController) SearchProperties(c echo.Context) error {
	var query models.PropertySearchQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid query",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"isApproved": true, "isDeleted": false}

	if query.State != "" {
		var state models.State
		err := config.GetCollection(pc.db, "states").FindOne(ctx, bson.M{"slug": query.State}).Decode(&state)
		if err != nil {
			// Unknown state matches nothing
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "Properties retrieved successfully",
				Data:    []models.Property{},
			})
		}
		filter["stateId"] = state.ID
	}
	if query.Guests > 0 {
		filter["rooms"] = bson.M{"$elemMatch": bson.M{"capacity": bson.M{"$gte": query.Guests}, "isActive": true}}
	}

	cursor, err := config.GetCollection(pc.db, "properties").Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error searching properties",
		})
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error decoding properties",
		})
	}

	// Date filtering drops properties whose every room is booked for the
	// requested range
	if query.CheckIn != "" && query.CheckOut != "" {
		checkIn, errIn := time.Parse("2006-01-02", query.CheckIn)
		checkOut, errOut := time.Parse("2006-01-02", query.CheckOut)
		if errIn != nil || errOut != nil || !checkOut.After(checkIn) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid date range",
			})
		}
		properties, err = pc.filterByAvailability(ctx, properties, checkIn, checkOut)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Error checking availability",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Properties retrieved successfully",
		Data:    properties,
	})
}

// UploadPropertyPhotos stores photos and generates thumbnails for a property
func (pc *PropertyController) UploadPropertyPhotos(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	property, status, msg := pc.loadOwnedProperty(c, claims.UserID)
	if property == nil {
		return c.JSON(status, models.Response{Status: status, Message: msg})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Multipart form is required",
		})
	}
	files := form.File["photos"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "At least one photo is required",
		})
	}

	var photoURLs, thumbURLs []string
	for _, file := range files {
		if err := utils.ValidateFileType(file.Filename, "image"); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to read file",
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to read file",
			})
		}

		url, err := utils.UploadFileToPath(data, file.Filename, "image", "properties")
		if err != nil {
			log.Printf("Failed to store photo: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to store file",
			})
		}
		photoURLs = append(photoURLs, url)

		thumbURL, err := utils.GenerateImageThumbnail(data, file.Filename)
		if err != nil {
			log.Printf("Failed to generate thumbnail for %s: %v", file.Filename, err)
		} else {
			thumbURLs = append(thumbURLs, thumbURL)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	_, err = config.GetCollection(pc.db, "properties").UpdateOne(ctx,
		bson.M{"_id": property.ID},
		bson.M{
			"$push": bson.M{
				"photos":        bson.M{"$each": photoURLs},
				"thumbnailUrls": bson.M{"$each": thumbURLs},
			},
			"$set": bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update property",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Photos uploaded successfully",
		Data: map[string][]string{
			"photos":        photoURLs,
			"thumbnailUrls": thumbURLs,
		},
	})
}

func (pc *PropertyController) filterByAvailability(ctx context.Context, properties []models.Property, checkIn, checkOut time.Time) ([]models.Property, error) {
	available := make([]models.Property, 0, len(properties))
	bookingsCollection := config.GetCollection(pc.db, "bookings")
	for _, p := range properties {
		cursor, err := bookingsCollection.Find(ctx, bson.M{
			"propertyId": p.ID,
			"status":     bson.M{"$in": []string{models.BookingStatusConfirmed, models.BookingStatusPaymentPending}},
			"checkIn":    bson.M{"$lt": checkOut},
			"checkOut":   bson.M{"$gt": checkIn},
		})
		if err != nil {
			return nil, err
		}
		var overlapping []models.Booking
		err = cursor.All(ctx, &overlapping)
		cursor.Close(ctx)
		if err != nil {
			return nil, err
		}

		booked := make(map[primitive.ObjectID]bool, len(overlapping))
		for _, b := range overlapping {
			booked[b.RoomID] = true
		}
		for _, room := range p.Rooms {
			if room.IsActive && !booked[room.ID] {
				available = append(available, p)
				break
			}
		}
	}
	return available, nil
}

// loadOwnedProperty fetches the property from the :id param and checks the
// caller owns it
func (pc *PropertyController) loadOwnedProperty(c echo.Context, ownerIDHex string) (*models.Property, int, string) {
	ownerID, err := primitive.ObjectIDFromHex(ownerIDHex)
	if err != nil {
		return nil, http.StatusBadRequest, "Invalid user ID"
	}
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, http.StatusBadRequest, "Invalid property ID"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var property models.Property
	err = config.GetCollection(pc.db, "properties").FindOne(ctx, bson.M{
		"_id":       propertyID,
		"ownerId":   ownerID,
		"isDeleted": false,
	}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, http.StatusNotFound, "Property not found"
		}
		return nil, http.StatusInternalServerError, "Error finding property"
	}
	return &property, 0, ""
}
