package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TusharRokade31/dharamshala_backend/config"
	"github.com/TusharRokade31/dharamshala_backend/models"
)

// AdminController handles moderation and platform statistics
type AdminController struct {
	db *mongo.Client
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client) *AdminController {
	return &AdminController{db: db}
}

// GetPendingProperties lists properties awaiting approval
func (ac *AdminController) GetPendingProperties(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(ac.db, "properties").Find(ctx,
		bson.M{"isApproved": false, "isDeleted": false},
		options.Find().SetSort(bson.M{"createdAt": 1}))
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
		Message: "Pending properties retrieved successfully",
		Data:    properties,
	})
}

// ApproveProperty marks a property as approved for public listing
func (ac *AdminController) ApproveProperty(c echo.Context) error {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid property ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(ac.db, "properties").UpdateOne(ctx,
		bson.M{"_id": propertyID, "isDeleted": false},
		bson.M{"$set": bson.M{"isApproved": true, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to approve property",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Property not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Property approved successfully",
	})
}

// RejectProperty soft-deletes a pending property
func (ac *AdminController) RejectProperty(c echo.Context) error {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid property ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(ac.db, "properties").UpdateOne(ctx,
		bson.M{"_id": propertyID, "isApproved": false, "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reject property",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Pending property not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Property rejected",
	})
}

// GetAllUsers lists registered accounts
func (ac *AdminController) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetProjection(bson.M{"password": 0})
	cursor, err := config.GetCollection(ac.db, "users").Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching users",
		})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error decoding users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// GetDashboardStats returns platform-wide counters
func (ac *AdminController) GetDashboardStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats := map[string]int64{}

	counts := []struct {
		key        string
		collection string
		filter     bson.M
	}{
		{"totalUsers", "users", bson.M{}},
		{"totalProperties", "properties", bson.M{"isDeleted": false}},
		{"pendingProperties", "properties", bson.M{"isApproved": false, "isDeleted": false}},
		{"totalBookings", "bookings", bson.M{}},
		{"confirmedBookings", "bookings", bson.M{"status": models.BookingStatusConfirmed}},
		{"successfulPayments", "payments", bson.M{"status": models.PaymentStatusSuccess}},
	}
	for _, counter := range counts {
		n, err := config.GetCollection(ac.db, counter.collection).CountDocuments(ctx, counter.filter)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Error computing statistics",
			})
		}
		stats[counter.key] = n
	}

	// Revenue is the sum of successful payment amounts in paise
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": models.PaymentStatusSuccess}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cursor, err := config.GetCollection(ac.db, "payments").Aggregate(ctx, pipeline)
	if err == nil {
		var result []struct {
			Total int64 `bson:"total"`
		}
		if err := cursor.All(ctx, &result); err == nil && len(result) > 0 {
			stats["totalRevenue"] = result[0].Total
		} else {
			stats["totalRevenue"] = 0
		}
		cursor.Close(ctx)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Statistics retrieved successfully",
		Data:    stats,
	})
}
