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
	"github.com/TusharRokade31/dharamshala_backend/utils"
)

// StateController manages the location directory
type StateController struct {
	db *mongo.Client
}

// NewStateController creates a new state controller
func NewStateController(db *mongo.Client) *StateController {
	return &StateController{db: db}
}

// CreateState adds a state to the directory
func (sc *StateController) CreateState(c echo.Context) error {
	var request models.StateRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "State name is required",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	slug := utils.Slugify(request.Name)
	count, err := config.GetCollection(sc.db, "states").CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking state",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "State already exists",
		})
	}

	now := time.Now()
	state := models.State{
		ID:        primitive.NewObjectID(),
		Name:      utils.SanitizeInput(request.Name),
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := config.GetCollection(sc.db, "states").InsertOne(ctx, state); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create state",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "State created successfully",
		Data:    state,
	})
}

// GetStates lists all states alphabetically
func (sc *StateController) GetStates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(sc.db, "states").Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error fetching states",
		})
	}
	defer cursor.Close(ctx)

	states := []models.State{}
	if err := cursor.All(ctx, &states); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error decoding states",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "States retrieved successfully",
		Data:    states,
	})
}

// DeleteState removes a state that has no properties
func (sc *StateController) DeleteState(c echo.Context) error {
	stateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid state ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	inUse, err := config.GetCollection(sc.db, "properties").CountDocuments(ctx,
		bson.M{"stateId": stateID, "isDeleted": false})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking properties",
		})
	}
	if inUse > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "State is used by properties and cannot be deleted",
		})
	}

	result, err := config.GetCollection(sc.db, "states").DeleteOne(ctx, bson.M{"_id": stateID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete state",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "State not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "State deleted successfully",
	})
}
