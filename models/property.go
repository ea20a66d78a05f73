package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room is embedded in a property document
type Room struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Capacity      int                `json:"capacity" bson:"capacity"`
	PricePerNight float64            `json:"pricePerNight" bson:"pricePerNight"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
}

// Property model
type Property struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID       primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Name          string             `json:"name" bson:"name"`
	Slug          string             `json:"slug" bson:"slug"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	StateID       primitive.ObjectID `json:"stateId" bson:"stateId"`
	Address       string             `json:"address" bson:"address"`
	Photos        []string           `json:"photos,omitempty" bson:"photos,omitempty"`
	ThumbnailURLs []string           `json:"thumbnailUrls,omitempty" bson:"thumbnailUrls,omitempty"`
	Rooms         []Room             `json:"rooms" bson:"rooms"`
	IsApproved    bool               `json:"isApproved" bson:"isApproved"`
	IsDeleted     bool               `json:"isDeleted" bson:"isDeleted"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PropertyRequest model for create/update
type PropertyRequest struct {
	Name        string        `json:"name" validate:"required,min=3"`
	Description string        `json:"description,omitempty"`
	StateID     string        `json:"stateId" validate:"required"`
	Address     string        `json:"address" validate:"required"`
	Rooms       []RoomRequest `json:"rooms" validate:"required,min=1,dive"`
}

type RoomRequest struct {
	Name          string  `json:"name" validate:"required"`
	Capacity      int     `json:"capacity" validate:"required,min=1"`
	PricePerNight float64 `json:"pricePerNight" validate:"required,gt=0"`
}

// PropertySearchQuery captures the public search parameters
type PropertySearchQuery struct {
	State    string `query:"state"`
	CheckIn  string `query:"checkIn"`
	CheckOut string `query:"checkOut"`
	Guests   int    `query:"guests"`
}
