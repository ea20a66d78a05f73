package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// State is a location directory entry used for property search
type State struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Slug      string             `json:"slug" bson:"slug"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type StateRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}
