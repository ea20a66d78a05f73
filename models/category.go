package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Slug           string             `json:"slug" bson:"slug"`
	CurrentVersion int                `json:"currentVersion" bson:"currentVersion"`
	IsDeleted      bool               `json:"isDeleted" bson:"isDeleted"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CategoryVersion is an immutable snapshot of a category at a given
// version. (categoryId, version) is unique.
type CategoryVersion struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CategoryID primitive.ObjectID `json:"categoryId" bson:"categoryId"`
	Version    int                `json:"version" bson:"version"`
	Name       string             `json:"name" bson:"name"`
	Slug       string             `json:"slug" bson:"slug"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}
