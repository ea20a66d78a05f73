package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog model
type Blog struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Slug       string             `json:"slug" bson:"slug"`
	Content    string             `json:"content" bson:"content"`
	CategoryID primitive.ObjectID `json:"categoryId" bson:"categoryId"`
	AuthorID   primitive.ObjectID `json:"authorId" bson:"authorId"`
	CoverImage string             `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Published  bool               `json:"published" bson:"published"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type BlogRequest struct {
	Title      string `json:"title" validate:"required,min=3"`
	Content    string `json:"content" validate:"required"`
	CategoryID string `json:"categoryId" validate:"required"`
	CoverImage string `json:"coverImage,omitempty"`
	Published  bool   `json:"published"`
}
