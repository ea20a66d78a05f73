package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"password,omitempty" bson:"password"`
	FullName       string             `json:"fullName" bson:"fullName"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	UserType       string             `json:"userType" bson:"userType"` // "user", "owner", "admin"
	GoogleID       string             `json:"googleId,omitempty" bson:"googleId,omitempty"`
	ProfilePic     string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	LastActivityAt time.Time          `json:"lastActivityAt,omitempty" bson:"lastActivityAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Response is the uniform API envelope
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// UserUpdateRequest model for profile updates
type UserUpdateRequest struct {
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
