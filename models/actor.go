package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleRestaurant = "restaurant"
	RoleNGO        = "ngo"
	RoleAdmin      = "admin"
)

// Coordinates struct for latitude and longitude
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Actor struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Role         string             `bson:"role" json:"role"` // restaurant, ngo, admin
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Coordinates  Coordinates        `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	PhotoURL     string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
