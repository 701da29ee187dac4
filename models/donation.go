package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationStatus string

const (
	StatusPending   DonationStatus = "pending"
	StatusAccepted  DonationStatus = "accepted"
	StatusRejected  DonationStatus = "rejected"
	StatusCompleted DonationStatus = "completed"
)

// FoodItem is a value type, always nested inside a Donation.
type FoodItem struct {
	Name     string  `bson:"name" json:"name"`
	Quantity float64 `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit" json:"unit"` // kg, g, liter, items
}

type Donation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RestaurantID   primitive.ObjectID `bson:"restaurant_id" json:"restaurant_id"`
	RestaurantName string             `bson:"restaurant_name" json:"restaurant_name"`
	NGOID          primitive.ObjectID `bson:"ngo_id" json:"ngo_id"`
	NGOName        string             `bson:"ngo_name" json:"ngo_name"`
	FoodItems      []FoodItem         `bson:"food_items" json:"food_items"`
	TotalValue     float64            `bson:"total_value" json:"total_value"`
	TotalKg        float64            `bson:"total_kg" json:"total_kg"`
	Status         DonationStatus     `bson:"status" json:"status"`
	// Set once on accept, immutable afterwards.
	VerificationCode string     `bson:"verification_code,omitempty" json:"-"`
	VerifyAttempts   int        `bson:"verify_attempts" json:"-"`
	PickupAddress    string     `bson:"pickup_address,omitempty" json:"pickup_address,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
	CompletedAt      *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`

	// Enriched field, only populated for the recipient side.
	CodeForRecipient string `bson:"-" json:"verification_code,omitempty"`
}

// Terminal reports whether no further status transition is possible.
func (s DonationStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}
