package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DisasterStatusActive = "active"

	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Disaster is an NGO-filed report used to rally restaurants for
// donations. Every restaurant gets a disaster_alert notification when
// one is created.
type Disaster struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NGOID           primitive.ObjectID `bson:"ngo_id" json:"ngo_id"`
	NGOName         string             `bson:"ngo_name" json:"ngo_name"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Location        string             `bson:"location" json:"location"`
	EstimatedPeople int                `bson:"estimated_people" json:"estimated_people"`
	Urgency         string             `bson:"urgency" json:"urgency"` // high, medium, low
	ContactNumber   string             `bson:"contact_number,omitempty" json:"contact_number,omitempty"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
