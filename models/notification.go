package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotifDonationRequest   = "donation_request"
	NotifDonationAccepted  = "donation_accepted"
	NotifDonationRejected  = "donation_rejected"
	NotifDonationCompleted = "donation_completed"
	NotifDisasterAlert     = "disaster_alert"
)

// Notification is an advisory copy for display; the Donation status is
// the single source of truth.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	DonationID primitive.ObjectID `bson:"donation_id,omitempty" json:"donation_id,omitempty"`
	DisasterID primitive.ObjectID `bson:"disaster_id,omitempty" json:"disaster_id,omitempty"`
	Title      string             `bson:"title" json:"title"`
	Message    string             `bson:"message" json:"message"`
	Type       string             `bson:"type" json:"type"`
	Read       bool               `bson:"read" json:"read"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
