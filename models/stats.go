package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActorStats holds monotonically non-decreasing per-actor counters.
// Keyed by the actor's id; updated exactly once per donation, on accept.
type ActorStats struct {
	ActorID        primitive.ObjectID `bson:"_id" json:"actor_id"`
	ActorName      string             `bson:"actor_name,omitempty" json:"actor_name,omitempty"`
	Role           string             `bson:"role,omitempty" json:"role,omitempty"`
	TotalDonations int64              `bson:"total_donations" json:"total_donations"`
	TotalKg        float64            `bson:"total_kg" json:"total_kg"`
	TotalValue     float64            `bson:"total_value" json:"total_value"`
	TotalPoints    int64              `bson:"total_points" json:"total_points"`
	LastUpdated    time.Time          `bson:"last_updated" json:"last_updated"`
}

// StatsDelta is one additive update to an actor's counters. All fields
// must be non-negative; the aggregator never subtracts.
type StatsDelta struct {
	Donations int64
	Kg        float64
	Value     float64
	Points    int64
}
