package donation

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodbridge/donation-tracker-go/models"
)

// ListFilter narrows a donation listing. Zero fields are ignored.
type ListFilter struct {
	RestaurantID primitive.ObjectID
	NGOID        primitive.ObjectID
	Status       models.DonationStatus
}

// TransitionUpdate is the donation-side half of an atomic transition.
type TransitionUpdate struct {
	Status           models.DonationStatus
	VerificationCode string
	CompletedAt      *time.Time
}

// StatsCredit is one actor's additive counter update, applied in the
// same atomic unit as the status flip that earned it.
type StatsCredit struct {
	ActorID   primitive.ObjectID
	ActorName string
	Role      string
	Delta     models.StatsDelta
}

// Store is the persistence collaborator: a document store with
// multi-record transactions. Implementations must make Transition a
// compare-and-swap on the expected prior status, applied atomically
// with the stats credits — a status flip without its credits (or the
// reverse) is a correctness violation.
type Store interface {
	InsertActor(ctx context.Context, a *models.Actor) error
	GetActor(ctx context.Context, id primitive.ObjectID) (*models.Actor, error)
	GetActorByEmail(ctx context.Context, email string) (*models.Actor, error)
	ListActorsByRole(ctx context.Context, role string) ([]models.Actor, error)
	SetActorPhoto(ctx context.Context, id primitive.ObjectID, url string) error
	DeleteActor(ctx context.Context, id primitive.ObjectID) error

	InsertDonation(ctx context.Context, d *models.Donation) error
	GetDonation(ctx context.Context, id primitive.ObjectID) (*models.Donation, error)
	ListDonations(ctx context.Context, filter ListFilter) ([]models.Donation, error)

	// Transition applies update iff the donation is still in from, and
	// the credits with it. Returns the updated donation, ErrNotFound,
	// or *ConcurrencyConflictError when the swap loses the race.
	Transition(ctx context.Context, id primitive.ObjectID, from models.DonationStatus,
		update TransitionUpdate, credits []StatsCredit) (*models.Donation, error)

	// IncVerifyAttempts bumps the failed-verify counter and returns the
	// new total.
	IncVerifyAttempts(ctx context.Context, id primitive.ObjectID) (int, error)

	GetStats(ctx context.Context, actorID primitive.ObjectID) (*models.ActorStats, error)
	TopStats(ctx context.Context, role string, limit int) ([]models.ActorStats, error)

	InsertDisaster(ctx context.Context, d *models.Disaster) error
	ListDisasters(ctx context.Context, status string) ([]models.Disaster, error)

	InsertNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID primitive.ObjectID) error
}
