package donation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/foodbridge/donation-tracker-go/models"
)

const (
	defaultVerifyAttempts = 5
	defaultEventBuffer    = 64
	defaultLeaderboardLen = 10
)

// Config tunes service policy.
type Config struct {
	// MaxVerifyAttempts locks a donation's verification after this many
	// failed code entries. 0 disables the lockout.
	MaxVerifyAttempts int
	// EventBuffer sizes the domain event channel.
	EventBuffer int
}

// Service runs the donation lifecycle over a Store. It owns every
// status transition and is the only writer of ActorStats credits.
type Service struct {
	store   Store
	log     *zap.Logger
	cfg     Config
	events  chan Event
	newCode func() string
}

func NewService(store Store, log *zap.Logger, cfg Config) *Service {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	return &Service{
		store:   store,
		log:     log,
		cfg:     cfg,
		events:  make(chan Event, cfg.EventBuffer),
		newCode: NewVerificationCode,
	}
}

// DefaultConfig is the production policy: five verification attempts.
func DefaultConfig() Config {
	return Config{MaxVerifyAttempts: defaultVerifyAttempts}
}

type CreateInput struct {
	NGOID      string            `json:"ngo_id"`
	FoodItems  []models.FoodItem `json:"food_items"`
	TotalValue float64           `json:"total_value"`
}

// Create opens a donation in pending state on behalf of the donor.
func (s *Service) Create(ctx context.Context, donorID string, in CreateInput) (*models.Donation, error) {
	restaurantID, err := parseID("donor_id", donorID)
	if err != nil {
		return nil, err
	}
	ngoID, err := parseID("ngo_id", in.NGOID)
	if err != nil {
		return nil, err
	}

	donor, err := s.getActor(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if donor.Role != models.RoleRestaurant {
		return nil, &ValidationError{Field: "donor_id", Reason: "donor must be a restaurant"}
	}
	ngo, err := s.getActor(ctx, ngoID)
	if err != nil {
		return nil, err
	}
	if ngo.Role != models.RoleNGO {
		return nil, &ValidationError{Field: "ngo_id", Reason: "recipient must be an NGO"}
	}

	if len(in.FoodItems) == 0 {
		return nil, &ValidationError{Field: "food_items", Reason: "at least one item is required"}
	}
	for _, item := range in.FoodItems {
		if strings.TrimSpace(item.Name) == "" {
			return nil, &ValidationError{Field: "food_items", Reason: "item name is required"}
		}
		if item.Quantity <= 0 {
			return nil, &ValidationError{Field: "food_items", Reason: "item quantity must be greater than 0"}
		}
	}
	if in.TotalValue <= 0 {
		return nil, &ValidationError{Field: "total_value", Reason: "must be greater than 0"}
	}

	totalKg, err := TotalKg(in.FoodItems)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	d := &models.Donation{
		ID:             primitive.NewObjectID(),
		RestaurantID:   restaurantID,
		RestaurantName: donor.Name,
		NGOID:          ngoID,
		NGOName:        ngo.Name,
		FoodItems:      in.FoodItems,
		TotalValue:     in.TotalValue,
		TotalKg:        totalKg,
		Status:         models.StatusPending,
		PickupAddress:  donor.Address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.InsertDonation(ctx, d); err != nil {
		return nil, wrapStoreErr("create donation", err)
	}

	s.log.Info("donation created",
		zap.String("donation_id", d.ID.Hex()),
		zap.String("restaurant_id", restaurantID.Hex()),
		zap.String("ngo_id", ngoID.Hex()),
		zap.Float64("total_kg", totalKg))
	s.publish(EventDonationCreated, *d)
	return d, nil
}

// Accept moves a pending donation to accepted on behalf of the
// recipient. It mints the verification code and credits both parties'
// stats in the same atomic transition — the single point where stats
// are earned.
func (s *Service) Accept(ctx context.Context, donationID, actorID string) (*models.Donation, error) {
	d, err := s.load(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if err := CanTransition(d, actorID, ActionAccept); err != nil {
		return nil, err
	}

	points := PointsFor(d.TotalKg)
	delta := models.StatsDelta{Donations: 1, Kg: d.TotalKg, Value: d.TotalValue, Points: points}
	credits := []StatsCredit{
		{ActorID: d.RestaurantID, ActorName: d.RestaurantName, Role: models.RoleRestaurant, Delta: delta},
		{ActorID: d.NGOID, ActorName: d.NGOName, Role: models.RoleNGO, Delta: delta},
	}
	if err := validateCredits(credits); err != nil {
		return nil, err
	}

	update := TransitionUpdate{Status: models.StatusAccepted, VerificationCode: s.newCode()}
	updated, err := s.transition(ctx, d.ID, models.StatusPending, update, credits, actorID, ActionAccept)
	if err != nil {
		return nil, err
	}

	s.log.Info("donation accepted",
		zap.String("donation_id", updated.ID.Hex()),
		zap.String("ngo_id", actorID),
		zap.Int64("points_each", points))
	s.publish(EventDonationAccepted, *updated)
	return updated, nil
}

// Reject moves a pending donation to its terminal rejected state. No
// stats change.
func (s *Service) Reject(ctx context.Context, donationID, actorID string) (*models.Donation, error) {
	d, err := s.load(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if err := CanTransition(d, actorID, ActionReject); err != nil {
		return nil, err
	}

	update := TransitionUpdate{Status: models.StatusRejected}
	updated, err := s.transition(ctx, d.ID, models.StatusPending, update, nil, actorID, ActionReject)
	if err != nil {
		return nil, err
	}

	s.log.Info("donation rejected",
		zap.String("donation_id", updated.ID.Hex()),
		zap.String("ngo_id", actorID))
	s.publish(EventDonationRejected, *updated)
	return updated, nil
}

// Verify completes an accepted donation when the donor presents the
// code the recipient was shown at handoff. A mismatch leaves the
// donation accepted and consumes one attempt; exhausting the attempt
// budget locks verification for good. Completion never touches stats.
func (s *Service) Verify(ctx context.Context, donationID, actorID, code string) (*models.Donation, error) {
	d, err := s.load(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if err := CanTransition(d, actorID, ActionVerify); err != nil {
		return nil, err
	}

	max := s.cfg.MaxVerifyAttempts
	if max > 0 && d.VerifyAttempts >= max {
		return nil, &VerificationLockedError{
			DonationID: d.ID.Hex(), ActorID: actorID, Attempts: d.VerifyAttempts,
		}
	}
	if code != d.VerificationCode {
		attempts, err := s.store.IncVerifyAttempts(ctx, d.ID)
		if err != nil {
			return nil, wrapStoreErr("record failed verify attempt", err)
		}
		// The increment is the authority on the limit. Racing attempts
		// can all pass the read above, but only the first max of them
		// land under the boundary.
		if max > 0 && attempts > max {
			return nil, &VerificationLockedError{
				DonationID: d.ID.Hex(), ActorID: actorID, Attempts: attempts,
			}
		}
		left := -1
		if max > 0 {
			if left = max - attempts; left < 0 {
				left = 0
			}
		}
		s.log.Warn("verification code mismatch",
			zap.String("donation_id", d.ID.Hex()),
			zap.Int("attempts", attempts))
		return nil, &InvalidVerificationCodeError{
			DonationID: d.ID.Hex(), ActorID: actorID, AttemptsLeft: left,
		}
	}

	now := time.Now()
	update := TransitionUpdate{Status: models.StatusCompleted, CompletedAt: &now}
	updated, err := s.transition(ctx, d.ID, models.StatusAccepted, update, nil, actorID, ActionVerify)
	if err != nil {
		return nil, err
	}

	s.log.Info("donation completed",
		zap.String("donation_id", updated.ID.Hex()),
		zap.String("restaurant_id", actorID))
	s.publish(EventDonationCompleted, *updated)
	return updated, nil
}

// Get returns a donation by id. Access control is the caller's job.
func (s *Service) Get(ctx context.Context, donationID string) (*models.Donation, error) {
	return s.load(ctx, donationID)
}

// ListFor returns the donations an actor participates in, by role.
// Admins see everything.
func (s *Service) ListFor(ctx context.Context, actorID, role string, status models.DonationStatus) ([]models.Donation, error) {
	filter := ListFilter{Status: status}
	switch role {
	case models.RoleRestaurant:
		id, err := parseID("actor_id", actorID)
		if err != nil {
			return nil, err
		}
		filter.RestaurantID = id
	case models.RoleNGO:
		id, err := parseID("actor_id", actorID)
		if err != nil {
			return nil, err
		}
		filter.NGOID = id
	case models.RoleAdmin:
		// no actor filter
	default:
		return nil, &ValidationError{Field: "role", Reason: "unknown role"}
	}
	list, err := s.store.ListDonations(ctx, filter)
	if err != nil {
		return nil, wrapStoreErr("list donations", err)
	}
	return list, nil
}

// StatsFor returns an actor's running totals. Actors with no credited
// donations yet get zeroed counters, not an error.
func (s *Service) StatsFor(ctx context.Context, actorID string) (*models.ActorStats, error) {
	id, err := parseID("actor_id", actorID)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.GetStats(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return &models.ActorStats{ActorID: id}, nil
	}
	if err != nil {
		return nil, wrapStoreErr("get stats", err)
	}
	return stats, nil
}

// Leaderboard returns the top actors of a category by total points.
func (s *Service) Leaderboard(ctx context.Context, category string, limit int) ([]models.ActorStats, error) {
	if category != models.RoleRestaurant && category != models.RoleNGO {
		return nil, &ValidationError{Field: "category", Reason: "must be restaurant or ngo"}
	}
	if limit <= 0 {
		limit = defaultLeaderboardLen
	}
	entries, err := s.store.TopStats(ctx, category, limit)
	if err != nil {
		return nil, wrapStoreErr("list top actors", err)
	}
	return Rank(entries), nil
}

// transition runs the store CAS and translates a lost race: if the
// donation has since left the expected state the caller gets an
// InvalidStateTransitionError against its current status; if the
// re-read itself is inconclusive the ConcurrencyConflictError stands
// and one retry is safe.
func (s *Service) transition(ctx context.Context, id primitive.ObjectID, from models.DonationStatus,
	update TransitionUpdate, credits []StatsCredit, actorID string, action Action) (*models.Donation, error) {

	updated, err := s.store.Transition(ctx, id, from, update, credits)
	if err == nil {
		return updated, nil
	}

	var conflict *ConcurrencyConflictError
	if errors.As(err, &conflict) {
		current, rerr := s.store.GetDonation(ctx, id)
		if rerr == nil && current.Status != from {
			return nil, &InvalidStateTransitionError{
				DonationID: id.Hex(),
				ActorID:    actorID,
				Action:     action,
				PriorState: string(current.Status),
				Reason:     "donation already moved by a concurrent update",
			}
		}
		conflict.Action = action
		return nil, conflict
	}
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return nil, wrapStoreErr("transition donation", err)
}

func (s *Service) load(ctx context.Context, donationID string) (*models.Donation, error) {
	id, err := parseID("donation_id", donationID)
	if err != nil {
		return nil, err
	}
	d, err := s.store.GetDonation(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, wrapStoreErr("get donation", err)
	}
	return d, nil
}

func (s *Service) getActor(ctx context.Context, id primitive.ObjectID) (*models.Actor, error) {
	a, err := s.store.GetActor(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, wrapStoreErr("get actor", err)
	}
	return a, nil
}

func validateCredits(credits []StatsCredit) error {
	for _, c := range credits {
		d := c.Delta
		if d.Donations < 0 || d.Kg < 0 || d.Value < 0 || d.Points < 0 {
			return &ValidationError{Field: "stats_delta", Reason: "deltas must be non-negative"}
		}
	}
	return nil
}

func parseID(field, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, &ValidationError{Field: field, Reason: "invalid id"}
	}
	return id, nil
}

func wrapStoreErr(op string, err error) error {
	return &CollaboratorUnavailableError{Op: op, Err: err}
}
