package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodbridge/donation-tracker-go/donation"
	"github.com/foodbridge/donation-tracker-go/models"
)

// Memory is an in-process donation.Store. It backs tests and the
// STORE=memory dev mode. One mutex serializes every write, so the
// compare-and-swap and status+stats atomicity semantics match the
// Mongo implementation.
type Memory struct {
	mu            sync.Mutex
	actors        map[primitive.ObjectID]models.Actor
	donations     map[primitive.ObjectID]models.Donation
	stats         map[primitive.ObjectID]models.ActorStats
	statsOrder    []primitive.ObjectID
	notifications map[primitive.ObjectID]models.Notification
	notifOrder    []primitive.ObjectID
	disasters     map[primitive.ObjectID]models.Disaster
	disasterOrder []primitive.ObjectID
}

var _ donation.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		actors:        make(map[primitive.ObjectID]models.Actor),
		donations:     make(map[primitive.ObjectID]models.Donation),
		stats:         make(map[primitive.ObjectID]models.ActorStats),
		notifications: make(map[primitive.ObjectID]models.Notification),
		disasters:     make(map[primitive.ObjectID]models.Disaster),
	}
}

func (m *Memory) InsertActor(ctx context.Context, a *models.Actor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	m.actors[a.ID] = *a
	return nil
}

func (m *Memory) GetActor(ctx context.Context, id primitive.ObjectID) (*models.Actor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.actors[id]
	if !ok {
		return nil, donation.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) GetActorByEmail(ctx context.Context, email string) (*models.Actor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.actors {
		if strings.EqualFold(a.Email, email) {
			a := a
			return &a, nil
		}
	}
	return nil, donation.ErrNotFound
}

func (m *Memory) ListActorsByRole(ctx context.Context, role string) ([]models.Actor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Actor
	for _, a := range m.actors {
		if role == "" || a.Role == role {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) SetActorPhoto(ctx context.Context, id primitive.ObjectID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.actors[id]
	if !ok {
		return donation.ErrNotFound
	}
	a.PhotoURL = url
	a.UpdatedAt = time.Now()
	m.actors[id] = a
	return nil
}

func (m *Memory) DeleteActor(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.actors[id]; !ok {
		return donation.ErrNotFound
	}
	delete(m.actors, id)
	return nil
}

func (m *Memory) InsertDisaster(ctx context.Context, d *models.Disaster) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	m.disasters[d.ID] = *d
	m.disasterOrder = append(m.disasterOrder, d.ID)
	return nil
}

func (m *Memory) ListDisasters(ctx context.Context, status string) ([]models.Disaster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Disaster
	for i := len(m.disasterOrder) - 1; i >= 0; i-- {
		d := m.disasters[m.disasterOrder[i]]
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *Memory) InsertDonation(ctx context.Context, d *models.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	m.donations[d.ID] = *d
	return nil
}

func (m *Memory) GetDonation(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donations[id]
	if !ok {
		return nil, donation.ErrNotFound
	}
	return &d, nil
}

func (m *Memory) ListDonations(ctx context.Context, filter donation.ListFilter) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Donation
	for _, d := range m.donations {
		if !filter.RestaurantID.IsZero() && d.RestaurantID != filter.RestaurantID {
			continue
		}
		if !filter.NGOID.IsZero() && d.NGOID != filter.NGOID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) Transition(ctx context.Context, id primitive.ObjectID, from models.DonationStatus,
	update donation.TransitionUpdate, credits []donation.StatsCredit) (*models.Donation, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.donations[id]
	if !ok {
		return nil, donation.ErrNotFound
	}
	if d.Status != from {
		return nil, &donation.ConcurrencyConflictError{DonationID: id.Hex()}
	}

	d.Status = update.Status
	d.UpdatedAt = time.Now()
	if update.VerificationCode != "" {
		d.VerificationCode = update.VerificationCode
	}
	if update.CompletedAt != nil {
		d.CompletedAt = update.CompletedAt
	}
	m.donations[id] = d

	for _, c := range credits {
		m.applyCredit(c)
	}
	return &d, nil
}

func (m *Memory) applyCredit(c donation.StatsCredit) {
	s, ok := m.stats[c.ActorID]
	if !ok {
		s = models.ActorStats{ActorID: c.ActorID}
		m.statsOrder = append(m.statsOrder, c.ActorID)
	}
	s.ActorName = c.ActorName
	s.Role = c.Role
	s.TotalDonations += c.Delta.Donations
	s.TotalKg += c.Delta.Kg
	s.TotalValue += c.Delta.Value
	s.TotalPoints += c.Delta.Points
	s.LastUpdated = time.Now()
	m.stats[c.ActorID] = s
}

func (m *Memory) IncVerifyAttempts(ctx context.Context, id primitive.ObjectID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donations[id]
	if !ok {
		return 0, donation.ErrNotFound
	}
	d.VerifyAttempts++
	d.UpdatedAt = time.Now()
	m.donations[id] = d
	return d.VerifyAttempts, nil
}

func (m *Memory) GetStats(ctx context.Context, actorID primitive.ObjectID) (*models.ActorStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[actorID]
	if !ok {
		return nil, donation.ErrNotFound
	}
	return &s, nil
}

func (m *Memory) TopStats(ctx context.Context, role string, limit int) ([]models.ActorStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ActorStats
	for _, id := range m.statsOrder {
		s := m.stats[id]
		if role != "" && s.Role != role {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalPoints > out[j].TotalPoints })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) InsertNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	m.notifications[n.ID] = *n
	m.notifOrder = append(m.notifOrder, n.ID)
	return nil
}

func (m *Memory) ListNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for i := len(m.notifOrder) - 1; i >= 0; i-- {
		n := m.notifications[m.notifOrder[i]]
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *Memory) MarkNotificationRead(ctx context.Context, id, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return donation.ErrNotFound
	}
	n.Read = true
	m.notifications[id] = n
	return nil
}
