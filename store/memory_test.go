package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodbridge/donation-tracker-go/donation"
	"github.com/foodbridge/donation-tracker-go/models"
)

func seedDonation(t *testing.T, m *Memory, status models.DonationStatus) *models.Donation {
	t.Helper()
	d := &models.Donation{
		RestaurantID: primitive.NewObjectID(),
		NGOID:        primitive.NewObjectID(),
		FoodItems:    []models.FoodItem{{Name: "Bread", Quantity: 2, Unit: "kg"}},
		TotalValue:   15,
		TotalKg:      2,
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, m.InsertDonation(context.Background(), d))
	return d
}

func TestTransitionIsConditionalOnPriorStatus(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	d := seedDonation(t, m, models.StatusPending)

	updated, err := m.Transition(ctx, d.ID, models.StatusPending,
		donation.TransitionUpdate{Status: models.StatusAccepted, VerificationCode: "4321"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)
	assert.Equal(t, "4321", updated.VerificationCode)

	// second swap from pending must lose
	var conflict *donation.ConcurrencyConflictError
	_, err = m.Transition(ctx, d.ID, models.StatusPending,
		donation.TransitionUpdate{Status: models.StatusRejected}, nil)
	require.ErrorAs(t, err, &conflict)

	_, err = m.Transition(ctx, primitive.NewObjectID(), models.StatusPending,
		donation.TransitionUpdate{Status: models.StatusAccepted}, nil)
	require.ErrorIs(t, err, donation.ErrNotFound)
}

func TestTransitionAppliesCreditsAtomicallyWithStatus(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	d := seedDonation(t, m, models.StatusPending)

	credit := donation.StatsCredit{
		ActorID:   d.NGOID,
		ActorName: "FoodForAll",
		Role:      models.RoleNGO,
		Delta:     models.StatsDelta{Donations: 1, Kg: 2, Value: 15, Points: 10},
	}
	_, err := m.Transition(ctx, d.ID, models.StatusPending,
		donation.TransitionUpdate{Status: models.StatusAccepted, VerificationCode: "1111"},
		[]donation.StatsCredit{credit})
	require.NoError(t, err)

	stats, err := m.GetStats(ctx, d.NGOID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDonations)
	assert.Equal(t, int64(10), stats.TotalPoints)

	// losing swap leaves stats untouched
	_, err = m.Transition(ctx, d.ID, models.StatusPending,
		donation.TransitionUpdate{Status: models.StatusAccepted}, []donation.StatsCredit{credit})
	require.Error(t, err)
	stats, err = m.GetStats(ctx, d.NGOID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDonations)
}

func TestIncVerifyAttempts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	d := seedDonation(t, m, models.StatusAccepted)

	for want := 1; want <= 3; want++ {
		got, err := m.IncVerifyAttempts(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := m.IncVerifyAttempts(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, donation.ErrNotFound)
}

func TestTopStatsFiltersAndLimits(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seed := []struct {
		name   string
		role   string
		points int64
	}{
		{"r1", models.RoleRestaurant, 30},
		{"n1", models.RoleNGO, 50},
		{"n2", models.RoleNGO, 80},
		{"n3", models.RoleNGO, 50},
	}
	for _, s := range seed {
		d := seedDonation(t, m, models.StatusPending)
		_, err := m.Transition(ctx, d.ID, models.StatusPending,
			donation.TransitionUpdate{Status: models.StatusAccepted},
			[]donation.StatsCredit{{
				ActorID:   primitive.NewObjectID(),
				ActorName: s.name,
				Role:      s.role,
				Delta:     models.StatsDelta{Donations: 1, Points: s.points},
			}})
		require.NoError(t, err)
	}

	top, err := m.TopStats(ctx, models.RoleNGO, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "n2", top[0].ActorName)
	// ties keep insertion order
	assert.Equal(t, "n1", top[1].ActorName)
	assert.Equal(t, "n3", top[2].ActorName)

	top, err = m.TopStats(ctx, models.RoleNGO, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestDeleteActor(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a := &models.Actor{Name: "Trattoria", Role: models.RoleRestaurant}
	require.NoError(t, m.InsertActor(ctx, a))

	require.NoError(t, m.DeleteActor(ctx, a.ID))
	_, err := m.GetActor(ctx, a.ID)
	require.ErrorIs(t, err, donation.ErrNotFound)

	err = m.DeleteActor(ctx, a.ID)
	require.ErrorIs(t, err, donation.ErrNotFound)
}

func TestListDisastersFiltersByStatusNewestFirst(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first := &models.Disaster{Title: "Flood", Status: models.DisasterStatusActive, CreatedAt: time.Now()}
	require.NoError(t, m.InsertDisaster(ctx, first))
	second := &models.Disaster{Title: "Fire", Status: models.DisasterStatusActive, CreatedAt: time.Now()}
	require.NoError(t, m.InsertDisaster(ctx, second))
	resolved := &models.Disaster{Title: "Storm", Status: "resolved", CreatedAt: time.Now()}
	require.NoError(t, m.InsertDisaster(ctx, resolved))

	all, err := m.ListDisasters(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Storm", all[0].Title)
	assert.Equal(t, "Fire", all[1].Title)
	assert.Equal(t, "Flood", all[2].Title)

	active, err := m.ListDisasters(ctx, models.DisasterStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Fire", active[0].Title)
}

func TestNotificationReadFlagIsOneWay(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	n := &models.Notification{UserID: userID, Title: "hi", CreatedAt: time.Now()}
	require.NoError(t, m.InsertNotification(ctx, n))

	require.NoError(t, m.MarkNotificationRead(ctx, n.ID, userID))
	list, err := m.ListNotifications(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)

	// another user cannot flip someone else's flag
	err = m.MarkNotificationRead(ctx, n.ID, primitive.NewObjectID())
	require.ErrorIs(t, err, donation.ErrNotFound)
}
