package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/foodbridge/donation-tracker-go/donation"
	"github.com/foodbridge/donation-tracker-go/models"
	"github.com/foodbridge/donation-tracker-go/store"
)

func runWorkerOn(t *testing.T, mem *store.Memory, events ...donation.Event) {
	t.Helper()
	ch := make(chan donation.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	// a closed channel drains remaining events, then Run returns
	NewWorker(mem, ch, zap.NewNop(), false).Run(context.Background())
}

func sampleDonation() models.Donation {
	return models.Donation{
		ID:             primitive.NewObjectID(),
		RestaurantID:   primitive.NewObjectID(),
		RestaurantName: "Trattoria",
		NGOID:          primitive.NewObjectID(),
		NGOName:        "FoodForAll",
		TotalValue:     20,
		TotalKg:        2,
		CreatedAt:      time.Now(),
	}
}

func TestWorkerRoutesEventsToTheRightActor(t *testing.T) {
	tests := []struct {
		eventType donation.EventType
		wantType  string
		toNGO     bool
	}{
		{donation.EventDonationCreated, models.NotifDonationRequest, true},
		{donation.EventDonationAccepted, models.NotifDonationAccepted, false},
		{donation.EventDonationRejected, models.NotifDonationRejected, false},
		{donation.EventDonationCompleted, models.NotifDonationCompleted, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			mem := store.NewMemory()
			d := sampleDonation()
			runWorkerOn(t, mem, donation.Event{Type: tt.eventType, Donation: d})

			target := d.RestaurantID
			other := d.NGOID
			if tt.toNGO {
				target, other = other, target
			}

			got, err := mem.ListNotifications(context.Background(), target)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantType, got[0].Type)
			assert.Equal(t, d.ID, got[0].DonationID)
			assert.False(t, got[0].Read)

			none, err := mem.ListNotifications(context.Background(), other)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestWorkerEmitsExactlyOneNotificationPerEvent(t *testing.T) {
	mem := store.NewMemory()
	d := sampleDonation()
	runWorkerOn(t, mem, donation.Event{Type: donation.EventDonationRejected, Donation: d})

	got, err := mem.ListNotifications(context.Background(), d.RestaurantID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Donation Request Rejected", got[0].Title)
}

func TestBroadcastDisasterAlertReachesEveryRestaurant(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	ngo := &models.Actor{Name: "FoodForAll", Role: models.RoleNGO}
	require.NoError(t, mem.InsertActor(ctx, ngo))
	restaurants := make([]*models.Actor, 3)
	for i, name := range []string{"Trattoria", "Bistro", "Diner"} {
		restaurants[i] = &models.Actor{Name: name, Role: models.RoleRestaurant}
		require.NoError(t, mem.InsertActor(ctx, restaurants[i]))
	}

	disaster := &models.Disaster{
		ID:      primitive.NewObjectID(),
		NGOID:   ngo.ID,
		NGOName: ngo.Name,
		Title:   "Flooding downtown",
		Status:  models.DisasterStatusActive,
	}
	notified, err := BroadcastDisasterAlert(ctx, mem, zap.NewNop(), disaster)
	require.NoError(t, err)
	assert.Equal(t, len(restaurants), notified)

	for _, r := range restaurants {
		got, err := mem.ListNotifications(ctx, r.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, models.NotifDisasterAlert, got[0].Type)
		assert.Equal(t, disaster.ID, got[0].DisasterID)
		assert.Equal(t, "New Disaster Alert", got[0].Title)
		assert.Equal(t, "FoodForAll has reported a disaster: Flooding downtown", got[0].Message)
	}

	// the reporting NGO gets nothing
	none, err := mem.ListNotifications(ctx, ngo.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWorkerIgnoresUnknownEvents(t *testing.T) {
	mem := store.NewMemory()
	d := sampleDonation()
	runWorkerOn(t, mem, donation.Event{Type: donation.EventType("donation.bogus"), Donation: d})

	for _, id := range []primitive.ObjectID{d.RestaurantID, d.NGOID} {
		got, err := mem.ListNotifications(context.Background(), id)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}
