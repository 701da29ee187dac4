package notify

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/foodbridge/donation-tracker-go/donation"
	"github.com/foodbridge/donation-tracker-go/models"
	"github.com/foodbridge/donation-tracker-go/utils"
)

// Worker turns domain events into notification documents and lifecycle
// emails. Notifications are advisory copies for display; the donation
// status stays the single source of truth, so a failed write here is
// logged and dropped, never retried against the lifecycle.
type Worker struct {
	store      donation.Store
	events     <-chan donation.Event
	log        *zap.Logger
	sendEmails bool
}

func NewWorker(store donation.Store, events <-chan donation.Event, log *zap.Logger, sendEmails bool) *Worker {
	return &Worker{store: store, events: events, log: log, sendEmails: sendEmails}
}

// Run consumes events until ctx is cancelled. Call in its own goroutine.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.events:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		}
	}
}

func (w *Worker) handle(ctx context.Context, ev donation.Event) {
	d := ev.Donation
	var target primitive.ObjectID
	var kind, title, message string

	switch ev.Type {
	case donation.EventDonationCreated:
		target = d.NGOID
		kind = models.NotifDonationRequest
		title = "New Food Donation Available"
		message = fmt.Sprintf("%s has food to donate. Total value: $%.2f", d.RestaurantName, d.TotalValue)
	case donation.EventDonationAccepted:
		target = d.RestaurantID
		kind = models.NotifDonationAccepted
		title = "Donation Request Accepted"
		message = fmt.Sprintf("%s has accepted your donation request", d.NGOName)
	case donation.EventDonationRejected:
		target = d.RestaurantID
		kind = models.NotifDonationRejected
		title = "Donation Request Rejected"
		message = fmt.Sprintf("%s has rejected your donation request", d.NGOName)
	case donation.EventDonationCompleted:
		target = d.NGOID
		kind = models.NotifDonationCompleted
		title = "Donation Completed"
		message = fmt.Sprintf("%s has completed the donation", d.RestaurantName)
	default:
		return
	}

	n := &models.Notification{
		UserID:     target,
		DonationID: d.ID,
		Title:      title,
		Message:    message,
		Type:       kind,
		CreatedAt:  time.Now(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := w.store.InsertNotification(writeCtx, n); err != nil {
		w.log.Error("failed to write notification",
			zap.String("donation_id", d.ID.Hex()),
			zap.String("type", kind),
			zap.Error(err))
		return
	}

	if w.sendEmails {
		w.email(writeCtx, target, title, message)
	}
}

// BroadcastDisasterAlert fans a disaster report out to every restaurant
// as a disaster_alert notification. Returns how many restaurants were
// notified; a failed insert for one restaurant is logged and skipped so
// the rest still get theirs.
func BroadcastDisasterAlert(ctx context.Context, store donation.Store, log *zap.Logger, d *models.Disaster) (int, error) {
	restaurants, err := store.ListActorsByRole(ctx, models.RoleRestaurant)
	if err != nil {
		return 0, err
	}

	message := fmt.Sprintf("%s has reported a disaster: %s", d.NGOName, d.Title)
	notified := 0
	for _, r := range restaurants {
		n := &models.Notification{
			UserID:     r.ID,
			DisasterID: d.ID,
			Title:      "New Disaster Alert",
			Message:    message,
			Type:       models.NotifDisasterAlert,
			CreatedAt:  time.Now(),
		}
		if err := store.InsertNotification(ctx, n); err != nil {
			log.Error("failed to write disaster alert",
				zap.String("disaster_id", d.ID.Hex()),
				zap.String("restaurant_id", r.ID.Hex()),
				zap.Error(err))
			continue
		}
		notified++
	}
	return notified, nil
}

func (w *Worker) email(ctx context.Context, target primitive.ObjectID, subject, message string) {
	actor, err := w.store.GetActor(ctx, target)
	if err != nil || actor.Email == "" {
		return
	}
	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p><p>The FoodBridge team</p>", actor.Name, message)
	if err := utils.SendEmail(actor.Email, actor.Name, subject, body); err != nil {
		w.log.Warn("failed to send lifecycle email",
			zap.String("actor_id", target.Hex()),
			zap.Error(err))
	}
}
