package donation

import (
	"go.uber.org/zap"

	"github.com/foodbridge/donation-tracker-go/models"
)

type EventType string

const (
	EventDonationCreated   EventType = "donation.created"
	EventDonationAccepted  EventType = "donation.accepted"
	EventDonationRejected  EventType = "donation.rejected"
	EventDonationCompleted EventType = "donation.completed"
)

// Event carries a completed lifecycle change. The donation snapshot is
// a copy taken after the transition committed; subscribers must not
// treat it as live state.
type Event struct {
	Type     EventType
	Donation models.Donation
}

// Events exposes the service's event stream. Subscribers (notification
// fan-out, emails) read from it; slow subscribers lose events rather
// than blocking transitions.
func (s *Service) Events() <-chan Event {
	return s.events
}

func (s *Service) publish(t EventType, d models.Donation) {
	select {
	case s.events <- Event{Type: t, Donation: d}:
	default:
		s.log.Warn("event channel full, dropping event",
			zap.String("type", string(t)), zap.String("donation_id", d.ID.Hex()))
	}
}
