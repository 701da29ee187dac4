package donation

import (
	"github.com/foodbridge/donation-tracker-go/models"
)

type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
	ActionVerify Action = "verify"
)

// CanTransition is the single guard for every donation status mutation.
// It checks both the acting party (recipient for accept/reject, donor
// for verify) and the source state. Role checks live here and nowhere
// else; call sites must not duplicate them.
func CanTransition(d *models.Donation, actorID string, action Action) error {
	fail := func(reason string) error {
		return &InvalidStateTransitionError{
			DonationID: d.ID.Hex(),
			ActorID:    actorID,
			Action:     action,
			PriorState: string(d.Status),
			Reason:     reason,
		}
	}

	switch action {
	case ActionAccept, ActionReject:
		if d.NGOID.Hex() != actorID {
			return fail("only the recipient may " + string(action))
		}
		if d.Status != models.StatusPending {
			return fail("donation is not pending")
		}
	case ActionVerify:
		if d.RestaurantID.Hex() != actorID {
			return fail("only the donor may verify")
		}
		if d.Status != models.StatusAccepted {
			return fail("donation is not accepted")
		}
	default:
		return fail("unknown action")
	}
	return nil
}
