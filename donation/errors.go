package donation

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when a document does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed input. Never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InvalidStateTransitionError reports a transition attempt that the
// state machine forbids: wrong actor, wrong source state, or an attempt
// to mutate a terminal donation.
type InvalidStateTransitionError struct {
	DonationID string
	ActorID    string
	Action     Action
	PriorState string
	Reason     string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s on donation %s (status %s, actor %s): %s",
		e.Action, e.DonationID, e.PriorState, e.ActorID, e.Reason)
}

// InvalidVerificationCodeError reports a Verify attempt with a wrong
// code. The donation stays accepted; the caller may re-prompt.
type InvalidVerificationCodeError struct {
	DonationID   string
	ActorID      string
	AttemptsLeft int // -1 when no limit is configured
}

func (e *InvalidVerificationCodeError) Error() string {
	if e.AttemptsLeft < 0 {
		return fmt.Sprintf("invalid verification code for donation %s", e.DonationID)
	}
	return fmt.Sprintf("invalid verification code for donation %s (%d attempts left)",
		e.DonationID, e.AttemptsLeft)
}

// VerificationLockedError reports that the configured attempt limit has
// been exhausted. Further Verify calls fail even with the right code.
type VerificationLockedError struct {
	DonationID string
	ActorID    string
	Attempts   int
}

func (e *VerificationLockedError) Error() string {
	return fmt.Sprintf("verification locked for donation %s after %d failed attempts",
		e.DonationID, e.Attempts)
}

// ConcurrencyConflictError reports a lost compare-and-swap race. Safe
// to retry once after re-reading current state.
type ConcurrencyConflictError struct {
	DonationID string
	Action     Action
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrent update on donation %s during %s", e.DonationID, e.Action)
}

// CollaboratorUnavailableError wraps a persistence or notification
// backend failure. The core never assumes partial success.
type CollaboratorUnavailableError struct {
	Op  string
	Err error
}

func (e *CollaboratorUnavailableError) Error() string {
	return fmt.Sprintf("collaborator unavailable during %s: %v", e.Op, e.Err)
}

func (e *CollaboratorUnavailableError) Unwrap() error { return e.Err }
