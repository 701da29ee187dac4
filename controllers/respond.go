package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodbridge/donation-tracker-go/donation"
)

// writeDomainError maps the core error taxonomy onto HTTP statuses.
// Every body carries the typed error message so callers can decide on
// user-facing copy.
func writeDomainError(c *gin.Context, err error) {
	var (
		validation  *donation.ValidationError
		transition  *donation.InvalidStateTransitionError
		badCode     *donation.InvalidVerificationCodeError
		locked      *donation.VerificationLockedError
		conflict    *donation.ConcurrencyConflictError
		unavailable *donation.CollaboratorUnavailableError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, donation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error":       transition.Error(),
			"prior_state": transition.PriorState,
		})
	case errors.As(err, &badCode):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         badCode.Error(),
			"attempts_left": badCode.AttemptsLeft,
		})
	case errors.As(err, &locked):
		c.JSON(http.StatusLocked, gin.H{"error": locked.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "retryable": true})
	case errors.As(err, &unavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backend temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
