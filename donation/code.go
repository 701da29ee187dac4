package donation

import (
	"math/rand"
	"strconv"
)

// NewVerificationCode returns a 4-digit numeric code in [1000, 9999].
// A short shared secret confirming physical handoff, not a credential;
// a non-cryptographic source is deliberate.
func NewVerificationCode() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}
