package donation

import "math"

// pointsPerKg is the reward rate for transferred food weight. Both the
// donor and the recipient earn it, once, when a donation is accepted.
const pointsPerKg = 5

// PointsFor returns the reward points for a normalized donation weight,
// rounded half away from zero. Never negative.
func PointsFor(totalKg float64) int64 {
	if totalKg <= 0 {
		return 0
	}
	return int64(math.Round(totalKg * pointsPerKg))
}
