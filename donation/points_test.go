package donation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsFor(t *testing.T) {
	tests := []struct {
		kg   float64
		want int64
	}{
		{0, 0},
		{-1, 0},
		{2.0, 10},
		{1.04, 5},
		// half away from zero: 2.1 kg -> 10.5 -> 11
		{2.1, 11},
		{0.09, 0},
		{0.1, 1},
		{356, 1780},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PointsFor(tt.kg), "kg=%v", tt.kg)
	}
}

func TestPointsNeverNegative(t *testing.T) {
	for _, kg := range []float64{-100, -0.001, 0, 0.001, 42} {
		assert.GreaterOrEqual(t, PointsFor(kg), int64(0))
	}
}
