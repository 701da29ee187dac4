package donation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbridge/donation-tracker-go/models"
)

func TestNormalizeToKg(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		unit     Unit
		want     float64
	}{
		{"kg is identity", 2.5, UnitKg, 2.5},
		{"grams divide by 1000", 2000, UnitG, 2.0},
		{"liters map one to one", 3, UnitLiter, 3},
		{"items use half a kg each", 4, UnitItems, 2.0},
		{"zero quantity", 0, UnitKg, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeToKg(tt.quantity, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNormalizeToKgRejectsBadInput(t *testing.T) {
	var verr *ValidationError

	_, err := NormalizeToKg(-1, UnitKg)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	_, err = NormalizeToKg(1, Unit("pounds"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unit", verr.Field)
}

func TestNormalizeToKgLinearity(t *testing.T) {
	for _, unit := range []Unit{UnitKg, UnitG, UnitLiter, UnitItems} {
		one, err := NormalizeToKg(1, unit)
		require.NoError(t, err)
		for _, q := range []float64{0, 0.5, 7, 1234.5} {
			got, err := NormalizeToKg(q, unit)
			require.NoError(t, err)
			assert.InDelta(t, q*one, got, 1e-9, "unit %s not linear at %v", unit, q)
		}
	}
}

func TestGramsAgreeWithKilograms(t *testing.T) {
	for _, x := range []float64{0, 1, 250, 2000, 987654} {
		g, err := NormalizeToKg(x, UnitG)
		require.NoError(t, err)
		kg, err := NormalizeToKg(x/1000, UnitKg)
		require.NoError(t, err)
		assert.InDelta(t, kg, g, 1e-9)
	}
}

func TestTotalKgSumsAllItems(t *testing.T) {
	items := []models.FoodItem{
		{Name: "Rice", Quantity: 2000, Unit: "g"},
		{Name: "Soup", Quantity: 1.5, Unit: "liter"},
		{Name: "Sandwiches", Quantity: 6, Unit: "items"},
	}
	total, err := TotalKg(items)
	require.NoError(t, err)
	assert.InDelta(t, 2.0+1.5+3.0, total, 1e-9)
}

func TestTotalKgFailsOnUnknownUnit(t *testing.T) {
	_, err := TotalKg([]models.FoodItem{{Name: "Mystery", Quantity: 1, Unit: "crates"}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}
