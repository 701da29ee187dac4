package donation

import (
	"github.com/foodbridge/donation-tracker-go/models"
)

type Unit string

const (
	UnitKg    Unit = "kg"
	UnitG     Unit = "g"
	UnitLiter Unit = "liter"
	UnitItems Unit = "items"
)

// avgItemKg is the assumed average weight of one count-based item.
// Applied uniformly at every call site, submission and aggregation alike.
const avgItemKg = 0.5

// NormalizeToKg converts a quantity in the given unit to kilograms.
// Liters map 1:1 to kilograms; this is a declared approximation for
// donated liquids, not a physical conversion.
func NormalizeToKg(quantity float64, unit Unit) (float64, error) {
	if quantity < 0 {
		return 0, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	switch unit {
	case UnitKg, UnitLiter:
		return quantity, nil
	case UnitG:
		return quantity / 1000, nil
	case UnitItems:
		return quantity * avgItemKg, nil
	default:
		return 0, &ValidationError{Field: "unit", Reason: "must be one of kg, g, liter, items"}
	}
}

// TotalKg sums the normalized weight of all food items in a donation.
func TotalKg(items []models.FoodItem) (float64, error) {
	var total float64
	for _, item := range items {
		kg, err := NormalizeToKg(item.Quantity, Unit(item.Unit))
		if err != nil {
			return 0, err
		}
		total += kg
	}
	return total, nil
}
