package donation

import (
	"sort"

	"github.com/foodbridge/donation-tracker-go/models"
)

// Rank orders stats entries by total points, descending. The sort is
// stable: entries with equal points keep their input order. Pure
// function, recomputed fresh on every call; the input slice is not
// modified.
func Rank(entries []models.ActorStats) []models.ActorStats {
	ranked := make([]models.ActorStats, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})
	return ranked
}
