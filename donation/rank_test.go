package donation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbridge/donation-tracker-go/models"
)

func TestRankOrdersByPointsDescending(t *testing.T) {
	entries := []models.ActorStats{
		{ActorName: "a", TotalPoints: 10},
		{ActorName: "b", TotalPoints: 120},
		{ActorName: "c", TotalPoints: 55},
	}
	ranked := Rank(entries)
	require.Len(t, ranked, 3)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i].TotalPoints, ranked[i-1].TotalPoints)
	}
	assert.Equal(t, "b", ranked[0].ActorName)
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	entries := []models.ActorStats{
		{ActorName: "first", TotalPoints: 50},
		{ActorName: "second", TotalPoints: 50},
		{ActorName: "third", TotalPoints: 50},
	}
	ranked := Rank(entries)
	require.Len(t, ranked, 3)
	assert.Equal(t, "first", ranked[0].ActorName)
	assert.Equal(t, "second", ranked[1].ActorName)
	assert.Equal(t, "third", ranked[2].ActorName)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	entries := []models.ActorStats{
		{ActorName: "low", TotalPoints: 1},
		{ActorName: "high", TotalPoints: 9},
	}
	_ = Rank(entries)
	assert.Equal(t, "low", entries[0].ActorName)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}
