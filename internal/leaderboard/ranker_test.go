package leaderboard_test

import (
	"testing"

	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/leaderboard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUsers() []fitness.User {
	return []fitness.User{
		{ID: "a", Name: "Ana", Points: 300, TotalWorkouts: 2, TotalCaloriesBurned: 900, WorkoutStreak: 1},
		{ID: "b", Name: "Bob", Points: 100, TotalWorkouts: 7, TotalCaloriesBurned: 100, WorkoutStreak: 4},
		{ID: "c", Name: "Cid", Points: 300, TotalWorkouts: 5, TotalCaloriesBurned: 500, WorkoutStreak: 4},
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	entries := leaderboard.Rank(testUsers(), leaderboard.MetricPoints)
	require.Len(t, entries, 3)

	assert.Equal(t, "a", entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "c", entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "b", entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestRank_Metrics(t *testing.T) {
	testCases := []struct {
		metric leaderboard.Metric
		order  []string
	}{
		{leaderboard.MetricPoints, []string{"a", "c", "b"}},
		{leaderboard.MetricWorkouts, []string{"b", "c", "a"}},
		{leaderboard.MetricCalories, []string{"a", "c", "b"}},
		{leaderboard.MetricStreak, []string{"b", "c", "a"}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.metric), func(t *testing.T) {
			entries := leaderboard.Rank(testUsers(), tc.metric)
			var order []string
			for i, e := range entries {
				order = append(order, e.UserID)
				assert.Equal(t, i+1, e.Rank)
			}
			assert.Equal(t, tc.order, order)
		})
	}
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, leaderboard.Rank(nil, leaderboard.MetricPoints))
}

func TestRankings(t *testing.T) {
	rankings := leaderboard.Rankings(testUsers())
	assert.Len(t, rankings, 4)
	for _, m := range leaderboard.Metrics {
		assert.Len(t, rankings[m], 3)
	}
	assert.Equal(t, "Bob", rankings[leaderboard.MetricWorkouts][0].Name)
}

func TestParseMetric(t *testing.T) {
	m, err := leaderboard.ParseMetric("calories")
	require.NoError(t, err)
	assert.Equal(t, leaderboard.MetricCalories, m)

	_, err = leaderboard.ParseMetric("steps")
	assert.Error(t, err)
}
