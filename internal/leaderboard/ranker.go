package leaderboard

import (
	"fmt"
	"sort"

	"github.com/2beens/fitgam/internal/fitness"
)

type Metric string

const (
	MetricPoints   Metric = "points"
	MetricWorkouts Metric = "workouts"
	MetricCalories Metric = "calories"
	MetricStreak   Metric = "streak"
)

var Metrics = []Metric{MetricPoints, MetricWorkouts, MetricCalories, MetricStreak}

func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown leaderboard metric: %s", s)
}

type Entry struct {
	UserID              string `json:"userId"`
	Name                string `json:"name"`
	ProfilePicture      string `json:"profilePicture,omitempty"`
	Points              int    `json:"points"`
	Level               int    `json:"level"`
	TotalWorkouts       int    `json:"totalWorkouts"`
	TotalCaloriesBurned int    `json:"totalCaloriesBurned"`
	WorkoutStreak       int    `json:"workoutStreak"`
	Rank                int    `json:"rank"`
}

func (e Entry) value(m Metric) int {
	switch m {
	case MetricWorkouts:
		return e.TotalWorkouts
	case MetricCalories:
		return e.TotalCaloriesBurned
	case MetricStreak:
		return e.WorkoutStreak
	default:
		return e.Points
	}
}

// Rank orders the users by the metric, highest first. Ties keep the input order,
// ranks are the 1-based positions, so tied users get distinct ranks.
func Rank(users []fitness.User, metric Metric) []Entry {
	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		entries = append(entries, Entry{
			UserID:              u.ID,
			Name:                u.Name,
			ProfilePicture:      u.ProfilePicture,
			Points:              u.Points,
			Level:               u.Level,
			TotalWorkouts:       u.TotalWorkouts,
			TotalCaloriesBurned: u.TotalCaloriesBurned,
			WorkoutStreak:       u.WorkoutStreak,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value(metric) > entries[j].value(metric)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Rankings computes all four rankings from one snapshot of users.
func Rankings(users []fitness.User) map[Metric][]Entry {
	rankings := make(map[Metric][]Entry, len(Metrics))
	for _, m := range Metrics {
		rankings[m] = Rank(users, m)
	}
	return rankings
}
