package gamification

import (
	"math"

	"github.com/2beens/fitgam/internal/fitness"
)

const (
	MinWorkoutPoints = 10
	PointsPerLevel   = 1000
)

// ScoreWorkout returns the points a workout is worth:
// 1 per minute, 10 per intensity level, 1 per 10 calories and,
// for running, cycling and walking, 10 per km. Never less than MinWorkoutPoints.
func ScoreWorkout(w fitness.Workout) int {
	points := w.Duration
	points += w.IntensityLevel * 10
	points += w.CaloriesBurned / 10

	if distance := w.DistanceKm(); distance > 0 && w.Type.EarnsDistancePoints() {
		points += int(math.Floor(distance * 10))
	}

	if points < MinWorkoutPoints {
		return MinWorkoutPoints
	}
	return points
}

func CalculateLevel(points int) int {
	if points < 0 {
		return 1
	}
	return points/PointsPerLevel + 1
}

// PointsForNextLevel returns how many points are missing to reach the next level.
func PointsForNextLevel(points int) int {
	return CalculateLevel(points)*PointsPerLevel - points
}

// LevelProgress returns the progress through the current level, in percent.
func LevelProgress(points int) float64 {
	if points < 0 {
		return 0
	}
	return float64(points%PointsPerLevel) / PointsPerLevel * 100
}
