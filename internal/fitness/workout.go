package fitness

import (
	"fmt"
	"time"
)

type WorkoutType string

const (
	WorkoutRunning    WorkoutType = "running"
	WorkoutCycling    WorkoutType = "cycling"
	WorkoutGym        WorkoutType = "gym"
	WorkoutYoga       WorkoutType = "yoga"
	WorkoutSwimming   WorkoutType = "swimming"
	WorkoutWalking    WorkoutType = "walking"
	WorkoutBasketball WorkoutType = "basketball"
	WorkoutFootball   WorkoutType = "football"
	WorkoutTennis     WorkoutType = "tennis"
	WorkoutOther      WorkoutType = "other"
)

var WorkoutTypes = []WorkoutType{
	WorkoutRunning,
	WorkoutCycling,
	WorkoutGym,
	WorkoutYoga,
	WorkoutSwimming,
	WorkoutWalking,
	WorkoutBasketball,
	WorkoutFootball,
	WorkoutTennis,
	WorkoutOther,
}

func ParseWorkoutType(s string) (WorkoutType, error) {
	for _, t := range WorkoutTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown workout type: %s", s)
}

// TracksDistance reports whether the workout form asks for a distance for this type.
func (t WorkoutType) TracksDistance() bool {
	switch t {
	case WorkoutRunning, WorkoutCycling, WorkoutWalking, WorkoutSwimming:
		return true
	default:
		return false
	}
}

// EarnsDistancePoints reports whether distance contributes to the workout score.
// Swimming tracks distance, but does not score it.
func (t WorkoutType) EarnsDistancePoints() bool {
	switch t {
	case WorkoutRunning, WorkoutCycling, WorkoutWalking:
		return true
	default:
		return false
	}
}

type Workout struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId"`
	Type           WorkoutType `json:"type"`
	Duration       int         `json:"duration"`           // minutes
	Distance       *float64    `json:"distance,omitempty"` // km
	CaloriesBurned int         `json:"caloriesBurned"`
	IntensityLevel int         `json:"intensityLevel"` // 1..5
	Date           time.Time   `json:"date"`
	CreatedAt      time.Time   `json:"createdAt"`
}

func (w *Workout) DistanceKm() float64 {
	if w.Distance == nil {
		return 0
	}
	return *w.Distance
}
