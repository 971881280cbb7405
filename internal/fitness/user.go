package fitness

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	ProfilePicture      string     `json:"profilePicture,omitempty"`
	Age                 int        `json:"age"`
	Weight              float64    `json:"weight"`
	Height              float64    `json:"height"`
	FitnessGoals        []string   `json:"fitnessGoals"`
	ActivityPreferences []string   `json:"activityPreferences"`
	Points              int        `json:"points"`
	Level               int        `json:"level"`
	Badges              []Badge    `json:"badges"`
	JoinedChallenges    []string   `json:"joinedChallenges"`
	Friends             []string   `json:"friends"`
	WorkoutStreak       int        `json:"workoutStreak"`
	LastWorkoutDate     *time.Time `json:"lastWorkoutDate,omitempty"`
	TotalWorkouts       int        `json:"totalWorkouts"`
	TotalCaloriesBurned int        `json:"totalCaloriesBurned"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// Clone returns a deep copy, so that engine code never mutates a caller's user.
func (u User) Clone() User {
	c := u
	c.FitnessGoals = append([]string(nil), u.FitnessGoals...)
	c.ActivityPreferences = append([]string(nil), u.ActivityPreferences...)
	c.Badges = append([]Badge(nil), u.Badges...)
	c.JoinedChallenges = append([]string(nil), u.JoinedChallenges...)
	c.Friends = append([]string(nil), u.Friends...)
	if u.LastWorkoutDate != nil {
		last := *u.LastWorkoutDate
		c.LastWorkoutDate = &last
	}
	return c
}

func (u *User) HasBadge(badgeID string) bool {
	for _, b := range u.Badges {
		if b.ID == badgeID {
			return true
		}
	}
	return false
}

func (u *User) HasJoined(challengeID string) bool {
	for _, id := range u.JoinedChallenges {
		if id == challengeID {
			return true
		}
	}
	return false
}
