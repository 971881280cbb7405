package gamification

import (
	"fmt"
	"time"

	"github.com/2beens/fitgam/internal/fitness"
)

const dateLayout = "2006-01-02"

// Result is the outcome of applying one workout to a user.
type Result struct {
	User      fitness.User
	Points    int
	NewBadges []fitness.Badge
	// Events are the notifications to persist, in emission order:
	// streak reset, one per new badge, level up.
	Events []fitness.Notification
	// StreakReset holds the length of the lost streak, 0 if the streak was not reset.
	StreakReset int
	LeveledUp   bool
}

// ApplyWorkout scores the workout and returns the updated user with the
// notifications it caused. The given user is not modified.
// Calendar dates are taken in loc, yesterday is relative to now.
func ApplyWorkout(user fitness.User, workout fitness.Workout, now time.Time, loc *time.Location) Result {
	if loc == nil {
		loc = time.UTC
	}

	updated := user.Clone()
	points := ScoreWorkout(workout)

	workoutDate := workout.Date.In(loc).Format(dateLayout)
	yesterday := now.In(loc).AddDate(0, 0, -1).Format(dateLayout)

	streakReset := 0
	switch {
	case user.LastWorkoutDate == nil:
		updated.WorkoutStreak = user.WorkoutStreak + 1
	case user.LastWorkoutDate.In(loc).Format(dateLayout) == yesterday:
		updated.WorkoutStreak = user.WorkoutStreak + 1
	case user.LastWorkoutDate.In(loc).Format(dateLayout) != workoutDate:
		if user.WorkoutStreak > 0 {
			streakReset = user.WorkoutStreak
		}
		updated.WorkoutStreak = 1
	default:
		// same day re-log, streak unchanged
	}

	updated.Points = user.Points + points
	updated.Level = CalculateLevel(updated.Points)
	updated.TotalWorkouts = user.TotalWorkouts + 1
	updated.TotalCaloriesBurned = user.TotalCaloriesBurned + workout.CaloriesBurned
	lastWorkoutDate := workout.Date
	updated.LastWorkoutDate = &lastWorkoutDate

	newBadges := AwardBadges(&updated, Evaluate(updated, &workout, now))

	ms := now.UnixMilli()
	var events []fitness.Notification
	if streakReset > 0 {
		events = append(events, notification(
			fmt.Sprintf("streak_reset_%d", ms), user.ID, fitness.NotificationStreakWarning, now,
			"Streak Reset",
			fmt.Sprintf("Your %d-day streak has been reset. Start a new one today!", streakReset),
		))
	}
	for _, b := range newBadges {
		events = append(events, BadgeNotification(user.ID, b, now))
	}
	leveledUp := updated.Level > user.Level
	if leveledUp {
		events = append(events, LevelUpNotification(user.ID, updated.Level, now))
	}

	return Result{
		User:        updated,
		Points:      points,
		NewBadges:   newBadges,
		Events:      events,
		StreakReset: streakReset,
		LeveledUp:   leveledUp,
	}
}

func BadgeNotification(userID string, badge fitness.Badge, now time.Time) fitness.Notification {
	return notification(
		fmt.Sprintf("badge_%s_%d", badge.ID, now.UnixMilli()), userID, fitness.NotificationBadgeEarned, now,
		"New Badge Earned!",
		fmt.Sprintf("You've earned the \"%s\" badge!", badge.Name),
	)
}

func LevelUpNotification(userID string, level int, now time.Time) fitness.Notification {
	return notification(
		fmt.Sprintf("level_up_%d", now.UnixMilli()), userID, fitness.NotificationBadgeEarned, now,
		"Level Up!",
		fmt.Sprintf("Congratulations! You've reached level %d!", level),
	)
}

func notification(id, userID string, nt fitness.NotificationType, now time.Time, title, message string) fitness.Notification {
	return fitness.Notification{
		ID:        id,
		UserID:    userID,
		Type:      nt,
		Title:     title,
		Message:   message,
		IsRead:    false,
		CreatedAt: now,
	}
}
