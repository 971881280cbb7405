package gamification_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/gamification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 18, 30, 0, 0, time.UTC)
}

func yogaAt(at time.Time) fitness.Workout {
	return fitness.Workout{
		ID:             fmt.Sprintf("w-%d", at.Unix()),
		UserID:         "u1",
		Type:           fitness.WorkoutYoga,
		Duration:       30,
		IntensityLevel: 2,
		CaloriesBurned: 100,
		Date:           at,
	}
}

func newUser() fitness.User {
	return fitness.User{
		ID:               "u1",
		Level:            1,
		Badges:           []fitness.Badge{},
		JoinedChallenges: []string{},
	}
}

func TestApplyWorkout_Totals(t *testing.T) {
	user := newUser()
	run := fitness.Workout{
		UserID: "u1", Type: fitness.WorkoutRunning, Duration: 30, IntensityLevel: 3,
		CaloriesBurned: 300, Distance: distance(5), Date: day(10),
	}

	res := gamification.ApplyWorkout(user, run, day(10), time.UTC)
	assert.Equal(t, 140, res.Points)
	assert.Equal(t, 140, res.User.Points)
	assert.Equal(t, 1, res.User.Level)
	assert.Equal(t, 1, res.User.TotalWorkouts)
	assert.Equal(t, 300, res.User.TotalCaloriesBurned)
	assert.Equal(t, 1, res.User.WorkoutStreak)
	require.NotNil(t, res.User.LastWorkoutDate)
	assert.Equal(t, day(10), *res.User.LastWorkoutDate)
	assert.False(t, res.LeveledUp)
	assert.Zero(t, res.StreakReset)

	assert.Equal(t, []string{"first_running"}, badgeIDs(res.NewBadges))
	assert.Equal(t, []string{"first_running"}, badgeIDs(res.User.Badges))
	require.Len(t, res.Events, 1)
	assert.Equal(t, fmt.Sprintf("badge_first_running_%d", day(10).UnixMilli()), res.Events[0].ID)
	assert.Equal(t, fitness.NotificationBadgeEarned, res.Events[0].Type)
	assert.Equal(t, "New Badge Earned!", res.Events[0].Title)
	assert.Equal(t, `You've earned the "First Run" badge!`, res.Events[0].Message)
	assert.Equal(t, "u1", res.Events[0].UserID)
	assert.False(t, res.Events[0].IsRead)

	// input untouched
	assert.Zero(t, user.Points)
	assert.Empty(t, user.Badges)
	assert.Nil(t, user.LastWorkoutDate)
}

func TestApplyWorkout_ConsecutiveDays(t *testing.T) {
	user := newUser()
	for d := 1; d <= 7; d++ {
		res := gamification.ApplyWorkout(user, yogaAt(day(d)), day(d), time.UTC)
		assert.Equal(t, d, res.User.WorkoutStreak)
		assert.Zero(t, res.StreakReset)
		user = res.User
	}
	assert.True(t, user.HasBadge("streak_7"))
	assert.True(t, user.HasBadge("first_yoga"))
	assert.Len(t, user.Badges, 2)
}

func TestApplyWorkout_GapResetsStreak(t *testing.T) {
	user := newUser()
	last := day(3)
	user.LastWorkoutDate = &last
	user.WorkoutStreak = 4

	now := day(6)
	res := gamification.ApplyWorkout(user, yogaAt(now), now, time.UTC)
	assert.Equal(t, 1, res.User.WorkoutStreak)
	assert.Equal(t, 4, res.StreakReset)

	require.NotEmpty(t, res.Events)
	reset := res.Events[0]
	assert.Equal(t, fmt.Sprintf("streak_reset_%d", now.UnixMilli()), reset.ID)
	assert.Equal(t, fitness.NotificationStreakWarning, reset.Type)
	assert.Equal(t, "Streak Reset", reset.Title)
	assert.Equal(t, "Your 4-day streak has been reset. Start a new one today!", reset.Message)
}

func TestApplyWorkout_GapWithZeroStreakNoEvent(t *testing.T) {
	user := newUser()
	last := day(1)
	user.LastWorkoutDate = &last
	user.Badges = []fitness.Badge{{ID: "first_yoga"}}

	res := gamification.ApplyWorkout(user, yogaAt(day(9)), day(9), time.UTC)
	assert.Equal(t, 1, res.User.WorkoutStreak)
	assert.Zero(t, res.StreakReset)
	assert.Empty(t, res.Events)
}

func TestApplyWorkout_SameDayRelog(t *testing.T) {
	user := newUser()
	last := day(5).Add(-8 * time.Hour)
	user.LastWorkoutDate = &last
	user.WorkoutStreak = 3

	res := gamification.ApplyWorkout(user, yogaAt(day(5)), day(5), time.UTC)
	assert.Equal(t, 3, res.User.WorkoutStreak)
	assert.Zero(t, res.StreakReset)
	assert.Equal(t, 1, res.User.TotalWorkouts)
}

func TestApplyWorkout_CalendarDatesInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	user := newUser()
	// 2025-03-04 23:00 local
	last := time.Date(2025, 3, 4, 13, 0, 0, 0, time.UTC)
	user.LastWorkoutDate = &last
	user.WorkoutStreak = 2

	// 2025-03-05 07:00 local, same UTC day as last but the next local day
	now := time.Date(2025, 3, 4, 21, 0, 0, 0, time.UTC)
	res := gamification.ApplyWorkout(user, yogaAt(now), now, loc)
	assert.Equal(t, 3, res.User.WorkoutStreak)

	// in UTC both are on the same day
	res = gamification.ApplyWorkout(user, yogaAt(now), now, time.UTC)
	assert.Equal(t, 2, res.User.WorkoutStreak)
}

func TestApplyWorkout_LevelUpAndEventOrder(t *testing.T) {
	user := newUser()
	last := day(1)
	user.LastWorkoutDate = &last
	user.WorkoutStreak = 2
	user.Points = 990
	user.Badges = []fitness.Badge{{ID: "first_yoga"}}

	now := day(4)
	res := gamification.ApplyWorkout(user, yogaAt(now), now, time.UTC)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.User.Level)
	assert.Equal(t, []string{"points_1000"}, badgeIDs(res.NewBadges))

	require.Len(t, res.Events, 3)
	assert.Equal(t, fitness.NotificationStreakWarning, res.Events[0].Type)
	assert.Equal(t, fmt.Sprintf("badge_points_1000_%d", now.UnixMilli()), res.Events[1].ID)
	assert.Equal(t, fmt.Sprintf("level_up_%d", now.UnixMilli()), res.Events[2].ID)
	assert.Equal(t, "Level Up!", res.Events[2].Title)
	assert.Equal(t, "Congratulations! You've reached level 2!", res.Events[2].Message)
	assert.Equal(t, fitness.NotificationBadgeEarned, res.Events[2].Type)
}

func TestApplyWorkout_BadgeIdempotence(t *testing.T) {
	user := newUser()
	user.WorkoutStreak = 10
	user.TotalWorkouts = 20

	res := gamification.ApplyWorkout(user, yogaAt(day(2)), day(2), time.UTC)
	res = gamification.ApplyWorkout(res.User, yogaAt(day(3)), day(3), time.UTC)

	seen := map[string]int{}
	for _, b := range res.User.Badges {
		seen[b.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, id)
	}
	assert.Empty(t, res.NewBadges)
}
