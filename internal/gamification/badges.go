package gamification

import (
	"fmt"
	"time"

	"github.com/2beens/fitgam/internal/fitness"
)

type badgeTemplate struct {
	id          string
	name        string
	description string
	icon        string
	requirement string
	category    fitness.BadgeCategory
}

func (t badgeTemplate) earned(at time.Time) fitness.Badge {
	return fitness.Badge{
		ID:          t.id,
		Name:        t.name,
		Description: t.description,
		Icon:        t.icon,
		Requirement: t.requirement,
		EarnedAt:    at,
		Category:    t.category,
	}
}

type badgeRule struct {
	badgeTemplate
	qualifies func(u *fitness.User) bool
}

// rules are evaluated in order, the order of newly earned badges follows it
var rules = []badgeRule{
	{
		badgeTemplate: badgeTemplate{"streak_7", "Week Warrior", "Complete 7 days in a row", "🔥", "7-day workout streak", fitness.BadgeCategoryStreak},
		qualifies:     func(u *fitness.User) bool { return u.WorkoutStreak >= 7 },
	},
	{
		badgeTemplate: badgeTemplate{"streak_30", "Monthly Master", "Complete 30 days in a row", "🏆", "30-day workout streak", fitness.BadgeCategoryStreak},
		qualifies:     func(u *fitness.User) bool { return u.WorkoutStreak >= 30 },
	},
	{
		badgeTemplate: badgeTemplate{"workouts_10", "Getting Started", "Complete 10 workouts", "💪", "10 total workouts", fitness.BadgeCategoryMilestone},
		qualifies:     func(u *fitness.User) bool { return u.TotalWorkouts >= 10 },
	},
	{
		badgeTemplate: badgeTemplate{"workouts_50", "Fitness Enthusiast", "Complete 50 workouts", "🌟", "50 total workouts", fitness.BadgeCategoryMilestone},
		qualifies:     func(u *fitness.User) bool { return u.TotalWorkouts >= 50 },
	},
	{
		badgeTemplate: badgeTemplate{"workouts_100", "Fitness Beast", "Complete 100 workouts", "🦁", "100 total workouts", fitness.BadgeCategoryMilestone},
		qualifies:     func(u *fitness.User) bool { return u.TotalWorkouts >= 100 },
	},
	{
		badgeTemplate: badgeTemplate{"calories_10000", "Calorie Crusher", "Burn 10,000 calories", "🔥", "10,000 calories burned", fitness.BadgeCategoryMilestone},
		qualifies:     func(u *fitness.User) bool { return u.TotalCaloriesBurned >= 10000 },
	},
	{
		badgeTemplate: badgeTemplate{"points_1000", "Point Master", "Earn 1,000 points", "💎", "1,000 points earned", fitness.BadgeCategoryMilestone},
		qualifies:     func(u *fitness.User) bool { return u.Points >= 1000 },
	},
	{
		badgeTemplate: badgeTemplate{"level_5", "Rising Star", "Reach level 5", "⭐", "Reach level 5", fitness.BadgeCategoryMilestone},
		qualifies:     func(u *fitness.User) bool { return CalculateLevel(u.Points) >= 5 },
	},
	{
		badgeTemplate: badgeTemplate{"level_10", "Elite Athlete", "Reach level 10", "👑", "Reach level 10", fitness.BadgeCategoryMilestone},
		qualifies:     func(u *fitness.User) bool { return CalculateLevel(u.Points) >= 10 },
	},
}

type firstWorkoutBadge struct {
	name string
	icon string
}

// workout types without an entry here (other) have no first-workout badge
var firstWorkoutBadges = map[fitness.WorkoutType]firstWorkoutBadge{
	fitness.WorkoutRunning:    {"First Run", "🏃"},
	fitness.WorkoutCycling:    {"First Ride", "🚴"},
	fitness.WorkoutGym:        {"First Lift", "🏋️"},
	fitness.WorkoutYoga:       {"First Flow", "🧘"},
	fitness.WorkoutSwimming:   {"First Swim", "🏊"},
	fitness.WorkoutWalking:    {"First Walk", "🚶"},
	fitness.WorkoutBasketball: {"First Game", "⛹️"},
	fitness.WorkoutFootball:   {"First Match", "⚽"},
	fitness.WorkoutTennis:     {"First Set", "🎾"},
}

func FirstWorkoutBadgeID(t fitness.WorkoutType) string {
	return fmt.Sprintf("first_%s", t)
}

// Evaluate returns the badges the user qualifies for and does not own yet,
// stamped with now. The triggering workout is optional.
func Evaluate(user fitness.User, workout *fitness.Workout, now time.Time) []fitness.Badge {
	var newBadges []fitness.Badge
	for _, rule := range rules {
		if user.HasBadge(rule.id) || !rule.qualifies(&user) {
			continue
		}
		newBadges = append(newBadges, rule.earned(now))
	}

	if workout == nil {
		return newBadges
	}

	first, ok := firstWorkoutBadges[workout.Type]
	badgeID := FirstWorkoutBadgeID(workout.Type)
	if ok && !user.HasBadge(badgeID) {
		newBadges = append(newBadges, badgeTemplate{
			id:          badgeID,
			name:        first.name,
			description: fmt.Sprintf("Complete your first %s workout", workout.Type),
			icon:        first.icon,
			requirement: fmt.Sprintf("First %s workout", workout.Type),
			category:    fitness.BadgeCategoryMilestone,
		}.earned(now))
	}

	return newBadges
}

// AwardBadges appends the badges the user does not own yet, and returns the ones actually added.
func AwardBadges(user *fitness.User, badges []fitness.Badge) []fitness.Badge {
	var awarded []fitness.Badge
	for _, b := range badges {
		if user.HasBadge(b.ID) {
			continue
		}
		user.Badges = append(user.Badges, b)
		awarded = append(awarded, b)
	}
	return awarded
}
