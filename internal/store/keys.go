package store

const (
	KeyUsers         = "fitness_users"
	KeyCurrentUser   = "fitness_current_user"
	KeyWorkouts      = "fitness_workouts"
	KeyChallenges    = "fitness_challenges"
	KeyNotifications = "fitness_notifications"
	KeyRewards       = "fitness_rewards"
	KeyUserProgress  = "fitness_user_progress"
	KeyRedemptions   = "fitness_redemptions"
	KeyCredentials   = "fitness_credentials"
)

var AllKeys = []string{
	KeyUsers,
	KeyCurrentUser,
	KeyWorkouts,
	KeyChallenges,
	KeyNotifications,
	KeyRewards,
	KeyUserProgress,
	KeyRedemptions,
	KeyCredentials,
}
