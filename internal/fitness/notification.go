package fitness

import "time"

type NotificationType string

const (
	NotificationWorkoutReminder   NotificationType = "workout_reminder"
	NotificationChallengeComplete NotificationType = "challenge_complete"
	NotificationBadgeEarned       NotificationType = "badge_earned"
	NotificationStreakWarning     NotificationType = "streak_warning"
	NotificationFriendRequest     NotificationType = "friend_request"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}
