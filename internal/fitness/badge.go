package fitness

import "time"

type BadgeCategory string

const (
	BadgeCategoryStreak    BadgeCategory = "streak"
	BadgeCategoryMilestone BadgeCategory = "milestone"
	BadgeCategoryChallenge BadgeCategory = "challenge"
	BadgeCategorySocial    BadgeCategory = "social"
)

type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Requirement string        `json:"requirement"`
	EarnedAt    time.Time     `json:"earnedAt"`
	Category    BadgeCategory `json:"category"`
}
