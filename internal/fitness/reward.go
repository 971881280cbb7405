package fitness

import "time"

type RewardType string

const (
	RewardVirtual  RewardType = "virtual"
	RewardDiscount RewardType = "discount"
	RewardPremium  RewardType = "premium"
)

type Reward struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PointsCost  int        `json:"pointsCost"`
	Type        RewardType `json:"type"`
	Category    string     `json:"category"`
	// IsRedeemed is kept for stored-data compatibility; redemptions are tracked per user.
	IsRedeemed bool `json:"isRedeemed"`
}

// Redemption records one user spending points on one reward.
type Redemption struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	RewardID    string    `json:"rewardId"`
	PointsSpent int       `json:"pointsSpent"`
	RedeemedAt  time.Time `json:"redeemedAt"`
}
