package fitness

import (
	"fmt"
	"time"
)

type ChallengeType string

const (
	ChallengeDistance  ChallengeType = "distance"
	ChallengeDuration  ChallengeType = "duration"
	ChallengeFrequency ChallengeType = "frequency"
	ChallengeCalories  ChallengeType = "calories"
)

func ParseChallengeType(s string) (ChallengeType, error) {
	switch t := ChallengeType(s); t {
	case ChallengeDistance, ChallengeDuration, ChallengeFrequency, ChallengeCalories:
		return t, nil
	default:
		return "", fmt.Errorf("unknown challenge type: %s", s)
	}
}

type Challenge struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Type         ChallengeType `json:"type"`
	Target       float64       `json:"target"`
	BonusPoints  int           `json:"bonusPoints"`
	Duration     int           `json:"duration"` // days
	StartDate    time.Time     `json:"startDate"`
	EndDate      time.Time     `json:"endDate"`
	Participants []string      `json:"participants"`
	IsActive     bool          `json:"isActive"`
	CreatedBy    string        `json:"createdBy"`
}

// Running reports whether the challenge can still be joined or progressed at now.
func (c *Challenge) Running(now time.Time) bool {
	return c.IsActive && c.EndDate.After(now)
}

func (c *Challenge) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// UserProgress is the persisted progress of one user in one challenge.
type UserProgress struct {
	UserID      string     `json:"userId"`
	ChallengeID string     `json:"challengeId"`
	Progress    float64    `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
