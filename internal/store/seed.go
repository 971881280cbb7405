package store

import (
	"context"
	"time"

	"github.com/2beens/fitgam/internal/fitness"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	DemoUserID    = "demo_user"
	DemoUserEmail = "demo@fitgam.app"
)

type SeedParams struct {
	Now time.Time
	// DemoPasswordHash is stored as the demo user's credential, skipped if empty.
	DemoPasswordHash string
}

// Seed fills every empty collection with its default data.
// Collections that already hold data are left untouched.
func (s *Store) Seed(ctx context.Context, params SeedParams) error {
	var err error

	if len(s.Users(ctx)) == 0 {
		demoUser := DemoUser(params.Now)
		if addErr := s.AddUser(ctx, demoUser); addErr != nil {
			err = multierr.Append(err, addErr)
		} else {
			log.Infof("store seed: demo user [%s] added", demoUser.Email)
			if params.DemoPasswordHash != "" {
				err = multierr.Append(err, s.SetCredentialHash(ctx, demoUser.ID, params.DemoPasswordHash))
			}
		}
	}

	if len(s.Challenges(ctx)) == 0 {
		if setErr := s.SetChallenges(ctx, DefaultChallenges(params.Now)); setErr != nil {
			err = multierr.Append(err, setErr)
		} else {
			log.Infoln("store seed: default challenges added")
		}
	}

	if len(s.Rewards(ctx)) == 0 {
		if setErr := s.SetRewards(ctx, DefaultRewards()); setErr != nil {
			err = multierr.Append(err, setErr)
		} else {
			log.Infoln("store seed: default rewards added")
		}
	}

	return err
}

func DemoUser(now time.Time) fitness.User {
	return fitness.User{
		ID:                  DemoUserID,
		Email:               DemoUserEmail,
		Name:                "Demo User",
		Age:                 28,
		Weight:              70,
		Height:              175,
		FitnessGoals:        []string{"Lose Weight", "Build Muscle"},
		ActivityPreferences: []string{"Running", "Gym"},
		Points:              0,
		Level:               1,
		Badges:              []fitness.Badge{},
		JoinedChallenges:    []string{},
		Friends:             []string{},
		CreatedAt:           now,
	}
}

func DefaultChallenges(now time.Time) []fitness.Challenge {
	days := func(n int) time.Time {
		return now.Add(time.Duration(n) * 24 * time.Hour)
	}
	return []fitness.Challenge{
		{
			ID:           "1",
			Title:        "Weekly Warrior",
			Description:  "Complete 5 workouts in 7 days",
			Type:         fitness.ChallengeFrequency,
			Target:       5,
			BonusPoints:  500,
			Duration:     7,
			StartDate:    now,
			EndDate:      days(7),
			Participants: []string{},
			IsActive:     true,
			CreatedBy:    "system",
		},
		{
			ID:           "2",
			Title:        "Distance Champion",
			Description:  "Run or cycle 25km in 14 days",
			Type:         fitness.ChallengeDistance,
			Target:       25,
			BonusPoints:  750,
			Duration:     14,
			StartDate:    now,
			EndDate:      days(14),
			Participants: []string{},
			IsActive:     true,
			CreatedBy:    "system",
		},
		{
			ID:           "3",
			Title:        "Calorie Crusher",
			Description:  "Burn 2000 calories in 10 days",
			Type:         fitness.ChallengeCalories,
			Target:       2000,
			BonusPoints:  600,
			Duration:     10,
			StartDate:    now,
			EndDate:      days(10),
			Participants: []string{},
			IsActive:     true,
			CreatedBy:    "system",
		},
	}
}

func DefaultRewards() []fitness.Reward {
	return []fitness.Reward{
		{
			ID:          "1",
			Name:        "Premium Theme",
			Description: "Unlock exclusive app themes",
			PointsCost:  1000,
			Type:        fitness.RewardPremium,
			Category:    "Customization",
		},
		{
			ID:          "2",
			Name:        "Workout Playlist",
			Description: "Access to premium workout music",
			PointsCost:  500,
			Type:        fitness.RewardVirtual,
			Category:    "Entertainment",
		},
		{
			ID:          "3",
			Name:        "Gym Discount",
			Description: "20% off at partner gyms",
			PointsCost:  2000,
			Type:        fitness.RewardDiscount,
			Category:    "Fitness",
		},
		{
			ID:          "4",
			Name:        "Personal Trainer Session",
			Description: "Free 1-hour session with certified trainer",
			PointsCost:  3000,
			Type:        fitness.RewardPremium,
			Category:    "Fitness",
		},
	}
}
