package challenges

import (
	"math"

	"github.com/2beens/fitgam/internal/fitness"
)

const completePercentage = 100

// Progress returns the user's completion of the challenge in percent, [0, 100].
// A persisted completion is sticky and wins over the workouts. Only the user's
// workouts dated within [StartDate, EndDate] count.
// A challenge without a positive target is always complete.
func Progress(
	userID string,
	challenge fitness.Challenge,
	workouts []fitness.Workout,
	records []fitness.UserProgress,
) float64 {
	for _, r := range records {
		if r.UserID == userID && r.ChallengeID == challenge.ID && r.Completed {
			return completePercentage
		}
	}

	if challenge.Target <= 0 {
		return completePercentage
	}

	var aggregate float64
	for _, w := range workouts {
		if w.UserID != userID {
			continue
		}
		if w.Date.Before(challenge.StartDate) || w.Date.After(challenge.EndDate) {
			continue
		}
		switch challenge.Type {
		case fitness.ChallengeFrequency:
			aggregate++
		case fitness.ChallengeDuration:
			aggregate += float64(w.Duration)
		case fitness.ChallengeDistance:
			aggregate += w.DistanceKm()
		case fitness.ChallengeCalories:
			aggregate += float64(w.CaloriesBurned)
		}
	}

	return math.Min(completePercentage, completePercentage*aggregate/challenge.Target)
}
