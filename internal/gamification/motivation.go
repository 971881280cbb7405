package gamification

import (
	"fmt"

	"github.com/2beens/fitgam/internal/fitness"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const maxMotivationalMessages = 2

// Rand is the source of randomness for picking messages.
type Rand interface {
	Float64() float64
}

var numberPrinter = message.NewPrinter(language.English)

// MotivationalMessages keeps each of the user's stat messages with a probability
// of 1/2, and returns at most two of them.
func MotivationalMessages(user fitness.User, rnd Rand) []string {
	all := []string{
		fmt.Sprintf("You're on a %d-day streak! Keep it up!", user.WorkoutStreak),
		numberPrinter.Sprintf("You've burned %d calories total! Amazing!", user.TotalCaloriesBurned),
		fmt.Sprintf("Level %d achieved! You're unstoppable!", user.Level),
		fmt.Sprintf("%d workouts completed! You're building great habits!", user.TotalWorkouts),
		numberPrinter.Sprintf("%d points earned! Your dedication shows!", user.Points),
	}

	picked := make([]string, 0, maxMotivationalMessages)
	for _, msg := range all {
		if rnd.Float64() <= 0.5 {
			continue
		}
		picked = append(picked, msg)
		if len(picked) == maxMotivationalMessages {
			break
		}
	}
	return picked
}
