package forms

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fitgam/internal/fitness"
)

// FieldErrors maps a form field (json name) to its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe[field]))
	}
	return "invalid form: " + strings.Join(parts, ", ")
}

func (fe FieldErrors) add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

func (fe FieldErrors) orNil() FieldErrors {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// MarshalJSON renders the errors as {"errors": {...}}.
func (fe FieldErrors) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Errors map[string]string `json:"errors"`
	}{Errors: fe})
}

type SignupForm struct {
	Name                string   `json:"name" validate:"trimmin=2" jsonschema:"minLength=2" jsonschema_description:"Display name"`
	Email               string   `json:"email" validate:"required,email" jsonschema:"format=email"`
	Password            string   `json:"password" validate:"min=6" jsonschema:"minLength=6"`
	ConfirmPassword     string   `json:"confirmPassword" validate:"eqfield=Password"`
	Age                 int      `json:"age" validate:"gte=13,lte=120" jsonschema:"minimum=13,maximum=120"`
	Weight              float64  `json:"weight" validate:"gte=30,lte=500" jsonschema:"minimum=30,maximum=500" jsonschema_description:"Weight in kg"`
	Height              float64  `json:"height" validate:"gte=100,lte=250" jsonschema:"minimum=100,maximum=250" jsonschema_description:"Height in cm"`
	FitnessGoals        []string `json:"fitnessGoals" validate:"min=1" jsonschema:"minItems=1"`
	ActivityPreferences []string `json:"activityPreferences" validate:"min=1" jsonschema:"minItems=1"`
}

var signupMessages = map[string]string{
	"name":                "Name must be at least 2 characters",
	"email":               "Invalid email address",
	"password":            "Password must be at least 6 characters",
	"confirmPassword":     "Passwords don't match",
	"age":                 "Age must be between 13 and 120",
	"weight":              "Weight must be between 30 and 500 kg",
	"height":              "Height must be between 100 and 250 cm",
	"fitnessGoals":        "Select at least one fitness goal",
	"activityPreferences": "Select at least one activity preference",
}

func (f *SignupForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

func (f SignupForm) Validate() FieldErrors {
	return validateForm(f, signupMessages)
}

type LoginForm struct {
	Email    string `json:"email" validate:"required,email" jsonschema:"format=email"`
	Password string `json:"password" validate:"required" jsonschema:"minLength=1"`
}

var loginMessages = map[string]string{
	"email":    "Invalid email address",
	"password": "Password is required",
}

func (f *LoginForm) Normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

func (f LoginForm) Validate() FieldErrors {
	return validateForm(f, loginMessages)
}

var workoutDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

type WorkoutForm struct {
	Type           string   `json:"type" validate:"workout_type" jsonschema:"enum=running,enum=cycling,enum=gym,enum=yoga,enum=swimming,enum=walking,enum=basketball,enum=football,enum=tennis,enum=other"`
	Duration       int      `json:"duration" validate:"gte=1,lte=600" jsonschema:"minimum=1,maximum=600" jsonschema_description:"Duration in minutes"`
	Distance       *float64 `json:"distance,omitempty" validate:"omitempty,gte=0" jsonschema:"minimum=0" jsonschema_description:"Distance in km"`
	CaloriesBurned int      `json:"caloriesBurned" validate:"gte=1,lte=5000" jsonschema:"minimum=1,maximum=5000"`
	IntensityLevel int      `json:"intensityLevel" validate:"gte=1,lte=5" jsonschema:"minimum=1,maximum=5"`
	Date           string   `json:"date" validate:"notblank,workout_date" jsonschema:"minLength=1" jsonschema_description:"RFC3339 timestamp or YYYY-MM-DD"`
}

var workoutMessages = map[string]string{
	"type":           "Select a workout type",
	"duration":       "Duration must be between 1 and 600 minutes",
	"distance":       "Distance cannot be negative",
	"caloriesBurned": "Calories must be between 1 and 5000",
	"intensityLevel": "Intensity must be between 1 and 5",
	"date.notblank":  "Date is required",
	"date":           "Invalid date",
}

// ParseDate parses the workout date, dates without a zone are taken in loc.
func (f WorkoutForm) ParseDate(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	date := strings.TrimSpace(f.Date)
	for _, layout := range workoutDateLayouts {
		if t, err := time.ParseInLocation(layout, date, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", f.Date)
}

func (f WorkoutForm) Validate() FieldErrors {
	return validateForm(f, workoutMessages)
}

// Workout builds a workout from an already validated form.
func (f WorkoutForm) Workout(loc *time.Location) (fitness.Workout, error) {
	workoutType, err := fitness.ParseWorkoutType(f.Type)
	if err != nil {
		return fitness.Workout{}, err
	}
	date, err := f.ParseDate(loc)
	if err != nil {
		return fitness.Workout{}, err
	}

	w := fitness.Workout{
		Type:           workoutType,
		Duration:       f.Duration,
		CaloriesBurned: f.CaloriesBurned,
		IntensityLevel: f.IntensityLevel,
		Date:           date,
	}
	// distance only kept for types that track it
	if f.Distance != nil && workoutType.TracksDistance() {
		distance := *f.Distance
		w.Distance = &distance
	}
	return w, nil
}

// ProfileForm is a partial update, nil fields are left unchanged.
type ProfileForm struct {
	Name                *string  `json:"name,omitempty" validate:"omitempty,trimmin=2" jsonschema:"minLength=2"`
	ProfilePicture      *string  `json:"profilePicture,omitempty"`
	Age                 *int     `json:"age,omitempty" validate:"omitempty,gte=13,lte=120" jsonschema:"minimum=13,maximum=120"`
	Weight              *float64 `json:"weight,omitempty" validate:"omitempty,gte=30,lte=500" jsonschema:"minimum=30,maximum=500"`
	Height              *float64 `json:"height,omitempty" validate:"omitempty,gte=100,lte=250" jsonschema:"minimum=100,maximum=250"`
	FitnessGoals        []string `json:"fitnessGoals,omitempty"`
	ActivityPreferences []string `json:"activityPreferences,omitempty"`
}

func (f ProfileForm) Validate() FieldErrors {
	return validateForm(f, signupMessages)
}

// Apply merges the provided fields into user. Stats are never touched.
func (f ProfileForm) Apply(user *fitness.User) {
	if f.Name != nil {
		user.Name = strings.TrimSpace(*f.Name)
	}
	if f.ProfilePicture != nil {
		user.ProfilePicture = *f.ProfilePicture
	}
	if f.Age != nil {
		user.Age = *f.Age
	}
	if f.Weight != nil {
		user.Weight = *f.Weight
	}
	if f.Height != nil {
		user.Height = *f.Height
	}
	if f.FitnessGoals != nil {
		user.FitnessGoals = append([]string{}, f.FitnessGoals...)
	}
	if f.ActivityPreferences != nil {
		user.ActivityPreferences = append([]string{}, f.ActivityPreferences...)
	}
}

type ChallengeForm struct {
	Title        string  `json:"title" validate:"trimmin=3" jsonschema:"minLength=3"`
	Description  string  `json:"description"`
	Type         string  `json:"type" validate:"challenge_type" jsonschema:"enum=distance,enum=duration,enum=frequency,enum=calories"`
	Target       float64 `json:"target" validate:"gt=0" jsonschema:"exclusiveMinimum=0"`
	DurationDays int     `json:"duration" validate:"gte=1" jsonschema:"minimum=1" jsonschema_description:"Challenge length in days"`
	BonusPoints  int     `json:"bonusPoints" validate:"gte=0" jsonschema:"minimum=0"`
}

var challengeMessages = map[string]string{
	"title":       "Title must be at least 3 characters",
	"type":        "Select a challenge type",
	"target":      "Target must be greater than 0",
	"duration":    "Duration must be at least 1 day",
	"bonusPoints": "Bonus points cannot be negative",
}

func (f ChallengeForm) Validate() FieldErrors {
	return validateForm(f, challengeMessages)
}
