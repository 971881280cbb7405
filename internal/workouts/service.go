package workouts

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fitgam/internal/events"
	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/forms"
	"github.com/2beens/fitgam/internal/gamification"
	"github.com/2beens/fitgam/internal/store"
	"github.com/2beens/fitgam/internal/telemetry/metrics"
	"github.com/2beens/fitgam/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	searchDateLayout = "Jan 02, 2006"
	recentLimit      = 5
	summaryWindow    = 7 * 24 * time.Hour
)

var ErrWorkoutNotFound = errors.New("workout not found")

// progressSyncer re-evaluates the user's challenge progress after a new workout.
type progressSyncer interface {
	SyncProgress(ctx context.Context, userID string) error
}

type Filter struct {
	Type   string
	Search string
}

// LogResult is what logging a workout caused.
type LogResult struct {
	Workout       fitness.Workout        `json:"workout"`
	User          fitness.User           `json:"user"`
	PointsEarned  int                    `json:"pointsEarned"`
	NewBadges     []fitness.Badge        `json:"newBadges"`
	Notifications []fitness.Notification `json:"notifications"`
	LeveledUp     bool                   `json:"leveledUp"`
}

type Summary struct {
	WeeklyWorkouts     int               `json:"weeklyWorkouts"`
	WeeklyCalories     int               `json:"weeklyCalories"`
	WeeklyDuration     int               `json:"weeklyDuration"`
	RecentWorkouts     []fitness.Workout `json:"recentWorkouts"`
	TotalWorkouts      int               `json:"totalWorkouts"`
	TotalCalories      int               `json:"totalCaloriesBurned"`
	WorkoutStreak      int               `json:"workoutStreak"`
	Points             int               `json:"points"`
	Level              int               `json:"level"`
	PointsForNextLevel int               `json:"pointsForNextLevel"`
	LevelProgress      float64           `json:"levelProgress"`
}

type Service struct {
	store     *store.Store
	syncer    progressSyncer
	publisher events.Publisher
	metrics   *metrics.Manager
	location  *time.Location
	now       func() time.Time
}

type NewServiceParams struct {
	Store *store.Store
	// Syncer is optional, challenge progress is not synced without it
	Syncer    progressSyncer
	Publisher events.Publisher
	Metrics   *metrics.Manager
	// Location is used for calendar dates, defaults to UTC
	Location *time.Location
	// Now defaults to time.Now
	Now func() time.Time
}

func NewService(params NewServiceParams) *Service {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	location := params.Location
	if location == nil {
		location = time.UTC
	}
	publisher := params.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		store:     params.Store,
		syncer:    params.Syncer,
		publisher: publisher,
		metrics:   params.Metrics,
		location:  location,
		now:       now,
	}
}

func (s *Service) user(ctx context.Context, userID string) (*fitness.User, error) {
	user := s.store.FindUserByID(ctx, userID)
	if user == nil {
		return nil, fitness.ErrUserNotFound
	}
	return user, nil
}

// Log records a new workout and applies it to the user: points, level, streak and badges.
func (s *Service) Log(ctx context.Context, userID string, form forms.WorkoutForm) (_ LogResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.log")
	span.SetAttributes(attribute.String("type", form.Type))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if fieldErrors := form.Validate(); fieldErrors != nil {
		return LogResult{}, fieldErrors
	}

	var result LogResult
	err = s.store.Atomically(func() error {
		user, err := s.user(ctx, userID)
		if err != nil {
			return err
		}

		now := s.now()
		workout, err := form.Workout(s.location)
		if err != nil {
			return err
		}
		workout.ID = uuid.NewString()
		workout.UserID = userID
		workout.CreatedAt = now

		if err := s.store.AddWorkout(ctx, workout); err != nil {
			log.Errorf("log workout, user %s: %s", userID, err)
		}

		res := gamification.ApplyWorkout(*user, workout, now, s.location)
		if err := s.store.UpdateUser(ctx, res.User); err != nil {
			log.Errorf("log workout, update user %s: %s", userID, err)
		}
		if len(res.Events) > 0 {
			if err := s.store.AddNotifications(ctx, res.Events...); err != nil {
				log.Errorf("log workout, notify user %s: %s", userID, err)
			}
		}

		s.record(res)
		s.publish(ctx, workout, res, now)

		result = LogResult{
			Workout:       workout,
			User:          res.User,
			PointsEarned:  res.Points,
			NewBadges:     res.NewBadges,
			Notifications: res.Events,
			LeveledUp:     res.LeveledUp,
		}
		if result.NewBadges == nil {
			result.NewBadges = []fitness.Badge{}
		}
		if result.Notifications == nil {
			result.Notifications = []fitness.Notification{}
		}
		return nil
	})
	if err != nil {
		return LogResult{}, err
	}

	if s.syncer != nil {
		if err := s.syncer.SyncProgress(ctx, userID); err != nil {
			log.Errorf("log workout, sync challenge progress for user %s: %s", userID, err)
		} else if synced := s.store.FindUserByID(ctx, userID); synced != nil {
			result.User = *synced
		}
	}

	log.Debugf("user %s logged workout %s: %d points", userID, result.Workout.ID, result.PointsEarned)
	return result, nil
}

func (s *Service) record(res gamification.Result) {
	if s.metrics == nil {
		return
	}
	s.metrics.CounterWorkoutsLogged.Inc()
	s.metrics.CounterPointsAwarded.Add(float64(res.Points))
	for _, b := range res.NewBadges {
		s.metrics.CounterBadgesAwarded.With(prometheus.Labels{"badge": b.ID}).Inc()
	}
	if res.LeveledUp {
		s.metrics.CounterLevelUps.Inc()
	}
	if res.StreakReset > 0 {
		s.metrics.CounterStreakResets.Inc()
	}
}

func (s *Service) publish(ctx context.Context, workout fitness.Workout, res gamification.Result, now time.Time) {
	toPublish := []events.Event{
		events.New(events.TypeWorkoutLogged, workout.UserID, now, map[string]any{
			"workoutId": workout.ID,
			"type":      workout.Type,
			"points":    res.Points,
		}),
	}
	for _, b := range res.NewBadges {
		toPublish = append(toPublish, events.New(events.TypeBadgeEarned, workout.UserID, now, map[string]any{
			"badgeId": b.ID,
			"name":    b.Name,
		}))
	}
	if res.LeveledUp {
		toPublish = append(toPublish, events.New(events.TypeLevelUp, workout.UserID, now, map[string]any{
			"level": res.User.Level,
		}))
	}
	events.PublishAndLog(ctx, s.publisher, toPublish...)
}

// List returns the user's workouts, newest first.
func (s *Service) List(ctx context.Context, userID string, filter Filter) (_ []fitness.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := []fitness.Workout{}
	for _, w := range s.store.WorkoutsByUser(ctx, userID) {
		if filter.Type != "" && filter.Type != "all" && string(w.Type) != filter.Type {
			continue
		}
		if search != "" && !s.matches(w, search) {
			continue
		}
		result = append(result, w)
	}
	sortNewestFirst(result)
	return result, nil
}

func (s *Service) matches(w fitness.Workout, search string) bool {
	if strings.Contains(strings.ToLower(string(w.Type)), search) {
		return true
	}
	date := strings.ToLower(w.Date.In(s.location).Format(searchDateLayout))
	return strings.Contains(date, search)
}

func sortNewestFirst(workouts []fitness.Workout) {
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})
}

// Update overwrites the workout fields. Points, streak and badges are not re-evaluated.
func (s *Service) Update(ctx context.Context, userID, id string, form forms.WorkoutForm) (_ fitness.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.update")
	span.SetAttributes(attribute.String("workout", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if fieldErrors := form.Validate(); fieldErrors != nil {
		return fitness.Workout{}, fieldErrors
	}

	var updated fitness.Workout
	err = s.store.Atomically(func() error {
		existing := s.store.FindWorkout(ctx, id)
		if existing == nil || existing.UserID != userID {
			return ErrWorkoutNotFound
		}

		workout, err := form.Workout(s.location)
		if err != nil {
			return err
		}
		workout.ID = existing.ID
		workout.UserID = existing.UserID
		workout.CreatedAt = existing.CreatedAt

		if _, err := s.store.UpdateWorkout(ctx, workout); err != nil {
			log.Errorf("update workout %s: %s", id, err)
		}
		updated = workout
		return nil
	})
	return updated, err
}

func (s *Service) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.delete")
	span.SetAttributes(attribute.String("workout", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.store.Atomically(func() error {
		existing := s.store.FindWorkout(ctx, id)
		if existing == nil || existing.UserID != userID {
			return ErrWorkoutNotFound
		}
		if _, err := s.store.DeleteWorkout(ctx, id); err != nil {
			log.Errorf("delete workout %s: %s", id, err)
		}
		return nil
	})
}

// Summary aggregates the dashboard stats: the last 7 days and the all time totals.
func (s *Service) Summary(ctx context.Context, userID string) (_ Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := s.user(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	weekAgo := s.now().Add(-summaryWindow)
	weekly := []fitness.Workout{}
	for _, w := range s.store.WorkoutsByUser(ctx, userID) {
		if w.Date.Before(weekAgo) {
			continue
		}
		weekly = append(weekly, w)
	}
	sortNewestFirst(weekly)

	summary := Summary{
		WeeklyWorkouts:     len(weekly),
		TotalWorkouts:      user.TotalWorkouts,
		TotalCalories:      user.TotalCaloriesBurned,
		WorkoutStreak:      user.WorkoutStreak,
		Points:             user.Points,
		Level:              user.Level,
		PointsForNextLevel: gamification.PointsForNextLevel(user.Points),
		LevelProgress:      gamification.LevelProgress(user.Points),
	}
	for _, w := range weekly {
		summary.WeeklyCalories += w.CaloriesBurned
		summary.WeeklyDuration += w.Duration
	}
	if len(weekly) > recentLimit {
		weekly = weekly[:recentLimit]
	}
	summary.RecentWorkouts = weekly

	return summary, nil
}
