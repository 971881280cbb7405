package challenges

import (
	"context"
	"errors"
	"fmt"
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

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeEnded    = errors.New("challenge is no longer active")
)

// View is a challenge together with the user's progress in it.
type View struct {
	fitness.Challenge
	Progress float64 `json:"progress"`
}

type Listing struct {
	Available []View `json:"available"`
	Joined    []View `json:"joined"`
	Completed []View `json:"completed"`
}

type Service struct {
	store     *store.Store
	publisher events.Publisher
	metrics   *metrics.Manager
	now       func() time.Time
}

type NewServiceParams struct {
	Store     *store.Store
	Publisher events.Publisher
	Metrics   *metrics.Manager
	// Now defaults to time.Now
	Now func() time.Time
}

func NewService(params NewServiceParams) *Service {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	publisher := params.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		store:     params.Store,
		publisher: publisher,
		metrics:   params.Metrics,
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

// List splits the challenges into available (running, not joined, not complete),
// joined (running, joined, not complete) and completed (joined, complete).
func (s *Service) List(ctx context.Context, userID string) (_ Listing, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenges.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.user(ctx, userID); err != nil {
		return Listing{}, err
	}

	now := s.now()
	workouts := s.store.WorkoutsByUser(ctx, userID)
	records := s.store.UserProgress(ctx)

	listing := Listing{
		Available: []View{},
		Joined:    []View{},
		Completed: []View{},
	}
	for _, c := range s.store.Challenges(ctx) {
		view := View{
			Challenge: c,
			Progress:  Progress(userID, c, workouts, records),
		}
		joined := c.HasParticipant(userID)
		complete := view.Progress >= completePercentage
		switch {
		case joined && complete:
			listing.Completed = append(listing.Completed, view)
		case !c.Running(now) || complete:
			// ended, or complete without joining
		case joined:
			listing.Joined = append(listing.Joined, view)
		default:
			listing.Available = append(listing.Available, view)
		}
	}
	return listing, nil
}

// ProgressFor returns the user's progress in one challenge.
func (s *Service) ProgressFor(ctx context.Context, userID, challengeID string) (_ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenges.progress")
	span.SetAttributes(attribute.String("challenge", challengeID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	challenge := s.store.FindChallenge(ctx, challengeID)
	if challenge == nil {
		return 0, ErrChallengeNotFound
	}
	return Progress(userID, *challenge, s.store.WorkoutsByUser(ctx, userID), s.store.UserProgress(ctx)), nil
}

// Join adds the user to the challenge participants, and the challenge to the
// user's joined challenges. Joining twice is a no-op.
func (s *Service) Join(ctx context.Context, userID, challengeID string) (_ View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenges.join")
	span.SetAttributes(attribute.String("challenge", challengeID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var joined fitness.Challenge
	err = s.store.Atomically(func() error {
		user, err := s.user(ctx, userID)
		if err != nil {
			return err
		}
		challenge := s.store.FindChallenge(ctx, challengeID)
		if challenge == nil {
			return ErrChallengeNotFound
		}

		alreadyJoined := challenge.HasParticipant(userID) && user.HasJoined(challengeID)
		if !alreadyJoined && !challenge.Running(s.now()) {
			return ErrChallengeEnded
		}

		if !challenge.HasParticipant(userID) {
			challenge.Participants = append(challenge.Participants, userID)
			if _, err := s.store.UpdateChallenge(ctx, *challenge); err != nil {
				log.Errorf("join challenge %s, user %s: %s", challengeID, userID, err)
			}
		}
		if !user.HasJoined(challengeID) {
			user.JoinedChallenges = append(user.JoinedChallenges, challengeID)
			if err := s.store.UpdateUser(ctx, *user); err != nil {
				log.Errorf("join challenge %s, user %s: %s", challengeID, userID, err)
			}
		}
		if !alreadyJoined && s.metrics != nil {
			s.metrics.CounterChallengesJoined.Inc()
		}

		joined = *challenge
		return s.syncProgress(ctx, user)
	})
	if err != nil {
		return View{}, err
	}

	return View{
		Challenge: joined,
		Progress:  Progress(userID, joined, s.store.WorkoutsByUser(ctx, userID), s.store.UserProgress(ctx)),
	}, nil
}

// SyncProgress persists the user's progress in every joined challenge. The first time
// a challenge is completed its bonus points are awarded and the user is notified.
func (s *Service) SyncProgress(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenges.sync")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.store.Atomically(func() error {
		user, err := s.user(ctx, userID)
		if err != nil {
			return err
		}
		return s.syncProgress(ctx, user)
	})
}

// syncProgress expects the store operation lock to be held.
func (s *Service) syncProgress(ctx context.Context, user *fitness.User) error {
	if len(user.JoinedChallenges) == 0 {
		return nil
	}

	now := s.now()
	workouts := s.store.WorkoutsByUser(ctx, user.ID)
	records := s.store.UserProgress(ctx)

	updated := user.Clone()
	var notifications []fitness.Notification
	var completedEvents []events.Event
	for _, challengeID := range user.JoinedChallenges {
		challenge := s.store.FindChallenge(ctx, challengeID)
		if challenge == nil {
			continue
		}

		wasCompleted := false
		for _, r := range records {
			if r.UserID == user.ID && r.ChallengeID == challengeID {
				wasCompleted = r.Completed
				break
			}
		}

		progress := Progress(user.ID, *challenge, workouts, records)
		record, err := s.store.UpsertUserProgress(ctx, user.ID, challengeID, progress, now)
		if err != nil {
			log.Errorf("sync progress, user %s, challenge %s: %s", user.ID, challengeID, err)
			continue
		}
		if wasCompleted || !record.Completed {
			continue
		}

		log.Debugf("user %s completed challenge %s, bonus: %d", user.ID, challengeID, challenge.BonusPoints)
		levelBefore := updated.Level
		updated.Points += challenge.BonusPoints
		updated.Level = gamification.CalculateLevel(updated.Points)

		notifications = append(notifications, fitness.Notification{
			ID:        fmt.Sprintf("challenge_complete_%s_%d", challengeID, now.UnixMilli()),
			UserID:    user.ID,
			Type:      fitness.NotificationChallengeComplete,
			Title:     "Challenge Complete!",
			Message:   fmt.Sprintf("You completed \"%s\" and earned %d bonus points!", challenge.Title, challenge.BonusPoints),
			IsRead:    false,
			CreatedAt: now,
		})
		if updated.Level > levelBefore {
			notifications = append(notifications, gamification.LevelUpNotification(user.ID, updated.Level, now))
			if s.metrics != nil {
				s.metrics.CounterLevelUps.Inc()
			}
		}
		completedEvents = append(completedEvents, events.New(events.TypeChallengeCompleted, user.ID, now, map[string]any{
			"challengeId": challengeID,
			"bonusPoints": challenge.BonusPoints,
		}))
		if s.metrics != nil {
			s.metrics.CounterChallengesCompleted.Inc()
			s.metrics.CounterPointsAwarded.Add(float64(challenge.BonusPoints))
		}
	}

	if len(notifications) == 0 {
		return nil
	}

	// bonus points can cross a points or level badge threshold
	newBadges := gamification.AwardBadges(&updated, gamification.Evaluate(updated, nil, now))
	for _, b := range newBadges {
		notifications = append(notifications, gamification.BadgeNotification(user.ID, b, now))
		completedEvents = append(completedEvents, events.New(events.TypeBadgeEarned, user.ID, now, map[string]any{
			"badgeId": b.ID,
		}))
		if s.metrics != nil {
			s.metrics.CounterBadgesAwarded.With(prometheus.Labels{"badge": b.ID}).Inc()
		}
	}

	if err := s.store.UpdateUser(ctx, updated); err != nil {
		log.Errorf("sync progress, award bonus to user %s: %s", user.ID, err)
	}
	if err := s.store.AddNotifications(ctx, notifications...); err != nil {
		log.Errorf("sync progress, notify user %s: %s", user.ID, err)
	}
	events.PublishAndLog(ctx, s.publisher, completedEvents...)
	*user = updated
	return nil
}

// Create authors a new challenge starting now.
func (s *Service) Create(ctx context.Context, form forms.ChallengeForm, createdBy string) (_ fitness.Challenge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenges.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if fieldErrors := form.Validate(); fieldErrors != nil {
		return fitness.Challenge{}, fieldErrors
	}
	challengeType, err := fitness.ParseChallengeType(form.Type)
	if err != nil {
		return fitness.Challenge{}, err
	}

	now := s.now()
	challenge := fitness.Challenge{
		ID:           uuid.NewString(),
		Title:        form.Title,
		Description:  form.Description,
		Type:         challengeType,
		Target:       form.Target,
		BonusPoints:  form.BonusPoints,
		Duration:     form.DurationDays,
		StartDate:    now,
		EndDate:      now.AddDate(0, 0, form.DurationDays),
		Participants: []string{},
		IsActive:     true,
		CreatedBy:    createdBy,
	}
	if err := s.store.AddChallenge(ctx, challenge); err != nil {
		log.Errorf("create challenge [%s]: %s", challenge.Title, err)
	}
	return challenge, nil
}
