package auth

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/2beens/fitgam/internal/events"
	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/forms"
	"github.com/2beens/fitgam/internal/gamification"
	"github.com/2beens/fitgam/internal/store"
	"github.com/2beens/fitgam/internal/telemetry/metrics"
	"github.com/2beens/fitgam/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type sessions interface {
	Login(ctx context.Context, userID string, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

// Session is what a successful signup or login returns.
type Session struct {
	Token string       `json:"token"`
	User  fitness.User `json:"user"`
}

type globalRand struct{}

func (globalRand) Float64() float64 {
	return rand.Float64()
}

type Accounts struct {
	store     *store.Store
	verifier  CredentialVerifier
	sessions  sessions
	publisher events.Publisher
	metrics   *metrics.Manager
	delay     time.Duration
	rand      gamification.Rand
	now       func() time.Time
}

type NewAccountsParams struct {
	Store     *store.Store
	Verifier  CredentialVerifier
	Sessions  sessions
	Publisher events.Publisher
	Metrics   *metrics.Manager
	// Delay simulates the round trip of a remote auth provider
	Delay time.Duration
	// Rand defaults to math/rand/v2
	Rand gamification.Rand
	// Now defaults to time.Now
	Now func() time.Time
}

func NewAccounts(params NewAccountsParams) *Accounts {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	publisher := params.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	rnd := params.Rand
	if rnd == nil {
		rnd = globalRand{}
	}
	verifier := params.Verifier
	if verifier == nil {
		verifier = BcryptVerifier{}
	}
	return &Accounts{
		store:     params.Store,
		verifier:  verifier,
		sessions:  params.Sessions,
		publisher: publisher,
		metrics:   params.Metrics,
		delay:     params.Delay,
		rand:      rnd,
		now:       now,
	}
}

// wait blocks for the configured delay, a canceled ctx abandons the operation.
func (a *Accounts) wait(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (a *Accounts) Signup(ctx context.Context, form forms.SignupForm) (_ Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.signup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	form.Normalize()
	if fieldErrors := form.Validate(); fieldErrors != nil {
		return Session{}, fieldErrors
	}
	if err := a.wait(ctx); err != nil {
		return Session{}, err
	}

	hash, err := a.verifier.Hash(form.Password)
	if err != nil {
		return Session{}, err
	}

	now := a.now()
	user := fitness.User{
		ID:                  uuid.NewString(),
		Email:               form.Email,
		Name:                form.Name,
		Age:                 form.Age,
		Weight:              form.Weight,
		Height:              form.Height,
		FitnessGoals:        append([]string{}, form.FitnessGoals...),
		ActivityPreferences: append([]string{}, form.ActivityPreferences...),
		Points:              0,
		Level:               1,
		Badges:              []fitness.Badge{},
		JoinedChallenges:    []string{},
		Friends:             []string{},
		CreatedAt:           now,
	}

	err = a.store.Atomically(func() error {
		if a.store.FindUserByEmail(ctx, form.Email) != nil {
			return ErrEmailTaken
		}
		if err := a.store.AddUser(ctx, user); err != nil {
			log.Errorf("signup [%s]: %s", form.Email, err)
		}
		if err := a.store.SetCredentialHash(ctx, user.ID, hash); err != nil {
			log.Errorf("signup [%s], store credential: %s", form.Email, err)
		}
		if err := a.store.SetCurrentUser(ctx, &user); err != nil {
			log.Errorf("signup [%s], set current user: %s", form.Email, err)
		}
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	token, err := a.sessions.Login(ctx, user.ID, now)
	if err != nil {
		return Session{}, err
	}

	if a.metrics != nil {
		a.metrics.CounterSignups.Inc()
	}
	events.PublishAndLog(ctx, a.publisher, events.New(events.TypeUserSignedUp, user.ID, now, map[string]any{
		"name": user.Name,
	}))
	log.Debugf("new user signed up: %s [%s]", user.ID, user.Email)

	return Session{Token: token, User: user}, nil
}

func (a *Accounts) Login(ctx context.Context, form forms.LoginForm) (_ Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	form.Normalize()
	if fieldErrors := form.Validate(); fieldErrors != nil {
		return Session{}, fieldErrors
	}
	if err := a.wait(ctx); err != nil {
		return Session{}, err
	}

	user := a.store.FindUserByEmail(ctx, form.Email)
	if user == nil {
		a.countLogin("unknown")
		return Session{}, ErrInvalidCredentials
	}
	hash, _ := a.store.CredentialHash(ctx, user.ID)
	if !a.verifier.Verify(form.Password, hash) {
		a.countLogin("wrong_password")
		return Session{}, ErrInvalidCredentials
	}

	if err := a.store.SetCurrentUser(ctx, user); err != nil {
		log.Errorf("login [%s], set current user: %s", user.ID, err)
	}
	token, err := a.sessions.Login(ctx, user.ID, a.now())
	if err != nil {
		return Session{}, err
	}
	a.countLogin("ok")

	return Session{Token: token, User: *user}, nil
}

func (a *Accounts) countLogin(result string) {
	if a.metrics != nil {
		a.metrics.CounterLogins.WithLabelValues(result).Inc()
	}
}

// Logout ends the session and clears the current user.
func (a *Accounts) Logout(ctx context.Context, token string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.logout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	existed, err := a.sessions.Logout(ctx, token)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNoSession
	}
	if err := a.store.SetCurrentUser(ctx, nil); err != nil {
		log.Errorf("logout, clear current user: %s", err)
	}
	return nil
}

func (a *Accounts) Me(ctx context.Context, userID string) (fitness.User, error) {
	user := a.store.FindUserByID(ctx, userID)
	if user == nil {
		return fitness.User{}, fitness.ErrUserNotFound
	}
	return *user, nil
}

// UpdateProfile changes the profile fields, stats are never touched.
func (a *Accounts) UpdateProfile(ctx context.Context, userID string, form forms.ProfileForm) (_ fitness.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.update_profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if fieldErrors := form.Validate(); fieldErrors != nil {
		return fitness.User{}, fieldErrors
	}

	var updated fitness.User
	err = a.store.Atomically(func() error {
		user := a.store.FindUserByID(ctx, userID)
		if user == nil {
			return fitness.ErrUserNotFound
		}
		form.Apply(user)
		if err := a.store.UpdateUser(ctx, *user); err != nil {
			log.Errorf("update profile, user %s: %s", userID, err)
		}
		updated = *user
		return nil
	})
	return updated, err
}

// Motivation picks up to two motivational messages for the user.
func (a *Accounts) Motivation(ctx context.Context, userID string) ([]string, error) {
	user, err := a.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	messages := gamification.MotivationalMessages(user, a.rand)
	if messages == nil {
		messages = []string{}
	}
	return messages, nil
}
