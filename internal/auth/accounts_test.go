package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/2beens/fitgam/internal/auth"
	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/forms"
	"github.com/2beens/fitgam/internal/store"
	"github.com/2beens/fitgam/internal/telemetry/metrics"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeSessions struct {
	mutex  sync.Mutex
	active map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{active: map[string]string{}}
}

func (s *fakeSessions) Login(_ context.Context, userID string, _ time.Time) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	token := gofakeit.LetterN(10)
	s.active[token] = userID
	return token, nil
}

func (s *fakeSessions) Logout(_ context.Context, token string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, ok := s.active[token]
	delete(s.active, token)
	return ok, nil
}

type fixedRand float64

func (r fixedRand) Float64() float64 {
	return float64(r)
}

type accountsEnv struct {
	store    *store.Store
	sessions *fakeSessions
	metrics  *metrics.Manager
	accounts *auth.Accounts
}

func newAccountsEnv(t *testing.T, delay time.Duration) *accountsEnv {
	t.Helper()
	now := time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)
	verifier := auth.BcryptVerifier{Cost: bcrypt.MinCost}
	demoHash, err := verifier.Hash("demopass")
	require.NoError(t, err)

	env := &accountsEnv{
		metrics:  metrics.NewTestManager(),
		sessions: newFakeSessions(),
	}
	env.store = store.New(store.NewMemoryKV(), env.metrics)
	require.NoError(t, env.store.Seed(context.Background(), store.SeedParams{Now: now, DemoPasswordHash: demoHash}))
	env.accounts = auth.NewAccounts(auth.NewAccountsParams{
		Store:    env.store,
		Verifier: verifier,
		Sessions: env.sessions,
		Metrics:  env.metrics,
		Delay:    delay,
		Rand:     fixedRand(0.9),
		Now:      func() time.Time { return now },
	})
	return env
}

func signupForm() forms.SignupForm {
	return forms.SignupForm{
		Name:                "Ana Runner",
		Email:               " Ana@Example.com ",
		Password:            "secret1",
		ConfirmPassword:     "secret1",
		Age:                 31,
		Weight:              62,
		Height:              170,
		FitnessGoals:        []string{"Endurance"},
		ActivityPreferences: []string{"Running"},
	}
}

func TestAccounts_Signup(t *testing.T) {
	ctx := context.Background()
	env := newAccountsEnv(t, 0)

	session, err := env.accounts.Signup(ctx, signupForm())
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, session.User.ID, env.sessions.active[session.Token])

	user := session.User
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana Runner", user.Name)
	assert.Equal(t, 0, user.Points)
	assert.Equal(t, 1, user.Level)
	assert.Empty(t, user.Badges)
	assert.Nil(t, user.LastWorkoutDate)

	stored := env.store.FindUserByEmail(ctx, "ana@example.com")
	require.NotNil(t, stored)
	assert.Equal(t, user.ID, stored.ID)
	hash, ok := env.store.CredentialHash(ctx, user.ID)
	require.True(t, ok)
	assert.NotEqual(t, "secret1", hash)

	current := env.store.CurrentUser(ctx)
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.CounterSignups))
}

func TestAccounts_Signup_EmailTaken(t *testing.T) {
	ctx := context.Background()
	env := newAccountsEnv(t, 0)

	form := signupForm()
	form.Email = "DEMO@fitgam.app"
	_, err := env.accounts.Signup(ctx, form)
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	assert.Len(t, env.store.Users(ctx), 1)
	assert.Nil(t, env.store.CurrentUser(ctx))
	assert.Empty(t, env.sessions.active)
}

func TestAccounts_Signup_Invalid(t *testing.T) {
	ctx := context.Background()
	env := newAccountsEnv(t, 0)

	form := signupForm()
	form.ConfirmPassword = "other"
	form.Age = 5
	_, err := env.accounts.Signup(ctx, form)
	var fieldErrors forms.FieldErrors
	require.ErrorAs(t, err, &fieldErrors)
	assert.Contains(t, fieldErrors, "confirmPassword")
	assert.Contains(t, fieldErrors, "age")
	assert.Len(t, env.store.Users(ctx), 1)
}

func TestAccounts_Signup_Canceled(t *testing.T) {
	env := newAccountsEnv(t, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		_, err := env.accounts.Signup(ctx, signupForm())
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("signup was not abandoned")
	}
	assert.Len(t, env.store.Users(context.Background()), 1)
}

func TestAccounts_Login(t *testing.T) {
	ctx := context.Background()
	env := newAccountsEnv(t, time.Millisecond)

	session, err := env.accounts.Login(ctx, forms.LoginForm{Email: "Demo@FitGam.app", Password: "demopass"})
	require.NoError(t, err)
	assert.Equal(t, store.DemoUserID, session.User.ID)
	assert.Equal(t, store.DemoUserID, env.sessions.active[session.Token])
	require.NotNil(t, env.store.CurrentUser(ctx))

	_, err = env.accounts.Login(ctx, forms.LoginForm{Email: store.DemoUserEmail, Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = env.accounts.Login(ctx, forms.LoginForm{Email: "nobody@fitgam.app", Password: "demopass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	var fieldErrors forms.FieldErrors
	_, err = env.accounts.Login(ctx, forms.LoginForm{Email: "not-an-email"})
	assert.ErrorAs(t, err, &fieldErrors)

	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.CounterLogins.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.CounterLogins.WithLabelValues("wrong_password")))
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.CounterLogins.WithLabelValues("unknown")))
}

func TestAccounts_Logout(t *testing.T) {
	ctx := context.Background()
	env := newAccountsEnv(t, 0)

	session, err := env.accounts.Login(ctx, forms.LoginForm{Email: store.DemoUserEmail, Password: "demopass"})
	require.NoError(t, err)

	require.NoError(t, env.accounts.Logout(ctx, session.Token))
	assert.Nil(t, env.store.CurrentUser(ctx))
	assert.Empty(t, env.sessions.active)

	assert.ErrorIs(t, env.accounts.Logout(ctx, session.Token), auth.ErrNoSession)
}

func TestAccounts_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	env := newAccountsEnv(t, 0)

	demo := env.store.FindUserByID(ctx, store.DemoUserID)
	demo.Points = 1234
	demo.WorkoutStreak = 3
	require.NoError(t, env.store.UpdateUser(ctx, *demo))

	name := "Demo Lifter"
	age := 29
	updated, err := env.accounts.UpdateProfile(ctx, store.DemoUserID, forms.ProfileForm{
		Name:         &name,
		Age:          &age,
		FitnessGoals: []string{"Strength"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Demo Lifter", updated.Name)
	assert.Equal(t, 29, updated.Age)
	assert.Equal(t, []string{"Strength"}, updated.FitnessGoals)
	assert.Equal(t, 1234, updated.Points)
	assert.Equal(t, 3, updated.WorkoutStreak)

	stored, err := env.accounts.Me(ctx, store.DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, "Demo Lifter", stored.Name)
	assert.Equal(t, 175.0, stored.Height)

	badAge := 7
	_, err = env.accounts.UpdateProfile(ctx, store.DemoUserID, forms.ProfileForm{Age: &badAge})
	var fieldErrors forms.FieldErrors
	assert.ErrorAs(t, err, &fieldErrors)

	_, err = env.accounts.UpdateProfile(ctx, "nobody", forms.ProfileForm{Name: &name})
	assert.ErrorIs(t, err, fitness.ErrUserNotFound)
}

func TestAccounts_Motivation(t *testing.T) {
	ctx := context.Background()
	env := newAccountsEnv(t, 0)

	messages, err := env.accounts.Motivation(ctx, store.DemoUserID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	_, err = env.accounts.Motivation(ctx, "nobody")
	assert.True(t, errors.Is(err, fitness.ErrUserNotFound))
}
