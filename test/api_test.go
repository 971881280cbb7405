//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/fitgam/internal/auth"
	"github.com/2beens/fitgam/internal/forms"
	"github.com/2beens/fitgam/internal/store"
	"github.com/2beens/fitgam/internal/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLoginLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := s.loginDemo(ctx, t)
	assert.Equal(t, store.DemoUserID, session.User.ID)

	status, _ := s.doRequest(ctx, http.MethodGet, "/me", session.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := s.doRequest(ctx, http.MethodGet, "/a/logout", session.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "logged-out", string(body))

	status, _ = s.doRequest(ctx, http.MethodGet, "/me", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.doRequest(ctx, http.MethodPost, "/a/login", "", forms.LoginForm{
		Email:    store.DemoUserEmail,
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestSignup() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	password := gofakeit.Password(true, true, true, false, false, 10)
	form := forms.SignupForm{
		Name:                gofakeit.Name(),
		Email:               gofakeit.Email(),
		Password:            password,
		ConfirmPassword:     password,
		Age:                 30,
		Weight:              70,
		Height:              175,
		FitnessGoals:        []string{"Improve Endurance"},
		ActivityPreferences: []string{"Running"},
	}

	status, body := s.doRequest(ctx, http.MethodPost, "/a/signup", "", form)
	require.Equal(t, http.StatusCreated, status, string(body))
	var session auth.Session
	require.NoError(t, json.Unmarshal(body, &session))
	assert.Equal(t, 1, session.User.Level)
	assert.Equal(t, 0, session.User.Points)

	status, body = s.doRequest(ctx, http.MethodPost, "/a/signup", "", form)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "Email is already registered")

	var usersJSON string
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT value::text FROM kv_store WHERE key = $1`, store.KeyUsers,
	).Scan(&usersJSON))
	assert.Contains(t, usersJSON, session.User.ID)
}

func (s *IntegrationTestSuite) TestLogWorkout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := s.loginDemo(ctx, t)

	status, body := s.doRequest(ctx, http.MethodPost, "/workouts", session.Token, forms.WorkoutForm{
		Type:           "running",
		Duration:       30,
		CaloriesBurned: 300,
		IntensityLevel: 4,
		Date:           time.Now().UTC().Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var result workouts.LogResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Positive(t, result.PointsEarned)
	assert.NotEmpty(t, result.Workout.ID)

	status, body = s.doRequest(ctx, http.MethodGet, "/dashboard", session.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var summary workouts.Summary
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.GreaterOrEqual(t, summary.TotalWorkouts, 1)
	assert.GreaterOrEqual(t, summary.Points, result.PointsEarned)

	status, _ = s.doRequest(ctx, http.MethodDelete, "/workouts/"+result.Workout.ID, session.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.doRequest(ctx, http.MethodDelete, "/workouts/"+result.Workout.ID, session.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestRedeemWithoutPoints() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := s.loginDemo(ctx, t)

	// the personal trainer session costs more than any single test earns
	status, body := s.doRequest(ctx, http.MethodPost, "/rewards/4/redeem", session.Token, nil)
	assert.Equal(t, http.StatusConflict, status, string(body))
	assert.Contains(t, string(body), "missingPoints")

	status, _ = s.doRequest(ctx, http.MethodPost, "/rewards/nope/redeem", session.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestPublicEndpoints() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, path := range []string{"/", "/leaderboard", "/leaderboard/points", "/rewards", "/schemas/signup"} {
		status, _ := s.doRequest(ctx, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, status, path)
	}

	status, _ := s.doRequest(ctx, http.MethodGet, "/workouts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
