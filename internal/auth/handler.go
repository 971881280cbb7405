package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/forms"
	"github.com/2beens/fitgam/internal/telemetry/tracing"
	"github.com/2beens/fitgam/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

const TokenHeader = "X-FITGAM-TOKEN"

type accounts interface {
	Signup(ctx context.Context, form forms.SignupForm) (Session, error)
	Login(ctx context.Context, form forms.LoginForm) (Session, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, userID string) (fitness.User, error)
	UpdateProfile(ctx context.Context, userID string, form forms.ProfileForm) (fitness.User, error)
	Motivation(ctx context.Context, userID string) ([]string, error)
}

type Handler struct {
	accounts accounts
}

func NewHandler(accounts accounts) *Handler {
	return &Handler{
		accounts: accounts,
	}
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.signup")
	defer span.End()

	var form forms.SignupForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Errorf("signup, unmarshal json params: %s", err)
		http.Error(w, "signup failed", http.StatusBadRequest)
		return
	}

	session, err := h.accounts.Signup(ctx, form)
	if err != nil {
		writeError(w, "signup", err)
		return
	}
	pkg.WriteJSON(w, session, http.StatusCreated)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var form forms.LoginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Errorf("login, unmarshal json params: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	session, err := h.accounts.Login(ctx, form)
	if err != nil {
		writeError(w, "login", err)
		return
	}
	pkg.WriteJSON(w, session, http.StatusOK)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	token := r.Header.Get(TokenHeader)
	if token == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := h.accounts.Logout(ctx, token); err != nil {
		if errors.Is(err, ErrNoSession) {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		log.Errorf("logout: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.me")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := h.accounts.Me(ctx, userID)
	if err != nil {
		writeError(w, "get user", err)
		return
	}
	pkg.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.update_profile")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var form forms.ProfileForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Errorf("update profile, unmarshal json params: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}

	user, err := h.accounts.UpdateProfile(ctx, userID, form)
	if err != nil {
		writeError(w, "update profile", err)
		return
	}
	pkg.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) HandleMotivation(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.motivation")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	messages, err := h.accounts.Motivation(ctx, userID)
	if err != nil {
		writeError(w, "motivation", err)
		return
	}
	pkg.WriteJSON(w, messages, http.StatusOK)
}

func writeError(w http.ResponseWriter, op string, err error) {
	var fieldErrors forms.FieldErrors
	switch {
	case errors.As(err, &fieldErrors):
		pkg.WriteJSON(w, fieldErrors, http.StatusBadRequest)
	case errors.Is(err, ErrEmailTaken):
		pkg.WriteJSON(w, forms.FieldErrors{"email": "Email is already registered"}, http.StatusConflict)
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, fitness.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debugf("%s abandoned: %s", op, err)
		http.Error(w, op+" canceled", http.StatusServiceUnavailable)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}
