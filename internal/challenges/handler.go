package challenges

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitgam/internal/auth"
	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/forms"
	"github.com/2beens/fitgam/internal/telemetry/tracing"
	"github.com/2beens/fitgam/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=challenges_test

type service interface {
	List(ctx context.Context, userID string) (Listing, error)
	ProgressFor(ctx context.Context, userID, challengeID string) (float64, error)
	Join(ctx context.Context, userID, challengeID string) (View, error)
	Create(ctx context.Context, form forms.ChallengeForm, createdBy string) (fitness.Challenge, error)
}

type ProgressResponse struct {
	ChallengeID string  `json:"challengeId"`
	Progress    float64 `json:"progress"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	listing, err := h.service.List(ctx, userID)
	if err != nil {
		writeError(w, "list challenges", err)
		return
	}
	pkg.WriteJSON(w, listing, http.StatusOK)
}

func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.progress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	challengeID := mux.Vars(r)["id"]
	if challengeID == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	progress, err := h.service.ProgressFor(ctx, userID, challengeID)
	if err != nil {
		writeError(w, "challenge progress", err)
		return
	}
	pkg.WriteJSON(w, ProgressResponse{ChallengeID: challengeID, Progress: progress}, http.StatusOK)
}

func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.join")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	challengeID := mux.Vars(r)["id"]
	if challengeID == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	view, err := h.service.Join(ctx, userID, challengeID)
	if err != nil {
		writeError(w, "join challenge", err)
		return
	}
	log.Debugf("user %s joined challenge %s", userID, challengeID)
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var form forms.ChallengeForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Errorf("new challenge, unmarshal json params: %s", err)
		http.Error(w, "create challenge failed", http.StatusBadRequest)
		return
	}

	challenge, err := h.service.Create(ctx, form, userID)
	if err != nil {
		writeError(w, "create challenge", err)
		return
	}
	log.Debugf("new challenge created by %s: [%s] %s", userID, challenge.ID, challenge.Title)
	pkg.WriteJSON(w, challenge, http.StatusCreated)
}

func writeError(w http.ResponseWriter, op string, err error) {
	var fieldErrors forms.FieldErrors
	switch {
	case errors.As(err, &fieldErrors):
		pkg.WriteJSON(w, fieldErrors, http.StatusBadRequest)
	case errors.Is(err, ErrChallengeNotFound):
		http.Error(w, "challenge not found", http.StatusNotFound)
	case errors.Is(err, fitness.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrChallengeEnded):
		http.Error(w, "challenge ended", http.StatusConflict)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}
