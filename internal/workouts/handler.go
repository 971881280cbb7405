package workouts

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

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type service interface {
	Log(ctx context.Context, userID string, form forms.WorkoutForm) (LogResult, error)
	List(ctx context.Context, userID string, filter Filter) ([]fitness.Workout, error)
	Update(ctx context.Context, userID, id string, form forms.WorkoutForm) (fitness.Workout, error)
	Delete(ctx context.Context, userID, id string) error
	Summary(ctx context.Context, userID string) (Summary, error)
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
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	filter := Filter{
		Type:   r.URL.Query().Get("type"),
		Search: r.URL.Query().Get("q"),
	}
	workouts, err := h.service.List(ctx, userID, filter)
	if err != nil {
		writeError(w, "list workouts", err)
		return
	}
	pkg.WriteJSON(w, workouts, http.StatusOK)
}

func (h *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.log")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var form forms.WorkoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Errorf("log workout, unmarshal json params: %s", err)
		http.Error(w, "log workout failed", http.StatusBadRequest)
		return
	}

	result, err := h.service.Log(ctx, userID, form)
	if err != nil {
		writeError(w, "log workout", err)
		return
	}
	pkg.WriteJSON(w, result, http.StatusCreated)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var form forms.WorkoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Errorf("update workout, unmarshal json params: %s", err)
		http.Error(w, "update workout failed", http.StatusBadRequest)
		return
	}

	workout, err := h.service.Update(ctx, userID, id, form)
	if err != nil {
		writeError(w, "update workout", err)
		return
	}
	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ctx, userID, id); err != nil {
		writeError(w, "delete workout", err)
		return
	}
	log.Debugf("workout %s deleted by %s", id, userID)
	pkg.WriteTextResponseOK(w, id)
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.dashboard")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	summary, err := h.service.Summary(ctx, userID)
	if err != nil {
		writeError(w, "dashboard", err)
		return
	}
	pkg.WriteJSON(w, summary, http.StatusOK)
}

func writeError(w http.ResponseWriter, op string, err error) {
	var fieldErrors forms.FieldErrors
	switch {
	case errors.As(err, &fieldErrors):
		pkg.WriteJSON(w, fieldErrors, http.StatusBadRequest)
	case errors.Is(err, ErrWorkoutNotFound):
		http.Error(w, "workout not found", http.StatusNotFound)
	case errors.Is(err, fitness.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}
