package notifications

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/fitgam/internal/auth"
	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/telemetry/tracing"
	"github.com/2beens/fitgam/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=notifications_test

type service interface {
	List(ctx context.Context, userID string) (Inbox, error)
	MarkRead(ctx context.Context, userID, id string) error
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
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notifications.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	inbox, err := h.service.List(ctx, userID)
	if err != nil {
		if errors.Is(err, fitness.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("list notifications: %s", err)
		http.Error(w, "list notifications failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, inbox, http.StatusOK)
}

func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notifications.mark_read")
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

	if err := h.service.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			http.Error(w, "notification not found", http.StatusNotFound)
			return
		}
		log.Errorf("mark notification read: %s", err)
		http.Error(w, "mark notification read failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteTextResponseOK(w, id)
}
