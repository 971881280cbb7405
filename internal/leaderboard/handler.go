package leaderboard

import (
	"context"
	"net/http"

	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/telemetry/tracing"
	"github.com/2beens/fitgam/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=leaderboard_test

type usersSource interface {
	Users(ctx context.Context) []fitness.User
}

type Handler struct {
	users usersSource
}

func NewHandler(users usersSource) *Handler {
	return &Handler{
		users: users,
	}
}

func (h *Handler) HandleAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.leaderboard.all")
	defer span.End()

	users := h.users.Users(ctx)
	log.Tracef("leaderboard: ranking %d users", len(users))
	pkg.WriteJSON(w, Rankings(users), http.StatusOK)
}

func (h *Handler) HandleMetric(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.leaderboard.metric")
	defer span.End()

	metric, err := ParseMetric(mux.Vars(r)["metric"])
	if err != nil {
		http.Error(w, "unknown metric", http.StatusBadRequest)
		return
	}
	pkg.WriteJSON(w, Rank(h.users.Users(ctx), metric), http.StatusOK)
}
