package rewards

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

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=rewards_test

type service interface {
	Catalog(ctx context.Context) []fitness.Reward
	ForUser(ctx context.Context, userID string) (Partition, error)
	Redeem(ctx context.Context, userID, rewardID string) (RedeemResult, error)
}

type insufficientPointsResponse struct {
	Error         string `json:"error"`
	MissingPoints int    `json:"missingPoints"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rewards.catalog")
	defer span.End()
	pkg.WriteJSON(w, h.service.Catalog(ctx), http.StatusOK)
}

func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rewards.mine")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	partition, err := h.service.ForUser(ctx, userID)
	if err != nil {
		writeError(w, "user rewards", err)
		return
	}
	pkg.WriteJSON(w, partition, http.StatusOK)
}

func (h *Handler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.rewards.redeem")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	rewardID := mux.Vars(r)["id"]
	if rewardID == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	result, err := h.service.Redeem(ctx, userID, rewardID)
	if err != nil {
		writeError(w, "redeem reward", err)
		return
	}
	pkg.WriteJSON(w, result, http.StatusOK)
}

func writeError(w http.ResponseWriter, op string, err error) {
	var insufficient *InsufficientPointsError
	switch {
	case errors.As(err, &insufficient):
		pkg.WriteJSON(w, insufficientPointsResponse{
			Error:         "not enough points",
			MissingPoints: insufficient.Missing,
		}, http.StatusConflict)
	case errors.Is(err, ErrAlreadyRedeemed):
		http.Error(w, "reward already redeemed", http.StatusConflict)
	case errors.Is(err, ErrRewardNotFound):
		http.Error(w, "reward not found", http.StatusNotFound)
	case errors.Is(err, fitness.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}
