package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitgam/internal/events"
	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/gamification"
	"github.com/2beens/fitgam/internal/store"
	"github.com/2beens/fitgam/internal/telemetry/metrics"
	"github.com/2beens/fitgam/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrRewardNotFound     = errors.New("reward not found")
	ErrAlreadyRedeemed    = errors.New("reward already redeemed")
	ErrInsufficientPoints = errors.New("insufficient points")
)

// InsufficientPointsError matches ErrInsufficientPoints and carries the missing amount.
type InsufficientPointsError struct {
	Missing int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("%s: %d more needed", ErrInsufficientPoints, e.Missing)
}

func (e *InsufficientPointsError) Is(target error) bool {
	return target == ErrInsufficientPoints
}

type Partition struct {
	Available []fitness.Reward `json:"available"`
	Redeemed  []fitness.Reward `json:"redeemed"`
}

type RedeemResult struct {
	User       fitness.User       `json:"user"`
	Reward     fitness.Reward     `json:"reward"`
	Redemption fitness.Redemption `json:"redemption"`
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

func (s *Service) Catalog(ctx context.Context) []fitness.Reward {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rewards.catalog")
	defer span.End()
	return s.store.Rewards(ctx)
}

// ForUser splits the catalog by the user's own redemptions.
func (s *Service) ForUser(ctx context.Context, userID string) (_ Partition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rewards.for_user")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.store.FindUserByID(ctx, userID) == nil {
		return Partition{}, fitness.ErrUserNotFound
	}

	redeemed := make(map[string]bool)
	for _, r := range s.store.RedemptionsByUser(ctx, userID) {
		redeemed[r.RewardID] = true
	}

	partition := Partition{
		Available: []fitness.Reward{},
		Redeemed:  []fitness.Reward{},
	}
	for _, r := range s.store.Rewards(ctx) {
		if redeemed[r.ID] {
			partition.Redeemed = append(partition.Redeemed, r)
		} else {
			partition.Available = append(partition.Available, r)
		}
	}
	return partition, nil
}

// Redeem spends the user's points on the reward. Each user can redeem a reward once.
func (s *Service) Redeem(ctx context.Context, userID, rewardID string) (_ RedeemResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.rewards.redeem")
	span.SetAttributes(attribute.String("reward", rewardID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var result RedeemResult
	err = s.store.Atomically(func() error {
		user := s.store.FindUserByID(ctx, userID)
		if user == nil {
			return fitness.ErrUserNotFound
		}
		reward := s.store.FindReward(ctx, rewardID)
		if reward == nil {
			return ErrRewardNotFound
		}
		for _, r := range s.store.RedemptionsByUser(ctx, userID) {
			if r.RewardID == rewardID {
				return ErrAlreadyRedeemed
			}
		}
		if user.Points < reward.PointsCost {
			return &InsufficientPointsError{Missing: reward.PointsCost - user.Points}
		}

		now := s.now()
		updated := user.Clone()
		updated.Points -= reward.PointsCost
		updated.Level = gamification.CalculateLevel(updated.Points)
		if err := s.store.UpdateUser(ctx, updated); err != nil {
			log.Errorf("redeem reward %s, update user %s: %s", rewardID, userID, err)
		}

		redemption := fitness.Redemption{
			ID:          uuid.NewString(),
			UserID:      userID,
			RewardID:    rewardID,
			PointsSpent: reward.PointsCost,
			RedeemedAt:  now,
		}
		if err := s.store.AddRedemption(ctx, redemption); err != nil {
			log.Errorf("redeem reward %s, user %s: %s", rewardID, userID, err)
		}

		if s.metrics != nil {
			s.metrics.CounterRewardsRedeemed.Inc()
		}
		events.PublishAndLog(ctx, s.publisher, events.New(events.TypeRewardRedeemed, userID, now, map[string]any{
			"rewardId":    rewardID,
			"pointsSpent": reward.PointsCost,
		}))

		result = RedeemResult{
			User:       updated,
			Reward:     *reward,
			Redemption: redemption,
		}
		return nil
	})
	if err != nil {
		return RedeemResult{}, err
	}

	log.Debugf("user %s redeemed reward %s for %d points", userID, rewardID, result.Redemption.PointsSpent)
	return result, nil
}
