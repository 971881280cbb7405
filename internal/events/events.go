package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Type string

const (
	TypeUserSignedUp       Type = "user.signed_up"
	TypeWorkoutLogged      Type = "workout.logged"
	TypeBadgeEarned        Type = "badge.earned"
	TypeLevelUp            Type = "level.up"
	TypeChallengeCompleted Type = "challenge.completed"
	TypeRewardRedeemed     Type = "reward.redeemed"
)

type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

func New(eventType Type, userID string, at time.Time, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: at,
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// PublishAndLog publishes the events and only logs a failure.
func PublishAndLog(ctx context.Context, publisher Publisher, events ...Event) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		log.Errorf("publish %d event(s), first [%s]: %s", len(events), events[0].Type, err)
	}
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, events ...Event) error {
	for _, e := range events {
		log.Tracef("noop publisher: %s for user %s", e.Type, e.UserID)
	}
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
