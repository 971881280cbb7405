package notifications

import (
	"context"
	"errors"
	"sort"

	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/store"
	"github.com/2beens/fitgam/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Inbox struct {
	Notifications []fitness.Notification `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

type Service struct {
	store *store.Store
}

func NewService(store *store.Store) *Service {
	return &Service{
		store: store,
	}
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string) (_ Inbox, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notifications.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.store.FindUserByID(ctx, userID) == nil {
		return Inbox{}, fitness.ErrUserNotFound
	}

	notifications := s.store.NotificationsByUser(ctx, userID)
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return Inbox{
		Notifications: notifications,
		UnreadCount:   unread(notifications),
	}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) int {
	return unread(s.store.NotificationsByUser(ctx, userID))
}

func unread(notifications []fitness.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// MarkRead marks one of the user's notifications as read.
// Notifications owned by other users are never touched.
func (s *Service) MarkRead(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notifications.mark_read")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	found, err := s.store.MarkNotificationRead(ctx, userID, id)
	if err != nil {
		log.Errorf("mark notification %s read, user %s: %s", id, userID, err)
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}
