package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/fitgam/internal/fitness"
	"github.com/2beens/fitgam/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// Store keeps the fitness collections as JSON values under fixed keys.
// Reads never fail: absent or corrupt values fall back to empty collections.
// Writes log failures and return them, callers may treat them as no-ops.
type Store struct {
	kv      KV
	metrics *metrics.Manager

	// mutex serializes read-modify-write of collections
	mutex sync.Mutex
	// opMutex is held across multi-collection operations, see Atomically
	opMutex sync.Mutex
}

func New(kv KV, metricsManager *metrics.Manager) *Store {
	return &Store{
		kv:      kv,
		metrics: metricsManager,
	}
}

// Atomically runs fn while holding the store operation lock, so that
// in-process multi-step updates (e.g. log workout + update user) do not interleave.
// Writers in other processes sharing the same backend are not covered.
func (s *Store) Atomically(fn func() error) error {
	s.opMutex.Lock()
	defer s.opMutex.Unlock()
	return fn()
}

func load[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var value T
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			log.Warnf("store: get %s: %s", key, err)
		}
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Warnf("store: corrupt value under %s, using default: %s", key, err)
		var zero T
		return zero, false
	}
	return value, true
}

func (s *Store) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		s.writeFailed(key, err)
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		s.writeFailed(key, err)
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) writeFailed(key string, err error) {
	log.Errorf("store: error saving %s: %s", key, err)
	if s.metrics != nil {
		s.metrics.CounterStoreWriteFailures.WithLabelValues(key).Inc()
	}
}

func loadList[T any](ctx context.Context, s *Store, key string) []T {
	list, ok := load[[]T](ctx, s, key)
	if !ok || list == nil {
		return []T{}
	}
	return list
}

// users

func (s *Store) Users(ctx context.Context) []fitness.User {
	return loadList[fitness.User](ctx, s, KeyUsers)
}

func (s *Store) SetUsers(ctx context.Context, users []fitness.User) error {
	return s.save(ctx, KeyUsers, users)
}

func (s *Store) AddUser(ctx context.Context, user fitness.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	users := s.Users(ctx)
	users = append(users, user)
	return s.SetUsers(ctx, users)
}

// UpdateUser replaces the stored user with the same id, and refreshes the
// current user if it is the same one. Unknown ids are ignored.
func (s *Store) UpdateUser(ctx context.Context, user fitness.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	users := s.Users(ctx)
	idx := -1
	for i := range users {
		if users[i].ID == user.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		log.Debugf("store: update user %s: not found, ignoring", user.ID)
		return nil
	}

	users[idx] = user
	if err := s.SetUsers(ctx, users); err != nil {
		return err
	}

	if current := s.CurrentUser(ctx); current != nil && current.ID == user.ID {
		return s.SetCurrentUser(ctx, &user)
	}
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) *fitness.User {
	for _, u := range s.Users(ctx) {
		if u.ID == id {
			return &u
		}
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) *fitness.User {
	email = strings.TrimSpace(email)
	for _, u := range s.Users(ctx) {
		if strings.EqualFold(u.Email, email) {
			return &u
		}
	}
	return nil
}

func (s *Store) CurrentUser(ctx context.Context) *fitness.User {
	user, ok := load[*fitness.User](ctx, s, KeyCurrentUser)
	if !ok {
		return nil
	}
	return user
}

// SetCurrentUser stores user as the current one, nil clears it.
func (s *Store) SetCurrentUser(ctx context.Context, user *fitness.User) error {
	return s.save(ctx, KeyCurrentUser, user)
}

// workouts

func (s *Store) Workouts(ctx context.Context) []fitness.Workout {
	return loadList[fitness.Workout](ctx, s, KeyWorkouts)
}

func (s *Store) SetWorkouts(ctx context.Context, workouts []fitness.Workout) error {
	return s.save(ctx, KeyWorkouts, workouts)
}

func (s *Store) AddWorkout(ctx context.Context, workout fitness.Workout) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	workouts := s.Workouts(ctx)
	workouts = append(workouts, workout)
	return s.SetWorkouts(ctx, workouts)
}

// UpdateWorkout replaces the workout with the same id; false if there is none.
func (s *Store) UpdateWorkout(ctx context.Context, workout fitness.Workout) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	workouts := s.Workouts(ctx)
	for i := range workouts {
		if workouts[i].ID == workout.ID {
			workouts[i] = workout
			return true, s.SetWorkouts(ctx, workouts)
		}
	}
	return false, nil
}

// DeleteWorkout removes the workout with the given id; false if there is none.
func (s *Store) DeleteWorkout(ctx context.Context, id string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	workouts := s.Workouts(ctx)
	kept := workouts[:0]
	for _, w := range workouts {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(workouts) {
		return false, nil
	}
	return true, s.SetWorkouts(ctx, kept)
}

func (s *Store) FindWorkout(ctx context.Context, id string) *fitness.Workout {
	for _, w := range s.Workouts(ctx) {
		if w.ID == id {
			return &w
		}
	}
	return nil
}

func (s *Store) WorkoutsByUser(ctx context.Context, userID string) []fitness.Workout {
	userWorkouts := []fitness.Workout{}
	for _, w := range s.Workouts(ctx) {
		if w.UserID == userID {
			userWorkouts = append(userWorkouts, w)
		}
	}
	return userWorkouts
}

// challenges

func (s *Store) Challenges(ctx context.Context) []fitness.Challenge {
	return loadList[fitness.Challenge](ctx, s, KeyChallenges)
}

func (s *Store) SetChallenges(ctx context.Context, challenges []fitness.Challenge) error {
	return s.save(ctx, KeyChallenges, challenges)
}

func (s *Store) AddChallenge(ctx context.Context, challenge fitness.Challenge) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	challenges := s.Challenges(ctx)
	challenges = append(challenges, challenge)
	return s.SetChallenges(ctx, challenges)
}

// UpdateChallenge replaces the challenge with the same id; false if there is none.
func (s *Store) UpdateChallenge(ctx context.Context, challenge fitness.Challenge) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	challenges := s.Challenges(ctx)
	for i := range challenges {
		if challenges[i].ID == challenge.ID {
			challenges[i] = challenge
			return true, s.SetChallenges(ctx, challenges)
		}
	}
	return false, nil
}

func (s *Store) FindChallenge(ctx context.Context, id string) *fitness.Challenge {
	for _, c := range s.Challenges(ctx) {
		if c.ID == id {
			return &c
		}
	}
	return nil
}

// notifications

// Notifications returns all notifications, newest first.
func (s *Store) Notifications(ctx context.Context) []fitness.Notification {
	return loadList[fitness.Notification](ctx, s, KeyNotifications)
}

func (s *Store) SetNotifications(ctx context.Context, notifications []fitness.Notification) error {
	return s.save(ctx, KeyNotifications, notifications)
}

// AddNotifications prepends each notification in turn, the last one given ends up first.
func (s *Store) AddNotifications(ctx context.Context, notifications ...fitness.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	existing := s.Notifications(ctx)
	all := make([]fitness.Notification, 0, len(existing)+len(notifications))
	for i := len(notifications) - 1; i >= 0; i-- {
		all = append(all, notifications[i])
	}
	all = append(all, existing...)
	return s.SetNotifications(ctx, all)
}

func (s *Store) AddNotification(ctx context.Context, notification fitness.Notification) error {
	return s.AddNotifications(ctx, notification)
}

func (s *Store) NotificationsByUser(ctx context.Context, userID string) []fitness.Notification {
	userNotifications := []fitness.Notification{}
	for _, n := range s.Notifications(ctx) {
		if n.UserID == userID {
			userNotifications = append(userNotifications, n)
		}
	}
	return userNotifications
}

// MarkNotificationRead marks the user's notification as read; false if the user has no such notification.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	notifications := s.Notifications(ctx)
	for i := range notifications {
		if notifications[i].ID == id && notifications[i].UserID == userID {
			if notifications[i].IsRead {
				return true, nil
			}
			notifications[i].IsRead = true
			return true, s.SetNotifications(ctx, notifications)
		}
	}
	return false, nil
}

// rewards

func (s *Store) Rewards(ctx context.Context) []fitness.Reward {
	return loadList[fitness.Reward](ctx, s, KeyRewards)
}

func (s *Store) SetRewards(ctx context.Context, rewards []fitness.Reward) error {
	return s.save(ctx, KeyRewards, rewards)
}

func (s *Store) FindReward(ctx context.Context, id string) *fitness.Reward {
	for _, r := range s.Rewards(ctx) {
		if r.ID == id {
			return &r
		}
	}
	return nil
}

func (s *Store) Redemptions(ctx context.Context) []fitness.Redemption {
	return loadList[fitness.Redemption](ctx, s, KeyRedemptions)
}

func (s *Store) AddRedemption(ctx context.Context, redemption fitness.Redemption) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	redemptions := s.Redemptions(ctx)
	redemptions = append(redemptions, redemption)
	return s.save(ctx, KeyRedemptions, redemptions)
}

func (s *Store) RedemptionsByUser(ctx context.Context, userID string) []fitness.Redemption {
	userRedemptions := []fitness.Redemption{}
	for _, r := range s.Redemptions(ctx) {
		if r.UserID == userID {
			userRedemptions = append(userRedemptions, r)
		}
	}
	return userRedemptions
}

// user progress

func (s *Store) UserProgress(ctx context.Context) []fitness.UserProgress {
	return loadList[fitness.UserProgress](ctx, s, KeyUserProgress)
}

func (s *Store) SetUserProgress(ctx context.Context, progress []fitness.UserProgress) error {
	return s.save(ctx, KeyUserProgress, progress)
}

func (s *Store) FindUserProgress(ctx context.Context, userID, challengeID string) *fitness.UserProgress {
	for _, p := range s.UserProgress(ctx) {
		if p.UserID == userID && p.ChallengeID == challengeID {
			return &p
		}
	}
	return nil
}

// UpsertUserProgress keeps at most one record per (userID, challengeID).
// Reaching 100 marks the record completed; a completed record stays completed
// and keeps its first completion time.
func (s *Store) UpsertUserProgress(
	ctx context.Context,
	userID, challengeID string,
	progress float64,
	now time.Time,
) (fitness.UserProgress, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	all := s.UserProgress(ctx)
	idx := -1
	for i := range all {
		if all[i].UserID == userID && all[i].ChallengeID == challengeID {
			idx = i
			break
		}
	}
	if idx == -1 {
		all = append(all, fitness.UserProgress{
			UserID:      userID,
			ChallengeID: challengeID,
		})
		idx = len(all) - 1
	}

	record := &all[idx]
	record.Progress = progress
	if progress >= 100 && !record.Completed {
		completedAt := now
		record.Completed = true
		record.CompletedAt = &completedAt
	}

	return *record, s.SetUserProgress(ctx, all)
}

// credentials

func (s *Store) CredentialHash(ctx context.Context, userID string) (string, bool) {
	credentials, _ := load[map[string]string](ctx, s, KeyCredentials)
	hash, ok := credentials[userID]
	return hash, ok
}

func (s *Store) SetCredentialHash(ctx context.Context, userID, hash string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	credentials, _ := load[map[string]string](ctx, s, KeyCredentials)
	if credentials == nil {
		credentials = make(map[string]string)
	}
	credentials[userID] = hash
	return s.save(ctx, KeyCredentials, credentials)
}

// Dump returns the raw JSON stored under every known key, absent keys are skipped.
func (s *Store) Dump(ctx context.Context) map[string]json.RawMessage {
	dump := make(map[string]json.RawMessage)
	for _, key := range AllKeys {
		raw, err := s.kv.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, ErrKeyNotFound) {
				log.Warnf("store dump: get %s: %s", key, err)
			}
			continue
		}
		if !json.Valid(raw) {
			log.Warnf("store dump: skipping corrupt value under %s", key)
			continue
		}
		dump[key] = raw
	}
	return dump
}
