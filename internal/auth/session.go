package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitgam/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitgam-session||"
	tokensSetKey     = "fitgam-sessions"
	tokenBytes       = 35
)

var ErrNoSession = errors.New("no valid session")

// sessionValue is stored as <createdAtUnix>|<userId>
func sessionValue(userID string, createdAt time.Time) string {
	return fmt.Sprintf("%d|%s", createdAt.Unix(), userID)
}

func parseSessionValue(value string) (time.Time, string, error) {
	createdAtStr, userID, found := strings.Cut(value, "|")
	if !found || userID == "" {
		return time.Time{}, "", fmt.Errorf("malformed session value: %q", value)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("malformed session time: %w", err)
	}
	return time.Unix(createdAtUnix, 0), userID, nil
}

type SessionService struct {
	redisClient *redis.Client
	ttl         time.Duration
	now         func() time.Time
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewSessionService(ttl time.Duration, redisClient *redis.Client) *SessionService {
	return &SessionService{
		ttl:            ttl,
		redisClient:    redisClient,
		now:            time.Now,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Login opens a new session for the user and returns its token.
func (s *SessionService) Login(ctx context.Context, userID string, createdAt time.Time) (string, error) {
	token, err := s.RandStringFunc(tokenBytes)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	if err := s.redisClient.Set(ctx, sessionKey, sessionValue(userID, createdAt), 0).Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Logout removes the session, and reports whether it existed.
func (s *SessionService) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := s.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := s.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return false, err
	}

	// remove token from the list of sessions
	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, err
	}

	_, _, err := parseSessionValue(cmd.Val())
	return err == nil, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (s *SessionService) ScanAndClean(ctx context.Context) {
	cmd := s.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! session service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("=> session service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> session service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		cmd := s.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("=> session service, scan and clean token %s: %s", token, err)
			continue
		}

		createdAt, _, err := parseSessionValue(cmd.Val())
		if err != nil {
			log.Warnf("=> session service, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if s.now().Sub(createdAt) > s.ttl {
			log.Tracef("=>\twill clean the session with token: %s", token)
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		sessionKey := sessionKeyPrefix + token
		if err := s.redisClient.Del(ctx, sessionKey).Err(); err != nil {
			log.Errorf("=> session service, clean token %s: %s", token, err)
			continue
		}

		// remove token from the list of sessions
		if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> session service, clean token %s: %s", token, err)
			continue
		}
	}
}
