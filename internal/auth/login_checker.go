package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// UserID returns the user owning the session token.
// Missing, malformed and expired sessions all give ErrNoSession.
func (c *LoginChecker) UserID(ctx context.Context, token string) (string, error) {
	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", err
	}

	createdAt, userID, err := parseSessionValue(cmd.Val())
	if err != nil {
		return "", ErrNoSession
	}
	if c.now().Sub(createdAt) > c.ttl {
		return "", ErrNoSession
	}
	return userID, nil
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	_, err := c.UserID(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return false, nil
	}
	return err == nil, err
}
