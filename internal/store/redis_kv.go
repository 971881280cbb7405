package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitgam/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

var _ KV = (*RedisKV)(nil)

type RedisKV struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisKV(redisClient *redis.Client, keyPrefix string) *RedisKV {
	return &RedisKV{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
	}
}

func (r *RedisKV) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.get")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		if errors.Is(err, ErrKeyNotFound) {
			span.End()
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	value, err := r.redisClient.Get(ctx, r.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.set")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.redisClient.Set(ctx, r.keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.delete")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.redisClient.Del(ctx, r.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
