package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitgam/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
)

var _ KV = (*PostgresKV)(nil)

const createKVTableSQL = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type pgxDB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresKV struct {
	db pgxDB
}

// NewPostgresKV makes sure the kv_store table exists.
func NewPostgresKV(ctx context.Context, db pgxDB) (*PostgresKV, error) {
	if _, err := db.Exec(ctx, createKVTableSQL); err != nil {
		return nil, fmt.Errorf("create kv_store table: %w", err)
	}
	return &PostgresKV{db: db}, nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.postgres.get")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		if errors.Is(err, ErrKeyNotFound) {
			span.End()
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var value []byte
	err = p.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return value, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.postgres.set")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = p.db.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Delete(ctx context.Context, key string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.postgres.delete")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err = p.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
