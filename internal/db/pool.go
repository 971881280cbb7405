package db

import (
	"context"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const defaultPingTimeout = 5 * time.Second

type NewDBPoolParams struct {
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	MaxConns       int32
	TracingEnabled bool
}

// NewDBPool connects to postgres and makes sure the db is reachable before returning.
func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	dbUser := params.DBUser
	if dbUser == "" {
		dbUser = "postgres"
	}
	connString := fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		dbUser, params.DBHost, params.DBPort, params.DBName,
	)
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	if params.MaxConns > 0 {
		poolConfig.MaxConns = params.MaxConns
	}

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer(otelpgx.WithIncludeQueryParameters())
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db %s:%s/%s: %w", params.DBHost, params.DBPort, params.DBName, err)
	}

	log.Debugf("db pool ready: %s:%s/%s, max conns: %d", params.DBHost, params.DBPort, params.DBName, poolConfig.MaxConns)
	return pool, nil
}
