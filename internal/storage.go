package internal

import (
	"context"
	"fmt"
	"net"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitgam/internal/config"
	"github.com/2beens/fitgam/internal/db"
	"github.com/2beens/fitgam/internal/store"
)

const redisStoreKeyPrefix = "fitgam||"

type storage struct {
	kv         store.KV
	dbPool     *pgxpool.Pool
	sqliteKV   *store.SqliteKV
	collectors []prometheus.Collector
}

// openStorage opens the configured store backend, optionally behind the read cache.
func openStorage(ctx context.Context, cfg *config.Config, rdb *redis.Client) (*storage, error) {
	st := &storage{}

	switch cfg.StoreBackend {
	case config.StoreBackendRedis:
		st.kv = store.NewRedisKV(rdb, redisStoreKeyPrefix)
	case config.StoreBackendPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			TracingEnabled: cfg.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		st.dbPool = dbPool

		pgKV, err := store.NewPostgresKV(ctx, dbPool)
		if err != nil {
			st.close()
			return nil, fmt.Errorf("new postgres kv: %w", err)
		}
		st.kv = pgKV
		st.collectors = append(st.collectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	case config.StoreBackendSqlite:
		sqliteKV, err := store.NewSqliteKV(ctx, cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("new sqlite kv: %w", err)
		}
		st.sqliteKV = sqliteKV
		st.kv = sqliteKV
	default:
		st.kv = store.NewMemoryKV()
	}
	log.Infof("store backend: %s", cfg.StoreBackend)

	if cfg.StoreCacheEnabled {
		st.kv = store.NewCachedKV(st.kv, cfg.StoreCacheSizeMB*1024*1024, cfg.StoreCacheTTLSeconds)
		log.Debugf("store cache enabled: %d MB, ttl %s", cfg.StoreCacheSizeMB, cfg.StoreCacheTTL())
	}

	return st, nil
}

func (st *storage) close() {
	if st.sqliteKV != nil {
		if err := st.sqliteKV.Close(); err != nil {
			log.Errorf("failed to close sqlite store: %s", err)
		}
	}

	if st.dbPool != nil {
		log.Debugln("closing db pool ...")
		st.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
}

func newRedisClient(ctx context.Context, cfg *config.Config, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: password,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}
	return rdb
}

// OpenStore opens the configured store outside of the server, for the store tools.
// The returned func releases every connection.
func OpenStore(ctx context.Context, cfg *config.Config, redisPassword string) (*store.Store, func(), error) {
	var rdb *redis.Client
	if cfg.StoreBackend == config.StoreBackendRedis {
		rdb = newRedisClient(ctx, cfg, redisPassword)
	}

	st, err := openStorage(ctx, cfg, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, nil, err
	}

	closeFunc := func() {
		st.close()
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				log.Errorf("failed to close redis client conn: %s", err)
			}
		}
	}
	return store.New(st.kv, nil), closeFunc, nil
}
