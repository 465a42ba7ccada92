// Package store implements the document-store abstraction spec.md §1
// assumes: a collection-of-documents store with atomic single-document
// writes and multi-document transactions, backed here by a single
// Postgres table of JSONB rows partitioned by collection.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/codeready-toolchain/pulsefeed/pkg/config"
)

//go:embed migrations
var migrationsFS embed.FS

// DB wraps a pgx connection pool with the runtime document operations of
// this package.
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB opens a connection pool to the configured Postgres instance and runs
// pending migrations before returning.
func NewDB(ctx context.Context, cfg *config.DatabaseConfig, password string) (*DB, error) {
	dsn := buildDSN(cfg, password)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	if err := runMigrations(dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

func buildDSN(cfg *config.DatabaseConfig, password string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)
}

func runMigrations(dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer sqlDB.Close()

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// HealthStatus reports pool health for the /status endpoint.
type HealthStatus struct {
	Reachable      bool          `json:"reachable"`
	OpenConns      int32         `json:"openConnections"`
	IdleConns      int32         `json:"idleConnections"`
	AcquireLatency time.Duration `json:"acquireLatency"`
}

// Health pings the pool and reports connection statistics.
func (db *DB) Health(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	conn, err := db.Pool.Acquire(ctx)
	latency := time.Since(start)
	if err != nil {
		return &HealthStatus{Reachable: false}, err
	}
	defer conn.Release()

	if err := conn.Ping(ctx); err != nil {
		return &HealthStatus{Reachable: false}, err
	}

	stat := db.Pool.Stat()
	return &HealthStatus{
		Reachable:      true,
		OpenConns:      stat.TotalConns(),
		IdleConns:      stat.IdleConns(),
		AcquireLatency: latency,
	}, nil
}
