// Package store persists generated reports to Postgres. Persistence is
// optional: without DATABASE_URL the rest of the system runs storeless.
package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB opens the report store pool from DATABASE_URL and verifies the
// connection. REPORT_DB_MAX_CONNS caps the pool when set. Safe to call more
// than once; only the first call connects.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("report store: DATABASE_URL not set")
			return
		}

		cfg, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("report store: parse DATABASE_URL: %w", parseErr)
			return
		}
		if raw := os.Getenv("REPORT_DB_MAX_CONNS"); raw != "" {
			if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 {
				cfg.MaxConns = int32(n)
			}
		}

		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			err = fmt.Errorf("report store: connect: %w", err)
			return
		}
		if pingErr := pool.Ping(ctx); pingErr != nil {
			pool.Close()
			pool = nil
			err = fmt.Errorf("report store: ping: %w", pingErr)
		}
	})
	return err
}

// GetPool returns the shared pool, nil until InitDB succeeds.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close releases the pool. No-op when persistence was never initialized.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
