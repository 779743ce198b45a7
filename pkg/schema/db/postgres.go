// Package db manages the PostgreSQL connection pool backing the pgvector
// verse store.
package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/verse2vision-story-api/pkg/schema/config"
)

// Pool sizing for a single API instance. Queries against the verses table
// are short reads, so idle connections match open ones.
const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = 1 * time.Minute
)

var (
	pgDB   *sqlx.DB
	pgOnce sync.Once
	pgMu   sync.RWMutex
)

// InitPostgres connects to the verse database. Safe to call more than once;
// only the first call dials.
func InitPostgres(ctx context.Context) error {
	var initErr error
	pgOnce.Do(func() {
		cfg := config.GetConfig()

		if cfg.PostgresURI == "" {
			initErr = fmt.Errorf("POSTGRES_URI is required")
			return
		}

		var err error
		pgDB, err = sqlx.ConnectContext(ctx, "postgres", cfg.PostgresURI)
		if err != nil {
			initErr = fmt.Errorf("failed to connect to PostgreSQL: %w", err)
			return
		}

		pgDB.SetMaxOpenConns(maxOpenConns)
		pgDB.SetMaxIdleConns(maxIdleConns)
		pgDB.SetConnMaxLifetime(connMaxLifetime)
		pgDB.SetConnMaxIdleTime(connMaxIdleTime)

		if err := pgDB.PingContext(ctx); err != nil {
			initErr = fmt.Errorf("failed to ping PostgreSQL: %w", err)
			return
		}
	})
	return initErr
}

// GetPostgres returns the verse database handle, nil before InitPostgres.
func GetPostgres() *sqlx.DB {
	pgMu.RLock()
	defer pgMu.RUnlock()
	return pgDB
}

// ClosePostgres closes the verse database connection.
func ClosePostgres() error {
	pgMu.Lock()
	defer pgMu.Unlock()
	if pgDB != nil {
		return pgDB.Close()
	}
	return nil
}
