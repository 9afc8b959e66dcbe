// Package database opens the journal's sqlite database.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"

	"github.com/jdholdren/murmur/internal/migrations"
)

// Attempts made to open and migrate a busy database before giving up.
const openRetries = 5

// Open connects to the sqlite file at path and brings its schema up to date.
//
// Opening and migrating are retried with a fibonacci backoff since another
// process may be holding the database lock.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	var dbx *sqlx.DB
	backoff := retry.WithMaxRetries(openRetries, retry.NewFibonacci(100*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		db, err := sqlx.Open("sqlite", dsn)
		if err != nil {
			return fmt.Errorf("error opening database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			slog.WarnContext(ctx, "journal not ready, retrying", "error", err)
			return retry.RetryableError(fmt.Errorf("error pinging database: %w", err))
		}
		if err := RunMigrations(db, migrations.FS, "."); err != nil {
			db.Close()
			slog.WarnContext(ctx, "journal migration failed, retrying", "error", err)
			return retry.RetryableError(err)
		}

		dbx = db
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dbx, nil
}
