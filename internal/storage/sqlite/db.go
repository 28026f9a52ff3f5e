// Package sqlite keeps the optional conversation transcript in a local
// SQLite file whose schema is managed by goose migrations.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/sandevgo/gradebot/pkg/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// dsn adds the connection parameters go-sqlite3 understands. WAL lets the
// history command read while a running bot appends.
func dsn(path string) string {
	q := url.Values{}
	q.Set("_busy_timeout", "5000")
	q.Set("_journal_mode", "WAL")
	q.Set("_foreign_keys", "on")
	return path + "?" + q.Encode()
}

// NewDB opens (creating if needed) the transcript database at path and
// brings its schema up to date.
func NewDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open transcript db: %w", err)
	}
	// one writer; SQLite serialises writes anyway
	db.SetMaxOpenConns(1)

	if err := setup(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func setup(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping transcript db: %w", err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(log.NewGooseLoggerFromCtx(ctx))
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("migrate transcript db: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.FromCtx(ctx).Debug().Int64("version", version).Msg("transcript schema ready")
	return nil
}
