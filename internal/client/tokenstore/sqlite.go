package tokenstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/propman/internal/client/migrations"
	"github.com/dmitrijs2005/propman/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/propman/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// SQLite persists the token in the metadata table of a local database file.
type SQLite struct {
	db   *sql.DB
	repo metadata.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded client schema to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// Missing parent directories are created. ":memory:" is passed through.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		abs, err := filex.EnsureParentDir(path)
		if err != nil {
			return nil, fmt.Errorf("token db dir: %w", err)
		}
		path = abs
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open token db: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate token db: %w", err)
	}

	return &SQLite{db: db, repo: metadata.NewSQLiteRepository(db)}, nil
}

func (s *SQLite) Get(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *SQLite) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	return s.repo.Set(ctx, TokenKey, []byte(token))
}

func (s *SQLite) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, TokenKey)
}

// Close releases the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
