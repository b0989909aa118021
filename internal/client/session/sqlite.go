package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tasklist/internal/client/migrations"
	"github.com/dmitrijs2005/tasklist/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the credential in the metadata table of the client
// database, so it survives restarts of the CLI.
type SQLiteStore struct {
	db   *sql.DB
	repo metadata.Repository
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, repo: metadata.NewSQLiteRepository(db)}
}

// RunMigrations applies the embedded client migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// OpenSQLite opens (creating if needed) the SQLite file at dsn, migrates it
// and returns a store over it. Missing parent directories are created. The
// caller owns Close.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, fmt.Errorf("session db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// a single connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

func (s *SQLiteStore) Get(ctx context.Context) (string, bool, error) {
	v, err := s.repo.Get(ctx, CredentialKey)
	if err != nil {
		return "", false, err
	}
	if len(v) == 0 {
		return "", false, nil
	}
	return string(v), true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, credential string) error {
	credential = common.StripBearer(credential)
	if credential == "" {
		return ErrEmptyCredential
	}
	return s.repo.Set(ctx, CredentialKey, []byte(credential))
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, CredentialKey)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
