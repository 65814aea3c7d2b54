package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	pragmaJournalModeWAL = `PRAGMA journal_mode=WAL`
	pragmaForeignKeysOn  = `PRAGMA foreign_keys=ON`
	pragmaBusyTimeout    = `PRAGMA busy_timeout=5000`
)

// Store owns the registry database handle and exposes the typed
// repositories. Open is idempotent: re-opening an existing store applies no
// migrations and does not duplicate the seed administrator.
type Store struct {
	db   *sql.DB
	path string

	Users  UserRepository
	Assets AssetRepository
	Audit  AuditRepository
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("open storage: empty path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("open storage: create parent dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := configureSQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RunMigrations(db, DefaultMigrations()); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{
		db:   db,
		path: path,
	}
	store.Users = &userRepository{db: db}
	store.Assets = &assetRepository{db: db}
	store.Audit = &auditRepository{db: db}

	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SchemaVersion reports the highest applied migration version.
func (s *Store) SchemaVersion() (int, error) {
	return readSchemaVersion(s.db)
}

// Reset is the destructive upgrade path: it drops the users and assets
// tables, replays all migrations, and re-seeds the administrator account.
// Every asset and every non-default user is discarded. The audit trail
// survives so the reset itself stays on record.
func (s *Store) Reset(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("reset storage: store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reset storage: begin tx: %w", err)
	}

	statements := []string{
		`DROP TABLE IF EXISTS users`,
		`DROP TABLE IF EXISTS assets`,
		`DELETE FROM schema_migrations`,
		`UPDATE registry_meta SET value = '0' WHERE key = '` + schemaVersionMetaKey + `'`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("reset storage %q: %w", stmt, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reset storage: commit: %w", err)
	}

	return RunMigrations(s.db, DefaultMigrations())
}

func configureSQLite(db *sql.DB) error {
	pragmas := []string{pragmaJournalModeWAL, pragmaForeignKeysOn, pragmaBusyTimeout}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("configure sqlite %q: %w", stmt, err)
		}
	}
	return nil
}
