package library

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const dialect = "sqlite3"

// Store provides the persistence layer over a SQLite database. All entity
// reads and writes go through here; callers pass ids and re-fetch state
// instead of caching entities across calls.
type Store struct {
	db  *sqlx.DB
	qb  goqu.DialectWrapper
	log *slog.Logger
	cfg Config

	// now is swapped out in tests to pin "today".
	now func() time.Time
}

// Open opens (or creates) the SQLite database at cfg.DBPath and applies
// schema migrations.
func Open(cfg Config, log *slog.Logger) (*Store, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", cfg.DBPath)
	db, err := sqlx.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		qb:  goqu.Dialect(dialect),
		log: log,
		cfg: cfg,
		now: time.Now,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Config returns the configuration the store was opened with.
func (s *Store) Config() Config { return s.cfg }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sqlx.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'student',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS authors (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_authors_name
            ON authors(lower(first_name), lower(last_name));`,
		`CREATE TABLE IF NOT EXISTS publishers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            city TEXT NOT NULL,
            UNIQUE(name, city)
        );`,
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            author_id INTEGER NOT NULL REFERENCES authors(id),
            publisher_id INTEGER NOT NULL REFERENCES publishers(id),
            publish_year INTEGER,
            volume INTEGER,
            isbn TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS requests (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            book_id INTEGER NOT NULL REFERENCES books(id),
            user_id INTEGER NOT NULL REFERENCES users(id),
            delivery_date DATE NOT NULL,
            return_date DATE,
            return_deadline DATE NOT NULL
        );`,
		// At most one outstanding request per book.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_requests_outstanding
            ON requests(book_id) WHERE return_date IS NULL;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// getOne runs a goqu select expected to yield a single row into dest.
// Missing rows map to ErrNotFound.
func (s *Store) getOne(dest any, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := s.db.Get(dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// selectAll runs a goqu select into the slice pointed to by dest.
func (s *Store) selectAll(dest any, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := s.db.Select(dest, query, args...); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// insertRow executes a goqu insert and returns the new row id. Constraint
// violations come back as ErrDuplicateEntity.
func (s *Store) insertRow(ins *goqu.InsertDataset) (int64, error) {
	query, args, err := ins.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, mapStorageErr(err)
	}
	return res.LastInsertId()
}

// execRows executes a query returning the affected row count.
func (s *Store) execRows(query string, args []any) (int64, error) {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, mapStorageErr(err)
	}
	return res.RowsAffected()
}

// mapStorageErr converts driver constraint violations into the typed
// ErrDuplicateEntity and wraps everything else.
func mapStorageErr(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", ErrDuplicateEntity, err)
	}
	return fmt.Errorf("storage: %w", err)
}

// today truncates the store clock to a civil date in UTC.
func (s *Store) today() time.Time {
	return dateOnly(s.now())
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from a to b, negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}

// ---------------------------------------------------------------------------
// Name normalization
// ---------------------------------------------------------------------------

// titleCase uppercases the first letter of every word and lowercases the
// rest, so "george ORWELL" and "George Orwell" dedup to the same row.
func titleCase(s string) string {
	var b strings.Builder
	startWord := true
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '\'':
			startWord = true
			b.WriteRune(r)
		case startWord:
			b.WriteRune(unicode.ToUpper(r))
			startWord = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// capitalize uppercases only the leading letter, matching how cities are
// normalized.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
