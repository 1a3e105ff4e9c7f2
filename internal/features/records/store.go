package records

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	logging "dtimelog/internal/infra/log"

	"go.uber.org/zap"
)

// DefaultPath is the record store file used when none is configured.
const DefaultPath = "dtimelog.db"

// seedScript creates the users table and its two rows. No IF NOT EXISTS:
// seeding an already seeded store fails.
var seedScript = []string{
	`CREATE TABLE users (name TEXT, age INTEGER)`,
	`INSERT INTO users VALUES ('Alice', 42)`,
	`INSERT INTO users VALUES ('Bob', 69)`,
}

// StoreError wraps a failed store operation (open, seed, users, close).
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record store %s (%s): %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// User is one row of the users table.
type User struct {
	Name string
	Age  int
}

// Store is a SQLite file holding the users table.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (or creates) the store at path with the given database/sql driver name.
func Open(ctx context.Context, driver, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, &StoreError{Op: "open", Path: path, Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &StoreError{Op: "open", Path: path, Err: err}
	}

	logging.LogInfo("Record store opened", zap.String("path", path), zap.String("driver", driver))
	return &Store{db: db, path: path}, nil
}

// Path returns the file the store was opened on.
func (s *Store) Path() string {
	return s.path
}

// Seed creates the users table with Alice and Bob in one transaction.
// On failure nothing is changed.
func (s *Store) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreError{Op: "seed", Path: s.path, Err: err}
	}

	for _, stmt := range seedScript {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return &StoreError{Op: "seed", Path: s.path, Err: fmt.Errorf("exec %q: %w", stmt, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "seed", Path: s.path, Err: err}
	}

	logging.LogInfo("Record store seeded", zap.String("path", s.path), zap.Int("statements", len(seedScript)))
	return nil
}

// Users lists the users table in insertion order.
func (s *Store) Users(ctx context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name, age FROM users ORDER BY rowid`)
	if err != nil {
		return nil, &StoreError{Op: "users", Path: s.path, Err: err}
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Name, &u.Age); err != nil {
			return nil, &StoreError{Op: "users", Path: s.path, Err: err}
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "users", Path: s.path, Err: err}
	}
	return users, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return &StoreError{Op: "close", Path: s.path, Err: err}
	}
	return nil
}
