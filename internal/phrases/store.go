package phrases

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Store keeps a managed phrase set in a sqlite database so phrases can
// be added and disabled at runtime without editing wordlist files.
type Store struct {
	db *sql.DB
}

// OpenStore opens the phrase database at path, creating the file and
// schema on first use.
func OpenStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open phrase store")
	}
	// modernc sqlite is happiest with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping phrase store")
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate phrase store")
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS phrases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			phrase TEXT NOT NULL UNIQUE,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a phrase, or re-enables it if it was disabled earlier.
// Internal whitespace runs are collapsed to single spaces first.
func (s *Store) Add(ctx context.Context, phrase string) error {
	phrase = strings.Join(strings.Fields(phrase), " ")
	if !strings.Contains(phrase, " ") {
		return errors.Errorf("phrase %q needs at least two words", phrase)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phrases (phrase, enabled) VALUES (?, 1)
		ON CONFLICT(phrase) DO UPDATE SET enabled = 1, updated_at = CURRENT_TIMESTAMP`,
		phrase)
	return errors.Wrap(err, "add phrase")
}

// Disable removes a phrase from Enabled results while keeping the row.
// Disabling a phrase the store never held is not an error.
func (s *Store) Disable(ctx context.Context, phrase string) error {
	phrase = strings.Join(strings.Fields(phrase), " ")
	_, err := s.db.ExecContext(ctx, `
		UPDATE phrases SET enabled = 0, updated_at = CURRENT_TIMESTAMP WHERE phrase = ?`,
		phrase)
	return errors.Wrap(err, "disable phrase")
}

// Enabled returns all enabled phrases in insertion order.
func (s *Store) Enabled(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT phrase FROM phrases WHERE enabled = 1 ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "query phrases")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, errors.Wrap(err, "scan phrase")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate phrases")
	}
	return out, nil
}
