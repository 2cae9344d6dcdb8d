// Package store persists canonical transactions in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// ErrNotFound is returned when a transaction ID does not exist.
var ErrNotFound = errors.New("transaction not found")

const dateLayout = "2006-01-02"

// Store is a SQLite-backed transaction repository.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if err := runMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts txns, which must carry IDs. Rows already stored are left
// alone except that a non-empty category overwrites the stored one. It
// returns how many rows were new.
func (s *Store) Save(ctx context.Context, txns []model.Transaction) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	insert, err := tx.PrepareContext(ctx, `INSERT INTO transactions
		(id, date, description, amount, category, source, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	importedAt := s.now().UTC().Format(time.RFC3339)
	inserted := 0
	for i, t := range txns {
		if t.ID == "" {
			return 0, fmt.Errorf("row %d: transaction has no ID", i+1)
		}
		res, err := insert.ExecContext(ctx, t.ID, t.Date.Format(dateLayout), t.Description,
			t.Amount.String(), t.Category, t.Source, importedAt)
		if err != nil {
			return 0, fmt.Errorf("row %d: inserting: %w", i+1, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		if n > 0 {
			inserted++
			continue
		}
		if t.Category != "" {
			if _, err := tx.ExecContext(ctx, `UPDATE transactions SET category = ? WHERE id = ?`, t.Category, t.ID); err != nil {
				return 0, fmt.Errorf("row %d: updating category: %w", i+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// All returns every stored transaction, most recent first.
func (s *Store) All(ctx context.Context) ([]model.Transaction, error) {
	return s.query(ctx, `SELECT id, date, description, amount, category, source
		FROM transactions ORDER BY date DESC, rowid ASC`)
}

// Uncategorized returns transactions with no category or Other.
func (s *Store) Uncategorized(ctx context.Context) ([]model.Transaction, error) {
	return s.query(ctx, `SELECT id, date, description, amount, category, source
		FROM transactions WHERE category = '' OR category = ?
		ORDER BY date DESC, rowid ASC`, model.CategoryOther)
}

// UpdateCategory sets the category of one transaction.
func (s *Store) UpdateCategory(ctx context.Context, id, category string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE transactions SET category = ? WHERE id = ?`, category, id)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of stored transactions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var date, amount string
		if err := rows.Scan(&t.ID, &date, &t.Description, &amount, &t.Category, &t.Source); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		if t.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("transaction %s: parsing date %q: %w", t.ID, date, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s: parsing amount %q: %w", t.ID, amount, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	return out, nil
}
