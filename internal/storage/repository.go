// Package storage persists ledger entries in SQLite. The three entry kinds
// live in identically shaped tables (incomes, expenses, carryovers) and every
// operation is scoped by kind, so the repository is one set of queries
// parameterized by table name rather than three near-identical copies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"kakeibo/internal/core"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListByMonth returns all entries of one kind for a month, ordered by creation
// time ascending for stable display.
func (r *Repository) ListByMonth(ctx context.Context, kind core.Kind, month core.Month) ([]core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, month, label, amount, person, created_at FROM %s WHERE month = ? ORDER BY created_at ASC, id ASC`,
		kind.Table())
	rows, err := r.db.QueryContext(ctx, query, month.String())
	if err != nil {
		return nil, fmt.Errorf("list %s by month: %w", kind.Table(), err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", kind.Table(), err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", kind.Table(), err)
	}

	return entries, nil
}

// CountByMonth returns the number of entries of one kind in a month.
func (r *Repository) CountByMonth(ctx context.Context, kind core.Kind, month core.Month) (int, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE month = ?`, kind.Table())
	var count int
	if err := r.db.QueryRowContext(ctx, query, month.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s by month: %w", kind.Table(), err)
	}

	return count, nil
}

// KeysByMonth returns the (label, person) pairs present in a month for one
// kind, for skip-mode duplicate detection.
func (r *Repository) KeysByMonth(ctx context.Context, kind core.Kind, month core.Month) ([]core.EntryKey, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT label, person FROM %s WHERE month = ?`, kind.Table())
	rows, err := r.db.QueryContext(ctx, query, month.String())
	if err != nil {
		return nil, fmt.Errorf("keys of %s by month: %w", kind.Table(), err)
	}
	defer rows.Close()

	var keys []core.EntryKey
	for rows.Next() {
		var k core.EntryKey
		if err := rows.Scan(&k.Label, &k.Person); err != nil {
			return nil, fmt.Errorf("scan %s key: %w", kind.Table(), err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s keys: %w", kind.Table(), err)
	}

	return keys, nil
}

// InsertBatch inserts entries as a single multi-row statement, assigning each
// an id and creation timestamp. It returns the stored entries.
func (r *Repository) InsertBatch(ctx context.Context, kind core.Kind, entries []core.Entry) ([]core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	stored := make([]core.Entry, len(entries))
	placeholders := make([]string, len(entries))
	args := make([]any, 0, len(entries)*6)
	for i, e := range entries {
		e.ID = uuid.NewString()
		// Nudge timestamps so one batch keeps its order under created_at ASC.
		e.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		stored[i] = e

		placeholders[i] = "(?, ?, ?, ?, ?, ?)"
		args = append(args, e.ID, e.Month.String(), e.Label, e.Amount, string(e.Person), e.CreatedAt)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, month, label, amount, person, created_at) VALUES %s`,
		kind.Table(), strings.Join(placeholders, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert %s batch: %w", kind.Table(), err)
	}

	slog.DebugContext(ctx, "Entries inserted",
		"kind", kind.String(),
		"count", len(stored),
		"month", entries[0].Month.String())

	return stored, nil
}

// UpdateEntry patches label, amount, and person of one entry. Month and id are
// immutable after creation. Returns the updated row.
func (r *Repository) UpdateEntry(ctx context.Context, kind core.Kind, id string, label string, amount int64, person core.Person) (core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return core.Entry{}, err
	}

	query := fmt.Sprintf(`UPDATE %s SET label = ?, amount = ?, person = ? WHERE id = ?`, kind.Table())
	res, err := r.db.ExecContext(ctx, query, label, amount, string(person), id)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update %s: %w", kind.Table(), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.Entry{}, sql.ErrNoRows
	}

	query = fmt.Sprintf(`SELECT id, month, label, amount, person, created_at FROM %s WHERE id = ?`, kind.Table())
	row := r.db.QueryRowContext(ctx, query, id)
	e, err := scanEntry(row)
	if err != nil {
		return core.Entry{}, fmt.Errorf("reread updated %s: %w", kind.Table(), err)
	}

	return e, nil
}

// DeleteByID removes one entry.
func (r *Repository) DeleteByID(ctx context.Context, kind core.Kind, id string) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, kind.Table())
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind.Table(), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeleteByMonth wipes all entries of one kind for a month and reports how many
// rows were removed. The copy engine relies on this in replace mode.
func (r *Repository) DeleteByMonth(ctx context.Context, kind core.Kind, month core.Month) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE month = ?`, kind.Table())
	res, err := r.db.ExecContext(ctx, query, month.String())
	if err != nil {
		return 0, fmt.Errorf("delete %s by month: %w", kind.Table(), err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for %s: %w", kind.Table(), err)
	}

	slog.DebugContext(ctx, "Month wiped",
		"kind", kind.String(),
		"month", month.String(),
		"removed", removed)

	return removed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e        core.Entry
		monthKey string
		person   string
	)
	if err := row.Scan(&e.ID, &monthKey, &e.Label, &e.Amount, &person, &e.CreatedAt); err != nil {
		return core.Entry{}, err
	}

	month, err := core.ParseMonth(monthKey)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse month %q: %w", monthKey, err)
	}
	e.Month = month
	e.Person = core.Person(person)

	return e, nil
}
