package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"kakeibo/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInsertAndListByMonth(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	m := core.Month(202601)

	stored, err := repo.InsertBatch(ctx, core.KindIncome, []core.Entry{
		{Month: m, Label: "Salary", Amount: 300000, Person: core.PersonHusband},
		{Month: m, Label: "Bonus", Amount: 50000, Person: core.PersonWife},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d entries, want 2", len(stored))
	}
	for _, e := range stored {
		if e.ID == "" {
			t.Fatalf("entry missing id: %+v", e)
		}
		if e.CreatedAt.IsZero() {
			t.Fatalf("entry missing timestamp: %+v", e)
		}
	}

	listed, err := repo.ListByMonth(ctx, core.KindIncome, m)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("listed %d entries, want 2", len(listed))
	}
	// Batch order survives under created_at ASC.
	if listed[0].Label != "Salary" || listed[1].Label != "Bonus" {
		t.Fatalf("unexpected order: %q, %q", listed[0].Label, listed[1].Label)
	}

	other, err := repo.ListByMonth(ctx, core.KindIncome, core.Month(202602))
	if err != nil {
		t.Fatalf("list other month: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other month should be empty, got %d", len(other))
	}
}

func TestKindsAreIsolated(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	m := core.Month(202601)

	if _, err := repo.InsertBatch(ctx, core.KindIncome, []core.Entry{
		{Month: m, Label: "Salary", Amount: 300000, Person: core.PersonHusband},
	}); err != nil {
		t.Fatalf("insert income: %v", err)
	}
	if _, err := repo.InsertBatch(ctx, core.KindExpense, []core.Entry{
		{Month: m, Label: "Rent", Amount: -100000, Person: core.PersonWife},
	}); err != nil {
		t.Fatalf("insert expense: %v", err)
	}

	for kind, want := range map[core.Kind]int{
		core.KindIncome:    1,
		core.KindExpense:   1,
		core.KindCarryover: 0,
	} {
		n, err := repo.CountByMonth(ctx, kind, m)
		if err != nil {
			t.Fatalf("count %s: %v", kind, err)
		}
		if n != want {
			t.Fatalf("count %s = %d, want %d", kind, n, want)
		}
	}
}

func TestKeysByMonth(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	m := core.Month(202601)

	if _, err := repo.InsertBatch(ctx, core.KindExpense, []core.Entry{
		{Month: m, Label: "Rent", Amount: -100000, Person: core.PersonWife},
		{Month: m, Label: "Rent", Amount: -100000, Person: core.PersonHusband},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	keys, err := repo.KeysByMonth(ctx, core.KindExpense, m)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(keys))
	}
	seen := make(map[core.EntryKey]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	if !seen[core.EntryKey{Label: "Rent", Person: core.PersonWife}] ||
		!seen[core.EntryKey{Label: "Rent", Person: core.PersonHusband}] {
		t.Fatalf("unexpected keys: %+v", keys)
	}
}

func TestUpdateEntry(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	m := core.Month(202601)

	stored, err := repo.InsertBatch(ctx, core.KindIncome, []core.Entry{
		{Month: m, Label: "Salary", Amount: 300000, Person: core.PersonHusband},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	updated, err := repo.UpdateEntry(ctx, core.KindIncome, stored[0].ID, "Salary adj", 310000, core.PersonHusband)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != stored[0].ID || updated.Month != m {
		t.Fatalf("id or month changed: %+v", updated)
	}
	if updated.Label != "Salary adj" || updated.Amount != 310000 {
		t.Fatalf("patch not applied: %+v", updated)
	}

	_, err = repo.UpdateEntry(ctx, core.KindIncome, "no-such-id", "x", 1, core.PersonWife)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestDeleteByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	stored, err := repo.InsertBatch(ctx, core.KindCarryover, []core.Entry{
		{Month: core.Month(202601), Label: "Card", Amount: -5000, Person: core.PersonWife},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.DeleteByID(ctx, core.KindCarryover, stored[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = repo.DeleteByID(ctx, core.KindCarryover, stored[0].ID)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows on second delete, got %v", err)
	}
}

func TestDeleteByMonth(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	m := core.Month(202601)

	if _, err := repo.InsertBatch(ctx, core.KindExpense, []core.Entry{
		{Month: m, Label: "Rent", Amount: -100000, Person: core.PersonWife},
		{Month: m, Label: "Food", Amount: -40000, Person: core.PersonHusband},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.InsertBatch(ctx, core.KindExpense, []core.Entry{
		{Month: core.Month(202602), Label: "Rent", Amount: -100000, Person: core.PersonWife},
	}); err != nil {
		t.Fatalf("insert other month: %v", err)
	}

	removed, err := repo.DeleteByMonth(ctx, core.KindExpense, m)
	if err != nil {
		t.Fatalf("delete by month: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed %d rows, want 2", removed)
	}

	left, err := repo.CountByMonth(ctx, core.KindExpense, core.Month(202602))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if left != 1 {
		t.Fatalf("neighbor month disturbed: %d rows left", left)
	}
}

func TestInvalidKindRejected(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.ListByMonth(ctx, core.Kind("loan"), core.Month(202601))
	if !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}
