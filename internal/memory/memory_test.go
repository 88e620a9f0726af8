package memory

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"kakeibo/internal/core"
	"kakeibo/internal/services"
)

var _ services.Store = (*Store)(nil)

func TestInsertAssignsIDAndOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := core.Month(202601)

	stored, err := s.InsertBatch(ctx, core.KindIncome, []core.Entry{
		{Month: m, Label: "Salary", Amount: 300000, Person: core.PersonHusband},
		{Month: m, Label: "Bonus", Amount: 50000, Person: core.PersonWife},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if stored[0].ID == "" || stored[1].ID == "" || stored[0].ID == stored[1].ID {
		t.Fatalf("ids not assigned uniquely: %q, %q", stored[0].ID, stored[1].ID)
	}
	if !stored[0].CreatedAt.Before(stored[1].CreatedAt) {
		t.Fatalf("timestamps not strictly increasing")
	}

	listed, err := s.ListByMonth(ctx, core.KindIncome, m)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].Label != "Salary" {
		t.Fatalf("unexpected listing: %+v", listed)
	}
}

func TestMonthScoping(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Seed(core.KindExpense, core.Entry{Month: core.Month(202601), Label: "Rent", Amount: -100000, Person: core.PersonWife})
	s.Seed(core.KindExpense, core.Entry{Month: core.Month(202602), Label: "Rent", Amount: -100000, Person: core.PersonWife})

	n, err := s.CountByMonth(ctx, core.KindExpense, core.Month(202601))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}

	keys, err := s.KeysByMonth(ctx, core.KindExpense, core.Month(202602))
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := core.EntryKey{Label: "Rent", Person: core.PersonWife}
	if len(keys) != 1 || keys[0] != want {
		t.Fatalf("unexpected keys: %+v", keys)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	seeded := s.Seed(core.KindIncome, core.Entry{
		Month: core.Month(202601), Label: "Salary", Amount: 300000, Person: core.PersonHusband,
	})

	updated, err := s.UpdateEntry(ctx, core.KindIncome, seeded.ID, "Salary adj", 310000, core.PersonHusband)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Label != "Salary adj" || updated.Amount != 310000 || updated.Month != seeded.Month {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if _, err := s.UpdateEntry(ctx, core.KindIncome, "missing", "x", 1, core.PersonWife); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}

	if err := s.DeleteByID(ctx, core.KindIncome, seeded.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteByID(ctx, core.KindIncome, seeded.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows on second delete, got %v", err)
	}
}

func TestDeleteByMonth(t *testing.T) {
	s := New()
	ctx := context.Background()
	m := core.Month(202601)

	s.Seed(core.KindCarryover, core.Entry{Month: m, Label: "Card", Amount: -5000, Person: core.PersonWife})
	s.Seed(core.KindCarryover, core.Entry{Month: m, Label: "Loan", Amount: -2000, Person: core.PersonHusband})
	s.Seed(core.KindCarryover, core.Entry{Month: core.Month(202602), Label: "Card", Amount: -5000, Person: core.PersonWife})

	removed, err := s.DeleteByMonth(ctx, core.KindCarryover, m)
	if err != nil {
		t.Fatalf("delete by month: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if got := len(s.Dump(core.KindCarryover)); got != 1 {
		t.Fatalf("left %d rows, want 1", got)
	}
}
