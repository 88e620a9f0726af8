package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"kakeibo/internal/core"
	"kakeibo/internal/memory"
)

func TestLedgerCreateAppliesSignConvention(t *testing.T) {
	store := memory.New()
	ledger := NewLedger(store)
	ctx := context.Background()

	in := core.EntryInput{Month: jan, Label: "食費", Amount: 50000, Person: core.PersonWife}

	expense, err := ledger.Create(ctx, core.KindExpense, in)
	if err != nil {
		t.Fatalf("Create expense: %v", err)
	}
	if expense.Amount != -50000 {
		t.Errorf("expense stored amount = %d, want -50000", expense.Amount)
	}
	if expense.ID == "" || expense.CreatedAt.IsZero() {
		t.Error("store must assign id and creation timestamp")
	}

	income, err := ledger.Create(ctx, core.KindIncome, in)
	if err != nil {
		t.Fatalf("Create income: %v", err)
	}
	if income.Amount != 50000 {
		t.Errorf("income stored amount = %d, want 50000", income.Amount)
	}

	carryover, err := ledger.Create(ctx, core.KindCarryover, in)
	if err != nil {
		t.Fatalf("Create carryover: %v", err)
	}
	if carryover.Amount != -50000 {
		t.Errorf("carryover stored amount = %d, want -50000", carryover.Amount)
	}
}

func TestLedgerCreateRejectsInvalidInput(t *testing.T) {
	ledger := NewLedger(memory.New())
	ctx := context.Background()

	bads := []core.EntryInput{
		{Month: jan, Label: "", Amount: 1, Person: core.PersonWife},
		{Month: jan, Label: "a", Amount: 0, Person: core.PersonWife},
		{Month: jan, Label: "a", Amount: 1, Person: "neighbor"},
		{Month: 0, Label: "a", Amount: 1, Person: core.PersonWife},
	}
	for i, in := range bads {
		if _, err := ledger.Create(ctx, core.KindIncome, in); err == nil {
			t.Errorf("case %d expected validation error", i)
		}
	}

	if _, err := ledger.Create(ctx, "loan", core.EntryInput{Month: jan, Label: "a", Amount: 1, Person: core.PersonWife}); err == nil {
		t.Error("unknown kind must be rejected")
	}
}

func TestLedgerUpdateKeepsMonthAndID(t *testing.T) {
	store := memory.New()
	ledger := NewLedger(store)
	ctx := context.Background()

	created, err := ledger.Create(ctx, core.KindExpense, core.EntryInput{Month: jan, Label: "食費", Amount: 50000, Person: core.PersonWife})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := ledger.Update(ctx, core.KindExpense, created.ID, core.EntryInput{Month: jan, Label: "外食費", Amount: 30000, Person: core.PersonHusband})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.ID != created.ID || updated.Month != created.Month {
		t.Errorf("id and month are immutable: %+v", updated)
	}
	if updated.Label != "外食費" || updated.Amount != -30000 || updated.Person != core.PersonHusband {
		t.Errorf("patch not applied: %+v", updated)
	}
}

func TestLedgerDelete(t *testing.T) {
	store := memory.New()
	ledger := NewLedger(store)
	ctx := context.Background()

	created, err := ledger.Create(ctx, core.KindIncome, core.EntryInput{Month: jan, Label: "給料", Amount: 1000, Person: core.PersonHusband})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := ledger.Delete(ctx, core.KindIncome, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := ledger.Delete(ctx, core.KindIncome, created.ID); err == nil {
		t.Error("deleting a missing entry must fail")
	}
}

func TestLedgerSettlementReadsFresh(t *testing.T) {
	store := memory.New()
	ledger := NewLedger(store)
	ctx := context.Background()

	if _, err := ledger.Create(ctx, core.KindIncome, core.EntryInput{Month: jan, Label: "給料", Amount: 100000, Person: core.PersonWife}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := ledger.Create(ctx, core.KindExpense, core.EntryInput{Month: jan, Label: "家賃", Amount: 80000, Person: core.PersonWife}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Carryovers are informational only and never enter the calculation.
	if _, err := ledger.Create(ctx, core.KindCarryover, core.EntryInput{Month: jan, Label: "繰越", Amount: 99999, Person: core.PersonHusband}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	calc, err := ledger.Settlement(ctx, jan)
	if err != nil {
		t.Fatalf("Settlement: %v", err)
	}

	if calc.TotalIncome != 100000 || calc.TotalExpense != -80000 {
		t.Errorf("totals = %d / %d", calc.TotalIncome, calc.TotalExpense)
	}
	if want := decimal.NewFromInt(-10000); !calc.Settlement.Equal(want) {
		t.Errorf("settlement = %s, want %s", calc.Settlement, want)
	}

	// A new write immediately shows up in the next read.
	if _, err := ledger.Create(ctx, core.KindIncome, core.EntryInput{Month: jan, Label: "副業", Amount: 20000, Person: core.PersonHusband}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	calc, err = ledger.Settlement(ctx, jan)
	if err != nil {
		t.Fatalf("Settlement: %v", err)
	}
	if calc.TotalIncome != 120000 {
		t.Errorf("settlement must be recomputed from fresh reads, totalIncome = %d", calc.TotalIncome)
	}
}
