// Package services orchestrates ledger operations against the row store: the
// per-entry CRUD paths, the on-demand settlement read, and the month copy
// engine.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"kakeibo/internal/core"
)

// Ledger handles direct user entry: create, update, delete, and the
// settlement view. All amounts arrive as positive magnitudes and are negated
// on write for expense and carryover kinds.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Entries lists one kind's entries for a month, creation time ascending.
func (l *Ledger) Entries(ctx context.Context, kind core.Kind, month core.Month) ([]core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	return l.store.ListByMonth(ctx, kind, month)
}

// Create validates the input, applies the sign convention, and stores a new
// entry.
func (l *Ledger) Create(ctx context.Context, kind core.Kind, in core.EntryInput) (core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return core.Entry{}, err
	}
	if err := in.Validate(); err != nil {
		return core.Entry{}, err
	}

	stored, err := l.store.InsertBatch(ctx, kind, []core.Entry{in.Entry(kind)})
	if err != nil {
		return core.Entry{}, fmt.Errorf("create %s: %w", kind, err)
	}

	e := stored[0]
	slog.InfoContext(ctx, "Entry created",
		"kind", kind.String(),
		"id", e.ID,
		"month", e.Month.String(),
		"label", e.Label,
		"amount", e.Amount,
		"person", string(e.Person))

	return e, nil
}

// Update patches label, amount, and person of an existing entry. Month and id
// never change after creation; the input's month is only used for validation
// of the payload shape.
func (l *Ledger) Update(ctx context.Context, kind core.Kind, id string, in core.EntryInput) (core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return core.Entry{}, err
	}
	if err := in.Validate(); err != nil {
		return core.Entry{}, err
	}

	e, err := l.store.UpdateEntry(ctx, kind, id, in.Label, kind.SignedAmount(in.Amount), in.Person)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update %s: %w", kind, err)
	}

	slog.InfoContext(ctx, "Entry updated",
		"kind", kind.String(),
		"id", e.ID,
		"label", e.Label,
		"amount", e.Amount,
		"person", string(e.Person))

	return e, nil
}

// Delete removes one entry.
func (l *Ledger) Delete(ctx context.Context, kind core.Kind, id string) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if err := l.store.DeleteByID(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}

	slog.InfoContext(ctx, "Entry deleted", "kind", kind.String(), "id", id)
	return nil
}

// Settlement recomputes the month's settlement breakdown from fresh reads.
// The result is never cached or stored; carryovers do not participate.
func (l *Ledger) Settlement(ctx context.Context, month core.Month) (core.Calculation, error) {
	incomes, err := l.store.ListByMonth(ctx, core.KindIncome, month)
	if err != nil {
		return core.Calculation{}, fmt.Errorf("read incomes: %w", err)
	}
	expenses, err := l.store.ListByMonth(ctx, core.KindExpense, month)
	if err != nil {
		return core.Calculation{}, fmt.Errorf("read expenses: %w", err)
	}

	return core.Calculate(incomes, expenses), nil
}
