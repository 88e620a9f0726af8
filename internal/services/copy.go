package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"kakeibo/internal/core"
)

const (
	// CopyModeAdd inserts everything selected with no duplicate check.
	CopyModeAdd CopyMode = "add"
	// CopyModeSkip drops selected items whose (label, person) pair already
	// exists in the target month for the same kind.
	CopyModeSkip CopyMode = "skip"
	// CopyModeReplace wipes each targeted kind in the target month before
	// inserting. Kinds not targeted by the request are never touched.
	CopyModeReplace CopyMode = "replace"
)

const (
	// CopyWithAmount carries the stored amount forward unchanged.
	CopyWithAmount ItemCopyMode = "withAmount"
	// CopyLabelOnly carries the label and person forward but writes the
	// minimum nonzero amount of the correct sign, so a recurring line item's
	// name survives without committing to last month's figure.
	CopyLabelOnly ItemCopyMode = "labelOnly"
)

var (
	ErrUnknownCopyMode     = errors.New("unknown copy mode")
	ErrUnknownItemCopyMode = errors.New("unknown item copy mode")
)

type (
	// CopyMode is the reconciliation policy for merging source-month items
	// into a target month that may already hold data.
	CopyMode string

	// ItemCopyMode selects per-item amount handling.
	ItemCopyMode string

	// CopyItem is one copyable income or expense row from the source month.
	CopyItem struct {
		ID     string      `json:"id"`
		Label  string      `json:"label"`
		Amount int64       `json:"amount"`
		Person core.Person `json:"person"`
		Kind   core.Kind   `json:"type"`
	}

	// SelectedItem is a caller-chosen item to copy, with its amount handling.
	SelectedItem struct {
		CopyItem
		Mode ItemCopyMode `json:"itemCopyMode"`
	}

	// CopyPreview is the data a caller needs before executing a copy: the
	// selectable income/expense items, the source carryover count, and how
	// many entries the target month already holds.
	CopyPreview struct {
		SourceMonth    core.Month `json:"sourceMonth"`
		TargetMonth    core.Month `json:"targetMonth"`
		Items          []CopyItem `json:"items"`
		CarryoverCount int        `json:"carryoverCount"`
		ExistingCount  int        `json:"existingCount"`
	}

	// CopyOptions parameterizes one copy execution.
	CopyOptions struct {
		SourceMonth      core.Month     `json:"sourceMonth"`
		TargetMonth      core.Month     `json:"targetMonth"`
		Mode             CopyMode       `json:"mode"`
		Items            []SelectedItem `json:"selectedItems"`
		IncludeCarryover bool           `json:"includeCarryover"`
	}

	// KindCounts holds per-kind tallies.
	KindCounts struct {
		Incomes    int `json:"incomes"`
		Expenses   int `json:"expenses"`
		Carryovers int `json:"carryovers"`
	}

	// CopyResult reports what one execution did. When Copy returns an error
	// the counts still reflect the writes that completed before the failing
	// step; nothing is rolled back.
	CopyResult struct {
		Copied  KindCounts `json:"copied"`
		Skipped KindCounts `json:"skipped"`
	}
)

func (m CopyMode) Validate() error {
	switch m {
	case CopyModeAdd, CopyModeSkip, CopyModeReplace:
		return nil
	}
	return ErrUnknownCopyMode
}

func (m ItemCopyMode) Validate() error {
	switch m {
	case CopyWithAmount, CopyLabelOnly:
		return nil
	}
	return ErrUnknownItemCopyMode
}

func (c *KindCounts) add(kind core.Kind, n int) {
	switch kind {
	case core.KindIncome:
		c.Incomes += n
	case core.KindExpense:
		c.Expenses += n
	case core.KindCarryover:
		c.Carryovers += n
	}
}

// Copier moves a selected subset of one month's entries into another month.
// The statements it issues commit independently; two concurrent copies
// against the same target month can interleave (single-household assumption).
type Copier struct {
	store Store
}

func NewCopier(store Store) *Copier {
	return &Copier{store: store}
}

// Preview reads the source month's copyable income and expense items (ordered
// by creation time), the source carryover count, and the target month's total
// existing-entry count. Each read degrades to an empty result on failure so a
// caller can still render partial information; nothing is mutated. The source
// and target months may be equal.
func (c *Copier) Preview(ctx context.Context, source, target core.Month) (CopyPreview, error) {
	if err := source.Validate(); err != nil {
		return CopyPreview{}, fmt.Errorf("source month: %w", err)
	}
	if err := target.Validate(); err != nil {
		return CopyPreview{}, fmt.Errorf("target month: %w", err)
	}

	var (
		incomes, expenses                []core.Entry
		carryoverCount                   int
		incomeAt, expenseAt, carryoverAt int
	)

	degrade := func(kind core.Kind, err error) {
		slog.WarnContext(ctx, "Copy preview read failed, degrading to empty",
			"kind", kind.String(),
			"error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if incomes, err = c.store.ListByMonth(gctx, core.KindIncome, source); err != nil {
			degrade(core.KindIncome, err)
			incomes = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if expenses, err = c.store.ListByMonth(gctx, core.KindExpense, source); err != nil {
			degrade(core.KindExpense, err)
			expenses = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if carryoverCount, err = c.store.CountByMonth(gctx, core.KindCarryover, source); err != nil {
			degrade(core.KindCarryover, err)
			carryoverCount = 0
		}
		return nil
	})
	for _, leg := range []struct {
		kind core.Kind
		dst  *int
	}{
		{core.KindIncome, &incomeAt},
		{core.KindExpense, &expenseAt},
		{core.KindCarryover, &carryoverAt},
	} {
		g.Go(func() error {
			var err error
			if *leg.dst, err = c.store.CountByMonth(gctx, leg.kind, target); err != nil {
				degrade(leg.kind, err)
				*leg.dst = 0
			}
			return nil
		})
	}
	_ = g.Wait() // every leg degrades instead of failing

	items := make([]CopyItem, 0, len(incomes)+len(expenses))
	for _, e := range incomes {
		items = append(items, copyItem(e, core.KindIncome))
	}
	for _, e := range expenses {
		items = append(items, copyItem(e, core.KindExpense))
	}

	return CopyPreview{
		SourceMonth:    source,
		TargetMonth:    target,
		Items:          items,
		CarryoverCount: carryoverCount,
		ExistingCount:  incomeAt + expenseAt + carryoverAt,
	}, nil
}

// Copy executes one month-to-month copy. Order matters: replace-mode deletes
// always precede every insert, so a freshly inserted row can never be wiped by
// this invocation's own cleanup. The operation is not one transaction; on
// failure the returned counts report the writes that had already committed.
func (c *Copier) Copy(ctx context.Context, opts CopyOptions) (CopyResult, error) {
	var result CopyResult

	if err := c.validateOptions(opts); err != nil {
		return result, err
	}

	// Nothing selected and no carryover pass: a well-defined no-op.
	if len(opts.Items) == 0 && !opts.IncludeCarryover {
		return result, nil
	}

	hasKind := map[core.Kind]bool{}
	for _, item := range opts.Items {
		hasKind[item.Kind] = true
	}

	if opts.Mode == CopyModeReplace {
		for _, kind := range []core.Kind{core.KindIncome, core.KindExpense, core.KindCarryover} {
			targeted := hasKind[kind]
			if kind == core.KindCarryover {
				targeted = opts.IncludeCarryover
			}
			if !targeted {
				continue
			}
			if _, err := c.store.DeleteByMonth(ctx, kind, opts.TargetMonth); err != nil {
				return result, fmt.Errorf("%s delete failed: %w", kind, err)
			}
		}
	}

	for _, kind := range []core.Kind{core.KindIncome, core.KindExpense} {
		if !hasKind[kind] {
			continue
		}

		existing, err := c.existingKeys(ctx, opts.Mode, kind, opts.TargetMonth)
		if err != nil {
			return result, err
		}

		var batch []core.Entry
		for _, item := range opts.Items {
			if item.Kind != kind {
				continue
			}
			key := core.EntryKey{Label: item.Label, Person: item.Person}
			if _, dup := existing[key]; dup {
				result.Skipped.add(kind, 1)
				continue
			}
			batch = append(batch, item.entry(opts.TargetMonth))
		}

		if _, err := c.store.InsertBatch(ctx, kind, batch); err != nil {
			return result, fmt.Errorf("%s insert failed: %w", kind, err)
		}
		result.Copied.add(kind, len(batch))
	}

	if opts.IncludeCarryover {
		if err := c.copyCarryovers(ctx, opts, &result); err != nil {
			return result, err
		}
	}

	slog.InfoContext(ctx, "Month copy completed",
		"source_month", opts.SourceMonth.String(),
		"target_month", opts.TargetMonth.String(),
		"copy_mode", string(opts.Mode),
		"copied_incomes", result.Copied.Incomes,
		"copied_expenses", result.Copied.Expenses,
		"copied_carryovers", result.Copied.Carryovers,
		"skipped_incomes", result.Skipped.Incomes,
		"skipped_expenses", result.Skipped.Expenses,
		"skipped_carryovers", result.Skipped.Carryovers)

	return result, nil
}

// copyCarryovers bulk-copies every source carryover independent of the
// item-level selection, always with its amount, under the same mode policy.
func (c *Copier) copyCarryovers(ctx context.Context, opts CopyOptions, result *CopyResult) error {
	source, err := c.store.ListByMonth(ctx, core.KindCarryover, opts.SourceMonth)
	if err != nil {
		return fmt.Errorf("carryover read failed: %w", err)
	}

	existing, err := c.existingKeys(ctx, opts.Mode, core.KindCarryover, opts.TargetMonth)
	if err != nil {
		return err
	}

	var batch []core.Entry
	for _, e := range source {
		if _, dup := existing[e.Key()]; dup {
			result.Skipped.Carryovers++
			continue
		}
		batch = append(batch, core.Entry{
			Month:  opts.TargetMonth,
			Label:  e.Label,
			Amount: e.Amount,
			Person: e.Person,
		})
	}

	if _, err := c.store.InsertBatch(ctx, core.KindCarryover, batch); err != nil {
		return fmt.Errorf("carryover insert failed: %w", err)
	}
	result.Copied.Carryovers += len(batch)

	return nil
}

// existingKeys builds the skip-mode de-dup set for one kind, once per target
// month, so skip stays linear in the number of selected items.
func (c *Copier) existingKeys(ctx context.Context, mode CopyMode, kind core.Kind, target core.Month) (map[core.EntryKey]struct{}, error) {
	if mode != CopyModeSkip {
		return nil, nil
	}

	keys, err := c.store.KeysByMonth(ctx, kind, target)
	if err != nil {
		return nil, fmt.Errorf("%s duplicate check failed: %w", kind, err)
	}

	set := make(map[core.EntryKey]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}

func (c *Copier) validateOptions(opts CopyOptions) error {
	if err := opts.SourceMonth.Validate(); err != nil {
		return fmt.Errorf("source month: %w", err)
	}
	if err := opts.TargetMonth.Validate(); err != nil {
		return fmt.Errorf("target month: %w", err)
	}
	if err := opts.Mode.Validate(); err != nil {
		return err
	}
	for _, item := range opts.Items {
		// Carryovers travel only through the bulk pass, never the selection.
		if item.Kind != core.KindIncome && item.Kind != core.KindExpense {
			return fmt.Errorf("selected item %q: %w", item.ID, core.ErrInvalidKind)
		}
		if err := item.Mode.Validate(); err != nil {
			return fmt.Errorf("selected item %q: %w", item.ID, err)
		}
	}
	return nil
}

// entry builds the row to insert into the target month, applying label-only
// amount redaction when requested.
func (s SelectedItem) entry(target core.Month) core.Entry {
	amount := s.Amount
	if s.Mode == CopyLabelOnly {
		amount = s.Kind.MinAmount()
	}
	return core.Entry{
		Month:  target,
		Label:  s.Label,
		Amount: amount,
		Person: s.Person,
	}
}

func copyItem(e core.Entry, kind core.Kind) CopyItem {
	return CopyItem{
		ID:     e.ID,
		Label:  e.Label,
		Amount: e.Amount,
		Person: e.Person,
		Kind:   kind,
	}
}
