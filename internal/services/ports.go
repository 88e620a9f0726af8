package services

import (
	"context"

	"kakeibo/internal/core"
)

// Ports for the row store. The SQLite repository and the in-memory store both
// satisfy Store; the services only ever see these interfaces.
type (
	EntryReader interface {
		// ListByMonth returns one kind's entries for a month, creation time ascending.
		ListByMonth(ctx context.Context, kind core.Kind, month core.Month) ([]core.Entry, error)
		// CountByMonth returns one kind's entry count for a month.
		CountByMonth(ctx context.Context, kind core.Kind, month core.Month) (int, error)
		// KeysByMonth returns the (label, person) pairs present for a kind and month.
		KeysByMonth(ctx context.Context, kind core.Kind, month core.Month) ([]core.EntryKey, error)
	}

	EntryWriter interface {
		// InsertBatch inserts entries in one statement, assigning ids and timestamps.
		InsertBatch(ctx context.Context, kind core.Kind, entries []core.Entry) ([]core.Entry, error)
		// UpdateEntry patches label, amount, and person of one entry by id.
		UpdateEntry(ctx context.Context, kind core.Kind, id string, label string, amount int64, person core.Person) (core.Entry, error)
		// DeleteByID removes one entry.
		DeleteByID(ctx context.Context, kind core.Kind, id string) error
		// DeleteByMonth wipes a kind for a month, returning the rows removed.
		DeleteByMonth(ctx context.Context, kind core.Kind, month core.Month) (int64, error)
	}

	Store interface {
		EntryReader
		EntryWriter
	}
)
