// Package memory is an in-process row store used as the development backend
// and as the test double for the services. It mirrors the SQLite repository's
// behavior: ids and creation timestamps are assigned on insert, listings come
// back in creation order, and every operation is scoped by kind and month.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"kakeibo/internal/core"
)

type Store struct {
	mu      sync.Mutex
	entries map[core.Kind][]core.Entry
	clock   time.Time
}

func New() *Store {
	return &Store{
		entries: map[core.Kind][]core.Entry{},
		clock:   time.Now().UTC(),
	}
}

func (s *Store) ListByMonth(_ context.Context, kind core.Kind, month core.Month) ([]core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Entry
	for _, e := range s.entries[kind] {
		if e.Month == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) CountByMonth(ctx context.Context, kind core.Kind, month core.Month) (int, error) {
	entries, err := s.ListByMonth(ctx, kind, month)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *Store) KeysByMonth(ctx context.Context, kind core.Kind, month core.Month) ([]core.EntryKey, error) {
	entries, err := s.ListByMonth(ctx, kind, month)
	if err != nil {
		return nil, err
	}
	keys := make([]core.EntryKey, len(entries))
	for i, e := range entries {
		keys[i] = e.Key()
	}
	return keys, nil
}

func (s *Store) InsertBatch(_ context.Context, kind core.Kind, entries []core.Entry) ([]core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]core.Entry, len(entries))
	for i, e := range entries {
		e.ID = uuid.NewString()
		e.CreatedAt = s.tick()
		s.entries[kind] = append(s.entries[kind], e)
		stored[i] = e
	}
	return stored, nil
}

func (s *Store) UpdateEntry(_ context.Context, kind core.Kind, id string, label string, amount int64, person core.Person) (core.Entry, error) {
	if err := kind.Validate(); err != nil {
		return core.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries[kind] {
		if e.ID == id {
			e.Label = label
			e.Amount = amount
			e.Person = person
			s.entries[kind][i] = e
			return e, nil
		}
	}
	return core.Entry{}, sql.ErrNoRows
}

func (s *Store) DeleteByID(_ context.Context, kind core.Kind, id string) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries[kind] {
		if e.ID == id {
			s.entries[kind] = append(s.entries[kind][:i], s.entries[kind][i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *Store) DeleteByMonth(_ context.Context, kind core.Kind, month core.Month) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		kept    []core.Entry
		removed int64
	)
	for _, e := range s.entries[kind] {
		if e.Month == month {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries[kind] = kept
	return removed, nil
}

// Seed inserts a pre-built entry verbatim, keeping its id if set. Test helper.
func (s *Store) Seed(kind core.Kind, e core.Entry) core.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.tick()
	}
	s.entries[kind] = append(s.entries[kind], e)
	return e
}

// tick hands out strictly increasing timestamps so creation order is total.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Microsecond)
	return s.clock
}

// Dump returns a copy of one kind's rows in insertion order. Test helper.
func (s *Store) Dump(kind core.Kind) []core.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Entry(nil), s.entries[kind]...)
}
