package memory

import (
	"context"
	"sync"

	"pharmatrace/internal/domain"
)

// LedgerStore is an append-only in-memory ledger. Entries keep insertion
// order; nothing is ever updated or removed.
type LedgerStore struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry
}

// NewLedgerStore constructs an empty in-memory ledger.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// Add appends one entry.
func (s *LedgerStore) Add(_ context.Context, entry *domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *entry
	s.entries = append(s.entries, &copied)
	return nil
}

// List returns a page of entries in insertion order.
func (s *LedgerStore) List(_ context.Context, skip, take int) ([]*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if skip < 0 {
		skip = 0
	}
	if skip >= len(s.entries) {
		return nil, nil
	}
	entries := s.entries[skip:]
	if take > 0 && take < len(entries) {
		entries = entries[:take]
	}

	page := make([]*domain.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		copied := *entry
		page = append(page, &copied)
	}
	return page, nil
}
