// Package memory provides in-memory stores for tests and single-process
// development runs.
//
// Error contract: every store returns sentinel.ErrNotFound (wrapped) when the
// requested entity does not exist, and nil on success.
package memory

import (
	"context"
	"fmt"
	"sync"

	"pharmatrace/internal/domain"
	"pharmatrace/pkg/platform/sentinel"
)

// PackStore keeps packs and their scan history in maps keyed by normalized
// token.
type PackStore struct {
	mu    sync.RWMutex
	packs map[string]*domain.Pack
	scans map[string]int
}

// NewPackStore constructs an empty in-memory pack store.
func NewPackStore() *PackStore {
	return &PackStore{
		packs: make(map[string]*domain.Pack),
		scans: make(map[string]int),
	}
}

// FindByToken returns a copy of the pack so callers cannot mutate stored
// state without an Upsert.
func (s *PackStore) FindByToken(_ context.Context, token string) (*domain.Pack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pack, ok := s.packs[domain.NormalizeToken(token)]
	if !ok {
		return nil, fmt.Errorf("pack %q: %w", token, sentinel.ErrNotFound)
	}
	copied := *pack
	return &copied, nil
}

// Upsert stores the pack under its normalized token.
func (s *PackStore) Upsert(_ context.Context, pack *domain.Pack) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *pack
	s.packs[domain.NormalizeToken(pack.Token)] = &copied
	return nil
}

// HasScan reports whether the token has been scanned before.
func (s *PackStore) HasScan(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scans[domain.NormalizeToken(token)] > 0, nil
}

// RecordScan appends one scan for the token.
func (s *PackStore) RecordScan(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans[domain.NormalizeToken(token)]++
	return nil
}
