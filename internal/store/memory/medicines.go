package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"pharmatrace/internal/domain"
	"pharmatrace/pkg/platform/sentinel"
)

// MedicineStore keeps medicines in a map keyed case-insensitively by batch
// number.
type MedicineStore struct {
	mu        sync.RWMutex
	medicines map[string]*domain.Medicine
}

// NewMedicineStore constructs an empty in-memory medicine store.
func NewMedicineStore() *MedicineStore {
	return &MedicineStore{medicines: make(map[string]*domain.Medicine)}
}

func batchKey(batchNo string) string {
	return strings.ToUpper(strings.TrimSpace(batchNo))
}

// List returns a page of medicines ordered by batch number.
func (s *MedicineStore) List(_ context.Context, skip, take int) ([]*domain.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.medicines))
	for key := range s.medicines {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if skip >= len(keys) {
		return nil, nil
	}
	keys = keys[skip:]
	if take < len(keys) {
		keys = keys[:take]
	}

	page := make([]*domain.Medicine, 0, len(keys))
	for _, key := range keys {
		copied := *s.medicines[key]
		page = append(page, &copied)
	}
	return page, nil
}

// FindByBatch looks a medicine up by batch number.
func (s *MedicineStore) FindByBatch(_ context.Context, batchNo string) (*domain.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	med, ok := s.medicines[batchKey(batchNo)]
	if !ok {
		return nil, fmt.Errorf("medicine batch %q: %w", batchNo, sentinel.ErrNotFound)
	}
	copied := *med
	return &copied, nil
}

// Upsert stores the medicine under its batch number.
func (s *MedicineStore) Upsert(_ context.Context, medicine *domain.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *medicine
	s.medicines[batchKey(medicine.BatchNo)] = &copied
	return nil
}

// DeleteByBatch removes a medicine, reporting whether it existed.
func (s *MedicineStore) DeleteByBatch(_ context.Context, batchNo string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := batchKey(batchNo)
	if _, ok := s.medicines[key]; !ok {
		return false, nil
	}
	delete(s.medicines, key)
	return true, nil
}
