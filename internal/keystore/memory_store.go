package keystore

import (
	"sync"

	"github.com/Amarnathp8247/zpay-corp-admin-sub001/pkg/models"
)

// MemoryStore holds records in process memory. Used by tests and by callers
// whose runtime offers no durable medium.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.StoredKeyRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.StoredKeyRecord)}
}

func (s *MemoryStore) Save(slot string, rec models.StoredKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Slot = normalizeSlot(slot)
	s.records[rec.Slot] = rec
	return nil
}

func (s *MemoryStore) Load(slot string) (*models.StoredKeyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[normalizeSlot(slot)]
	if !ok || !recordUsable(rec, slot) {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (s *MemoryStore) Clear(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, normalizeSlot(slot))
	return nil
}
