package repository

import (
	"context"
	"sync"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
)

// MemorySignalStore keeps the last capacity records per symbol. Used when no
// ClickHouse is configured.
type MemorySignalStore struct {
	mu       sync.RWMutex
	capacity int
	records  map[string][]models.SignalRecord
}

var _ domrepo.SignalStore = (*MemorySignalStore)(nil)

func NewMemorySignalStore(capacity int) *MemorySignalStore {
	if capacity <= 0 {
		capacity = 500
	}
	return &MemorySignalStore{capacity: capacity, records: map[string][]models.SignalRecord{}}
}

func (s *MemorySignalStore) Save(_ context.Context, r *models.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := append(s.records[r.Symbol], r.Record())
	if len(recs) > s.capacity {
		recs = recs[len(recs)-s.capacity:]
	}
	s.records[r.Symbol] = recs
	return nil
}

// Recent returns up to limit records, newest first.
func (s *MemorySignalStore) Recent(_ context.Context, symbol string, limit int) ([]models.SignalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.records[symbol]
	n := min(limit, len(recs))
	out := make([]models.SignalRecord, 0, n)
	for i := len(recs) - 1; i >= len(recs)-n; i-- {
		out = append(out, recs[i])
	}
	return out, nil
}
