package history

import (
	"context"
	"sort"
	"sync"

	"github.com/adwikataware/Hackcrypt/pkg/types"
)

// MemoryStore is a process-local Store. It backs tests and one-shot module
// runs where persisting history is not wanted.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*types.ScanRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*types.ScanRecord)}
}

func (s *MemoryStore) Put(_ context.Context, record *types.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ContentHash] = record
	return nil
}

func (s *MemoryStore) Get(_ context.Context, contentHash string) (*types.ScanRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[contentHash]
	return record, ok, nil
}

func (s *MemoryStore) GetAll(_ context.Context) ([]*types.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*types.ScanRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ScanTimestamp > records[j].ScanTimestamp
	})

	return records, nil
}

func (s *MemoryStore) Delete(_ context.Context, contentHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, contentHash)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*types.ScanRecord)
	return nil
}

func (s *MemoryStore) Stats(ctx context.Context) (*types.Stats, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStats(records), nil
}
