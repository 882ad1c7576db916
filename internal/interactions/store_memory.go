package interactions

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]Counts
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string]Counts)}
}

func (s *memoryStore) RecordInteraction(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := s.data[documentID]
	counts.DocumentID = documentID
	counts.Interactions++
	s.data[documentID] = counts
	return nil
}

func (s *memoryStore) RecordAIQuery(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := s.data[documentID]
	counts.DocumentID = documentID
	counts.AIQueries++
	s.data[documentID] = counts
	return nil
}

func (s *memoryStore) GetCounts(ctx context.Context, documentID string) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := s.data[documentID]
	counts.DocumentID = documentID
	return counts, nil
}

func (s *memoryStore) AllCounts(ctx context.Context) (map[string]Counts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Counts, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out, nil
}
