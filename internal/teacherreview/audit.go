package teacherreview

import (
	"context"
	"sync"
)

// AuditStore persists approval audit entries.
type AuditStore interface {
	Add(ctx context.Context, rec ApprovalRecord) error
	ListByDocument(ctx context.Context, documentID string) ([]ApprovalRecord, error)
}

type memoryAudit struct {
	mu   sync.RWMutex
	data map[string][]ApprovalRecord
}

// NewMemoryAuditStore constructs an in-memory AuditStore.
func NewMemoryAuditStore() AuditStore {
	return &memoryAudit{data: make(map[string][]ApprovalRecord)}
}

func (s *memoryAudit) Add(ctx context.Context, rec ApprovalRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.DocumentID] = append(s.data[rec.DocumentID], rec)
	return nil
}

func (s *memoryAudit) ListByDocument(ctx context.Context, documentID string) ([]ApprovalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.data[documentID]
	out := make([]ApprovalRecord, len(recs))
	copy(out, recs)
	return out, nil
}
