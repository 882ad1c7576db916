package interactions

import "context"

// Store persists per-document activity counters.
type Store interface {
	RecordInteraction(ctx context.Context, documentID string) error
	RecordAIQuery(ctx context.Context, documentID string) error
	GetCounts(ctx context.Context, documentID string) (Counts, error)
	AllCounts(ctx context.Context) (map[string]Counts, error)
}
