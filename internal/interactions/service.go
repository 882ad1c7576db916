package interactions

import (
	"context"

	"didattika-backend/internal/shared/telemetry"
)

// Service records document activity. Recording is always best-effort: a
// failed write is logged and swallowed so the primary operation still
// succeeds.
type Service struct {
	Store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{Store: store}
}

// RecordInteraction bumps the interaction counter for a document.
func (s *Service) RecordInteraction(ctx context.Context, documentID string) {
	if s == nil || s.Store == nil || documentID == "" {
		return
	}
	if err := s.Store.RecordInteraction(ctx, documentID); err != nil {
		telemetry.Warn("interactions.record_failed", map[string]any{
			"document_id": documentID,
			"kind":        "interaction",
			"error":       err.Error(),
		})
	}
}

// RecordAIQuery bumps the AI-query counter for a document.
func (s *Service) RecordAIQuery(ctx context.Context, documentID string) {
	if s == nil || s.Store == nil || documentID == "" {
		return
	}
	if err := s.Store.RecordAIQuery(ctx, documentID); err != nil {
		telemetry.Warn("interactions.record_failed", map[string]any{
			"document_id": documentID,
			"kind":        "ai_query",
			"error":       err.Error(),
		})
	}
}

// Counts returns the counters for a single document.
func (s *Service) Counts(ctx context.Context, documentID string) (Counts, error) {
	if s == nil || s.Store == nil {
		return Counts{DocumentID: documentID}, nil
	}
	return s.Store.GetCounts(ctx, documentID)
}

// AllCounts returns counters for every document with recorded activity.
func (s *Service) AllCounts(ctx context.Context) (map[string]Counts, error) {
	if s == nil || s.Store == nil {
		return map[string]Counts{}, nil
	}
	return s.Store.AllCounts(ctx)
}
