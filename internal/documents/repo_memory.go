package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo. Documents are kept in
// insertion order so listings remain stable across equal timestamps.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs []Document
	byID map[string]int // id -> index into docs
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]int)}
}

// Create stores a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[doc.ID] = len(r.docs)
	r.docs = append(r.docs, doc)
	return nil
}

// GetByID returns a document iff it is owned by ownerID.
func (r *MemoryRepo) GetByID(ctx context.Context, documentID, ownerID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[documentID]
	if !ok || r.docs[idx].UserID != ownerID {
		return Document{}, ErrNotFound
	}
	return r.docs[idx], nil
}

// Update merges patch onto an owned document and refreshes UpdatedAt.
func (r *MemoryRepo) Update(ctx context.Context, documentID, ownerID string, patch Patch) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[documentID]
	if !ok || r.docs[idx].UserID != ownerID {
		return Document{}, ErrNotFound
	}
	doc := applyPatch(r.docs[idx], patch)
	doc.UpdatedAt = time.Now().UTC()
	r.docs[idx] = doc
	return doc, nil
}

// SoftDelete marks an owned document deleted; the record is never removed.
func (r *MemoryRepo) SoftDelete(ctx context.Context, documentID, ownerID string) (Document, error) {
	status := StatusDeleted
	return r.Update(ctx, documentID, ownerID, Patch{Status: &status})
}

// List returns the owner's documents matching all filters, newest first,
// with the total size of the filtered set before pagination.
func (r *MemoryRepo) List(ctx context.Context, ownerID string, f Filters) ([]Document, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	matched := make([]Document, 0)
	for _, doc := range r.docs {
		if doc.UserID != ownerID {
			continue
		}
		if matchesFilters(doc, f) {
			matched = append(matched, doc)
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(matched)
	total := len(matched)
	return paginate(matched, f.Page, f.Limit), total, nil
}

// ListAll returns every document in insertion order, for the review layer.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Document, len(r.docs))
	copy(out, r.docs)
	return out, nil
}

func applyPatch(doc Document, patch Patch) Document {
	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Summary != nil {
		doc.Summary = *patch.Summary
	}
	if patch.ContentText != nil {
		doc.ContentText = *patch.ContentText
	}
	if patch.Status != nil {
		doc.Status = *patch.Status
	}
	if patch.Metadata != nil {
		doc.Metadata = *patch.Metadata
	}
	if patch.ApprovalStatus != nil {
		doc.ApprovalStatus = *patch.ApprovalStatus
	}
	if patch.TeacherFeedback != nil {
		doc.TeacherFeedback = *patch.TeacherFeedback
	}
	if patch.ApprovalDate != nil {
		doc.ApprovalDate = patch.ApprovalDate
	}
	if patch.TeacherID != nil {
		doc.TeacherID = *patch.TeacherID
	}
	return doc
}

// matchesFilters applies the filter conjunction. Deleted documents are
// excluded unless explicitly requested by status.
func matchesFilters(doc Document, f Filters) bool {
	if f.Status == "" && doc.Status == StatusDeleted {
		return false
	}
	if f.Status != "" && doc.Status != f.Status {
		return false
	}
	if f.FileType != "" && doc.FileType != f.FileType {
		return false
	}
	if f.DateStart != nil && doc.CreatedAt.Before(*f.DateStart) {
		return false
	}
	if f.DateEnd != nil && doc.CreatedAt.After(*f.DateEnd) {
		return false
	}
	if f.SearchQuery != "" {
		q := strings.ToLower(f.SearchQuery)
		if !strings.Contains(strings.ToLower(doc.Title), q) &&
			!strings.Contains(strings.ToLower(doc.ContentText), q) {
			return false
		}
	}
	return true
}

func sortNewestFirst(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
}

func paginate(docs []Document, page, limit int) []Document {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(docs) {
		return []Document{}
	}
	end := start + limit
	if end > len(docs) {
		end = len(docs)
	}
	return docs[start:end]
}
