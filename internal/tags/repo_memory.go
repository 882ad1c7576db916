package tags

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepo struct {
	mu          sync.RWMutex
	tags        map[string]Tag
	validations map[string][]Validation
}

// NewMemoryRepo constructs an in-memory Repo seeded with a small demo
// catalog so the validation workflow is usable without prior analysis runs.
func NewMemoryRepo() Repo {
	r := &memoryRepo{
		tags:        make(map[string]Tag),
		validations: make(map[string][]Validation),
	}
	for _, tag := range seedTags() {
		r.tags[tag.ID] = tag
	}
	return r
}

func seedTags() []Tag {
	createdAt := time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)
	return []Tag{
		{
			ID:          "tag-1",
			Name:        "equazioni di secondo grado",
			Description: "Quadratic equations and the discriminant method",
			Category:    "concept",
			Confidence:  0.92,
			UsageCount:  14,
			Synonyms:    []string{"quadratic equations", "equazioni quadratiche"},
			CreatedAt:   createdAt,
		},
		{
			ID:          "tag-2",
			Name:        "fotosintesi",
			Description: "Photosynthesis process in plant cells",
			Category:    "topic",
			Confidence:  0.88,
			UsageCount:  9,
			Synonyms:    []string{"photosynthesis"},
			CreatedAt:   createdAt,
		},
		{
			ID:          "tag-3",
			Name:        "rivoluzione francese",
			Description: "The French Revolution, 1789-1799",
			Category:    "date",
			Confidence:  0.85,
			UsageCount:  6,
			Synonyms:    []string{"french revolution"},
			CreatedAt:   createdAt,
		},
		{
			ID:          "tag-4",
			Name:        "analisi del testo",
			Description: "Close reading and textual analysis technique",
			Category:    "method",
			Confidence:  0.79,
			UsageCount:  11,
			Synonyms:    []string{"text analysis"},
			CreatedAt:   createdAt,
		},
		{
			ID:          "tag-5",
			Name:        "ricorsione",
			Description: "Recursive problem decomposition in programming",
			Category:    "skill",
			Confidence:  0.9,
			UsageCount:  4,
			Synonyms:    []string{"recursion"},
			CreatedAt:   createdAt,
		},
	}
}

func (r *memoryRepo) GetTag(ctx context.Context, id string) (Tag, error) {
	if err := ctx.Err(); err != nil {
		return Tag{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.tags[id]
	if !ok {
		return Tag{}, ErrNotFound
	}
	return cloneTag(tag), nil
}

func (r *memoryRepo) SaveTag(ctx context.Context, tag Tag) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[tag.ID] = cloneTag(tag)
	return nil
}

func (r *memoryRepo) ListTags(ctx context.Context) ([]Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tag, 0, len(r.tags))
	for _, tag := range r.tags {
		out = append(out, cloneTag(tag))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) AddValidation(ctx context.Context, v Validation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validations[v.TagID] = append(r.validations[v.TagID], v)
	return nil
}

func (r *memoryRepo) ListValidations(ctx context.Context, tagID string) ([]Validation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	vs := r.validations[tagID]
	out := make([]Validation, len(vs))
	copy(out, vs)
	return out, nil
}

func cloneTag(tag Tag) Tag {
	synonyms := make([]string, len(tag.Synonyms))
	copy(synonyms, tag.Synonyms)
	tag.Synonyms = synonyms
	return tag
}
