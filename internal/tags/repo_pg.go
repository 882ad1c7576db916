package tags

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type pgRepo struct {
	db *sql.DB
}

// NewPGRepo constructs a Postgres-backed Repo.
func NewPGRepo(db *sql.DB) Repo {
	return &pgRepo{db: db}
}

func (r *pgRepo) GetTag(ctx context.Context, id string) (Tag, error) {
	const query = `
SELECT id, name, description, category, confidence, usage_count, synonyms, created_at
FROM tags WHERE id = $1`
	var tag Tag
	var synonyms []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tag.ID, &tag.Name, &tag.Description, &tag.Category,
		&tag.Confidence, &tag.UsageCount, &synonyms, &tag.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tag{}, ErrNotFound
		}
		return Tag{}, fmt.Errorf("get tag: %w", err)
	}
	if len(synonyms) > 0 {
		if err := json.Unmarshal(synonyms, &tag.Synonyms); err != nil {
			return Tag{}, fmt.Errorf("unmarshal synonyms: %w", err)
		}
	}
	return tag, nil
}

func (r *pgRepo) SaveTag(ctx context.Context, tag Tag) error {
	synonyms, err := json.Marshal(tag.Synonyms)
	if err != nil {
		return fmt.Errorf("marshal synonyms: %w", err)
	}
	const query = `
INSERT INTO tags (id, name, description, category, confidence, usage_count, synonyms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  description = EXCLUDED.description,
  category = EXCLUDED.category,
  confidence = EXCLUDED.confidence,
  usage_count = EXCLUDED.usage_count,
  synonyms = EXCLUDED.synonyms`
	_, err = r.db.ExecContext(ctx, query,
		tag.ID, tag.Name, tag.Description, tag.Category,
		tag.Confidence, tag.UsageCount, synonyms, tag.CreatedAt)
	if err != nil {
		return fmt.Errorf("save tag: %w", err)
	}
	return nil
}

func (r *pgRepo) ListTags(ctx context.Context) ([]Tag, error) {
	const query = `
SELECT id, name, description, category, confidence, usage_count, synonyms, created_at
FROM tags ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	out := make([]Tag, 0)
	for rows.Next() {
		var tag Tag
		var synonyms []byte
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Description, &tag.Category,
			&tag.Confidence, &tag.UsageCount, &synonyms, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		if len(synonyms) > 0 {
			if err := json.Unmarshal(synonyms, &tag.Synonyms); err != nil {
				return nil, fmt.Errorf("unmarshal synonyms: %w", err)
			}
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

func (r *pgRepo) AddValidation(ctx context.Context, v Validation) error {
	const query = `
INSERT INTO tag_validations (id, tag_id, teacher_id, original_name, validated_name,
  original_description, validated_description, feedback_type, confidence, feedback,
  reason_for_change, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.TagID, v.TeacherID, v.OriginalName, v.ValidatedName,
		v.OriginalDescription, v.ValidatedDescription, v.FeedbackType,
		v.Confidence, v.Feedback, v.ReasonForChange, v.Timestamp)
	if err != nil {
		return fmt.Errorf("insert validation: %w", err)
	}
	return nil
}

func (r *pgRepo) ListValidations(ctx context.Context, tagID string) ([]Validation, error) {
	const query = `
SELECT id, tag_id, teacher_id, original_name, validated_name, original_description,
  validated_description, feedback_type, confidence, feedback, reason_for_change, created_at
FROM tag_validations WHERE tag_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, tagID)
	if err != nil {
		return nil, fmt.Errorf("list validations: %w", err)
	}
	defer rows.Close()

	out := make([]Validation, 0)
	for rows.Next() {
		var v Validation
		if err := rows.Scan(&v.ID, &v.TagID, &v.TeacherID, &v.OriginalName, &v.ValidatedName,
			&v.OriginalDescription, &v.ValidatedDescription, &v.FeedbackType,
			&v.Confidence, &v.Feedback, &v.ReasonForChange, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("scan validation: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
