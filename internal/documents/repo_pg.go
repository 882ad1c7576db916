package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `
id, user_id, teacher_id, title, file_path, file_type, file_size,
content_text, summary, metadata, status, approval_status,
teacher_feedback, approval_date, created_at, updated_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id, user_id, teacher_id, title, file_path, file_type, file_size,
    content_text, summary, metadata, status, approval_status,
    teacher_feedback, approval_date, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	meta, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		nullable(doc.TeacherID),
		doc.Title,
		nullable(doc.FilePath),
		doc.FileType,
		doc.FileSize,
		nullable(doc.ContentText),
		nullable(doc.Summary),
		meta,
		doc.Status,
		doc.ApprovalStatus,
		nullable(doc.TeacherFeedback),
		doc.ApprovalDate,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID returns a document iff it is owned by ownerID.
func (r *PGRepo) GetByID(ctx context.Context, documentID, ownerID string) (Document, error) {
	query := `SELECT ` + documentColumns + `
FROM documents
WHERE id = $1 AND user_id = $2
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// Update merges patch onto an owned document and refreshes updated_at.
func (r *PGRepo) Update(ctx context.Context, documentID, ownerID string, patch Patch) (Document, error) {
	sets := []string{"updated_at = now()"}
	args := []any{documentID, ownerID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Summary != nil {
		add("summary", *patch.Summary)
	}
	if patch.ContentText != nil {
		add("content_text", *patch.ContentText)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Metadata != nil {
		meta, err := json.Marshal(*patch.Metadata)
		if err != nil {
			return Document{}, fmt.Errorf("marshal metadata: %w", err)
		}
		add("metadata", meta)
	}
	if patch.ApprovalStatus != nil {
		add("approval_status", *patch.ApprovalStatus)
	}
	if patch.TeacherFeedback != nil {
		add("teacher_feedback", *patch.TeacherFeedback)
	}
	if patch.ApprovalDate != nil {
		add("approval_date", *patch.ApprovalDate)
	}
	if patch.TeacherID != nil {
		add("teacher_id", *patch.TeacherID)
	}

	query := `UPDATE documents SET ` + strings.Join(sets, ", ") + `
WHERE id = $1 AND user_id = $2
RETURNING ` + documentColumns

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// SoftDelete marks an owned document deleted.
func (r *PGRepo) SoftDelete(ctx context.Context, documentID, ownerID string) (Document, error) {
	status := StatusDeleted
	return r.Update(ctx, documentID, ownerID, Patch{Status: &status})
}

// List returns the owner's documents matching all filters, newest first.
func (r *PGRepo) List(ctx context.Context, ownerID string, f Filters) ([]Document, int, error) {
	conditions := []string{"user_id = $1"}
	args := []any{ownerID}

	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	} else {
		conditions = append(conditions, "status <> '"+StatusDeleted+"'")
	}
	if f.FileType != "" {
		args = append(args, f.FileType)
		conditions = append(conditions, fmt.Sprintf("file_type = $%d", len(args)))
	}
	if f.DateStart != nil {
		args = append(args, *f.DateStart)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.DateEnd != nil {
		args = append(args, *f.DateEnd)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if f.SearchQuery != "" {
		args = append(args, "%"+strings.ToLower(f.SearchQuery)+"%")
		conditions = append(conditions, fmt.Sprintf("(lower(title) LIKE $%d OR lower(coalesce(content_text, '')) LIKE $%d)", len(args), len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT count(*) FROM documents WHERE ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, (page-1)*limit)
	query := `SELECT ` + documentColumns + `
FROM documents
WHERE ` + where + `
ORDER BY created_at DESC, id
LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	return docs, total, rows.Err()
}

// ListAll returns every document, oldest first.
func (r *PGRepo) ListAll(ctx context.Context) ([]Document, error) {
	query := `SELECT ` + documentColumns + `
FROM documents
ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var teacherID, filePath, contentText, summary, feedback sql.NullString
	var meta []byte
	var approvalDate sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&teacherID,
		&doc.Title,
		&filePath,
		&doc.FileType,
		&doc.FileSize,
		&contentText,
		&summary,
		&meta,
		&doc.Status,
		&doc.ApprovalStatus,
		&feedback,
		&approvalDate,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	doc.TeacherID = teacherID.String
	doc.FilePath = filePath.String
	doc.ContentText = contentText.String
	doc.Summary = summary.String
	doc.TeacherFeedback = feedback.String
	if approvalDate.Valid {
		t := approvalDate.Time
		doc.ApprovalDate = &t
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &doc.Metadata); err != nil {
			return Document{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return doc, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
