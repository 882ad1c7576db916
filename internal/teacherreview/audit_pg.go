package teacherreview

import (
	"context"
	"database/sql"
	"fmt"
)

type pgAudit struct {
	db *sql.DB
}

// NewPGAuditStore constructs a Postgres-backed AuditStore.
func NewPGAuditStore(db *sql.DB) AuditStore {
	return &pgAudit{db: db}
}

func (s *pgAudit) Add(ctx context.Context, rec ApprovalRecord) error {
	const query = `
INSERT INTO approval_audit (id, document_id, teacher_id, action, previous_status, new_status, feedback, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.DocumentID, rec.TeacherID, rec.Action,
		rec.PreviousStatus, rec.NewStatus, rec.Feedback, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("insert approval audit: %w", err)
	}
	return nil
}

func (s *pgAudit) ListByDocument(ctx context.Context, documentID string) ([]ApprovalRecord, error) {
	const query = `
SELECT id, document_id, teacher_id, action, previous_status, new_status, feedback, created_at
FROM approval_audit WHERE document_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list approval audit: %w", err)
	}
	defer rows.Close()

	out := make([]ApprovalRecord, 0)
	for rows.Next() {
		var rec ApprovalRecord
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.TeacherID, &rec.Action,
			&rec.PreviousStatus, &rec.NewStatus, &rec.Feedback, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan approval audit: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
