package documents

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateNullsEmptyOptionalColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	doc := Document{
		ID:             "doc-1",
		UserID:         "user-1",
		Title:          "Appunti di matematica",
		FileType:       FileTypePDF,
		FileSize:       2048,
		Status:         StatusUploading,
		ApprovalStatus: ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			nil, // teacher_id
			doc.Title,
			nil, // file_path
			doc.FileType,
			doc.FileSize,
			nil,              // content_text
			nil,              // summary
			sqlmock.AnyArg(), // metadata
			doc.Status,
			doc.ApprovalStatus,
			nil, // teacher_feedback
			nil, // approval_date
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListScopesToOwnerAndExcludesDeleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT count\(\*\) FROM documents WHERE user_id = \$1 AND status <> 'deleted'`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "teacher_id", "title", "file_path", "file_type", "file_size",
		"content_text", "summary", "metadata", "status", "approval_status",
		"teacher_feedback", "approval_date", "created_at", "updated_at",
	}).AddRow(
		"doc-1", "user-1", nil, "Appunti", nil, FileTypeTXT, int64(100),
		"testo", "riassunto", []byte(`{"word_count":1}`), StatusCompleted, ApprovalPending,
		nil, nil, now, now,
	)
	mock.ExpectQuery("SELECT .* FROM documents").
		WithArgs("user-1", 20, 0).
		WillReturnRows(rows)

	docs, total, err := repo.List(context.Background(), "user-1", Filters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d (total %d)", len(docs), total)
	}
	if docs[0].Metadata.WordCount != 1 {
		t.Fatalf("metadata not decoded: %+v", docs[0].Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
