package documents

import (
	"context"
	"time"
)

// Patch describes a partial update; nil fields are left untouched.
type Patch struct {
	Title           *string
	Summary         *string
	ContentText     *string
	Status          *string
	Metadata        *Metadata
	ApprovalStatus  *string
	TeacherFeedback *string
	ApprovalDate    *time.Time
	TeacherID       *string
}

// Filters narrows a listing. Zero values mean "no constraint".
type Filters struct {
	FileType    string
	Status      string
	SearchQuery string
	DateStart   *time.Time
	DateEnd     *time.Time
	Page        int
	Limit       int
}

// Repo defines persistence operations for documents.
//
// Lookup and mutation take the owner's ID: a document that exists but belongs
// to someone else behaves exactly like one that does not exist.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID, ownerID string) (Document, error)
	Update(ctx context.Context, documentID, ownerID string, patch Patch) (Document, error)
	SoftDelete(ctx context.Context, documentID, ownerID string) (Document, error)
	List(ctx context.Context, ownerID string, f Filters) ([]Document, int, error)
	ListAll(ctx context.Context) ([]Document, error)
}
