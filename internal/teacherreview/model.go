package teacherreview

import (
	"time"

	"didattika-backend/internal/documents"
)

// TeacherDocument is a document extended with the review-side projection:
// who uploaded it, which course it belongs to and how much it was used.
type TeacherDocument struct {
	documents.Document
	StudentID        string
	StudentName      string
	CourseID         string
	CourseName       string
	InteractionCount int
	AIQueriesCount   int
}

// Filters narrow the teacher's document view. All predicates are AND'd;
// within the list-valued ones any match qualifies.
type Filters struct {
	StudentIDs     []string
	CourseIDs      []string
	FileTypes      []string
	ApprovalStatus []string
	Status         []string
	DateStart      *time.Time
	DateEnd        *time.Time
	SearchQuery    string
}

// Sort keys accepted by List.
const (
	SortByDate         = "date"
	SortByStudent      = "student"
	SortByName         = "name"
	SortBySize         = "size"
	SortByInteractions = "interactions"
)

// Sort selects the ordering of the filtered view.
type Sort struct {
	By    string
	Order string // "asc" or "desc", default "desc"
}

// Page is 1-based pagination.
type Page struct {
	Number int
	Limit  int
}

// AnalyticsSummary is computed over the filtered set before pagination.
type AnalyticsSummary struct {
	DistinctStudents int `json:"distinct_students"`
	PendingDocuments int `json:"pending_documents"`
	FlaggedDocuments int `json:"flagged_documents"`
	RecentUploads    int `json:"recent_uploads"`
}

// ApprovalRecord is the audit entry written for every approval action.
type ApprovalRecord struct {
	ID             string    `json:"id"`
	DocumentID     string    `json:"document_id"`
	TeacherID      string    `json:"teacher_id"`
	Action         string    `json:"action"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Feedback       string    `json:"feedback,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
