package documents

import "time"

// Processing lifecycle states.
const (
	StatusUploading  = "uploading"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusDeleted    = "deleted"
)

// Teacher-side approval workflow states, independent of processing status.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalFlagged  = "flagged"
	ApprovalRejected = "rejected"
)

// Supported file types.
const (
	FileTypePDF  = "pdf"
	FileTypeTXT  = "txt"
	FileTypeDOCX = "docx"
)

// Metadata holds content derived during processing.
type Metadata struct {
	WordCount        int      `json:"word_count"`
	PageCount        int      `json:"page_count"`
	Language         string   `json:"language,omitempty"`
	ExtractionMethod string   `json:"extraction_method,omitempty"`
	ErrorLog         []string `json:"error_log,omitempty"`
}

// Document represents an uploaded document owned by a student.
// ContentText and Summary are populated only once Status is "completed";
// a "failed" document always carries at least one ErrorLog entry.
type Document struct {
	ID              string
	UserID          string
	TeacherID       string
	Title           string
	FilePath        string
	FileType        string
	FileSize        int64
	ContentText     string
	Summary         string
	Metadata        Metadata
	Status          string
	ApprovalStatus  string
	TeacherFeedback string
	ApprovalDate    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsTerminal reports whether the processing status can no longer change.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusDeleted:
		return true
	default:
		return false
	}
}

// ValidFileType reports whether the given type is one the platform accepts.
func ValidFileType(fileType string) bool {
	switch fileType {
	case FileTypePDF, FileTypeTXT, FileTypeDOCX:
		return true
	default:
		return false
	}
}

// ValidApprovalStatus reports whether the given approval state is known.
func ValidApprovalStatus(status string) bool {
	switch status {
	case ApprovalPending, ApprovalApproved, ApprovalFlagged, ApprovalRejected:
		return true
	default:
		return false
	}
}
