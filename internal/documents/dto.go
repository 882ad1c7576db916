package documents

import "time"

// Response is the API shape of a document.
type Response struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Title           string     `json:"title"`
	FileType        string     `json:"file_type"`
	FileSize        int64      `json:"file_size"`
	Status          string     `json:"status"`
	Summary         string     `json:"summary,omitempty"`
	ContentText     string     `json:"content_text,omitempty"`
	Metadata        Metadata   `json:"metadata"`
	ApprovalStatus  string     `json:"approval_status"`
	TeacherFeedback string     `json:"teacher_feedback,omitempty"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// UploadResponse acknowledges an accepted upload before processing finishes.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// ListResponse carries a page of documents plus the filters that produced it.
type ListResponse struct {
	Documents      []Response     `json:"documents"`
	Total          int            `json:"total"`
	Page           int            `json:"page"`
	Limit          int            `json:"limit"`
	FiltersApplied map[string]any `json:"filters_applied"`
}

type updateRequest struct {
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
}

type createRequest struct {
	Title       string `json:"title"`
	FileType    string `json:"file_type"`
	FileSize    int64  `json:"file_size"`
	ContentText string `json:"content_text"`
}

func ToResponse(doc Document) Response {
	return Response{
		ID:              doc.ID,
		UserID:          doc.UserID,
		Title:           doc.Title,
		FileType:        doc.FileType,
		FileSize:        doc.FileSize,
		Status:          doc.Status,
		Summary:         doc.Summary,
		ContentText:     doc.ContentText,
		Metadata:        doc.Metadata,
		ApprovalStatus:  doc.ApprovalStatus,
		TeacherFeedback: doc.TeacherFeedback,
		ApprovalDate:    doc.ApprovalDate,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

func toResponses(docs []Document) []Response {
	out := make([]Response, 0, len(docs))
	for _, doc := range docs {
		out = append(out, ToResponse(doc))
	}
	return out
}
