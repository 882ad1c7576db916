package tags

import "time"

// Tag categories.
var categories = map[string]bool{
	"concept":     true,
	"skill":       true,
	"topic":       true,
	"keyword":     true,
	"method":      true,
	"theory":      true,
	"application": true,
	"person":      true,
	"date":        true,
	"location":    true,
}

// ValidCategory reports whether category is one of the known tag categories.
func ValidCategory(category string) bool {
	return categories[category]
}

// Feedback types recorded on a validation.
const (
	FeedbackApproved = "approved"
	FeedbackRejected = "rejected"
	FeedbackModified = "modified"
)

// Tag is a descriptive label attached to document content.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Confidence  float64   `json:"confidence"`
	UsageCount  int       `json:"usageCount"`
	Synonyms    []string  `json:"synonyms"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validation is a teacher's verdict on an AI-generated tag.
type Validation struct {
	ID                   string    `json:"id"`
	TagID                string    `json:"tagId"`
	TeacherID            string    `json:"teacherId"`
	OriginalName         string    `json:"originalName"`
	ValidatedName        string    `json:"validatedName"`
	OriginalDescription  string    `json:"originalDescription,omitempty"`
	ValidatedDescription string    `json:"validatedDescription,omitempty"`
	FeedbackType         string    `json:"feedbackType"`
	Confidence           float64   `json:"confidence"`
	Feedback             string    `json:"feedback,omitempty"`
	ReasonForChange      string    `json:"reasonForChange,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}
