package interactions

// Counts aggregates activity recorded against a document.
type Counts struct {
	DocumentID   string `json:"document_id"`
	Interactions int    `json:"interactions"`
	AIQueries    int    `json:"ai_queries"`
}
