package chat

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation groups an exchange between a user and one persona,
// optionally anchored to a set of documents.
type Conversation struct {
	ID          string
	UserID      string
	PersonaType string
	Title       string
	DocumentIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Message is a single turn inside a conversation.
type Message struct {
	ID             string
	ConversationID string
	Role           string
	Content        string
	CreatedAt      time.Time
}
