package chat

import "context"

// Repo persists conversations and their messages. All lookups are scoped to
// the owning user; a conversation owned by someone else reads as not found.
type Repo interface {
	CreateConversation(ctx context.Context, conv Conversation) error
	GetConversation(ctx context.Context, id, ownerID string) (Conversation, error)
	ListConversations(ctx context.Context, ownerID string) ([]Conversation, error)
	TouchConversation(ctx context.Context, id, ownerID string) error
	RenameConversation(ctx context.Context, id, ownerID, title string) error
	DeleteConversation(ctx context.Context, id, ownerID string) error

	AppendMessage(ctx context.Context, msg Message) error
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
}
