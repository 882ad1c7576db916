package chat

import "time"

type sendRequest struct {
	Message        string   `json:"message"`
	Persona        string   `json:"persona"`
	ConversationID string   `json:"conversation_id"`
	DocumentIDs    []string `json:"document_ids"`
}

type askDocumentRequest struct {
	Message        string   `json:"message"`
	DocumentIDs    []string `json:"document_ids"`
	Persona        string   `json:"persona"`
	ConversationID string   `json:"conversation_id"`
}

type createConversationRequest struct {
	Persona     string   `json:"persona"`
	Title       string   `json:"title"`
	DocumentIDs []string `json:"document_ids"`
}

type renameConversationRequest struct {
	Title string `json:"title"`
}

// SendResponse is the reply to a chat turn.
type SendResponse struct {
	Message        string    `json:"message"`
	ConversationID string    `json:"conversation_id"`
	Persona        string    `json:"persona"`
	Timestamp      time.Time `json:"timestamp"`
}

// MessageResponse is the API shape of one conversation turn.
type MessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationResponse is the API shape of a conversation.
type ConversationResponse struct {
	ID          string            `json:"id"`
	PersonaType string            `json:"persona_type"`
	Title       string            `json:"title"`
	DocumentIDs []string          `json:"document_ids"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Messages    []MessageResponse `json:"messages,omitempty"`
}

func toConversationResponse(conv Conversation, msgs []Message) ConversationResponse {
	out := ConversationResponse{
		ID:          conv.ID,
		PersonaType: conv.PersonaType,
		Title:       conv.Title,
		DocumentIDs: conv.DocumentIDs,
		CreatedAt:   conv.CreatedAt,
		UpdatedAt:   conv.UpdatedAt,
	}
	if out.DocumentIDs == nil {
		out.DocumentIDs = []string{}
	}
	for _, msg := range msgs {
		out.Messages = append(out.Messages, MessageResponse{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}
	return out
}
