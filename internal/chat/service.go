package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"didattika-backend/internal/documents"
	"didattika-backend/internal/interactions"
	"didattika-backend/internal/personas"
	"didattika-backend/internal/shared/metrics"
	"didattika-backend/internal/shared/telemetry"
	"didattika-backend/internal/synthesis"
)

// MaxMessageLen caps a single chat message, counted in runes.
const MaxMessageLen = 1000

const conversationTitleLen = 60

// Service orchestrates conversations: it validates the message, resolves the
// persona and document context, calls the synthesis backend and persists both
// turns.
type Service struct {
	Repo         Repo
	Docs         documents.Repo
	Synth        synthesis.Client
	Interactions *interactions.Service
}

// NewService constructs a Service.
func NewService(repo Repo, docs documents.Repo, synth synthesis.Client, ix *interactions.Service) *Service {
	return &Service{Repo: repo, Docs: docs, Synth: synth, Interactions: ix}
}

// SendInput is a single user turn.
type SendInput struct {
	Message        string
	PersonaType    string
	ConversationID string
	DocumentIDs    []string
}

// SendResult is the assistant's reply plus the conversation it landed in.
type SendResult struct {
	ConversationID string
	PersonaType    string
	UserMessage    Message
	Reply          Message
}

// SendMessage handles one user turn end to end.
func (s *Service) SendMessage(ctx context.Context, userID string, in SendInput) (SendResult, error) {
	if userID == "" {
		return SendResult{}, ErrInvalidInput
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return SendResult{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > MaxMessageLen {
		return SendResult{}, ErrMessageTooLong
	}

	personaType := in.PersonaType
	if personaType == "" {
		personaType = personas.Default().Type
	}
	if !personas.Valid(personaType) {
		return SendResult{}, fmt.Errorf("%w: unknown persona %q", ErrInvalidInput, in.PersonaType)
	}

	conv, created, err := s.resolveConversation(ctx, userID, personaType, message, in)
	if err != nil {
		return SendResult{}, err
	}

	// Documents named on this turn take precedence over the ones the
	// conversation was opened with.
	docIDs := conv.DocumentIDs
	if len(in.DocumentIDs) > 0 {
		docIDs = in.DocumentIDs
	}
	docCtx := s.documentContext(ctx, userID, docIDs)
	history, err := s.history(ctx, conv.ID)
	if err != nil {
		s.discardIfCreated(ctx, conv, userID, created)
		return SendResult{}, err
	}

	metrics.IncSynthesis()
	reply, err := s.Synth.Generate(ctx, synthesis.Request{
		Message:   message,
		Persona:   personaType,
		History:   history,
		Documents: docCtx,
	})
	if err != nil {
		metrics.IncSynthesisFailed()
		s.discardIfCreated(ctx, conv, userID, created)
		return SendResult{}, fmt.Errorf("%w: %v", synthesis.ErrGeneration, err)
	}

	now := time.Now().UTC()
	userMsg := Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Role:           RoleUser,
		Content:        message,
		CreatedAt:      now,
	}
	assistantMsg := Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Role:           RoleAssistant,
		Content:        reply,
		CreatedAt:      now.Add(time.Millisecond),
	}
	if err := s.Repo.AppendMessage(ctx, userMsg); err != nil {
		return SendResult{}, fmt.Errorf("persist user message: %w", err)
	}
	if err := s.Repo.AppendMessage(ctx, assistantMsg); err != nil {
		return SendResult{}, fmt.Errorf("persist assistant message: %w", err)
	}
	if err := s.Repo.TouchConversation(ctx, conv.ID, userID); err != nil && !errors.Is(err, ErrNotFound) {
		return SendResult{}, fmt.Errorf("touch conversation: %w", err)
	}

	for _, docID := range docIDs {
		s.Interactions.RecordAIQuery(ctx, docID)
	}

	return SendResult{
		ConversationID: conv.ID,
		PersonaType:    personaType,
		UserMessage:    userMsg,
		Reply:          assistantMsg,
	}, nil
}

// AskInput targets a question at a set of documents.
type AskInput struct {
	Message        string
	DocumentIDs    []string
	PersonaType    string
	ConversationID string
}

// AskDocument answers a question against the caller's documents. Only owned,
// fully processed documents qualify; if none of the requested IDs match, the
// whole request reads as not found.
func (s *Service) AskDocument(ctx context.Context, userID string, in AskInput) (SendResult, error) {
	matched := make([]string, 0, len(in.DocumentIDs))
	for _, id := range in.DocumentIDs {
		doc, err := s.Docs.GetByID(ctx, id, userID)
		if err != nil || doc.Status != documents.StatusCompleted {
			continue
		}
		matched = append(matched, doc.ID)
	}
	if len(matched) == 0 {
		return SendResult{}, documents.ErrNotFound
	}

	for _, id := range matched {
		s.Interactions.RecordInteraction(ctx, id)
	}
	return s.SendMessage(ctx, userID, SendInput{
		Message:        in.Message,
		PersonaType:    in.PersonaType,
		ConversationID: in.ConversationID,
		DocumentIDs:    matched,
	})
}

// CreateInput opens a conversation without sending a first message.
type CreateInput struct {
	PersonaType string
	Title       string
	DocumentIDs []string
}

// CreateConversation opens an empty conversation.
func (s *Service) CreateConversation(ctx context.Context, userID string, in CreateInput) (Conversation, error) {
	if userID == "" {
		return Conversation{}, ErrInvalidInput
	}
	personaType := in.PersonaType
	if personaType == "" {
		personaType = personas.Default().Type
	}
	if !personas.Valid(personaType) {
		return Conversation{}, fmt.Errorf("%w: unknown persona %q", ErrInvalidInput, in.PersonaType)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "New conversation"
	}
	now := time.Now().UTC()
	conv := Conversation{
		ID:          uuid.NewString(),
		UserID:      userID,
		PersonaType: personaType,
		Title:       title,
		DocumentIDs: in.DocumentIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.CreateConversation(ctx, conv); err != nil {
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// RenameConversation updates a conversation title.
func (s *Service) RenameConversation(ctx context.Context, id, ownerID, title string) (Conversation, error) {
	if id == "" || ownerID == "" {
		return Conversation{}, ErrInvalidInput
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Conversation{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := s.Repo.RenameConversation(ctx, id, ownerID, title); err != nil {
		return Conversation{}, err
	}
	return s.Repo.GetConversation(ctx, id, ownerID)
}

// GetConversation returns a conversation and its messages.
func (s *Service) GetConversation(ctx context.Context, id, ownerID string) (Conversation, []Message, error) {
	if id == "" || ownerID == "" {
		return Conversation{}, nil, ErrInvalidInput
	}
	conv, err := s.Repo.GetConversation(ctx, id, ownerID)
	if err != nil {
		return Conversation{}, nil, err
	}
	msgs, err := s.Repo.ListMessages(ctx, id)
	if err != nil {
		return Conversation{}, nil, err
	}
	return conv, msgs, nil
}

// ListConversations returns the user's conversations, most recent first.
func (s *Service) ListConversations(ctx context.Context, ownerID string) ([]Conversation, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListConversations(ctx, ownerID)
}

// DeleteConversation removes a conversation and its messages.
func (s *Service) DeleteConversation(ctx context.Context, id, ownerID string) error {
	if id == "" || ownerID == "" {
		return ErrInvalidInput
	}
	return s.Repo.DeleteConversation(ctx, id, ownerID)
}

// resolveConversation loads the addressed conversation, or opens a new one
// when no id was given. The second return value reports whether a conversation
// was created on this turn.
func (s *Service) resolveConversation(ctx context.Context, userID, personaType, message string, in SendInput) (Conversation, bool, error) {
	if in.ConversationID != "" {
		conv, err := s.Repo.GetConversation(ctx, in.ConversationID, userID)
		return conv, false, err
	}

	now := time.Now().UTC()
	conv := Conversation{
		ID:          uuid.NewString(),
		UserID:      userID,
		PersonaType: personaType,
		Title:       titleFromMessage(message),
		DocumentIDs: in.DocumentIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.CreateConversation(ctx, conv); err != nil {
		return Conversation{}, false, fmt.Errorf("create conversation: %w", err)
	}
	return conv, true, nil
}

// discardIfCreated removes a conversation opened on a turn that then failed,
// so aborted first messages do not leave empty conversations behind.
func (s *Service) discardIfCreated(ctx context.Context, conv Conversation, userID string, created bool) {
	if !created {
		return
	}
	if err := s.Repo.DeleteConversation(ctx, conv.ID, userID); err != nil {
		telemetry.Warn("chat.discard_conversation_failed", map[string]any{
			"conversation_id": conv.ID,
			"error":           err.Error(),
		})
	}
}

// documentContext loads the completed owned documents among ids. Missing or
// unfinished documents are skipped rather than failing the whole turn.
func (s *Service) documentContext(ctx context.Context, userID string, ids []string) []synthesis.DocumentContext {
	if s.Docs == nil || len(ids) == 0 {
		return nil
	}
	out := make([]synthesis.DocumentContext, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Docs.GetByID(ctx, id, userID)
		if err != nil || doc.Status != documents.StatusCompleted {
			continue
		}
		out = append(out, synthesis.DocumentContext{
			Title:   doc.Title,
			Summary: doc.Summary,
		})
	}
	return out
}

func (s *Service) history(ctx context.Context, conversationID string) ([]synthesis.Turn, error) {
	msgs, err := s.Repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	turns := make([]synthesis.Turn, 0, len(msgs))
	for _, msg := range msgs {
		turns = append(turns, synthesis.Turn{Role: msg.Role, Content: msg.Content})
	}
	return turns, nil
}

func titleFromMessage(message string) string {
	runes := []rune(message)
	if len(runes) <= conversationTitleLen {
		return message
	}
	return string(runes[:conversationTitleLen]) + "..."
}
