package chat

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepo struct {
	mu            sync.RWMutex
	conversations map[string]Conversation
	messages      map[string][]Message
}

// NewMemoryRepo constructs an in-memory Repo.
func NewMemoryRepo() Repo {
	return &memoryRepo{
		conversations: make(map[string]Conversation),
		messages:      make(map[string][]Message),
	}
}

func (r *memoryRepo) CreateConversation(ctx context.Context, conv Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[conv.ID] = cloneConversation(conv)
	return nil
}

func (r *memoryRepo) GetConversation(ctx context.Context, id, ownerID string) (Conversation, error) {
	if err := ctx.Err(); err != nil {
		return Conversation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.conversations[id]
	if !ok || conv.UserID != ownerID {
		return Conversation{}, ErrNotFound
	}
	return cloneConversation(conv), nil
}

func (r *memoryRepo) ListConversations(ctx context.Context, ownerID string) ([]Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Conversation, 0)
	for _, conv := range r.conversations {
		if conv.UserID == ownerID {
			out = append(out, cloneConversation(conv))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memoryRepo) TouchConversation(ctx context.Context, id, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok || conv.UserID != ownerID {
		return ErrNotFound
	}
	conv.UpdatedAt = time.Now().UTC()
	r.conversations[id] = conv
	return nil
}

func (r *memoryRepo) RenameConversation(ctx context.Context, id, ownerID, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok || conv.UserID != ownerID {
		return ErrNotFound
	}
	conv.Title = title
	conv.UpdatedAt = time.Now().UTC()
	r.conversations[id] = conv
	return nil
}

func (r *memoryRepo) DeleteConversation(ctx context.Context, id, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok || conv.UserID != ownerID {
		return ErrNotFound
	}
	delete(r.conversations, id)
	delete(r.messages, id)
	return nil
}

func (r *memoryRepo) AppendMessage(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], msg)
	return nil
}

func (r *memoryRepo) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.messages[conversationID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func cloneConversation(conv Conversation) Conversation {
	ids := make([]string, len(conv.DocumentIDs))
	copy(ids, conv.DocumentIDs)
	conv.DocumentIDs = ids
	return conv
}
