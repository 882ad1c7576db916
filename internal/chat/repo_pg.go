package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type pgRepo struct {
	db *sql.DB
}

// NewPGRepo constructs a Postgres-backed Repo.
func NewPGRepo(db *sql.DB) Repo {
	return &pgRepo{db: db}
}

const conversationColumns = `id, user_id, persona_type, title, document_ids, created_at, updated_at`

func (r *pgRepo) CreateConversation(ctx context.Context, conv Conversation) error {
	docIDs, err := json.Marshal(conv.DocumentIDs)
	if err != nil {
		return fmt.Errorf("marshal document ids: %w", err)
	}
	const query = `
INSERT INTO conversations (id, user_id, persona_type, title, document_ids, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query,
		conv.ID, conv.UserID, conv.PersonaType, conv.Title, docIDs, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

func (r *pgRepo) GetConversation(ctx context.Context, id, ownerID string) (Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1 AND user_id = $2`
	row := r.db.QueryRowContext(ctx, query, id, ownerID)
	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, ErrNotFound
		}
		return Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

func (r *pgRepo) ListConversations(ctx context.Context, ownerID string) ([]Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE user_id = $1 ORDER BY updated_at DESC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	out := make([]Conversation, 0)
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		out = append(out, conv)
	}
	return out, rows.Err()
}

func (r *pgRepo) TouchConversation(ctx context.Context, id, ownerID string) error {
	const query = `UPDATE conversations SET updated_at = NOW() WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch conversation rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) RenameConversation(ctx context.Context, id, ownerID, title string) error {
	const query = `UPDATE conversations SET title = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID, title)
	if err != nil {
		return fmt.Errorf("rename conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename conversation rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) DeleteConversation(ctx context.Context, id, ownerID string) error {
	const query = `DELETE FROM conversations WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete conversation rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	// Messages ride along via ON DELETE CASCADE.
	return nil
}

func (r *pgRepo) AppendMessage(ctx context.Context, msg Message) error {
	const query = `
INSERT INTO conversation_messages (id, conversation_id, role, content, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *pgRepo) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	const query = `
SELECT id, conversation_id, role, content, created_at
FROM conversation_messages
WHERE conversation_id = $1
ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (Conversation, error) {
	var conv Conversation
	var docIDs []byte
	if err := row.Scan(&conv.ID, &conv.UserID, &conv.PersonaType, &conv.Title, &docIDs, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return Conversation{}, err
	}
	if len(docIDs) > 0 {
		if err := json.Unmarshal(docIDs, &conv.DocumentIDs); err != nil {
			return Conversation{}, fmt.Errorf("unmarshal document ids: %w", err)
		}
	}
	return conv, nil
}
