package interactions

import (
	"context"
	"database/sql"
	"errors"
)

type pgStore struct {
	db *sql.DB
}

// NewPGStore constructs a Postgres-backed Store.
func NewPGStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) RecordInteraction(ctx context.Context, documentID string) error {
	const query = `
INSERT INTO document_interactions (document_id, interactions, ai_queries)
VALUES ($1, 1, 0)
ON CONFLICT (document_id) DO UPDATE SET interactions = document_interactions.interactions + 1`
	_, err := s.db.ExecContext(ctx, query, documentID)
	return err
}

func (s *pgStore) RecordAIQuery(ctx context.Context, documentID string) error {
	const query = `
INSERT INTO document_interactions (document_id, interactions, ai_queries)
VALUES ($1, 0, 1)
ON CONFLICT (document_id) DO UPDATE SET ai_queries = document_interactions.ai_queries + 1`
	_, err := s.db.ExecContext(ctx, query, documentID)
	return err
}

func (s *pgStore) GetCounts(ctx context.Context, documentID string) (Counts, error) {
	const query = `
SELECT document_id, interactions, ai_queries
FROM document_interactions
WHERE document_id = $1`
	var counts Counts
	err := s.db.QueryRowContext(ctx, query, documentID).Scan(&counts.DocumentID, &counts.Interactions, &counts.AIQueries)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Counts{DocumentID: documentID}, nil
		}
		return Counts{}, err
	}
	return counts, nil
}

func (s *pgStore) AllCounts(ctx context.Context) (map[string]Counts, error) {
	const query = `SELECT document_id, interactions, ai_queries FROM document_interactions`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Counts)
	for rows.Next() {
		var counts Counts
		if err := rows.Scan(&counts.DocumentID, &counts.Interactions, &counts.AIQueries); err != nil {
			return nil, err
		}
		out[counts.DocumentID] = counts
	}
	return out, rows.Err()
}
