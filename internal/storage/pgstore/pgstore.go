// Package pgstore persists the ledger document as one JSONB row in PostgreSQL.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-ledger/internal/core"
)

// Store keeps the ledger named key in the ledger_documents table.
type Store struct {
	pool *pgxpool.Pool
	key  string
}

func New(pool *pgxpool.Pool, key string) *Store {
	return &Store{pool: pool, key: key}
}

// Load reads the ledger row. A missing row is reported as core.ErrNoDocument.
func (s *Store) Load(ctx context.Context) (*core.Document, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		`SELECT body FROM ledger_documents WHERE name = $1`, s.key,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger %s: %w", s.key, err)
	}

	var doc core.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", s.key, err)
	}
	return &doc, nil
}

// Save replaces the ledger row inside a transaction.
func (s *Store) Save(ctx context.Context, doc *core.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode ledger %s: %w", s.key, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ledger_documents (name, body, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		s.key, string(body),
	)
	if err != nil {
		return fmt.Errorf("save ledger %s: %w", s.key, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ledger %s: %w", s.key, err)
	}
	return nil
}
