package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transaction is one answered (or failed) question transaction.
type Transaction struct {
	ID        uuid.UUID
	TxnRef    string // timestamp-derived id shared with the on-disk artifacts
	Document  string
	Question  string
	Answer    string
	HasAudio  bool
	State     string
	CreatedAt time.Time
}

// WriteTransaction records a completed question transaction.
func (s *Store) WriteTransaction(ctx context.Context, txn Transaction) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO qa_transactions (id, txn_ref, document, question, answer, has_audio, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		id, txn.TxnRef, txn.Document, txn.Question, txn.Answer, txn.HasAudio, txn.State,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert qa transaction: %w", err)
	}
	return id, nil
}

// RecentTransactions returns the latest transactions, newest first.
func (s *Store) RecentTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, txn_ref, document, question, answer, has_audio, state, created_at
		FROM qa_transactions
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch qa transactions: %w", err)
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.TxnRef, &t.Document, &t.Question, &t.Answer, &t.HasAudio, &t.State, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan qa transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return txns, nil
}

// GetTransactionByRef fetches a transaction by its artifact reference.
func (s *Store) GetTransactionByRef(ctx context.Context, txnRef string) (*Transaction, error) {
	var t Transaction
	err := s.pool.QueryRow(ctx, `
		SELECT id, txn_ref, document, question, answer, has_audio, state, created_at
		FROM qa_transactions
		WHERE txn_ref = $1
		ORDER BY created_at DESC
		LIMIT 1`, txnRef).
		Scan(&t.ID, &t.TxnRef, &t.Document, &t.Question, &t.Answer, &t.HasAudio, &t.State, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("fetch qa transaction %s: %w", txnRef, err)
	}
	return &t, nil
}
