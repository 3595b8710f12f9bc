package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
)

// historyTime sorts lexically in UTC.
const historyTime = "2006-01-02T15:04:05.000000000Z07:00"

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Save stores or updates an answered question.
func (s *historyStore) Save(ctx context.Context, rec domain.AskRecord) error {
	contextJSON, err := json.Marshal(rec.Context)
	if err != nil {
		return fmt.Errorf("marshalling context: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO ask_history (id, question, answer, domain, model, context, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			question = excluded.question,
			answer = excluded.answer,
			domain = excluded.domain,
			model = excluded.model,
			context = excluded.context
	`, rec.ID, rec.Question, rec.Answer, string(rec.Domain), rec.Model, string(contextJSON),
		rec.CreatedAt.UTC().Format(historyTime))
	if err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first. limit <= 0 returns all.
func (s *historyStore) List(ctx context.Context, limit int) ([]domain.AskRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, question, answer, domain, model, context, created_at
		FROM ask_history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []domain.AskRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanAskRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return records, nil
}

// Get retrieves a record by ID.
func (s *historyStore) Get(ctx context.Context, id string) (*domain.AskRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, question, answer, domain, model, context, created_at
		FROM ask_history WHERE id = ?
	`, id)
	rec, err := scanAskRecord(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

var (
	_ scanner = (*sql.Row)(nil)
	_ scanner = (*sql.Rows)(nil)
)

func scanAskRecord(row scanner) (*domain.AskRecord, error) {
	var rec domain.AskRecord
	var corpusDomain, contextJSON, createdAt string
	if err := row.Scan(&rec.ID, &rec.Question, &rec.Answer, &corpusDomain, &rec.Model, &contextJSON, &createdAt); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning history: %w", err)
	}
	rec.Domain = domain.CorpusDomain(corpusDomain)
	if err := json.Unmarshal([]byte(contextJSON), &rec.Context); err != nil {
		return nil, fmt.Errorf("unmarshaling context: %w", err)
	}
	if t, err := time.Parse(historyTime, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}
