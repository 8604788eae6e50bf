package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const attemptColumns = `id, replica_id, persona_id, language, source, outcome, conversation_id,
	conversation_url, error_kind, error_message, http_status, started_at, finished_at`

// RecordAttempt inserts a finished attempt. An empty ID is filled in.
func (s *Store) RecordAttempt(ctx context.Context, a *Attempt) error {
	if a.ID == "" {
		a.ID = NewIDAt(a.StartedAt)
	}
	if a.FinishedAt.IsZero() {
		a.FinishedAt = time.Now().UTC()
	}
	_, err := s.Pool.Exec(ctx, `INSERT INTO conversation_attempts (`+attemptColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		a.ID,
		a.ReplicaID,
		a.PersonaID,
		a.Language,
		a.Source,
		a.Outcome,
		textParam(a.ConversationID),
		textParam(a.ConversationURL),
		textParam(a.ErrorKind),
		textParam(a.ErrorMessage),
		int4Param(a.HTTPStatus),
		timestamptzParam(a.StartedAt),
		timestamptzParam(a.FinishedAt),
	)
	return err
}

func (s *Store) GetAttempt(ctx context.Context, id string) (*Attempt, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+attemptColumns+` FROM conversation_attempts WHERE id = $1`, id)
	a, err := scanAttempt(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

// ListAttempts returns attempts newest first.
func (s *Store) ListAttempts(ctx context.Context, limit, offset int) ([]Attempt, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+attemptColumns+` FROM conversation_attempts
		ORDER BY started_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Attempt, 0, limit)
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// CountAttemptsByOutcome summarises the log for the health view.
func (s *Store) CountAttemptsByOutcome(ctx context.Context) (map[string]int64, error) {
	rows, err := s.Pool.Query(ctx, `SELECT outcome, count(*) FROM conversation_attempts GROUP BY outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var outcome string
		var n int64
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		out[outcome] = n
	}
	return out, rows.Err()
}

func scanAttempt(row pgx.Row) (*Attempt, error) {
	var (
		a               Attempt
		conversationID  pgtype.Text
		conversationURL pgtype.Text
		errorKind       pgtype.Text
		errorMessage    pgtype.Text
		httpStatus      pgtype.Int4
	)
	if err := row.Scan(
		&a.ID,
		&a.ReplicaID,
		&a.PersonaID,
		&a.Language,
		&a.Source,
		&a.Outcome,
		&conversationID,
		&conversationURL,
		&errorKind,
		&errorMessage,
		&httpStatus,
		&a.StartedAt,
		&a.FinishedAt,
	); err != nil {
		return nil, err
	}
	a.ConversationID = textValue(conversationID)
	a.ConversationURL = textValue(conversationURL)
	a.ErrorKind = textValue(errorKind)
	a.ErrorMessage = textValue(errorMessage)
	a.HTTPStatus = int4Value(httpStatus)
	return &a, nil
}
