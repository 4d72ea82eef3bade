package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/edgedev/renata/pkg/models"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transform_sessions (
	id           TEXT PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL,
	task         TEXT NOT NULL,
	source       TEXT NOT NULL,
	instructions TEXT NOT NULL DEFAULT '',
	result       JSONB NOT NULL,
	attempt_log  JSONB NOT NULL DEFAULT '[]'
)`

// PostgresStore persists sessions in PostgreSQL. Result and attempt-log
// payloads go into JSONB columns; the searchable fields get their own
// columns.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects and ensures the sessions table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("store: database URL is empty")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: invalid database URL: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to connect: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to create sessions table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) SaveSession(ctx context.Context, session Session) error {
	resultJSON, err := json.Marshal(session.Result)
	if err != nil {
		return fmt.Errorf("store: failed to encode result: %w", err)
	}
	attemptsJSON, err := json.Marshal(session.AttemptLog)
	if err != nil {
		return fmt.Errorf("store: failed to encode attempt log: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO transform_sessions (id, created_at, task, source, instructions, result, attempt_log)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET result = EXCLUDED.result, attempt_log = EXCLUDED.attempt_log`,
		session.ID, session.CreatedAt, string(session.Task), session.Source,
		session.Instructions, resultJSON, attemptsJSON)
	if err != nil {
		return fmt.Errorf("store: failed to save session: %w", err)
	}
	return nil
}

func (p *PostgresStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, created_at, task, source, instructions, result, attempt_log
		FROM transform_sessions WHERE id = $1`, id)
	return scanSession(row)
}

func (p *PostgresStore) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, created_at, task, source, instructions, result, attempt_log
		FROM transform_sessions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (Session, error) {
	var (
		session      Session
		task         string
		resultJSON   []byte
		attemptsJSON []byte
	)
	err := row.Scan(&session.ID, &session.CreatedAt, &task, &session.Source,
		&session.Instructions, &resultJSON, &attemptsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("store: failed to scan session: %w", err)
	}
	session.Task = models.Task(task)
	if err := json.Unmarshal(resultJSON, &session.Result); err != nil {
		return Session{}, fmt.Errorf("store: failed to decode result: %w", err)
	}
	if len(attemptsJSON) > 0 {
		if err := json.Unmarshal(attemptsJSON, &session.AttemptLog); err != nil {
			return Session{}, fmt.Errorf("store: failed to decode attempt log: %w", err)
		}
	}
	return session, nil
}
