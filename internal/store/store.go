// Package store persists completed transform sessions so the UI can list
// and reopen past work. The pipeline itself never touches the store; the
// API layer writes results after the coordinator finishes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/edgedev/renata/pkg/models"
)

// ErrNotFound is returned when a session ID does not exist.
var ErrNotFound = errors.New("store: session not found")

// Session is one completed transform with its inputs and outcome.
type Session struct {
	ID           string                     `json:"id"`
	CreatedAt    time.Time                  `json:"created_at"`
	Task         models.Task                `json:"task"`
	Source       string                     `json:"source"`
	Instructions string                     `json:"instructions,omitempty"`
	Result       models.TransformResult     `json:"result"`
	AttemptLog   []models.GenerationAttempt `json:"attempt_log,omitempty"`
}

// Store is the persistence boundary.
type Store interface {
	SaveSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	ListSessions(ctx context.Context, limit int) ([]Session, error)
	Close() error
}
