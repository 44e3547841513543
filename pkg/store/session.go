package store

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned for unknown or expired sessions
var ErrSessionNotFound = errors.New("session not found")

// Session is the per-conversation state. It is owned by exactly one conversation
// and must never be shared across sessions.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id,omitempty"`

	// LastTicker is the only key the pipeline reads. It is overwritten (never merged)
	// whenever the user's own question names a known ticker.
	LastTicker string `json:"last_ticker,omitempty"`

	// Metadata for last interaction
	LastQuery string    `json:"last_query,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty session with the given id
func NewSession(id, userID string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records the last processed question
func (s *Session) Touch(query string) {
	s.LastQuery = query
	s.UpdatedAt = time.Now()
}

// SessionStore creates, loads and discards sessions. Save replaces the stored
// state wholesale.
type SessionStore interface {
	Create(ctx context.Context, userID string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}
