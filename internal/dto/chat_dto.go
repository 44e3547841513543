package dto

import (
	"time"

	"fin-analyst-be/pkg/rag/executor"
	"fin-analyst-be/pkg/sqlengine"
)

type CreateSessionResponse struct {
	Id string `json:"id"`
}

type SessionStateResponse struct {
	Id         string    `json:"id"`
	LastTicker string    `json:"last_ticker,omitempty"`
	LastQuery  string    `json:"last_query,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AskRequest is one question. Without a session id a fresh session is
// created and returned.
type AskRequest struct {
	SessionId string `json:"session_id" validate:"omitempty,max=64"`
	Question  string `json:"question" validate:"required,max=2000"`
}

type AskResponse struct {
	SessionId string           `json:"session_id"`
	Final     string           `json:"final"`
	Trace     *executor.Trace  `json:"trace"`
	Table     *sqlengine.Table `json:"table,omitempty"`
}
