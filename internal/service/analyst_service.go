package service

import (
	"context"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/rag/executor"
	"fin-analyst-be/pkg/store"
)

// Answerer runs one question through the pipeline
type Answerer interface {
	Answer(ctx context.Context, question string, session *store.Session) (*executor.Result, error)
}

type IAnalystService interface {
	CreateSession(ctx context.Context, userID string) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionStateResponse, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
	// Ask answers a question. On failure the response is still returned
	// with the partial trace alongside the error.
	Ask(ctx context.Context, userID string, req *dto.AskRequest) (*dto.AskResponse, error)
}

type analystService struct {
	answerer Answerer
	sessions store.SessionStore
	locks    *sessionLocks
	logger   logger.ILogger
}

func NewAnalystService(answerer Answerer, sessions store.SessionStore, log logger.ILogger) IAnalystService {
	return &analystService{
		answerer: answerer,
		sessions: sessions,
		locks:    newSessionLocks(),
		logger:   log,
	}
}

func (s *analystService) CreateSession(ctx context.Context, userID string) (*dto.CreateSessionResponse, error) {
	session, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("ANALYST", "Session created", map[string]interface{}{"session_id": session.ID})
	return &dto.CreateSessionResponse{Id: session.ID}, nil
}

// load returns the session if userID may use it. Sessions created without a
// user are open to anyone holding the id.
func (s *analystService) load(ctx context.Context, userID, sessionID string) (*store.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != "" && session.UserID != userID {
		return nil, store.ErrSessionNotFound
	}
	return session, nil
}

func (s *analystService) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionStateResponse, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.SessionStateResponse{
		Id:         session.ID,
		LastTicker: session.LastTicker,
		LastQuery:  session.LastQuery,
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}, nil
}

func (s *analystService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if _, err := s.load(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *analystService) Ask(ctx context.Context, userID string, req *dto.AskRequest) (*dto.AskResponse, error) {
	sessionID := req.SessionId
	if sessionID == "" {
		created, err := s.sessions.Create(ctx, userID)
		if err != nil {
			return nil, err
		}
		sessionID = created.ID
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	result, answerErr := s.answerer.Answer(ctx, req.Question, session)

	// memory is updated before routing, so the state is kept even when the answer failed
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("ANALYST", "Failed to save session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	res := &dto.AskResponse{SessionId: sessionID}
	if result != nil {
		res.Final = result.Final
		res.Trace = result.Trace
		res.Table = result.Table
	}
	return res, answerErr
}
