package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/internal/repository/memory"
	"fin-analyst-be/pkg/rag/executor"
	"fin-analyst-be/pkg/sqlagent"
	"fin-analyst-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnswerer struct {
	err error
}

func (f *fakeAnswerer) Answer(ctx context.Context, question string, session *store.Session) (*executor.Result, error) {
	session.LastTicker = "MSFT"
	tr := &executor.Trace{ID: "t-1", SessionID: session.ID, Question: question}
	if f.err != nil {
		tr.Error = f.err.Error()
		return &executor.Result{Trace: tr}, f.err
	}
	return &executor.Result{Final: "answer", Trace: tr}, nil
}

func newAnalyst(answerer Answerer) (IAnalystService, *memory.SessionRepository) {
	repo := memory.NewSessionRepository(time.Minute)
	return NewAnalystService(answerer, repo, logger.NewNopLogger()), repo
}

func TestAskCreatesSessionWhenMissing(t *testing.T) {
	svc, repo := newAnalyst(&fakeAnswerer{})

	res, err := svc.Ask(context.Background(), "", &dto.AskRequest{Question: "Tell me about MSFT"})
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionId)
	assert.Equal(t, "answer", res.Final)

	saved, err := repo.Get(context.Background(), res.SessionId)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", saved.LastTicker)
}

func TestAskKeepsTraceAndSessionOnFailure(t *testing.T) {
	boom := errors.Join(sqlagent.ErrSQLGeneration, errors.New("empty sql"))
	svc, repo := newAnalyst(&fakeAnswerer{err: boom})

	created, err := svc.CreateSession(context.Background(), "")
	require.NoError(t, err)

	res, err := svc.Ask(context.Background(), "", &dto.AskRequest{SessionId: created.Id, Question: "revenue?"})
	assert.ErrorIs(t, err, sqlagent.ErrSQLGeneration)
	require.NotNil(t, res)
	require.NotNil(t, res.Trace)
	assert.NotEmpty(t, res.Trace.Error)

	saved, err := repo.Get(context.Background(), created.Id)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", saved.LastTicker)
}

func TestAskUnknownSession(t *testing.T) {
	svc, _ := newAnalyst(&fakeAnswerer{})

	_, err := svc.Ask(context.Background(), "", &dto.AskRequest{SessionId: "nope", Question: "q"})
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionsAreScopedToTheirUser(t *testing.T) {
	svc, _ := newAnalyst(&fakeAnswerer{})
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, "bob", created.Id)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	state, err := svc.GetSession(ctx, "alice", created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, state.Id)

	require.NoError(t, svc.DeleteSession(ctx, "alice", created.Id))
	_, err = svc.GetSession(ctx, "alice", created.Id)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
