// Package cache stores sessions in Redis so several API instances can serve
// the same conversation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fin-analyst-be/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ store.SessionStore = &SessionRepository{}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Create(ctx context.Context, userID string) (*store.Session, error) {
	session := store.NewSession(uuid.NewString(), userID)
	if err := r.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*store.Session, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, keyPrefix+session.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, keyPrefix+id).Err()
}
