package memory

import (
	"context"
	"time"

	"fin-analyst-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions in process memory. Idle sessions expire
// after the TTL and are purged in the background.
type SessionRepository struct {
	cache *cache.Cache
}

var _ store.SessionStore = &SessionRepository{}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Create(ctx context.Context, userID string) (*store.Session, error) {
	session := store.NewSession(uuid.NewString(), userID)
	r.cache.Set(session.ID, *session, cache.DefaultExpiration)
	return session, nil
}

// Get returns a copy of the stored state; changes are kept only after Save
func (r *SessionRepository) Get(ctx context.Context, id string) (*store.Session, error) {
	if x, found := r.cache.Get(id); found {
		session := x.(store.Session)
		return &session, nil
	}
	return nil, store.ErrSessionNotFound
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	r.cache.Set(session.ID, *session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}
