package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"jleague-quiz/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Session state lives in a local map; play is bound to the instance holding the websocket.
//   - Redis holds a liveness marker per session with a TTL refreshed on every access. A session
//     whose marker has expired is treated as gone and dropped locally, either on Get or by the
//     sweep every Put runs.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	ctx := context.Background()
	s.pruneExpired(ctx)
	// marker first so a concurrent sweep never sees a stored session without one
	_ = s.client.Set(ctx, s.key(session.ID()), "1", s.ttl).Err()
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl <= 0 {
		return session, true
	}

	alive, err := s.client.Expire(context.Background(), s.key(sessionID), s.ttl).Result()
	if err == nil && !alive {
		s.Delete(sessionID)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

// Len reports the number of sessions held locally.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// pruneExpired drops local sessions whose liveness marker is gone.
func (s *SessionStore) pruneExpired(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	if len(ids) == 0 {
		return
	}

	pipe := s.client.Pipeline()
	checks := make(map[string]*redis.IntCmd, len(ids))
	for _, id := range ids {
		checks[id] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cmd := range checks {
		if cmd.Val() == 0 {
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
