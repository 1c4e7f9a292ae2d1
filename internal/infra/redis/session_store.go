package redis

import (
	"context"
	"sync"
	"time"

	"arith-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "arith:session:"

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Controllers are in-process, so sessions are still held in a local map.
//   - Redis carries a liveness marker per session (value: start time), refreshed on every
//     round start and expiring after ttl if the process dies without cleaning up.
//   - No scores are written; game state never leaves the process.
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

func (s *SessionStore) Save(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	// best-effort liveness marker
	err := s.client.Set(context.Background(), s.key(session.ID()), session.CreatedAt().UTC().Format(time.RFC3339), s.ttl).Err()
	if err != nil {
		log.Warn().Err(err).Str("session_id", session.ID()).Msg("failed to mark session live")
	}
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) Touch(sessionID string) {
	if s.ttl <= 0 {
		return
	}
	if err := s.client.Expire(context.Background(), s.key(sessionID), s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to refresh session ttl")
	}
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if err := s.client.Del(context.Background(), s.key(sessionID)).Err(); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear session marker")
	}
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// LiveSessions counts session markers in Redis, across every process sharing it.
func (s *SessionStore) LiveSessions(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

func (s *SessionStore) key(sessionID string) string {
	return keyPrefix + sessionID
}
