package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prepnexus/learning-service/internal/models"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL is how long a session survives after its last activity.
// Put refreshes the clock, so an active interview never expires mid-flow.
const DefaultTTL = 24 * time.Hour

// Store holds interview sessions keyed by session id. Implementations
// must be safe for concurrent use across different ids; per-id write
// serialization is the caller's responsibility.
type Store interface {
	Get(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	Put(ctx context.Context, session *models.InterviewSession) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps sessions in process memory with lazy expiry. Used in
// tests and single-instance development; production uses RedisStore.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	session   *models.InterviewSession
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*models.InterviewSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}

	// Return a copy so callers cannot mutate stored state outside Put.
	copied := *entry.session
	copied.Questions = append([]models.InterviewQuestion(nil), entry.session.Questions...)
	copied.Answers = append([]models.AnswerRecord(nil), entry.session.Answers...)
	return &copied, nil
}

func (s *MemoryStore) Put(_ context.Context, session *models.InterviewSession) error {
	copied := *session
	copied.Questions = append([]models.InterviewQuestion(nil), session.Questions...)
	copied.Answers = append([]models.AnswerRecord(nil), session.Answers...)

	s.mu.Lock()
	s.sessions[session.SessionID] = memoryEntry{
		session:   &copied,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
