package memory

import (
	"context"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

// QuizSessionStore keeps drawn quizzes in process until they are submitted or expire.
type QuizSessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.Mutex
	sessions map[string]storedSession
}

type storedSession struct {
	session   domain.QuizSession
	expiresAt time.Time
}

func NewQuizSessionStore(ttl time.Duration) *QuizSessionStore {
	return NewQuizSessionStoreWithClock(ttl, time.Now)
}

// NewQuizSessionStoreWithClock allows deterministic expiry in tests.
func NewQuizSessionStoreWithClock(ttl time.Duration, clock func() time.Time) *QuizSessionStore {
	return &QuizSessionStore{
		ttl:      ttl,
		clock:    clock,
		sessions: make(map[string]storedSession),
	}
}

func (s *QuizSessionStore) Save(_ context.Context, session domain.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.evictLocked(now)
	s.sessions[session.ID] = storedSession{session: session, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *QuizSessionStore) Get(_ context.Context, id string) (domain.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[id]
	if !ok || (s.ttl > 0 && !stored.expiresAt.After(s.clock())) {
		delete(s.sessions, id)
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	return stored.session, nil
}

func (s *QuizSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *QuizSessionStore) evictLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, stored := range s.sessions {
		if !stored.expiresAt.After(now) {
			delete(s.sessions, id)
		}
	}
}
