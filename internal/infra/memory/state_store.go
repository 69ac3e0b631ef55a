package memory

import (
	"context"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

// StateStore holds pending OAuth states. Each state can be consumed once.
type StateStore struct {
	clock func() time.Time

	mu     sync.Mutex
	states map[string]pendingState
}

type pendingState struct {
	provider  string
	expiresAt time.Time
}

func NewStateStore() *StateStore {
	return &StateStore{clock: time.Now, states: make(map[string]pendingState)}
}

func (s *StateStore) Save(_ context.Context, state, provider string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	for key, pending := range s.states {
		if !pending.expiresAt.After(now) {
			delete(s.states, key)
		}
	}
	s.states[state] = pendingState{provider: provider, expiresAt: now.Add(ttl)}
	return nil
}

func (s *StateStore) Consume(_ context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.states[state]
	delete(s.states, state)
	if !ok || !pending.expiresAt.After(s.clock()) {
		return "", domain.ErrInvalidState
	}
	return pending.provider, nil
}
