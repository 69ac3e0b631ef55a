package redis

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"trivia-quiz-service/internal/domain"
)

// StateStore keeps pending OAuth states in Redis; GETDEL makes each state single use.
type StateStore struct {
	client *redis.Client
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

func (s *StateStore) Save(ctx context.Context, state, provider string, ttl time.Duration) error {
	return pkgerrors.Wrap(s.client.Set(ctx, s.key(state), provider, ttl).Err(), "store oauth state")
}

func (s *StateStore) Consume(ctx context.Context, state string) (string, error) {
	provider, err := s.client.GetDel(ctx, s.key(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidState
	}
	if err != nil {
		return "", pkgerrors.Wrap(err, "consume oauth state")
	}
	return provider, nil
}

func (s *StateStore) key(state string) string {
	return "oauth-state:" + state
}
