package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"trivia-quiz-service/internal/domain"
)

// QuizSessionStore keeps drawn quizzes in Redis so any instance can score a submission.
type QuizSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuizSessionStore(client *redis.Client, ttl time.Duration) *QuizSessionStore {
	return &QuizSessionStore{client: client, ttl: ttl}
}

func (s *QuizSessionStore) Save(ctx context.Context, session domain.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(err, "marshal quiz session")
	}
	return pkgerrors.Wrap(s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err(), "store quiz session")
}

func (s *QuizSessionStore) Get(ctx context.Context, id string) (domain.QuizSession, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.QuizSession{}, pkgerrors.Wrap(err, "load quiz session")
	}
	var session domain.QuizSession
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.QuizSession{}, pkgerrors.Wrap(err, "decode quiz session")
	}
	return session, nil
}

func (s *QuizSessionStore) Delete(ctx context.Context, id string) error {
	return pkgerrors.Wrap(s.client.Del(ctx, s.key(id)).Err(), "delete quiz session")
}

func (s *QuizSessionStore) key(id string) string {
	return "quiz:session:" + id
}
