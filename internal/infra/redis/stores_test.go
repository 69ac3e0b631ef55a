package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-quiz-service/internal/domain"
)

func TestQuizSessionStoreRoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewQuizSessionStore(client, time.Minute)
	ctx := context.Background()

	session := domain.QuizSession{ID: "s1", Questions: sampleQuestions(), TargetScore: 15, Requested: 2}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be set")
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Questions) != 2 || got.Questions[1].CorrectIndex != 0 || got.TargetScore != 15 {
		t.Fatalf("unexpected session %+v", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuizSessionStoreExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewQuizSessionStore(client, time.Minute)
	ctx := context.Background()

	_ = store.Save(ctx, domain.QuizSession{ID: "s1"})
	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestStateStoreSingleUse(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewStateStore(client)
	ctx := context.Background()

	if err := store.Save(ctx, "xyz", "google", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	provider, err := store.Consume(ctx, "xyz")
	if err != nil || provider != "google" {
		t.Fatalf("expected google, got %q err=%v", provider, err)
	}
	if _, err := store.Consume(ctx, "xyz"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state on reuse, got %v", err)
	}
}
