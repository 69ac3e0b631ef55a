package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-quiz-service/internal/domain"
)

func TestQuizSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewQuizSessionStoreWithClock(time.Minute, func() time.Time { return now })

	if err := store.Save(ctx, domain.QuizSession{ID: "s1", Questions: sampleQuestions()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil || len(got.Questions) != 2 {
		t.Fatalf("expected stored session, got %+v err=%v", got, err)
	}

	_ = store.Delete(ctx, "s1")
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestQuizSessionStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewQuizSessionStoreWithClock(time.Minute, func() time.Time { return now })

	_ = store.Save(ctx, domain.QuizSession{ID: "s1"})
	now = now.Add(time.Minute)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestStateStoreSingleUse(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore()

	if err := store.Save(ctx, "abc", "github", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	provider, err := store.Consume(ctx, "abc")
	if err != nil || provider != "github" {
		t.Fatalf("expected github state, got %q err=%v", provider, err)
	}
	if _, err := store.Consume(ctx, "abc"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected reused state to fail, got %v", err)
	}
}
