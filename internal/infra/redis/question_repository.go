package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/golang/glog"
	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
)

const (
	questionsKey      = "quiz:questions"
	staleQuestionsKey = "quiz:questions:stale"
)

// QuestionRepository caches the pool in Redis so several processes share one fetch.
// The fresh copy lives at quiz:questions with a TTL; the last good copy is kept
// without expiry at quiz:questions:stale for use when the source fails.
type QuestionRepository struct {
	client   *redis.Client
	loader   memory.QuestionLoader
	fallback []domain.Question
	ttl      time.Duration
	clock    func() time.Time
	sf       singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

// RepositoryOption configures a QuestionRepository.
type RepositoryOption func(*QuestionRepository)

// WithClock swaps the time source used for fallback timestamps and cache age.
func WithClock(clock func() time.Time) RepositoryOption {
	return func(r *QuestionRepository) { r.clock = clock }
}

func NewQuestionRepository(client *redis.Client, loader memory.QuestionLoader, fallback []domain.Question, ttl time.Duration, opts ...RepositoryOption) *QuestionRepository {
	r := &QuestionRepository{
		client:   client,
		loader:   loader,
		fallback: fallback,
		ttl:      ttl,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *QuestionRepository) GetQuestions(ctx context.Context) (domain.QuestionSet, error) {
	if set, ok := r.read(ctx, questionsKey); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do("questions", func() (any, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.read(ctx, questionsKey); ok {
			return set, nil
		}
		if r.loader == nil {
			return domain.QuestionSet{Questions: r.fallback, Source: domain.SourceFallback, FetchedAt: r.clock()}, nil
		}

		set, err := r.loader.LoadQuestions(ctx)
		if err == nil && len(set.Questions) == 0 {
			err = domain.ErrNoQuestions
		}
		if err != nil {
			return r.degrade(ctx, err), nil
		}
		if err := r.Put(ctx, set); err != nil {
			glog.Warningf("cache questions in redis: %v", err)
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

func (r *QuestionRepository) degrade(ctx context.Context, err error) domain.QuestionSet {
	if errors.Is(err, domain.ErrNoQuestions) {
		glog.Warningf("question source returned no valid questions, using fallback bank")
		return domain.QuestionSet{Questions: r.fallback, Source: domain.SourceFallback, FetchedAt: r.clock()}
	}
	if set, ok := r.read(ctx, staleQuestionsKey); ok {
		glog.Warningf("question load failed, serving expired cache: %v", err)
		set.Source = domain.SourceCachedFallback
		return set
	}
	glog.Warningf("question load failed, using fallback bank: %v", err)
	return domain.QuestionSet{Questions: r.fallback, Source: domain.SourceFallbackError, FetchedAt: r.clock()}
}

// Put writes set as both the fresh and the stale copy.
func (r *QuestionRepository) Put(ctx context.Context, set domain.QuestionSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return pkgerrors.Wrap(err, "marshal questions")
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, questionsKey, data, r.ttlWithJitter())
	pipe.Set(ctx, staleQuestionsKey, data, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return pkgerrors.Wrap(err, "store questions")
	}
	return nil
}

// Invalidate drops both cached copies.
func (r *QuestionRepository) Invalidate(ctx context.Context) error {
	return pkgerrors.Wrap(r.client.Del(ctx, questionsKey, staleQuestionsKey).Err(), "invalidate questions")
}

// CacheAge reports how old the fresh cached pool is.
func (r *QuestionRepository) CacheAge() (time.Duration, bool) {
	set, ok := r.read(context.Background(), questionsKey)
	if !ok {
		return 0, false
	}
	return r.clock().Sub(set.FetchedAt), true
}

func (r *QuestionRepository) read(ctx context.Context, key string) (domain.QuestionSet, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			glog.Warningf("read %s: %v", key, err)
		}
		return domain.QuestionSet{}, false
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		glog.Warningf("decode %s: %v", key, err)
		return domain.QuestionSet{}, false
	}
	return set, len(set.Questions) > 0
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
