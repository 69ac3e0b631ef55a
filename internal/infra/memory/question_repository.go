package memory

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/singleflight"

	"trivia-quiz-service/internal/domain"
)

// QuestionLoader fetches the question pool from a backing source (spreadsheet, DB).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) (domain.QuestionSet, error)
}

// QuestionRepository caches the pool with a TTL to avoid hitting the source on every
// request. When the source fails it serves the last good pool, then the fallback bank.
type QuestionRepository struct {
	loader   QuestionLoader
	fallback []domain.Question
	ttl      time.Duration
	clock    func() time.Time
	sf       singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	entry *cachedSet
}

type cachedSet struct {
	set       domain.QuestionSet
	expiresAt time.Time
}

// RepositoryOption configures a QuestionRepository.
type RepositoryOption func(*QuestionRepository)

// WithClock swaps the time source, mainly for tests.
func WithClock(clock func() time.Time) RepositoryOption {
	return func(r *QuestionRepository) { r.clock = clock }
}

// NewQuestionRepository wraps loader. A nil loader always serves the fallback bank.
func NewQuestionRepository(loader QuestionLoader, fallback []domain.Question, ttl time.Duration, opts ...RepositoryOption) *QuestionRepository {
	r := &QuestionRepository{
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

// GetQuestions returns the cached pool or reloads it.
func (r *QuestionRepository) GetQuestions(ctx context.Context) (domain.QuestionSet, error) {
	if set, ok := r.Get(); ok {
		glog.V(2).Infof("serving %d cached questions", len(set.Questions))
		return set, nil
	}

	result, err, _ := r.sf.Do("questions", func() (any, error) {
		if set, ok := r.Get(); ok {
			return set, nil
		}
		if r.loader == nil {
			return fallbackSet(r.fallback, domain.SourceFallback, r.clock()), nil
		}

		set, err := r.loader.LoadQuestions(ctx)
		if err == nil && len(set.Questions) == 0 {
			err = domain.ErrNoQuestions
		}
		if err != nil {
			return r.degrade(err), nil
		}

		r.Put(set)
		glog.Infof("loaded %d questions from %s", len(set.Questions), set.Source)
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

func (r *QuestionRepository) degrade(err error) domain.QuestionSet {
	if errors.Is(err, domain.ErrNoQuestions) {
		glog.Warningf("question source returned no valid questions, using fallback bank")
		return fallbackSet(r.fallback, domain.SourceFallback, r.clock())
	}

	r.mu.RLock()
	stale := r.entry
	r.mu.RUnlock()
	if stale != nil {
		glog.Warningf("question load failed, serving expired cache: %v", err)
		set := stale.set
		set.Source = domain.SourceCachedFallback
		return set
	}
	glog.Warningf("question load failed, using fallback bank: %v", err)
	return fallbackSet(r.fallback, domain.SourceFallbackError, r.clock())
}

// Get returns the cached pool if it has not expired.
func (r *QuestionRepository) Get() (domain.QuestionSet, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.entry != nil && r.entry.expiresAt.After(now) {
		return r.entry.set, true
	}
	return domain.QuestionSet{}, false
}

// Put stores set as the current pool.
func (r *QuestionRepository) Put(set domain.QuestionSet) {
	now := r.clock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entry = &cachedSet{set: set, expiresAt: now.Add(r.ttlWithJitterLocked())}
}

// Invalidate drops the cached pool, including the stale copy.
func (r *QuestionRepository) Invalidate(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entry = nil
	return nil
}

// CacheAge reports how old the cached pool is, if there is one.
func (r *QuestionRepository) CacheAge() (time.Duration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.entry == nil {
		return 0, false
	}
	return r.clock().Sub(r.entry.set.FetchedAt), true
}

func (r *QuestionRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func fallbackSet(questions []domain.Question, source domain.Source, now time.Time) domain.QuestionSet {
	return domain.QuestionSet{Questions: questions, Source: source, FetchedAt: now}
}

// StaticQuestionLoader serves a fixed pool (useful for tests/demos).
type StaticQuestionLoader struct {
	questions []domain.Question
	source    domain.Source
}

func NewStaticQuestionLoader(questions []domain.Question, source domain.Source) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions, source: source}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) (domain.QuestionSet, error) {
	if len(l.questions) == 0 {
		return domain.QuestionSet{}, domain.ErrNoQuestions
	}
	return domain.QuestionSet{Questions: l.questions, Source: l.source, FetchedAt: time.Now()}, nil
}
