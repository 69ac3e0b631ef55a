// Package selector draws fixed-size quizzes whose question weights add up to a
// target total.
package selector

import (
	"math/rand"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

// Strategy names a subset search implementation.
type Strategy string

const (
	// StrategyTable runs a dynamic program over (count, sum) states.
	StrategyTable Strategy = "table"
	// StrategySearch runs randomized backtracking with reshuffled retries,
	// then an exhaustive closest-sum enumeration.
	StrategySearch Strategy = "search"
)

const (
	DefaultTargetScore = 100
	DefaultCount       = 10
	// DefaultMaxStates caps the sums above the target tracked per count level.
	DefaultMaxStates = 4096
)

// Selection is the outcome of one draw.
type Selection struct {
	Questions   []domain.Question
	Requested   int
	TargetScore int
	TotalScore  int
	// Exact is true when TotalScore equals TargetScore.
	Exact bool
}

// Underfilled reports whether fewer questions were returned than requested.
func (s Selection) Underfilled() bool {
	return s.Requested > 0 && len(s.Questions) < s.Requested
}

// Option configures a Selector.
type Option func(*Selector)

// WithStrategy picks the search implementation. Unknown values fall back to the table.
func WithStrategy(strategy Strategy) Option {
	return func(s *Selector) {
		if strategy == StrategySearch {
			s.strategy = StrategySearch
			return
		}
		s.strategy = StrategyTable
	}
}

// WithMaxStates bounds how many sums above the target the table strategy keeps per
// level. Sums at or below the target are never dropped.
func WithMaxStates(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.maxStates = n
		}
	}
}

// Selector is safe for concurrent use; access to the random source is serialized.
type Selector struct {
	mu        sync.Mutex
	rnd       *rand.Rand
	strategy  Strategy
	maxStates int
}

// New builds a Selector around rnd. A nil rnd gets a time-seeded source.
func New(rnd *rand.Rand, opts ...Option) *Selector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Selector{
		rnd:       rnd,
		strategy:  StrategyTable,
		maxStates: DefaultMaxStates,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strategy returns the configured strategy.
func (s *Selector) Strategy() Strategy {
	return s.strategy
}

// Select returns min(count, len(pool)) distinct questions whose scores sum as close
// as possible to targetScore, in random order. The pool is never modified.
func (s *Selector) Select(pool []domain.Question, targetScore, count int) Selection {
	sel := Selection{Requested: count, TargetScore: targetScore}
	if count <= 0 || len(pool) == 0 {
		return sel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Question, len(pool))
	copy(items, pool)
	s.shuffle(items)

	var picked []domain.Question
	switch {
	case count >= len(items):
		picked = items
	case s.strategy == StrategySearch:
		picked = s.search(items, targetScore, count)
		s.shuffle(picked)
	default:
		picked = pickFromTable(items, targetScore, count, s.maxStates)
		s.shuffle(picked)
	}

	sel.Questions = picked
	sel.TotalScore = totalScore(picked)
	sel.Exact = sel.TotalScore == targetScore
	return sel
}

func (s *Selector) shuffle(items []domain.Question) {
	s.rnd.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

func totalScore(questions []domain.Question) int {
	total := 0
	for _, q := range questions {
		total += q.Score
	}
	return total
}
