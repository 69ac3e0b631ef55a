package selector

import "trivia-quiz-service/internal/domain"

const (
	maxAttempts = 10
	// searchBudget bounds the recursion nodes visited per attempt and by the
	// closest-sum enumeration.
	searchBudget = 1 << 20
)

// search looks for an exact subset over up to maxAttempts independent shuffles and
// falls back to the closest-sum enumeration over the last ordering.
func (s *Selector) search(items []domain.Question, target, count int) []domain.Question {
	work := make([]domain.Question, len(items))
	copy(work, items)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		sr := newSearcher(work, target, count)
		if sr.exact(0, 0) {
			return sr.result()
		}
		s.shuffle(work)
	}

	sr := newSearcher(work, target, count)
	sr.closest(0, 0)
	return sr.bestResult()
}

type searcher struct {
	items  []domain.Question
	target int
	count  int
	budget int
	picked []int

	best     []int
	bestDiff int
}

func newSearcher(items []domain.Question, target, count int) *searcher {
	return &searcher{
		items:    items,
		target:   target,
		count:    count,
		budget:   searchBudget,
		picked:   make([]int, 0, count),
		bestDiff: -1,
	}
}

// exact is an include/exclude DFS. Scores are positive, so a sum over the target
// never recovers and the branch is pruned.
func (sr *searcher) exact(i, sum int) bool {
	if len(sr.picked) == sr.count && sum == sr.target {
		return true
	}
	if i >= len(sr.items) || len(sr.picked) >= sr.count || sum > sr.target || sr.budget <= 0 {
		return false
	}
	sr.budget--

	sr.picked = append(sr.picked, i)
	if sr.exact(i+1, sum+sr.items[i].Score) {
		return true
	}
	sr.picked = sr.picked[:len(sr.picked)-1]
	return sr.exact(i+1, sum)
}

// closest enumerates every subset of size count, keeping the first one found with
// the smallest distance to the target.
func (sr *searcher) closest(i, sum int) {
	if len(sr.picked) == sr.count {
		diff := sum - sr.target
		if diff < 0 {
			diff = -diff
		}
		if sr.bestDiff < 0 || diff < sr.bestDiff {
			sr.bestDiff = diff
			sr.best = append(sr.best[:0], sr.picked...)
		}
		return
	}
	if sr.bestDiff == 0 || sr.budget <= 0 || len(sr.items)-i < sr.count-len(sr.picked) {
		return
	}
	sr.budget--

	sr.picked = append(sr.picked, i)
	sr.closest(i+1, sum+sr.items[i].Score)
	sr.picked = sr.picked[:len(sr.picked)-1]
	sr.closest(i+1, sum)
}

func (sr *searcher) result() []domain.Question {
	return sr.collect(sr.picked)
}

func (sr *searcher) bestResult() []domain.Question {
	return sr.collect(sr.best)
}

func (sr *searcher) collect(idx []int) []domain.Question {
	out := make([]domain.Question, 0, len(idx))
	for _, i := range idx {
		out = append(out, sr.items[i])
	}
	return out
}
