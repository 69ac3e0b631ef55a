package selector

import (
	"sort"

	"trivia-quiz-service/internal/domain"
)

// state is one reachable (count, sum) pair. It links back to the state it was
// built from, so reconstruction survives eviction from a level.
type state struct {
	sum  int
	item int
	prev *state
}

// level holds the reachable sums for one subset size. Sums at or below the
// target are all kept in discovery order: scores are positive, so only those can
// still grow into an exact subset. Sums above the target can only move further
// away, so just the smallest maxAbove of them are kept, sorted ascending.
type level struct {
	seen     map[int]*state
	below    []*state
	above    []*state
	maxAbove int
}

func newLevel(maxAbove int) *level {
	return &level{seen: make(map[int]*state), maxAbove: maxAbove}
}

func (l *level) add(st *state, target int) {
	if _, ok := l.seen[st.sum]; ok {
		return
	}
	if st.sum <= target {
		l.seen[st.sum] = st
		l.below = append(l.below, st)
		return
	}
	if len(l.above) >= l.maxAbove {
		last := l.above[len(l.above)-1]
		if st.sum >= last.sum {
			return
		}
		delete(l.seen, last.sum)
		l.above = l.above[:len(l.above)-1]
	}
	i := sort.Search(len(l.above), func(i int) bool { return l.above[i].sum > st.sum })
	l.above = append(l.above, nil)
	copy(l.above[i+1:], l.above[i:])
	l.above[i] = st
	l.seen[st.sum] = st
}

// pickFromTable runs a subset-sum table over items. It stops as soon as a subset of
// size count reaches target; otherwise it picks the reachable sum closest to target,
// preferring the one below target on ties. States are never overwritten, so a chain
// always leads through strictly earlier items and the subset has no repeats.
func pickFromTable(items []domain.Question, target, count, maxStates int) []domain.Question {
	levels := make([]*level, count+1)
	for c := range levels {
		levels[c] = newLevel(maxStates)
	}
	levels[0].add(&state{item: -1}, target)

	for i, q := range items {
		top := i + 1
		if top > count {
			top = count
		}
		// Walk sizes downwards so item i is used at most once per subset.
		for c := top; c >= 1; c-- {
			from, to := levels[c-1], levels[c]
			for _, group := range [][]*state{from.below, from.above} {
				for _, prev := range group {
					to.add(&state{sum: prev.sum + q.Score, item: i, prev: prev}, target)
				}
			}
		}
		if st, ok := levels[count].seen[target]; ok {
			return reconstruct(items, st)
		}
	}

	last := levels[count]
	var best *state
	for _, st := range last.below {
		if best == nil || st.sum > best.sum {
			best = st
		}
	}
	if len(last.above) > 0 {
		closest := last.above[0]
		if best == nil || closest.sum-target < target-best.sum {
			best = closest
		}
	}
	if best == nil {
		return nil
	}
	return reconstruct(items, best)
}

func reconstruct(items []domain.Question, st *state) []domain.Question {
	var out []domain.Question
	for ; st != nil && st.item >= 0; st = st.prev {
		out = append(out, items[st.item])
	}
	return out
}
