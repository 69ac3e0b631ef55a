package selector

import (
	"math/rand"
	"sort"
	"testing"

	"trivia-quiz-service/internal/domain"
)

var strategies = []Strategy{StrategyTable, StrategySearch}

func TestSelectReturnsRequestedCount(t *testing.T) {
	for _, strategy := range strategies {
		for seed := int64(1); seed <= 20; seed++ {
			rnd := rand.New(rand.NewSource(seed))
			pool := randomPool(rnd, 8+rnd.Intn(12))
			count := 1 + rnd.Intn(len(pool))
			sel := New(rand.New(rand.NewSource(seed)), WithStrategy(strategy)).Select(pool, 30+rnd.Intn(80), count)
			if len(sel.Questions) != count {
				t.Fatalf("%s seed %d: expected %d questions, got %d", strategy, seed, count, len(sel.Questions))
			}
			assertSubsetOf(t, sel.Questions, pool)
		}
	}
}

func TestSelectUnderfilledPoolReturnsPermutation(t *testing.T) {
	pool := tieredPool(4, 0, 0)
	sel := New(rand.New(rand.NewSource(7))).Select(pool, 100, 10)

	if len(sel.Questions) != len(pool) {
		t.Fatalf("expected whole pool of %d, got %d", len(pool), len(sel.Questions))
	}
	if !sel.Underfilled() {
		t.Fatalf("expected underfilled selection")
	}
	if got, want := sortedIDs(sel.Questions), sortedIDs(pool); !equalInts(got, want) {
		t.Fatalf("expected permutation of pool, got %v want %v", got, want)
	}
}

func TestSelectEmptyInputs(t *testing.T) {
	s := New(rand.New(rand.NewSource(1)))
	if sel := s.Select(nil, 100, 10); len(sel.Questions) != 0 {
		t.Fatalf("expected empty result for empty pool, got %d", len(sel.Questions))
	}
	if sel := s.Select(tieredPool(5, 5, 5), 100, 0); len(sel.Questions) != 0 {
		t.Fatalf("expected empty result for zero count, got %d", len(sel.Questions))
	}
	if sel := s.Select(tieredPool(5, 5, 5), 100, -3); len(sel.Questions) != 0 || sel.Underfilled() {
		t.Fatalf("expected empty, not underfilled, result for negative count")
	}
}

func TestSelectFindsExactMatch(t *testing.T) {
	for _, strategy := range strategies {
		hits := 0
		for run := int64(0); run < 10; run++ {
			// 10 questions of 10 points make an exact 100, the rest is noise.
			pool := append(tieredPool(0, 10, 0), customPool(100, 3, 7, 13, 17, 21)...)
			sel := New(rand.New(rand.NewSource(run)), WithStrategy(strategy)).Select(pool, 100, 10)
			if sel.TotalScore == 100 && sel.Exact {
				hits++
			}
		}
		if hits < 9 {
			t.Fatalf("%s: expected exact match in at least 9/10 runs, got %d", strategy, hits)
		}
	}
}

func TestSelectTieredBankReachesTarget(t *testing.T) {
	pool := tieredPool(8, 8, 4)
	for seed := int64(0); seed < 25; seed++ {
		sel := New(rand.New(rand.NewSource(seed))).Select(pool, 100, 10)
		if !sel.Exact || len(sel.Questions) != 10 {
			t.Fatalf("seed %d: expected exact 10-question quiz, got total=%d len=%d", seed, sel.TotalScore, len(sel.Questions))
		}
	}
}

func TestSelectFallsBackToClosestSum(t *testing.T) {
	// Three odd scores always add up to an odd total, so 10 is unreachable.
	pool := customPool(1, 1, 3, 5, 7, 9)
	for _, strategy := range strategies {
		for seed := int64(0); seed < 10; seed++ {
			sel := New(rand.New(rand.NewSource(seed)), WithStrategy(strategy)).Select(pool, 10, 3)
			if len(sel.Questions) != 3 {
				t.Fatalf("%s: expected 3 questions, got %d", strategy, len(sel.Questions))
			}
			if sel.Exact {
				t.Fatalf("%s: exact match should be impossible", strategy)
			}
			if diff := abs(sel.TotalScore - 10); diff != 1 {
				t.Fatalf("%s: expected closest total within 1 of target, got %d", strategy, sel.TotalScore)
			}
		}
	}
}

func TestSelectMatchesBruteForceDistance(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		pool := randomPool(rnd, 6+rnd.Intn(8))
		count := 1 + rnd.Intn(len(pool)-1)
		target := rnd.Intn(120)

		want := bruteForceBestDiff(pool, target, count)
		for _, strategy := range strategies {
			sel := New(rand.New(rand.NewSource(seed)), WithStrategy(strategy)).Select(pool, target, count)
			if got := abs(sel.TotalScore - target); got != want {
				t.Fatalf("%s seed %d: expected distance %d, got %d", strategy, seed, want, got)
			}
		}
	}
}

func TestSelectStateCapStillFillsCount(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	pool := randomPool(rnd, 40)
	sel := New(rand.New(rand.NewSource(3)), WithMaxStates(1)).Select(pool, 1000, 12)
	if len(sel.Questions) != 12 {
		t.Fatalf("expected 12 questions under a tight state cap, got %d", len(sel.Questions))
	}
	assertSubsetOf(t, sel.Questions, pool)
}

func TestSelectFindsExactMatchWithLargeWeights(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		pool := make([]domain.Question, 0, 60)
		for i := 0; i < 60; i++ {
			pool = append(pool, question(i+1, 1000+rnd.Intn(1000000)))
		}
		target := pool[5].Score + pool[23].Score + pool[41].Score
		for _, strategy := range strategies {
			sel := New(rand.New(rand.NewSource(seed)), WithStrategy(strategy)).Select(pool, target, 3)
			if !sel.Exact || sel.TotalScore != target {
				t.Fatalf("%s seed %d: expected exact total %d, got %d", strategy, seed, target, sel.TotalScore)
			}
			assertSubsetOf(t, sel.Questions, pool)
		}
	}
}

func TestSelectLargeWeightsClosestSum(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	pool := make([]domain.Question, 0, 14)
	for i := 0; i < 14; i++ {
		pool = append(pool, question(i+1, 1000+rnd.Intn(1000000)))
	}
	target := 1500001
	want := bruteForceBestDiff(pool, target, 4)
	sel := New(rand.New(rand.NewSource(9))).Select(pool, target, 4)
	if got := abs(sel.TotalScore - target); got != want {
		t.Fatalf("expected distance %d, got %d (total %d)", want, got, sel.TotalScore)
	}
}

func TestSelectDoesNotMutatePool(t *testing.T) {
	pool := tieredPool(8, 8, 4)
	before := ids(pool)
	New(rand.New(rand.NewSource(11))).Select(pool, 100, 10)
	if after := ids(pool); !equalInts(before, after) {
		t.Fatalf("pool order changed: %v -> %v", before, after)
	}
}

func TestSelectIsReproducibleWithSeed(t *testing.T) {
	pool := tieredPool(8, 8, 4)
	a := New(rand.New(rand.NewSource(42))).Select(pool, 100, 10)
	b := New(rand.New(rand.NewSource(42))).Select(pool, 100, 10)
	if !equalInts(ids(a.Questions), ids(b.Questions)) {
		t.Fatalf("expected identical draws for identical seeds")
	}
}

func TestWithStrategyDefaultsToTable(t *testing.T) {
	if got := New(nil, WithStrategy("bogus")).Strategy(); got != StrategyTable {
		t.Fatalf("expected table strategy, got %s", got)
	}
}

func tieredPool(easy, medium, hard int) []domain.Question {
	var pool []domain.Question
	add := func(n, score int) {
		for i := 0; i < n; i++ {
			pool = append(pool, question(len(pool)+1, score))
		}
	}
	add(easy, domain.EasyScore)
	add(medium, domain.MediumScore)
	add(hard, domain.HardScore)
	return pool
}

func customPool(firstID int, scores ...int) []domain.Question {
	pool := make([]domain.Question, 0, len(scores))
	for i, score := range scores {
		pool = append(pool, question(firstID+i, score))
	}
	return pool
}

func randomPool(rnd *rand.Rand, n int) []domain.Question {
	pool := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, question(i+1, 1+rnd.Intn(20)))
	}
	return pool
}

func question(id, score int) domain.Question {
	return domain.Question{ID: id, Text: "q", Options: []string{"a", "b"}, Score: score}
}

func bruteForceBestDiff(pool []domain.Question, target, count int) int {
	best := -1
	for mask := 0; mask < 1<<len(pool); mask++ {
		n, sum := 0, 0
		for i := range pool {
			if mask&(1<<i) != 0 {
				n++
				sum += pool[i].Score
			}
		}
		if n != count {
			continue
		}
		if d := abs(sum - target); best < 0 || d < best {
			best = d
		}
	}
	return best
}

func assertSubsetOf(t *testing.T, picked, pool []domain.Question) {
	t.Helper()
	inPool := make(map[int]bool, len(pool))
	for _, q := range pool {
		inPool[q.ID] = true
	}
	seen := make(map[int]bool, len(picked))
	for _, q := range picked {
		if !inPool[q.ID] {
			t.Fatalf("question %d not in pool", q.ID)
		}
		if seen[q.ID] {
			t.Fatalf("question %d selected twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func ids(questions []domain.Question) []int {
	out := make([]int, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.ID)
	}
	return out
}

func sortedIDs(questions []domain.Question) []int {
	out := ids(questions)
	sort.Ints(out)
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
