// Package scoring turns a drawn quiz and a player's answers into a result summary.
package scoring

import "trivia-quiz-service/internal/domain"

// Score is a pure reduction over the selection. Answers are keyed by question id
// with the last one winning; answers for questions outside the selection are ignored.
func Score(selection []domain.Question, answers []domain.UserAnswer) domain.ScoreSummary {
	chosen := make(map[int]int, len(answers))
	for _, a := range answers {
		chosen[a.QuestionID] = a.SelectedIndex
	}

	summary := domain.ScoreSummary{TotalCount: len(selection)}
	for _, q := range selection {
		summary.MaxScore += q.Score
		tier := tierStats(&summary.Breakdown, q.Score)
		tier.Total++

		selected, ok := chosen[q.ID]
		if !ok {
			continue
		}
		summary.AnsweredCount++
		// Guard against one id appearing twice in a selection.
		delete(chosen, q.ID)

		if selected == q.CorrectIndex {
			summary.TotalScore += q.Score
			tier.Correct++
			tier.Points += q.Score
		}
	}

	if summary.MaxScore > 0 {
		summary.Percentage = float64(summary.TotalScore) / float64(summary.MaxScore) * 100
	}
	return summary
}

func tierStats(b *domain.TierBreakdown, score int) *domain.TierStats {
	switch domain.TierForScore(score) {
	case domain.TierEasy:
		return &b.Easy
	case domain.TierMedium:
		return &b.Medium
	case domain.TierHard:
		return &b.Hard
	default:
		return &b.Custom
	}
}
