package scoring

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"trivia-quiz-service/internal/domain"
)

func twoQuestionSelection() []domain.Question {
	return []domain.Question{
		{ID: 1, Text: "q1", Options: []string{"a", "b", "c"}, CorrectIndex: 1, Score: 5},
		{ID: 2, Text: "q2", Options: []string{"a", "b", "c"}, CorrectIndex: 2, Score: 10},
	}
}

func TestScoreMixedAnswers(t *testing.T) {
	summary := Score(twoQuestionSelection(), []domain.UserAnswer{
		{QuestionID: 1, SelectedIndex: 1},
		{QuestionID: 2, SelectedIndex: 0},
	})

	if summary.TotalScore != 5 || summary.MaxScore != 15 || summary.AnsweredCount != 2 || summary.TotalCount != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if math.Abs(summary.Percentage-33.333) > 0.01 {
		t.Fatalf("expected ~33.33%%, got %f", summary.Percentage)
	}
	if summary.Breakdown.Easy != (domain.TierStats{Correct: 1, Total: 1, Points: 5}) {
		t.Fatalf("unexpected easy tier: %+v", summary.Breakdown.Easy)
	}
	if summary.Breakdown.Medium != (domain.TierStats{Correct: 0, Total: 1, Points: 0}) {
		t.Fatalf("unexpected medium tier: %+v", summary.Breakdown.Medium)
	}
}

func TestScoreUnansweredQuestion(t *testing.T) {
	summary := Score(twoQuestionSelection(), []domain.UserAnswer{{QuestionID: 1, SelectedIndex: 1}})
	if summary.AnsweredCount != 1 || summary.TotalScore != 5 || summary.MaxScore != 15 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestScoreLastAnswerWins(t *testing.T) {
	summary := Score(twoQuestionSelection(), []domain.UserAnswer{
		{QuestionID: 2, SelectedIndex: 2},
		{QuestionID: 2, SelectedIndex: 0},
	})
	if summary.TotalScore != 0 || summary.AnsweredCount != 1 {
		t.Fatalf("expected overwritten wrong answer, got %+v", summary)
	}
}

func TestScoreIgnoresForeignAnswers(t *testing.T) {
	summary := Score(twoQuestionSelection(), []domain.UserAnswer{
		{QuestionID: 99, SelectedIndex: 0},
		{QuestionID: 1, SelectedIndex: 1},
	})
	if summary.AnsweredCount != 1 || summary.TotalScore != 5 {
		t.Fatalf("expected foreign answer ignored, got %+v", summary)
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	selection := twoQuestionSelection()
	answers := []domain.UserAnswer{{QuestionID: 1, SelectedIndex: 1}, {QuestionID: 2, SelectedIndex: 2}}

	first, err := json.Marshal(Score(selection, answers))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Score(selection, answers))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical summaries:\n%s\n%s", first, second)
	}
}

func TestScoreEmptySelection(t *testing.T) {
	summary := Score(nil, []domain.UserAnswer{{QuestionID: 1, SelectedIndex: 0}})
	if summary.MaxScore != 0 || summary.Percentage != 0 || math.IsNaN(summary.Percentage) {
		t.Fatalf("expected zero max score and percentage, got %+v", summary)
	}
}

func TestScoreCustomTier(t *testing.T) {
	selection := []domain.Question{{ID: 3, Text: "q", Options: []string{"a", "b"}, CorrectIndex: 0, Score: 7}}
	summary := Score(selection, []domain.UserAnswer{{QuestionID: 3, SelectedIndex: 0}})
	if summary.Breakdown.Custom != (domain.TierStats{Correct: 1, Total: 1, Points: 7}) {
		t.Fatalf("unexpected custom tier: %+v", summary.Breakdown.Custom)
	}
}
