package sheets

import (
	"strconv"
	"strings"

	"github.com/golang/glog"

	"trivia-quiz-service/internal/domain"
)

// Column layout: question, four options, correct answer, difficulty or weight.
const (
	colQuestion = 0
	colOptions  = 1
	numOptions  = 4
	colCorrect  = 5
	colWeight   = 6
	minColumns  = 6
)

// NormalizeRows turns raw sheet rows into valid questions. A header row is skipped
// when its first cell mentions "question"; rows that fail validation are dropped.
func NormalizeRows(rows [][]string) []domain.Question {
	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 && strings.Contains(strings.ToLower(rows[0][0]), "question") {
		start = 1
	}

	var questions []domain.Question
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) < minColumns {
			continue
		}

		q := domain.Question{
			ID:   i - start + 1,
			Text: cell(row, colQuestion),
		}
		for j := colOptions; j < colOptions+numOptions; j++ {
			if opt := cell(row, j); opt != "" {
				q.Options = append(q.Options, opt)
			}
		}
		q.CorrectIndex = correctIndex(cell(row, colCorrect), q.Options)
		q.Score = weight(cell(row, colWeight), i+1)

		if !q.Valid() {
			glog.Warningf("skipping invalid question at row %d (options=%d answer=%d weight=%d)",
				i+1, len(q.Options), q.CorrectIndex, q.Score)
			continue
		}
		questions = append(questions, q)
	}
	glog.V(2).Infof("normalized %d valid questions from %d rows", len(questions), len(rows))
	return questions
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// correctIndex accepts either a zero-based index or the text of the right option.
// An empty cell yields -1 so the row fails validation.
func correctIndex(raw string, options []string) int {
	if raw == "" {
		return -1
	}
	if n, ok := leadingInt(raw); ok {
		return n
	}
	for i, opt := range options {
		if strings.EqualFold(opt, raw) {
			return i
		}
	}
	return 0
}

func weight(raw string, rowNumber int) int {
	if raw == "" {
		return domain.DefaultScore
	}
	if n, ok := leadingInt(raw); ok {
		return n
	}
	score, ok := domain.ScoreForDifficulty(raw)
	if !ok {
		glog.Warningf("unknown difficulty %q at row %d, using weight %d", raw, rowNumber, score)
	}
	return score
}

// leadingInt reads numeric cells such as "2.0" or "12.5" by their integer part.
// Cells that are not numbers at all report false.
func leadingInt(raw string) (int, bool) {
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return 0, false
	}
	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
