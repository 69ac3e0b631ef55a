package sheets

import (
	"context"
	"time"

	"trivia-quiz-service/internal/domain"
)

// ValueReader reads a cell range.
type ValueReader interface {
	Values(ctx context.Context, rng string) ([][]string, error)
}

// Loader reads the question range of a spreadsheet.
type Loader struct {
	reader ValueReader
	rng    string
}

func NewLoader(reader ValueReader, rng string) *Loader {
	return &Loader{reader: reader, rng: rng}
}

func (l *Loader) LoadQuestions(ctx context.Context) (domain.QuestionSet, error) {
	rows, err := l.reader.Values(ctx, l.rng)
	if err != nil {
		return domain.QuestionSet{}, err
	}
	questions := NormalizeRows(rows)
	if len(questions) == 0 {
		return domain.QuestionSet{}, domain.ErrNoQuestions
	}
	return domain.QuestionSet{Questions: questions, Source: domain.SourceSheets, FetchedAt: time.Now()}, nil
}
