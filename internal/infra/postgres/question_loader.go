package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"

	"trivia-quiz-service/internal/domain"
)

// QuestionLoader loads the pool from the questions table.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) (domain.QuestionSet, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, text, options, correct_index, score FROM questions ORDER BY id`)
	if err != nil {
		return domain.QuestionSet{}, errors.Wrap(err, "query questions")
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q   domain.Question
			raw []byte
		)
		if err := rows.Scan(&q.ID, &q.Text, &raw, &q.CorrectIndex, &q.Score); err != nil {
			return domain.QuestionSet{}, errors.Wrap(err, "scan question")
		}
		if err := json.Unmarshal(raw, &q.Options); err != nil {
			return domain.QuestionSet{}, errors.Wrapf(err, "decode options of question %d", q.ID)
		}
		if !q.Valid() {
			glog.Warningf("skipping invalid question %d from postgres", q.ID)
			continue
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.QuestionSet{}, errors.Wrap(err, "iterate questions")
	}
	if len(questions) == 0 {
		return domain.QuestionSet{}, domain.ErrNoQuestions
	}
	return domain.QuestionSet{Questions: questions, Source: domain.SourcePostgres, FetchedAt: time.Now()}, nil
}

// UpsertQuestions writes questions in one transaction, replacing rows with the same id.
func UpsertQuestions(ctx context.Context, pool *pgxpool.Pool, questions []domain.Question) error {
	return pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		for _, q := range questions {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return errors.Wrapf(err, "encode options of question %d", q.ID)
			}
			_, err = tx.Exec(ctx, `
INSERT INTO questions (id, text, options, correct_index, score, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (id) DO UPDATE SET
    text = EXCLUDED.text,
    options = EXCLUDED.options,
    correct_index = EXCLUDED.correct_index,
    score = EXCLUDED.score,
    updated_at = now()`,
				q.ID, q.Text, string(options), q.CorrectIndex, q.Score)
			if err != nil {
				return errors.Wrapf(err, "upsert question %d", q.ID)
			}
		}
		return nil
	})
}
