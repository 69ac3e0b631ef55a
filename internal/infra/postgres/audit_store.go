package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"

	"trivia-quiz-service/internal/domain"
)

// AuditStore appends login records to user_logins.
type AuditStore struct {
	pool *pgxpool.Pool
}

func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

func (s *AuditStore) RecordLogin(ctx context.Context, record domain.LoginRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_logins (user_id, provider, name, email, logged_in_at) VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.Provider, record.Name, record.Email, record.LoggedInAt)
	return errors.Wrap(err, "insert login record")
}
