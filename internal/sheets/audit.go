package sheets

import (
	"context"
	"time"

	"trivia-quiz-service/internal/domain"
)

// Appender appends rows to a cell range.
type Appender interface {
	Append(ctx context.Context, rng string, rows [][]string) error
}

// AuditRecorder writes one row per login: timestamp, email, name, provider, user id.
type AuditRecorder struct {
	appender Appender
	rng      string
}

func NewAuditRecorder(appender Appender, rng string) *AuditRecorder {
	return &AuditRecorder{appender: appender, rng: rng}
}

func (a *AuditRecorder) RecordLogin(ctx context.Context, record domain.LoginRecord) error {
	row := []string{
		record.LoggedInAt.UTC().Format(time.RFC3339),
		record.Email,
		record.Name,
		record.Provider,
		record.ID,
	}
	return a.appender.Append(ctx, a.rng, [][]string{row})
}
