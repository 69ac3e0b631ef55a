package auth

import (
	"context"

	"github.com/golang/glog"

	"trivia-quiz-service/internal/domain"
)

// AuditRecorder stores one row per successful login.
type AuditRecorder interface {
	RecordLogin(ctx context.Context, record domain.LoginRecord) error
}

// LogRecorder only writes logins to the log.
type LogRecorder struct{}

func (LogRecorder) RecordLogin(_ context.Context, record domain.LoginRecord) error {
	glog.Infof("login provider=%s user=%s email=%s", record.Provider, record.ID, record.Email)
	return nil
}

// MultiRecorder fans a login out to every recorder. All recorders run; the first
// error is returned.
type MultiRecorder []AuditRecorder

func (m MultiRecorder) RecordLogin(ctx context.Context, record domain.LoginRecord) error {
	var first error
	for _, r := range m {
		if err := r.RecordLogin(ctx, record); err != nil && first == nil {
			first = err
		}
	}
	return first
}
