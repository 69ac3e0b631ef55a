package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"trivia-quiz-service/internal/auth"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/metrics"
)

// StateTTL bounds how long a player has to finish the provider consent screen.
const StateTTL = 10 * time.Minute

// StateStore keeps pending OAuth states (in-memory, Redis).
type StateStore interface {
	Save(ctx context.Context, state, provider string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (string, error)
}

// AuthService runs the OAuth login flow and verifies session tokens.
type AuthService struct {
	providers auth.Registry
	states    StateStore
	sessions  *auth.SessionManager
	audit     auth.AuditRecorder
	now       func() time.Time
}

func NewAuthService(providers auth.Registry, states StateStore, sessions *auth.SessionManager, audit auth.AuditRecorder) *AuthService {
	if audit == nil {
		audit = auth.LogRecorder{}
	}
	return &AuthService{providers: providers, states: states, sessions: sessions, audit: audit, now: time.Now}
}

// Providers lists the enabled identity providers.
func (s *AuthService) Providers() []string {
	return s.providers.Names()
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

// BeginLogin returns the consent URL for provider.
func (s *AuthService) BeginLogin(ctx context.Context, provider string) (string, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return "", err
	}
	state, err := newState()
	if err != nil {
		return "", err
	}
	if err := s.states.Save(ctx, state, p.Name(), StateTTL); err != nil {
		return "", errors.Wrap(err, "save oauth state")
	}
	return p.AuthCodeURL(state), nil
}

// CompleteLogin handles the provider callback and returns the player and a signed
// session token.
func (s *AuthService) CompleteLogin(ctx context.Context, provider, state, code string) (domain.Identity, string, error) {
	identity, err := s.completeLogin(ctx, provider, state, code)
	metrics.Login(provider, err == nil)
	if err != nil {
		return domain.Identity{}, "", err
	}

	record := domain.LoginRecord{Identity: identity, LoggedInAt: s.now()}
	if err := s.audit.RecordLogin(ctx, record); err != nil {
		glog.Warningf("audit login for %s:%s: %v", identity.Provider, identity.ID, err)
	}

	token, err := s.sessions.Issue(identity)
	if err != nil {
		return domain.Identity{}, "", err
	}
	glog.Infof("player %s logged in with %s", identity.ID, identity.Provider)
	return identity, token, nil
}

func (s *AuthService) completeLogin(ctx context.Context, provider, state, code string) (domain.Identity, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return domain.Identity{}, err
	}
	owner, err := s.states.Consume(ctx, state)
	if err != nil {
		return domain.Identity{}, err
	}
	if owner != p.Name() {
		return domain.Identity{}, domain.ErrInvalidState
	}
	if code == "" {
		return domain.Identity{}, errors.New("missing authorization code")
	}
	return p.Identify(ctx, code)
}

// Authenticate verifies a session token.
func (s *AuthService) Authenticate(token string) (domain.Identity, error) {
	return s.sessions.Parse(token)
}

func newState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generate oauth state")
	}
	return hex.EncodeToString(buf), nil
}
