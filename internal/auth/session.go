package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"trivia-quiz-service/internal/domain"
)

// CookieName is the session cookie set after login.
const CookieName = "quiz.sid"

const issuer = "trivia-quiz-service"

// Claims is the session token payload.
type Claims struct {
	User domain.Identity `json:"user"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *SessionManager) TTL() time.Duration { return m.ttl }

func (m *SessionManager) Issue(identity domain.Identity) (string, error) {
	now := m.now()
	claims := Claims{
		User: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.Provider + ":" + identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign session token")
	}
	return token, nil
}

// Parse verifies a token and returns its identity. Any failure maps to
// domain.ErrUnauthenticated.
func (m *SessionManager) Parse(raw string) (domain.Identity, error) {
	if raw == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.Identity{}, errors.Wrap(domain.ErrUnauthenticated, err.Error())
	}
	return claims.User, nil
}
