package domain

import "errors"

var (
	// ErrQuestionNotFound is returned when a question id is not in the pool.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoQuestions indicates a loader produced no valid questions.
	ErrNoQuestions = errors.New("no valid questions")
	// ErrSessionNotFound is returned when a quiz session is unknown or expired.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrUnknownProvider is returned for identity providers that are not configured.
	ErrUnknownProvider = errors.New("unknown identity provider")
	// ErrInvalidState means an OAuth callback carried an unknown or reused state.
	ErrInvalidState = errors.New("invalid oauth state")
	// ErrUnauthenticated means the request carried no valid session.
	ErrUnauthenticated = errors.New("not authenticated")
)
