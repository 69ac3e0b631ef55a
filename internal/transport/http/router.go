// Package http exposes the quiz use cases over HTTP and WebSocket.
package http

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/auth"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/metrics"
)

// RouterConfig carries the browser facing settings.
type RouterConfig struct {
	FrontendURL   string
	CORSOrigins   []string
	SecureCookies bool
}

// Server holds the handlers for every route.
type Server struct {
	quiz *app.QuizService
	auth *app.AuthService
	cfg  RouterConfig
	ws   *WSHandler
}

func NewServer(quiz *app.QuizService, authService *app.AuthService, cfg RouterConfig) *Server {
	if len(cfg.CORSOrigins) == 0 && cfg.FrontendURL != "" {
		cfg.CORSOrigins = []string{cfg.FrontendURL}
	}
	return &Server{quiz: quiz, auth: authService, cfg: cfg, ws: NewWSHandler(quiz, cfg.CORSOrigins)}
}

// Handler returns the routed handler wrapped in CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.SetupRoutes(r)

	corsHeaders := handlers.AllowedHeaders([]string{"Authorization", "Content-Type"})
	corsOrigins := handlers.AllowedOrigins(s.cfg.CORSOrigins)
	corsMethods := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})
	return handlers.CORS(corsHeaders, corsOrigins, corsMethods, handlers.AllowCredentials())(r)
}

func (s *Server) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", s.HealthFunc).Methods("GET")
	r.HandleFunc("/api/health", s.HealthFunc).Methods("GET")

	r.HandleFunc("/api/questions", s.ListQuestionsFunc).Methods("GET")
	r.HandleFunc("/api/questions/stats", s.QuestionStatsFunc).Methods("GET")
	r.HandleFunc("/api/questions/refresh", s.RefreshQuestionsFunc).Methods("POST")
	r.HandleFunc("/api/questions/{id}", s.GetQuestionFunc).Methods("GET")

	r.HandleFunc("/api/quiz", s.StartQuizFunc).Methods("POST")
	r.HandleFunc("/api/quiz/{id}/submit", s.SubmitQuizFunc).Methods("POST")

	r.HandleFunc("/api/auth/user", s.CurrentUserFunc).Methods("GET")
	r.HandleFunc("/api/auth/logout", s.LogoutFunc).Methods("POST")
	r.HandleFunc("/api/auth/{provider}", s.LoginFunc).Methods("GET")
	r.HandleFunc("/api/auth/{provider}/callback", s.CallbackFunc).Methods("GET")

	r.HandleFunc("/ws/quiz", s.withPlayer(s.ws.ServeWS))
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
}

func (s *Server) HealthFunc(w http.ResponseWriter, r *http.Request) {
	h := s.quiz.Health(r.Context())
	status := http.StatusOK
	if h.Status != "ok" && h.QuestionCount == 0 {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, struct {
		app.Health
		Providers []string `json:"authProviders"`
	}{h, s.auth.Providers()})
}

// player returns the logged in identity, if the request has a valid session.
func (s *Server) player(r *http.Request) *domain.Identity {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		return nil
	}
	identity, err := s.auth.Authenticate(cookie.Value)
	if err != nil {
		return nil
	}
	return &identity
}

func (s *Server) sessionCookie(value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(maxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		c.MaxAge = -1
	}
	if s.cfg.SecureCookies {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
