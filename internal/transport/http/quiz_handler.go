package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

// maxQuizSize bounds the count query so a request cannot ask for the whole pool
// many times over.
const maxQuizSize = 100

type quizResponse struct {
	Success     bool                    `json:"success"`
	ID          string                  `json:"id"`
	Questions   []domain.PublicQuestion `json:"questions"`
	TargetScore int                     `json:"targetScore"`
	TotalScore  int                     `json:"totalScore"`
	Requested   int                     `json:"requested"`
	Exact       bool                    `json:"exact"`
	Underfilled bool                    `json:"underfilled"`
}

func newQuizResponse(session domain.QuizSession) quizResponse {
	public := make([]domain.PublicQuestion, 0, len(session.Questions))
	for _, q := range session.Questions {
		public = append(public, q.Public())
	}
	return quizResponse{
		Success:     true,
		ID:          session.ID,
		Questions:   public,
		TargetScore: session.TargetScore,
		TotalScore:  session.TotalScore(),
		Requested:   session.Requested,
		Exact:       session.Exact,
		Underfilled: session.Underfilled(),
	}
}

type submitRequest struct {
	Answers []domain.UserAnswer `json:"answers"`
}

func (s *Server) StartQuizFunc(w http.ResponseWriter, r *http.Request) {
	req := app.QuizRequest{Player: s.player(r)}
	var ok bool
	if req.Count, ok = positiveQuery(r, "count", maxQuizSize); !ok {
		writeError(w, http.StatusBadRequest, "count must be a positive integer")
		return
	}
	if req.TargetScore, ok = positiveQuery(r, "target", 0); !ok {
		writeError(w, http.StatusBadRequest, "target must be a positive integer")
		return
	}

	session, err := s.quiz.StartQuiz(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newQuizResponse(session))
}

func (s *Server) SubmitQuizFunc(w http.ResponseWriter, r *http.Request) {
	var body submitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid submission body")
		return
	}
	summary, err := s.quiz.SubmitQuiz(r.Context(), mux.Vars(r)["id"], body.Answers)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": summary})
}

// positiveQuery reads an optional positive integer. A missing value yields 0.
// max of 0 means unbounded.
func positiveQuery(r *http.Request, key string, max int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || (max > 0 && n > max) {
		return 0, false
	}
	return n, true
}
