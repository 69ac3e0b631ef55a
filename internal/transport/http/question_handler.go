package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

func (s *Server) ListQuestionsFunc(w http.ResponseWriter, r *http.Request) {
	set, err := s.quiz.Questions(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"questions": set.Questions,
		"source":    set.Source,
		"count":     len(set.Questions),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) GetQuestionFunc(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid question ID")
		return
	}
	q, err := s.quiz.Question(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "question": q})
}

func (s *Server) QuestionStatsFunc(w http.ResponseWriter, r *http.Request) {
	stats, err := s.quiz.Stats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

func (s *Server) RefreshQuestionsFunc(w http.ResponseWriter, r *http.Request) {
	set, err := s.quiz.Refresh(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Cache refreshed successfully",
		"questions": len(set.Questions),
		"source":    set.Source,
		"timestamp": time.Now().UTC(),
	})
}
