package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

// WSHandler lets a player draw, answer and submit a quiz over one connection.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Count       int `json:"count"`
	TargetScore int `json:"target"`
}

type submitPayload struct {
	Answers []domain.UserAnswer `json:"answers"`
}

type answerAck struct {
	QuestionID int `json:"questionId"`
	Answered   int `json:"answered"`
	Total      int `json:"total"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// play is the per-connection quiz state.
type play struct {
	session domain.QuizSession
	answers map[int]int
	order   []int
}

func newPlay(session domain.QuizSession) *play {
	return &play{session: session, answers: make(map[int]int)}
}

func (p *play) record(a domain.UserAnswer) bool {
	set := domain.QuestionSet{Questions: p.session.Questions}
	if _, ok := set.Find(a.QuestionID); !ok {
		return false
	}
	if _, seen := p.answers[a.QuestionID]; !seen {
		p.order = append(p.order, a.QuestionID)
	}
	p.answers[a.QuestionID] = a.SelectedIndex
	return true
}

func (p *play) collected() []domain.UserAnswer {
	out := make([]domain.UserAnswer, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, domain.UserAnswer{QuestionID: id, SelectedIndex: p.answers[id]})
	}
	return out
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	var player *domain.Identity
	if v, ok := r.Context().Value(playerKey{}).(*domain.Identity); ok {
		player = v
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				glog.V(2).Infof("ws write error: %v", err)
				return
			}
		}
	}()

	// Once the writer has gone, nothing drains send, so stop reading as well.
	alive := true
	push := func(msgType string, payload any) {
		select {
		case send <- outboundMessage[any]{Type: msgType, Payload: payload}:
		case <-writerDone:
			alive = false
		}
	}
	fail := func(msg string) {
		push("error", errorPayload{Message: msg})
	}

	var current *play
	for alive {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					fail("invalid start payload")
					continue
				}
			}
			if payload.Count < 0 || payload.Count > maxQuizSize || payload.TargetScore < 0 {
				fail("invalid quiz size or target")
				continue
			}
			session, err := h.service.StartQuiz(r.Context(), app.QuizRequest{
				Count:       payload.Count,
				TargetScore: payload.TargetScore,
				Player:      player,
			})
			if err != nil {
				fail(err.Error())
				continue
			}
			current = newPlay(session)
			push("quiz", newQuizResponse(session))

		case "answer":
			if current == nil {
				fail("no quiz in progress")
				continue
			}
			var payload domain.UserAnswer
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				fail("invalid answer payload")
				continue
			}
			if !current.record(payload) {
				fail(domain.ErrQuestionNotFound.Error())
				continue
			}
			push("answerAck", answerAck{
				QuestionID: payload.QuestionID,
				Answered:   len(current.answers),
				Total:      len(current.session.Questions),
			})

		case "submit":
			if current == nil {
				fail("no quiz in progress")
				continue
			}
			var payload submitPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					fail("invalid submit payload")
					continue
				}
			}
			for _, a := range payload.Answers {
				current.record(a)
			}
			summary, err := h.service.SubmitQuiz(r.Context(), current.session.ID, current.collected())
			if err != nil {
				fail(err.Error())
				continue
			}
			push("result", summary)
			current = nil

		default:
			fail("unsupported message type")
		}
	}

	close(send)
	<-writerDone
}

type playerKey struct{}

// withPlayer resolves the session cookie before the upgrade so the socket knows
// who is playing.
func (s *Server) withPlayer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p := s.player(r); p != nil {
			r = r.WithContext(context.WithValue(r.Context(), playerKey{}, p))
		}
		next(w, r)
	}
}
