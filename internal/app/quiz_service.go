package app

import (
	"context"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/metrics"
	"trivia-quiz-service/internal/scoring"
	"trivia-quiz-service/internal/selector"
)

// QuestionRepository serves the cached question pool (in-memory, Redis).
type QuestionRepository interface {
	GetQuestions(ctx context.Context) (domain.QuestionSet, error)
	Invalidate(ctx context.Context) error
	CacheAge() (time.Duration, bool)
}

// QuizSessionRepository stores drawn quizzes until they are submitted or expire.
type QuizSessionRepository interface {
	Save(ctx context.Context, session domain.QuizSession) error
	Get(ctx context.Context, id string) (domain.QuizSession, error)
	Delete(ctx context.Context, id string) error
}

// Picker draws a quiz from a pool.
type Picker interface {
	Select(pool []domain.Question, targetScore, count int) selector.Selection
	Strategy() selector.Strategy
}

// QuizDefaults apply when a request leaves count or target unset.
type QuizDefaults struct {
	TargetScore int
	Count       int
}

// QuizRequest asks for a new quiz. Zero values take the service defaults.
type QuizRequest struct {
	TargetScore int
	Count       int
	Player      *domain.Identity
}

// Health is a snapshot of the question source.
type Health struct {
	Status        string        `json:"status"`
	Source        domain.Source `json:"source"`
	QuestionCount int           `json:"questionCount"`
	CacheAge      string        `json:"cacheAge,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	questions QuestionRepository
	sessions  QuizSessionRepository
	picker    Picker
	defaults  QuizDefaults
	now       func() time.Time
}

func NewQuizService(questions QuestionRepository, sessions QuizSessionRepository, picker Picker, defaults QuizDefaults) *QuizService {
	if defaults.TargetScore <= 0 {
		defaults.TargetScore = selector.DefaultTargetScore
	}
	if defaults.Count <= 0 {
		defaults.Count = selector.DefaultCount
	}
	return &QuizService{questions: questions, sessions: sessions, picker: picker, defaults: defaults, now: time.Now}
}

// Questions returns the full pool, answers included.
func (s *QuizService) Questions(ctx context.Context) (domain.QuestionSet, error) {
	set, err := s.questions.GetQuestions(ctx)
	if err != nil {
		return domain.QuestionSet{}, err
	}
	metrics.QuestionsServed(string(set.Source))
	return set, nil
}

func (s *QuizService) Question(ctx context.Context, id int) (domain.Question, error) {
	set, err := s.Questions(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	q, ok := set.Find(id)
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

// Stats summarizes the weight distribution of the current pool.
func (s *QuizService) Stats(ctx context.Context) (domain.PoolStats, error) {
	set, err := s.Questions(ctx)
	if err != nil {
		return domain.PoolStats{}, err
	}
	return poolStats(set), nil
}

// Refresh drops the cached pool and loads it again.
func (s *QuizService) Refresh(ctx context.Context) (domain.QuestionSet, error) {
	if err := s.questions.Invalidate(ctx); err != nil {
		return domain.QuestionSet{}, err
	}
	glog.Info("question cache invalidated, reloading")
	return s.Questions(ctx)
}

func (s *QuizService) Health(ctx context.Context) Health {
	h := Health{Status: "ok", Timestamp: s.now()}
	set, err := s.questions.GetQuestions(ctx)
	if err != nil {
		h.Status = "degraded"
		return h
	}
	h.Source = set.Source
	h.QuestionCount = len(set.Questions)
	if age, ok := s.questions.CacheAge(); ok {
		h.CacheAge = age.Truncate(time.Second).String()
	}
	switch set.Source {
	case domain.SourceFallback, domain.SourceCachedFallback, domain.SourceFallbackError:
		h.Status = "degraded"
	}
	return h
}

// StartQuiz draws a quiz and keeps it so the submission can be scored against
// exactly the questions the player saw.
func (s *QuizService) StartQuiz(ctx context.Context, req QuizRequest) (domain.QuizSession, error) {
	target, count := req.TargetScore, req.Count
	if target <= 0 {
		target = s.defaults.TargetScore
	}
	if count <= 0 {
		count = s.defaults.Count
	}

	set, err := s.Questions(ctx)
	if err != nil {
		return domain.QuizSession{}, err
	}

	started := time.Now()
	selection := s.picker.Select(set.Questions, target, count)
	metrics.ObserveSelection(string(s.picker.Strategy()), outcome(selection), time.Since(started))

	if selection.Underfilled() {
		glog.Warningf("pool of %d questions cannot fill a quiz of %d", len(set.Questions), count)
	} else if !selection.Exact {
		glog.V(2).Infof("no exact %d-question subset for target %d, closest total %d",
			count, target, selection.TotalScore)
	}

	session := domain.QuizSession{
		ID:          uuid.New().String(),
		Questions:   selection.Questions,
		TargetScore: target,
		Requested:   count,
		Exact:       selection.Exact,
		Player:      req.Player,
		CreatedAt:   s.now(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.QuizSession{}, err
	}
	return session, nil
}

// Session returns a drawn quiz.
func (s *QuizService) Session(ctx context.Context, id string) (domain.QuizSession, error) {
	return s.sessions.Get(ctx, id)
}

// SubmitQuiz scores answers against a drawn quiz and deletes it, so a quiz can be
// submitted once.
func (s *QuizService) SubmitQuiz(ctx context.Context, sessionID string, answers []domain.UserAnswer) (domain.ScoreSummary, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.ScoreSummary{}, err
	}
	summary := scoring.Score(session.Questions, answers)
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		glog.Warningf("failed to delete quiz session %s: %v", sessionID, err)
	}
	metrics.QuizSubmitted()
	glog.V(2).Infof("quiz %s scored %d/%d", sessionID, summary.TotalScore, summary.MaxScore)
	return summary, nil
}

func outcome(sel selector.Selection) string {
	switch {
	case len(sel.Questions) == 0:
		return metrics.OutcomeEmpty
	case sel.Underfilled():
		return metrics.OutcomeUnderfilled
	case sel.Exact:
		return metrics.OutcomeExact
	default:
		return metrics.OutcomeClosest
	}
}

func poolStats(set domain.QuestionSet) domain.PoolStats {
	stats := domain.PoolStats{
		TotalQuestions:        len(set.Questions),
		WeightageDistribution: make(map[int]int),
		Source:                set.Source,
	}
	for _, q := range set.Questions {
		stats.TotalWeightage += q.Score
		stats.WeightageDistribution[q.Score]++
	}
	if stats.TotalQuestions > 0 {
		avg := float64(stats.TotalWeightage) / float64(stats.TotalQuestions)
		stats.AverageWeightage = math.Round(avg*100) / 100
	}
	return stats
}
