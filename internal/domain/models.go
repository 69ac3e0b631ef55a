package domain

import "time"

// Question is a single multiple-choice trivia question. Questions are treated as
// immutable values once built by a loader.
type Question struct {
	ID           int      `json:"id"`
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctAnswer"`
	Score        int      `json:"weightage"`
}

// Valid reports whether the question can be served to players.
func (q Question) Valid() bool {
	return q.Text != "" &&
		len(q.Options) >= 2 &&
		q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options) &&
		q.Score > 0
}

// PublicQuestion hides the correct answer from clients that play a quiz session.
type PublicQuestion struct {
	ID      int      `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Score   int      `json:"weightage"`
}

// Public strips the answer key.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, Text: q.Text, Options: q.Options, Score: q.Score}
}

// Source tags where a question set came from.
type Source string

const (
	SourceSheets         Source = "google-sheets"
	SourcePostgres       Source = "postgres"
	SourceFallback       Source = "fallback"
	SourceCachedFallback Source = "cached-fallback"
	SourceFallbackError  Source = "fallback-error"
)

// QuestionSet is a materialized pool snapshot.
type QuestionSet struct {
	Questions []Question `json:"questions"`
	Source    Source     `json:"source"`
	FetchedAt time.Time  `json:"fetchedAt"`
}

// Find returns the question with the given id.
func (s QuestionSet) Find(id int) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// PoolStats summarizes the weight distribution of a pool.
type PoolStats struct {
	TotalQuestions        int         `json:"totalQuestions"`
	TotalWeightage        int         `json:"totalWeightage"`
	AverageWeightage      float64     `json:"averageWeightage"`
	WeightageDistribution map[int]int `json:"weightageDistribution"`
	Source                Source      `json:"source"`
}

// UserAnswer is a player's choice for one question.
type UserAnswer struct {
	QuestionID    int `json:"questionId"`
	SelectedIndex int `json:"selectedOption"`
}

// TierStats aggregates results for one difficulty tier.
type TierStats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Points  int `json:"points"`
}

// TierBreakdown holds per-tier stats. Scores outside the known tiers land in Custom.
type TierBreakdown struct {
	Easy   TierStats `json:"easy"`
	Medium TierStats `json:"medium"`
	Hard   TierStats `json:"hard"`
	Custom TierStats `json:"custom"`
}

// ScoreSummary is the result of scoring one quiz session.
type ScoreSummary struct {
	TotalScore    int           `json:"totalScore"`
	MaxScore      int           `json:"maxScore"`
	Percentage    float64       `json:"percentage"`
	AnsweredCount int           `json:"answeredQuestions"`
	TotalCount    int           `json:"totalQuestions"`
	Breakdown     TierBreakdown `json:"difficultyBreakdown"`
}

// Identity is an authenticated player as reported by an identity provider.
type Identity struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Username string `json:"username,omitempty"`
}

// LoginRecord is one audit row written after a successful login.
type LoginRecord struct {
	Identity
	LoggedInAt time.Time `json:"loggedInAt"`
}

// QuizSession is a drawn quiz held until the player submits or abandons it.
type QuizSession struct {
	ID          string     `json:"id"`
	Questions   []Question `json:"questions"`
	TargetScore int        `json:"targetScore"`
	Requested   int        `json:"requested"`
	Exact       bool       `json:"exact"`
	Player      *Identity  `json:"player,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TotalScore sums the scores of the drawn questions.
func (s QuizSession) TotalScore() int {
	total := 0
	for _, q := range s.Questions {
		total += q.Score
	}
	return total
}

// Underfilled reports whether fewer questions were drawn than requested.
func (s QuizSession) Underfilled() bool {
	return len(s.Questions) < s.Requested
}
