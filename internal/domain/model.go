package domain

import "math"

// AnswerInput is one raw answer as submitted by the respondent.
type AnswerInput struct {
	QuestionID int     `json:"questionId"`
	Value      float64 `json:"value"`
}

// SubscaleScore is the aggregated score of one subscale.
// A nil Score means no answer contributed to the subscale.
type SubscaleScore struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// Missing reports whether no answers contributed to the subscale.
func (s SubscaleScore) Missing() bool { return s.Score == nil }

// ScoredResult is the outcome of scoring one submission.
type ScoredResult struct {
	TestID                 string          `json:"testId"`
	Title                  string          `json:"title"`
	TotalScore             *float64        `json:"totalScore"`
	TotalLevelID           *string         `json:"totalLevelId"`
	TotalLevelLabel        *string         `json:"totalLevelLabel"`
	Interpretation         *string         `json:"interpretation"`
	Subscales              []SubscaleScore `json:"subscales"`
	RawAnswers             []AnswerInput   `json:"rawAnswers"`
	RecommendedTests       []string        `json:"recommendedTests"`
	RecommendationMessages []string        `json:"recommendationMessages"`
}

// Subscale returns the subscale with the given id.
func (r ScoredResult) Subscale(id string) (SubscaleScore, bool) {
	for _, s := range r.Subscales {
		if s.ID == id {
			return s, true
		}
	}
	return SubscaleScore{}, false
}

// Level returns the level id, or "" when no cutoff band matched.
func (r ScoredResult) Level() string {
	if r.TotalLevelID == nil {
		return ""
	}
	return *r.TotalLevelID
}

// GlobalRecommendationItem is one suggested next test. Lower Priority is more important.
type GlobalRecommendationItem struct {
	TestID   string `json:"testId"`
	Reason   string `json:"reason"`
	Source   string `json:"source"`
	Priority int    `json:"priority"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s.
func String(s string) *string { return &s }

// Deref returns *p, or fallback when p is nil or NaN.
func Deref(p *float64, fallback float64) float64 {
	if p == nil || math.IsNaN(*p) {
		return fallback
	}
	return *p
}
