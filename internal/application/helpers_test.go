package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/testology/psyengine/internal/domain"
	"github.com/testology/psyengine/internal/domain/scoring"
)

type memStore struct {
	mu      sync.Mutex
	records []domain.HistoryRecord
	failing bool
}

func (m *memStore) Append(_ context.Context, rec domain.HistoryRecord) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memStore) List(_ context.Context, userID string) ([]domain.HistoryRecord, error) {
	if m.failing {
		return nil, errors.New("disk full")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.HistoryRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (domain.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.HistoryRecord{}, errors.New("not found")
}

type fixedRevision string

func (r fixedRevision) Revision() (string, error) { return string(r), nil }

type countingMetrics struct {
	mu      sync.Mutex
	scored  map[string]int
	failed  map[string]int
	emitted map[string]int
	skipped map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		scored:  map[string]int{},
		failed:  map[string]int{},
		emitted: map[string]int{},
		skipped: map[string]int{},
	}
}

func (c *countingMetrics) ScoreComputed(testID, level string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scored[testID+"/"+level]++
}

func (c *countingMetrics) ScoreFailed(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed[reason]++
}

func (c *countingMetrics) RecommendationEmitted(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitted[source]++
}

func (c *countingMetrics) FamilySkipped(family string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skipped[family]++
}

func gad7() domain.TestConfig {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	return domain.TestConfig{
		ID:          "GAD7",
		Title:       "GAD-7",
		ScaleMin:    0,
		ScaleMax:    3,
		ScoringType: domain.ScoringSum,
		Subscales:   []domain.SubscaleConfig{{ID: "anxiety", Label: "Anxiety", Items: items}},
		Cutoffs: []domain.CutoffBand{
			{ID: "minimal", Label: "Minimal", Min: 0, Max: 4},
			{ID: "mild", Label: "Mild", Min: 5, Max: 9},
			{ID: "moderate", Label: "Moderate", Min: 10, Max: 14},
			{ID: "severe", Label: "Severe", Min: 15, Max: 21},
		},
	}
}

func learningStyle() domain.TestConfig {
	return domain.TestConfig{
		ID:          "LearningStyle",
		Title:       "Learning style",
		ScaleMin:    1,
		ScaleMax:    5,
		ScoringType: domain.ScoringAverage,
		Subscales: []domain.SubscaleConfig{
			{ID: "visual", Items: []int{1, 2}},
			{ID: "auditory", Items: []int{3, 4}},
		},
	}
}

func newEngine(t *testing.T) *scoring.Engine {
	t.Helper()
	reg, err := domain.NewRegistry(gad7(), learningStyle())
	require.NoError(t, err)
	return scoring.NewEngine(reg)
}

func allAnswers(value float64, n int) []domain.AnswerInput {
	out := make([]domain.AnswerInput, n)
	for i := range out {
		out[i] = domain.AnswerInput{QuestionID: i + 1, Value: value}
	}
	return out
}
