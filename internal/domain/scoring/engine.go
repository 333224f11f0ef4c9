package scoring

import (
	"github.com/testology/psyengine/internal/domain"
)

// Engine turns raw answers into scored results using the definitions held
// by a Registry. An Engine holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	registry *domain.Registry
}

// NewEngine returns an engine backed by reg.
func NewEngine(reg *domain.Registry) *Engine {
	return &Engine{registry: reg}
}

// Registry returns the registry the engine scores against.
func (e *Engine) Registry() *domain.Registry {
	return e.registry
}

// ScoreTest scores answers against the definition registered as testID.
// Unknown ids fail with an error wrapping domain.ErrConfigNotFound.
func (e *Engine) ScoreTest(testID string, answers []domain.AnswerInput) (*domain.ScoredResult, error) {
	cfg, err := e.registry.Get(testID)
	if err != nil {
		return nil, err
	}
	ev := evaluate(cfg, answers)
	return ev.result(), nil
}

// evaluation holds every unrounded intermediate of one scoring run.
// Both ScoreTest and ScoreTestWithDebug render from it.
type evaluation struct {
	cfg       domain.TestConfig
	answers   []domain.AnswerInput
	byID      map[int]float64
	subscales []*float64
	total     *float64
	band      *domain.CutoffBand
	tests     []string
	messages  []string
}

func evaluate(cfg domain.TestConfig, answers []domain.AnswerInput) *evaluation {
	ev := &evaluation{
		cfg:     cfg,
		answers: answers,
		byID:    indexAnswers(answers),
	}

	// subscales
	ev.subscales = make([]*float64, len(cfg.Subscales))
	for i, s := range cfg.Subscales {
		var values []float64
		for _, q := range s.Items {
			if v, ok := ev.normalized(q); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		if cfg.ScoringType == domain.ScoringAverage {
			ev.subscales[i] = mean(values)
		} else {
			v := sum(values)
			ev.subscales[i] = &v
		}
	}

	// total
	switch cfg.ScoringType {
	case domain.ScoringAverage:
		var present []float64
		for _, s := range ev.subscales {
			if s != nil {
				present = append(present, *s)
			}
		}
		ev.total = mean(present)
	default:
		var values []float64
		for _, q := range cfg.UniqueItems() {
			if v, ok := ev.normalized(q); ok {
				values = append(values, v)
			}
		}
		t := sum(values)
		ev.total = &t
	}

	// level
	if ev.total != nil {
		for i := range cfg.Cutoffs {
			if cfg.Cutoffs[i].Contains(*ev.total) {
				ev.band = &cfg.Cutoffs[i]
				break
			}
		}
	}

	ev.tests, ev.messages = evaluateRecommendations(cfg.Recommendations, ev.total, ev.subscaleScores())
	return ev
}

// indexAnswers keeps the first answer given for each question id.
func indexAnswers(answers []domain.AnswerInput) map[int]float64 {
	m := make(map[int]float64, len(answers))
	for _, a := range answers {
		if _, seen := m[a.QuestionID]; seen {
			continue
		}
		m[a.QuestionID] = a.Value
	}
	return m
}

// normalized returns the answer for q with reverse coding applied.
func (ev *evaluation) normalized(q int) (float64, bool) {
	v, ok := ev.byID[q]
	if !ok {
		return 0, false
	}
	if ev.cfg.IsReverse(q) {
		v = Reverse(v, ev.cfg.ScaleMin, ev.cfg.ScaleMax)
	}
	return v, true
}

// subscaleScores maps every subscale id to its unrounded score.
// Missing subscales are present with a nil score.
func (ev *evaluation) subscaleScores() map[string]*float64 {
	m := make(map[string]*float64, len(ev.subscales))
	for i, s := range ev.cfg.Subscales {
		m[s.ID] = ev.subscales[i]
	}
	return m
}

func (ev *evaluation) result() *domain.ScoredResult {
	res := &domain.ScoredResult{
		TestID:                 ev.cfg.ID,
		Title:                  ev.cfg.Title,
		TotalScore:             round2Ptr(ev.total),
		Subscales:              make([]domain.SubscaleScore, len(ev.cfg.Subscales)),
		RawAnswers:             append([]domain.AnswerInput{}, ev.answers...),
		RecommendedTests:       ev.tests,
		RecommendationMessages: ev.messages,
	}
	for i, s := range ev.cfg.Subscales {
		res.Subscales[i] = domain.SubscaleScore{
			ID:    s.ID,
			Label: s.Label,
			Score: round2Ptr(ev.subscales[i]),
		}
	}
	if ev.band != nil {
		res.TotalLevelID = domain.String(ev.band.ID)
		res.TotalLevelLabel = domain.String(ev.band.Label)
		if text, ok := ev.cfg.InterpretationByLevel[ev.band.ID]; ok {
			res.Interpretation = domain.String(text)
		}
	}
	return res
}
