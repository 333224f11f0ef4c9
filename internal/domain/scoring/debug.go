package scoring

import "github.com/testology/psyengine/internal/domain"

// DebugOutcome pairs a scored result with the trace that produced it.
type DebugOutcome struct {
	Result *domain.ScoredResult `json:"result"`
	Debug  *DebugReport         `json:"debug"`
}

// DebugReport explains a scoring run item by item.
type DebugReport struct {
	TestID          string          `json:"testId"`
	Config          DebugConfig     `json:"config"`
	Items           []DebugItem     `json:"items"`
	Subscales       []DebugSubscale `json:"subscales"`
	TotalScore      *float64        `json:"totalScore"`
	TotalLevelID    *string         `json:"totalLevelId"`
	TotalLevelLabel *string         `json:"totalLevelLabel"`
}

// DebugConfig is the part of the definition that shaped the numbers.
type DebugConfig struct {
	ScaleMin     float64            `json:"scaleMin"`
	ScaleMax     float64            `json:"scaleMax"`
	ScoringType  domain.ScoringType `json:"scoringType"`
	ReverseItems []int              `json:"reverseItems"`
}

// DebugItem traces one answered question.
type DebugItem struct {
	QuestionID int     `json:"questionId"`
	Text       string  `json:"text,omitempty"`
	Raw        float64 `json:"raw"`
	Reverse    bool    `json:"reverse"`
	Normalized float64 `json:"normalized"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Subscale   string  `json:"subscale"`
}

// DebugSubscale lists the items a subscale is built from and its unrounded score.
type DebugSubscale struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Items []int    `json:"items"`
	Score *float64 `json:"score"`
}

// ScoreTestWithDebug scores like ScoreTest and also returns a per-item trace.
// questionText may be nil.
func (e *Engine) ScoreTestWithDebug(testID string, answers []domain.AnswerInput, questionText map[int]string) (*DebugOutcome, error) {
	cfg, err := e.registry.Get(testID)
	if err != nil {
		return nil, err
	}
	ev := evaluate(cfg, answers)
	return &DebugOutcome{
		Result: ev.result(),
		Debug:  ev.report(questionText),
	}, nil
}

func (ev *evaluation) report(questionText map[int]string) *DebugReport {
	rep := &DebugReport{
		TestID: ev.cfg.ID,
		Config: DebugConfig{
			ScaleMin:     ev.cfg.ScaleMin,
			ScaleMax:     ev.cfg.ScaleMax,
			ScoringType:  ev.cfg.ScoringType,
			ReverseItems: append([]int{}, ev.cfg.ReverseItems...),
		},
		Items:      []DebugItem{},
		Subscales:  make([]DebugSubscale, len(ev.cfg.Subscales)),
		TotalScore: round2Ptr(ev.total),
	}

	for _, q := range ev.cfg.UniqueItems() {
		raw, ok := ev.byID[q]
		if !ok {
			continue
		}
		normalized, _ := ev.normalized(q)
		rep.Items = append(rep.Items, DebugItem{
			QuestionID: q,
			Text:       questionText[q],
			Raw:        raw,
			Reverse:    ev.cfg.IsReverse(q),
			Normalized: normalized,
			Weight:     1,
			Weighted:   normalized,
			Subscale:   ev.cfg.OwningSubscale(q),
		})
	}

	for i, s := range ev.cfg.Subscales {
		rep.Subscales[i] = DebugSubscale{
			ID:    s.ID,
			Label: s.Label,
			Items: append([]int{}, s.Items...),
			Score: ev.subscales[i],
		}
	}

	if ev.band != nil {
		rep.TotalLevelID = domain.String(ev.band.ID)
		rep.TotalLevelLabel = domain.String(ev.band.Label)
	}
	return rep
}
