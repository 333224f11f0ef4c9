package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// HistoryRecord is a persisted ScoredResult as seen by the global recommender.
//
// Subscales holds the subscale snapshot exactly as it was stored: a JSON
// array, a JSON string wrapping an array (legacy rows), or nothing at all.
type HistoryRecord struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"userId"`
	TestID              string          `json:"testId"`
	TestSlug            string          `json:"testSlug,omitempty"`
	Score               *float64        `json:"score"`
	LevelID             string          `json:"levelId,omitempty"`
	LevelLabel          string          `json:"levelLabel,omitempty"`
	Subscales           json.RawMessage `json:"subscales,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	DefinitionsRevision string          `json:"definitionsRevision,omitempty"`
}

// NormalizedTestID is the lower-cased test id, falling back to the slug.
func (h HistoryRecord) NormalizedTestID() string {
	id := h.TestID
	if id == "" {
		id = h.TestSlug
	}
	return strings.ToLower(id)
}

// NewHistoryRecord snapshots a scored result for persistence.
func NewHistoryRecord(id, userID, slug string, res *ScoredResult, at time.Time) (HistoryRecord, error) {
	subs, err := json.Marshal(res.Subscales)
	if err != nil {
		return HistoryRecord{}, fmt.Errorf("encoding subscales: %w", err)
	}

	rec := HistoryRecord{
		ID:        id,
		UserID:    userID,
		TestID:    res.TestID,
		TestSlug:  slug,
		Score:     res.TotalScore,
		Subscales: subs,
		CreatedAt: at.UTC(),
	}
	if res.TotalLevelID != nil {
		rec.LevelID = *res.TotalLevelID
	}
	if res.TotalLevelLabel != nil {
		rec.LevelLabel = *res.TotalLevelLabel
	}
	return rec, nil
}
