package domain

import "context"

// DefinitionsLoader builds the test registry from a definitions directory.
type DefinitionsLoader interface {
	LoadRegistry(ctx context.Context, dir string) (*Registry, error)
}

// HistoryStore persists scored submissions per user.
type HistoryStore interface {
	Append(ctx context.Context, rec HistoryRecord) error
	// List returns the user's records in the order they were appended.
	List(ctx context.Context, userID string) ([]HistoryRecord, error)
	Get(ctx context.Context, id string) (HistoryRecord, error)
}

// RevisionSource reports the revision of the definitions a result was scored with.
type RevisionSource interface {
	Revision() (string, error)
}

// Metrics receives counters from the application services.
type Metrics interface {
	ScoreComputed(testID, level string)
	ScoreFailed(reason string)
	RecommendationEmitted(source string)
	FamilySkipped(family string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) ScoreComputed(string, string) {}
func (NopMetrics) ScoreFailed(string) {}
func (NopMetrics) RecommendationEmitted(string) {}
func (NopMetrics) FamilySkipped(string) {}
