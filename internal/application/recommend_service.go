package application

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/testology/psyengine/internal/domain"
	"github.com/testology/psyengine/internal/domain/recommend"
)

// RecommendService reads a user's history and ranks the next tests to take.
type RecommendService struct {
	store       domain.HistoryStore
	recommender *recommend.Recommender
	metrics     domain.Metrics
	logger      *zap.Logger
}

// NewRecommendService wires the recommendation pipeline. A nil metrics sink
// discards counters and a nil logger logs nothing.
func NewRecommendService(
	store domain.HistoryStore,
	recommender *recommend.Recommender,
	metrics domain.Metrics,
	logger *zap.Logger,
) *RecommendService {
	if metrics == nil {
		metrics = domain.NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendService{
		store:       store,
		recommender: recommender,
		metrics:     metrics,
		logger:      logger,
	}
}

// Recommend returns at most limit recommendations for userID.
func (s *RecommendService) Recommend(ctx context.Context, userID string, limit int) (recommend.Payload, error) {
	history, err := s.store.List(ctx, userID)
	if err != nil {
		return recommend.Payload{}, fmt.Errorf("loading history for %q: %w", userID, err)
	}

	payload := s.recommender.Build(history, limit)

	for _, sk := range payload.Skipped {
		s.metrics.FamilySkipped(string(sk.Family))
		s.logger.Debug("signature family skipped",
			zap.String("user_id", userID),
			zap.String("family", string(sk.Family)),
			zap.String("reason", sk.Reason))
	}
	for _, item := range payload.Items {
		s.metrics.RecommendationEmitted(item.Source)
	}
	s.logger.Info("recommendations built",
		zap.String("user_id", userID),
		zap.Int("history", len(history)),
		zap.Int("count", len(payload.Items)))

	return payload, nil
}

// History returns the user's records, newest first.
func (s *RecommendService) History(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	history, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading history for %q: %w", userID, err)
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})
	return history, nil
}

// Record returns one history record by id.
func (s *RecommendService) Record(ctx context.Context, id string) (domain.HistoryRecord, error) {
	return s.store.Get(ctx, id)
}
