package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/testology/psyengine/internal/domain"
	"github.com/testology/psyengine/internal/domain/scoring"
)

// ErrUserRequired is returned when a submission must be saved but has no user.
var ErrUserRequired = errors.New("user id is required to save a result")

// SubmitRequest is one scoring request as received from a transport.
type SubmitRequest struct {
	UserID       string
	Test         string // test id or slug
	Answers      []domain.AnswerInput
	QuestionText map[int]string
	Debug        bool
	Save         bool
}

// Submission is the outcome of Submit. Debug is set only when requested and
// Record only when the result was persisted.
type Submission struct {
	Result *domain.ScoredResult  `json:"result"`
	Debug  *scoring.DebugReport  `json:"debug,omitempty"`
	Record *domain.HistoryRecord `json:"record,omitempty"`
}

// ScoreService orchestrates a submission:
// resolve test id → score (optionally traced) → persist to history.
type ScoreService struct {
	engine    *scoring.Engine
	store     domain.HistoryStore
	revisions domain.RevisionSource
	metrics   domain.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewScoreService wires the scoring pipeline. store and revisions may be nil;
// a nil metrics sink discards counters and a nil logger logs nothing.
func NewScoreService(
	engine *scoring.Engine,
	store domain.HistoryStore,
	revisions domain.RevisionSource,
	metrics domain.Metrics,
	logger *zap.Logger,
) *ScoreService {
	if metrics == nil {
		metrics = domain.NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreService{
		engine:    engine,
		store:     store,
		revisions: revisions,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Registry returns the registry the service scores against.
func (s *ScoreService) Registry() *domain.Registry {
	return s.engine.Registry()
}

// Submit scores req and, when req.Save is set, appends the result to the
// user's history.
func (s *ScoreService) Submit(ctx context.Context, req SubmitRequest) (*Submission, error) {
	if req.Save && req.UserID == "" {
		return nil, ErrUserRequired
	}

	// 1. Resolve the test id
	testID, err := ResolveTestID(s.engine.Registry(), req.Test)
	if err != nil {
		s.metrics.ScoreFailed("unknown_test")
		return nil, err
	}

	// 2. Score
	sub := &Submission{}
	if req.Debug {
		out, err := s.engine.ScoreTestWithDebug(testID, req.Answers, req.QuestionText)
		if err != nil {
			s.metrics.ScoreFailed("scoring")
			return nil, fmt.Errorf("scoring %s: %w", testID, err)
		}
		sub.Result, sub.Debug = out.Result, out.Debug
		s.logger.Debug("debug trace built",
			zap.String("test_id", testID),
			zap.Int("items", len(out.Debug.Items)))
	} else {
		res, err := s.engine.ScoreTest(testID, req.Answers)
		if err != nil {
			s.metrics.ScoreFailed("scoring")
			return nil, fmt.Errorf("scoring %s: %w", testID, err)
		}
		sub.Result = res
	}

	level := sub.Result.Level()
	s.metrics.ScoreComputed(testID, level)
	s.logger.Info("test scored",
		zap.String("test_id", testID),
		zap.String("level", level),
		zap.Int("answers", len(req.Answers)))

	// 3. Persist
	if !req.Save || s.store == nil {
		return sub, nil
	}
	rec, err := s.record(req, sub.Result)
	if err != nil {
		return nil, err
	}
	if err := s.store.Append(ctx, rec); err != nil {
		s.metrics.ScoreFailed("history")
		s.logger.Warn("saving history failed",
			zap.String("user_id", req.UserID),
			zap.String("test_id", testID),
			zap.Error(err))
		return sub, nil
	}
	sub.Record = &rec
	return sub, nil
}

func (s *ScoreService) record(req SubmitRequest, res *domain.ScoredResult) (domain.HistoryRecord, error) {
	rec, err := domain.NewHistoryRecord(uuid.NewString(), req.UserID, req.Test, res, s.now())
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("building history record: %w", err)
	}
	if s.revisions != nil {
		rev, err := s.revisions.Revision()
		if err != nil {
			s.logger.Debug("definitions revision unavailable", zap.Error(err))
		}
		rec.DefinitionsRevision = rev
	}
	return rec, nil
}
