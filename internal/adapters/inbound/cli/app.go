package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/testology/psyengine/internal/adapters/outbound/config"
	"github.com/testology/psyengine/internal/adapters/outbound/gitinfo"
	"github.com/testology/psyengine/internal/adapters/outbound/history"
	"github.com/testology/psyengine/internal/adapters/outbound/logger"
	"github.com/testology/psyengine/internal/adapters/outbound/metrics"
	"github.com/testology/psyengine/internal/application"
	"github.com/testology/psyengine/internal/domain"
	"github.com/testology/psyengine/internal/domain/recommend"
	"github.com/testology/psyengine/internal/domain/scoring"
)

// app holds the adapters one command invocation works with.
type app struct {
	settings *config.Settings
	logger   *zap.Logger
	metrics  *metrics.Collector
	registry *domain.Registry
	rules    recommend.SignatureRules
	store    history.Store
}

// loadApp resolves settings, builds the logger and loads every definition.
// The history store is opened separately by the commands that need it.
func loadApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	settings, err := config.LoadSettings(opts.configFile)
	if err != nil {
		return nil, err
	}
	err = settings.Apply(config.Overrides{
		DefinitionsDir: opts.definitionsDir,
		HistoryDriver:  opts.historyDriver,
		HistoryPath:    opts.historyPath,
		LogLevel:       opts.logLevel,
		LogFormat:      opts.logFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	log, err := logger.New(settings.Log.Level, settings.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	loader := config.New()
	registry, err := loader.LoadRegistry(cmd.Context(), settings.DefinitionsDir)
	if err != nil {
		return nil, fmt.Errorf("loading definitions: %w", err)
	}
	rules, err := loader.LoadRules(settings.DefinitionsDir)
	if err != nil {
		return nil, fmt.Errorf("loading signature rules: %w", err)
	}
	log.Debug("definitions loaded",
		zap.String("dir", settings.DefinitionsDir),
		zap.Int("tests", registry.Len()))
	for _, ref := range application.UnresolvedReferences(registry, rules) {
		log.Warn("recommendation names an unknown test", zap.String("ref", ref))
	}

	return &app{
		settings: settings,
		logger:   log,
		metrics:  metrics.New(),
		registry: registry,
		rules:    rules,
	}, nil
}

func (a *app) openHistory() error {
	if a.store != nil {
		return nil
	}
	store, err := history.Open(a.settings.History.Driver, a.settings.History.Path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	a.store = store
	return nil
}

func (a *app) scoreService() *application.ScoreService {
	var store domain.HistoryStore
	if a.store != nil {
		store = a.store
	}
	return application.NewScoreService(
		scoring.NewEngine(a.registry),
		store,
		gitinfo.New(a.settings.DefinitionsDir),
		a.metrics,
		a.logger,
	)
}

func (a *app) recommendService() *application.RecommendService {
	return application.NewRecommendService(a.store, recommend.New(a.rules), a.metrics, a.logger)
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing history failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
