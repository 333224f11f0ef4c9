package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements domain.Metrics with Prometheus counters on a
// private registry.
type Collector struct {
	registry        *prometheus.Registry
	scores          *prometheus.CounterVec
	scoreErrors     *prometheus.CounterVec
	recommendations *prometheus.CounterVec
	skippedFamilies *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		scores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "psyengine_scores_total",
				Help: "Total number of scored submissions",
			},
			[]string{"test_id", "level"},
		),
		scoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "psyengine_score_errors_total",
				Help: "Total number of failed submissions",
			},
			[]string{"reason"},
		),
		recommendations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "psyengine_recommendations_total",
				Help: "Total number of recommendations returned",
			},
			[]string{"source"},
		),
		skippedFamilies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "psyengine_history_skipped_families_total",
				Help: "Signature families skipped because their history snapshot was unusable",
			},
			[]string{"family"},
		),
	}
	c.registry.MustRegister(c.scores, c.scoreErrors, c.recommendations, c.skippedFamilies)
	return c
}

func (c *Collector) ScoreComputed(testID, level string) {
	if level == "" {
		level = "none"
	}
	c.scores.WithLabelValues(testID, level).Inc()
}

func (c *Collector) ScoreFailed(reason string) {
	c.scoreErrors.WithLabelValues(reason).Inc()
}

func (c *Collector) RecommendationEmitted(source string) {
	c.recommendations.WithLabelValues(source).Inc()
}

func (c *Collector) FamilySkipped(family string) {
	c.skippedFamilies.WithLabelValues(family).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
