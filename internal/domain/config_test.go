package domain_test

import (
	"testing"

	"github.com/testology/psyengine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() domain.TestConfig {
	return domain.TestConfig{
		ID:          "GAD7",
		Title:       "GAD-7",
		ScaleMin:    0,
		ScaleMax:    3,
		ScoringType: domain.ScoringSum,
		Subscales: []domain.SubscaleConfig{
			{ID: "anxiety", Label: "Anxiety", Items: []int{1, 2, 3, 4, 5, 6, 7}},
		},
		Cutoffs: []domain.CutoffBand{
			{ID: "minimal", Label: "Minimal", Min: 0, Max: 4},
			{ID: "mild", Label: "Mild", Min: 5, Max: 9},
		},
		InterpretationByLevel: map[string]string{"mild": "some worry"},
		Recommendations: []domain.RecommendationRule{
			{
				Conditions:     []domain.Condition{{Target: "total", Comparator: "gte", Value: 10}},
				RecommendTests: []string{"PSS10"},
			},
		},
	}
}

func TestTestConfig_ValidConfigPasses(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestTestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *domain.TestConfig)
		want   string
	}{
		{"empty id", func(c *domain.TestConfig) { c.ID = "" }, "id must not be empty"},
		{"scoring type", func(c *domain.TestConfig) { c.ScoringType = "median" }, "unknown scoring_type"},
		{"scale bounds", func(c *domain.TestConfig) { c.ScaleMin = 5 }, "scale_min"},
		{"no subscales", func(c *domain.TestConfig) { c.Subscales = nil }, "at least one subscale"},
		{"reserved subscale id", func(c *domain.TestConfig) { c.Subscales[0].ID = "total" }, "reserved"},
		{"duplicate subscale", func(c *domain.TestConfig) {
			c.Subscales = append(c.Subscales, c.Subscales[0])
		}, "duplicate subscale"},
		{"empty subscale", func(c *domain.TestConfig) { c.Subscales[0].Items = nil }, "has no items"},
		{"inverted band", func(c *domain.TestConfig) { c.Cutoffs[0].Min = 10 }, "above max"},
		{"unknown level", func(c *domain.TestConfig) {
			c.InterpretationByLevel = map[string]string{"severe": "x"}
		}, "unknown level"},
		{"bad comparator", func(c *domain.TestConfig) {
			c.Recommendations[0].Conditions[0].Comparator = "=="
		}, "unknown comparator"},
		{"empty rule", func(c *domain.TestConfig) {
			c.Recommendations[0].RecommendTests = nil
		}, "recommends nothing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTestConfig_OverlappingBandsAreLegal(t *testing.T) {
	c := validConfig()
	c.Cutoffs = append(c.Cutoffs, domain.CutoffBand{ID: "wide", Min: 0, Max: 21})
	assert.NoError(t, c.Validate())
}

func TestTestConfig_NormalizeRewritesAliases(t *testing.T) {
	c := validConfig()
	n := c.Normalize()
	assert.Equal(t, domain.ComparatorGTE, n.Recommendations[0].Conditions[0].Comparator)
	assert.Equal(t, domain.Comparator("gte"), c.Recommendations[0].Conditions[0].Comparator, "receiver must be untouched")
}

func TestTestConfig_UniqueItemsDeduplicates(t *testing.T) {
	c := validConfig()
	c.Subscales = []domain.SubscaleConfig{
		{ID: "a", Items: []int{1, 2, 3}},
		{ID: "b", Items: []int{3, 4}},
	}
	assert.Equal(t, []int{1, 2, 3, 4}, c.UniqueItems())
	assert.Equal(t, "a", c.OwningSubscale(3))
	assert.Equal(t, "", c.OwningSubscale(9))
}

func TestComparator_Holds(t *testing.T) {
	assert.True(t, domain.ComparatorLT.Holds(1, 2))
	assert.False(t, domain.ComparatorLT.Holds(2, 2))
	assert.True(t, domain.ComparatorLTE.Holds(2, 2))
	assert.True(t, domain.ComparatorGT.Holds(3, 2))
	assert.True(t, domain.ComparatorGTE.Holds(2, 2))
	assert.False(t, domain.Comparator("==").Holds(2, 2))
}

func TestCutoffBand_ContainsIsClosed(t *testing.T) {
	b := domain.CutoffBand{Min: 5, Max: 9}
	assert.True(t, b.Contains(5))
	assert.True(t, b.Contains(9))
	assert.False(t, b.Contains(9.01))
}
