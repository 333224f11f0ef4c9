package domain_test

import (
	"testing"

	"github.com/testology/psyengine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupAndIDs(t *testing.T) {
	a := validConfig()
	b := validConfig()
	b.ID = "PHQ9"

	reg, err := domain.NewRegistry(b, a)
	require.NoError(t, err)

	assert.Equal(t, []string{"GAD7", "PHQ9"}, reg.IDs())
	assert.Equal(t, 2, reg.Len())

	cfg, ok := reg.Lookup("GAD7")
	require.True(t, ok)
	assert.Equal(t, "GAD-7", cfg.Title)
}

func TestRegistry_UnknownIDIsConfigNotFound(t *testing.T) {
	reg, err := domain.NewRegistry(validConfig())
	require.NoError(t, err)

	_, err = reg.Get("nope")
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	_, err := domain.NewRegistry(validConfig(), validConfig())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "duplicate test id")
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	c := validConfig()
	c.ScoringType = ""
	_, err := domain.NewRegistry(c)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRegistry_OwnsItsData(t *testing.T) {
	c := validConfig()
	reg, err := domain.NewRegistry(c)
	require.NoError(t, err)

	c.Subscales[0].Items[0] = 99
	c.InterpretationByLevel["mild"] = "changed"

	got, _ := reg.Lookup("GAD7")
	assert.Equal(t, 1, got.Subscales[0].Items[0])
	assert.Equal(t, "some worry", got.InterpretationByLevel["mild"])
}

func TestRegistry_NilIsEmpty(t *testing.T) {
	var reg *domain.Registry
	_, ok := reg.Lookup("GAD7")
	assert.False(t, ok)
	assert.Empty(t, reg.IDs())
	assert.Zero(t, reg.Len())
}
