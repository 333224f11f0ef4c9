package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/testology/psyengine/internal/adapters/outbound/config"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := appconfig.LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, appconfig.DefaultSettings(), *s)
	assert.Equal(t, filepath.Join(".psyengine", "history.json"), s.History.Path)
}

func TestLoadSettings_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "psyengine.yaml")
	writeFile(t, path, `
definitions_dir: defs
history:
  driver: sqlite
log:
  level: debug
  format: json
`)
	t.Setenv("PSYENGINE_LOG_LEVEL", "warn")
	t.Setenv("PSYENGINE_METRICS_ADDR", ":9090")

	s, err := appconfig.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "defs", s.DefinitionsDir)
	assert.Equal(t, appconfig.DriverSQLite, s.History.Driver)
	assert.Equal(t, filepath.Join(".psyengine", "history.db"), s.History.Path)
	assert.Equal(t, "warn", s.Log.Level)
	assert.Equal(t, "json", s.Log.Format)
	assert.Equal(t, ":9090", s.Metrics.Addr)
}

func TestLoadSettings_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "PSYENGINE_DEFINITIONS_DIR=from-dotenv\n")
	t.Chdir(dir)
	// godotenv never overrides a set variable; t.Setenv restores it afterwards.
	t.Setenv("PSYENGINE_DEFINITIONS_DIR", "")
	require.NoError(t, os.Unsetenv("PSYENGINE_DEFINITIONS_DIR"))

	s, err := appconfig.LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", s.DefinitionsDir)
}

func TestLoadSettings_InvalidDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PSYENGINE_HISTORY_DRIVER", "postgres")

	_, err := appconfig.LoadSettings("")
	assert.ErrorContains(t, err, "unknown history.driver")
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	_, err := appconfig.LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading")
}

func TestSettingsApply(t *testing.T) {
	s := appconfig.DefaultSettings()
	require.NoError(t, s.Apply(appconfig.Overrides{
		DefinitionsDir: "other",
		HistoryDriver:  appconfig.DriverSQLite,
		LogLevel:       "debug",
	}))
	assert.Equal(t, "other", s.DefinitionsDir)
	assert.Equal(t, appconfig.DriverSQLite, s.History.Driver)
	assert.Equal(t, filepath.Join(".psyengine", "history.db"), s.History.Path)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)
}

func TestSettingsApply_KeepsExplicitPath(t *testing.T) {
	s := appconfig.DefaultSettings()
	s.History.Path = "custom.json"
	require.NoError(t, s.Apply(appconfig.Overrides{HistoryDriver: appconfig.DriverSQLite}))
	assert.Equal(t, "custom.json", s.History.Path)
}

func TestSettingsApply_Invalid(t *testing.T) {
	s := appconfig.DefaultSettings()
	assert.Error(t, s.Apply(appconfig.Overrides{LogFormat: "xml"}))
}
