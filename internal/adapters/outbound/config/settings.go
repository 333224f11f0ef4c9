package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings are the process-level options of psyengine.
type Settings struct {
	DefinitionsDir string          `mapstructure:"definitions_dir"`
	History        HistorySettings `mapstructure:"history"`
	Log            LogSettings     `mapstructure:"log"`
	Metrics        MetricsSettings `mapstructure:"metrics"`
}

// HistorySettings selects where scored results are kept.
type HistorySettings struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// LogSettings configures the zap logger.
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsSettings holds the Prometheus listen address used by mcp serve.
type MetricsSettings struct {
	Addr string `mapstructure:"addr"`
}

// History drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

const (
	envPrefix    = "PSYENGINE"
	settingsName = "psyengine"
	dotEnvFile   = ".env"
)

// LoadSettings reads settings from configFile, or from psyengine.yaml in
// the working directory or ./configs when configFile is empty. A missing
// default file is not an error. PSYENGINE_* environment variables (also
// read from .env) override file values, e.g. PSYENGINE_HISTORY_DRIVER.
func LoadSettings(configFile string) (*Settings, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(settingsName)
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading settings: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	s.applyDefaults()

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	s := Settings{
		DefinitionsDir: "configs",
		History:        HistorySettings{Driver: DriverFile},
		Log:            LogSettings{Level: "info", Format: "console"},
	}
	s.applyDefaults()
	return s
}

// Validate checks the settings for invalid values.
func (s Settings) Validate() error {
	switch s.History.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("unknown history.driver %q (valid: file, sqlite)", s.History.Driver)
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q (valid: debug, info, warn, error)", s.Log.Level)
	}
	switch s.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log.format %q (valid: console, json)", s.Log.Format)
	}
	if s.DefinitionsDir == "" {
		return errors.New("definitions_dir must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("definitions_dir", d.DefinitionsDir)
	v.SetDefault("history.driver", d.History.Driver)
	v.SetDefault("history.path", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.addr", "")
}

// applyDefaults fills values that depend on other settings.
func (s *Settings) applyDefaults() {
	if s.History.Path == "" {
		s.History.Path = defaultHistoryPath(s.History.Driver)
	}
}

func defaultHistoryPath(driver string) string {
	name := "history.json"
	if driver == DriverSQLite {
		name = "history.db"
	}
	return filepath.Join(".psyengine", name)
}

// Overrides are command-line values. Empty fields leave the setting alone.
type Overrides struct {
	DefinitionsDir string
	HistoryDriver  string
	HistoryPath    string
	LogLevel       string
	LogFormat      string
	MetricsAddr    string
}

// Apply overlays o and revalidates. Switching driver without a path moves
// a defaulted history path to the new driver's default.
func (s *Settings) Apply(o Overrides) error {
	if o.HistoryDriver != "" && o.HistoryDriver != s.History.Driver {
		if s.History.Path == defaultHistoryPath(s.History.Driver) {
			s.History.Path = ""
		}
		s.History.Driver = o.HistoryDriver
	}
	if o.HistoryPath != "" {
		s.History.Path = o.HistoryPath
	}
	if o.DefinitionsDir != "" {
		s.DefinitionsDir = o.DefinitionsDir
	}
	if o.LogLevel != "" {
		s.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		s.Log.Format = o.LogFormat
	}
	if o.MetricsAddr != "" {
		s.Metrics.Addr = o.MetricsAddr
	}
	s.applyDefaults()
	return s.Validate()
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
