package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/testology/psyengine/internal/domain"
	"github.com/testology/psyengine/internal/domain/recommend"
)

const (
	testsDir  = "tests"
	rulesFile = "signature_rules.yaml"
)

// YAMLLoader implements domain.DefinitionsLoader by reading one YAML file
// per test from <dir>/tests.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// LoadRegistry parses every definition under dir/tests concurrently and
// builds the registry. Any unreadable, unknown-keyed or invalid file fails
// the whole load.
func (l *YAMLLoader) LoadRegistry(ctx context.Context, dir string) (*domain.Registry, error) {
	files, err := definitionFiles(filepath.Join(dir, testsDir))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no test definitions in %s", filepath.Join(dir, testsDir))
	}

	configs := make([]domain.TestConfig, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg, err := loadTestConfig(path)
			if err != nil {
				return err
			}
			configs[i] = cfg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.NewRegistry(configs...)
}

// LoadRules reads dir/signature_rules.yaml and overlays it on the built-in
// tables. Returns recommend.DefaultRules if the file does not exist.
func (l *YAMLLoader) LoadRules(dir string) (recommend.SignatureRules, error) {
	data, err := os.ReadFile(filepath.Join(dir, rulesFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return recommend.DefaultRules(), nil
		}
		return recommend.SignatureRules{}, err
	}

	var rules recommend.SignatureRules
	if err := decodeStrict(data, &rules); err != nil {
		return recommend.SignatureRules{}, fmt.Errorf("parsing %s: %w", rulesFile, err)
	}
	if err := rules.Validate(); err != nil {
		return recommend.SignatureRules{}, fmt.Errorf("invalid %s: %w", rulesFile, err)
	}
	return recommend.DefaultRules().Merge(rules), nil
}

func loadTestConfig(path string) (domain.TestConfig, error) {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.TestConfig{}, err
	}

	var cfg domain.TestConfig
	if err := decodeStrict(data, &cfg); err != nil {
		return domain.TestConfig{}, fmt.Errorf("parsing %s: %w", name, err)
	}

	// Validate per file so the error names the file, not just the id.
	if err := cfg.Validate(); err != nil {
		return domain.TestConfig{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return cfg, nil
}

// decodeStrict rejects keys the target type does not declare.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

func definitionFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}
