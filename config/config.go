// Package config loads the bootstrap description of a registry: which
// providers to bind under which keys, plus logging and metrics settings.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/sghaida/locator/di"
	"github.com/sghaida/locator/logger"
)

// EnvPrefix prefixes environment overrides, e.g. LOCATOR_LOGGING__LEVEL=debug.
const EnvPrefix = "LOCATOR_"

// Config is the root bootstrap document.
type Config struct {
	Logging  LoggingConfig   `json:"logging"`
	Metrics  MetricsConfig   `json:"metrics"`
	Bindings []BindingConfig `json:"bindings"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `json:"level"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// BindingConfig binds one key to a named provider from a bootstrap catalog.
type BindingConfig struct {
	Key       string         `json:"key"`
	Provider  string         `json:"provider"`
	Lifecycle string         `json:"lifecycle"`
	Params    map[string]any `json:"params"`
}

// Load reads a YAML, JSON or HCL file and applies environment overrides.
// The result has defaults applied and is validated.
func Load(path string) (*Config, error) {
	var cfg Config
	k := koanf.New(".")

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	case ".json":
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	case ".hcl":
		if err := decodeHCL(path, &cfg); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps LOCATOR_METRICS__ADDR to metrics.addr.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
	for i := range c.Bindings {
		if c.Bindings[i].Lifecycle == "" {
			c.Bindings[i].Lifecycle = di.Singleton.String()
		}
	}
}

// Validate checks every section and joins all problems found.
func (c Config) Validate() error {
	var errs []error
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, errors.New("metrics.addr is required when metrics are enabled"))
	}

	seen := make(map[string]int, len(c.Bindings))
	for i, b := range c.Bindings {
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("bindings[%d]: %w", i, err))
		}
		if b.Key == "" {
			continue
		}
		if first, dup := seen[b.Key]; dup {
			errs = append(errs, fmt.Errorf("bindings[%d]: key %q already bound by bindings[%d]", i, b.Key, first))
			continue
		}
		seen[b.Key] = i
	}
	return errors.Join(errs...)
}

// Validate checks mandatory fields of a single binding.
func (b BindingConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(b.Key) == "" {
		errs = append(errs, errors.New("key is required"))
	}
	if strings.TrimSpace(b.Provider) == "" {
		errs = append(errs, errors.New("provider is required"))
	}
	if _, err := di.ParseLifecycle(b.Lifecycle); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
