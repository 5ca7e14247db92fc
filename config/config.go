// Package config loads the planner configuration from a YAML or JSON file
// with environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/geodeplan/core/metrics"
)

// EnvPrefix prefixes environment overrides. Nested keys are joined with
// "__", e.g. GEODEPLAN_RUN__HORIZON=32.
const EnvPrefix = "GEODEPLAN_"

type Config struct {
	Run     RunConfig      `json:"run"`
	Logging LoggingConfig  `json:"logging"`
	Metrics metrics.Config `json:"metrics"`
	Export  ExportConfig   `json:"export"`
}

// Override adjusts a freshly decoded configuration before defaults and
// validation run. Command line flags are applied this way.
type Override func(*Config)

// Load reads the configuration at path and applies environment overrides,
// then overrides in order. An empty path yields defaults plus environment
// only.
func Load(path string, overrides ...Override) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// SetDefaults fills unset fields of every section.
func (c *Config) SetDefaults() {
	c.Run.SetDefaults()
	c.Logging.SetDefaults()
	c.Export.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Run.Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
