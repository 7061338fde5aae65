// Package config loads the runtime configuration from a YAML or JSON file,
// with environment-variable overrides under the DS_ prefix.
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

	"github.com/fieldops/dispatchsim/core/metrics"
	"github.com/fieldops/dispatchsim/core/sim"
	"github.com/fieldops/dispatchsim/infra/events"
	"github.com/fieldops/dispatchsim/infra/routing"
)

type Config struct {
	Simulation sim.Config     `json:"simulation"`
	Routing    routing.Config `json:"routing"`
	Metrics    metrics.Config `json:"metrics"`
	Logging    LoggingConfig  `json:"logging"`
	Events     events.Config  `json:"events"`
}

// Default returns a configuration usable without a config file. The routing
// section stays empty and must come from the file or environment.
func Default() *Config {
	var cfg Config
	cfg.Simulation.SetDefaults()
	cfg.Routing.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Events.SetDefaults()
	return &cfg
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. DS_ROUTING__API_KEY.
	if err := k.Load(env.Provider("DS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ds_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Simulation.SetDefaults()
	cfg.Routing.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Events.SetDefaults()
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Routing.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Events.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
