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

	"github.com/MathiasVDS1/ProjectManagement/connectors/erp"
	"github.com/MathiasVDS1/ProjectManagement/core/costing"
	"github.com/MathiasVDS1/ProjectManagement/core/expedite"
	"github.com/MathiasVDS1/ProjectManagement/core/metrics"
	"github.com/MathiasVDS1/ProjectManagement/infra/mqtt"
)

type Config struct {
	Catalog     CatalogConfig     `json:"catalog"`
	Policy      costing.Policy    `json:"policy"`
	Simulation  SimulationConfig  `json:"simulation"`
	Optimizer   expedite.Config   `json:"optimizer"`
	DecisionLog DecisionLogConfig `json:"decision_log"`
	Metrics     metrics.Config    `json:"metrics"`
	API         APIConfig         `json:"api"`
	MQTT        mqtt.Config       `json:"mqtt"`
	ERP         erp.Config        `json:"erp"`
}

// Default returns the configuration every file and environment layer is
// merged over, so sections left out keep working values.
func Default() Config {
	var cfg Config
	cfg.Catalog.SetDefaults()
	cfg.Policy = costing.DefaultPolicy()
	cfg.Simulation.SetDefaults()
	cfg.Optimizer.SetDefaults()
	cfg.DecisionLog.SetDefaults()
	cfg.API.SetDefaults()
	return cfg
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
	// Optional environment overrides
	if err := k.Load(env.Provider("LT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "lt_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section; the first failure aborts startup.
func (c *Config) Validate() error {
	if err := c.Catalog.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := c.Optimizer.Validate(); err != nil {
		return fmt.Errorf("optimizer: %w", err)
	}
	if err := c.DecisionLog.Validate(); err != nil {
		return fmt.Errorf("decision_log: %w", err)
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
