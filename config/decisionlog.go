package config

import (
	"fmt"

	"github.com/MathiasVDS1/ProjectManagement/core/factory"
)

// DecisionLogConfig defines settings for decision log storage and rotation.
type DecisionLogConfig struct {
	// Enabled turns the audit log on.
	Enabled bool `json:"enabled"`
	// Backend selects the log store type: "jsonl", "rotating" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *DecisionLogConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "decisions.jsonl"
	}
}

// Validate checks mandatory fields.
func (c DecisionLogConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "rotating", "sqlite":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// ModuleConfig converts the section into store factory input. A disabled
// log maps to the empty module, which the factory resolves to a no-op.
func (c DecisionLogConfig) ModuleConfig() factory.ModuleConfig {
	if !c.Enabled {
		return factory.ModuleConfig{}
	}
	return factory.ModuleConfig{Type: c.Backend, Conf: map[string]any{
		"path":         c.Path,
		"max_size_mb":  c.MaxSizeMB,
		"max_backups":  c.MaxBackups,
		"max_age_days": c.MaxAgeDays,
	}}
}
