package config

import "fmt"

// CatalogConfig locates the production catalog definition file.
type CatalogConfig struct {
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *CatalogConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "catalog.yaml"
	}
}

// Validate checks mandatory fields.
func (c CatalogConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}
