package config

import "fmt"

// APIConfig exposes the HTTP surface.
type APIConfig struct {
	// Enabled starts the HTTP server.
	Enabled bool `json:"enabled"`
	// Addr is the listen address, host optional.
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on every endpoint
	// except the health check.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}
