package config

import "fmt"

// SimulationConfig sets the Monte Carlo defaults applied when a request
// leaves them unset.
type SimulationConfig struct {
	// Trials is the number of Monte Carlo samples per evaluation.
	Trials int `json:"trials"`
	// Seed makes every evaluation reproducible bit for bit.
	Seed uint64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.Trials == 0 {
		c.Trials = 5000
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
}

// Validate checks mandatory fields.
func (c SimulationConfig) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be positive")
	}
	return nil
}
