package expedite

import (
	"context"
	"fmt"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// Strategy names accepted in configuration and requests.
const (
	StrategyAuto       = "auto"
	StrategyGreedy     = "greedy"
	StrategyExhaustive = "exhaustive"
)

// Pricer prices one expedite set. The Monte Carlo Evaluator is the
// production implementation.
type Pricer interface {
	Evaluate(set model.IDSet) model.Metrics
}

// Optimizer selects the expedite set with the best expected profit from the
// ordered candidate list. Implementations stop early when ctx is cancelled;
// the evaluation in flight completes, no shared state is left behind.
type Optimizer interface {
	Optimize(ctx context.Context, pricer Pricer, candidates []string) (model.IDSet, model.Metrics, error)
}

// Config selects and parameterizes the search strategy.
type Config struct {
	// Strategy is "exhaustive", "greedy" or "auto". Auto picks the
	// exhaustive search for small candidate sets and greedy beyond.
	Strategy string `json:"strategy"`
	// Epsilon is the minimum profit improvement the greedy search commits.
	Epsilon float64 `json:"epsilon"`
	// AutoThreshold is the largest candidate count auto still resolves to
	// the exhaustive search.
	AutoThreshold int `json:"auto_threshold"`
	// ExhaustiveLimit caps the candidate count accepted by the exhaustive
	// search.
	ExhaustiveLimit int `json:"exhaustive_limit"`
	// MaxRounds bounds greedy commit rounds; 0 means one round per
	// candidate.
	MaxRounds int `json:"max_rounds"`
}

// SetDefaults fills zero values with the standard search parameters.
func (c *Config) SetDefaults() {
	if c.Strategy == "" {
		c.Strategy = StrategyAuto
	}
	if c.Epsilon == 0 {
		c.Epsilon = 1e-6
	}
	if c.AutoThreshold == 0 {
		c.AutoThreshold = 15
	}
	if c.ExhaustiveLimit == 0 {
		c.ExhaustiveLimit = 20
	}
}

// Validate checks the search parameters.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyAuto, StrategyGreedy, StrategyExhaustive:
	default:
		return fmt.Errorf("unknown optimizer strategy %q", c.Strategy)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("optimizer epsilon must be positive")
	}
	if c.AutoThreshold <= 0 || c.ExhaustiveLimit <= 0 {
		return fmt.Errorf("optimizer thresholds must be positive")
	}
	if c.MaxRounds < 0 {
		return fmt.Errorf("optimizer max_rounds must not be negative")
	}
	return nil
}

// Build resolves the optimizer for a candidate count. override, when
// non-empty, replaces the configured strategy for this request. The resolved
// strategy name is returned for reporting.
func (c Config) Build(override string, numCandidates int) (Optimizer, string, error) {
	strategy := c.Strategy
	if override != "" {
		strategy = override
	}
	switch strategy {
	case StrategyAuto:
		if numCandidates <= c.AutoThreshold {
			return Exhaustive{MaxCandidates: c.ExhaustiveLimit}, StrategyExhaustive, nil
		}
		return Greedy{Epsilon: c.Epsilon, MaxRounds: c.MaxRounds}, StrategyGreedy, nil
	case StrategyExhaustive:
		return Exhaustive{MaxCandidates: c.ExhaustiveLimit}, StrategyExhaustive, nil
	case StrategyGreedy:
		return Greedy{Epsilon: c.Epsilon, MaxRounds: c.MaxRounds}, StrategyGreedy, nil
	default:
		return nil, "", model.Invalidf("unknown optimizer strategy %q", strategy)
	}
}
