package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// Expected lists the assertions a scenario makes about its decision. Bounds
// are optional; absent fields are not checked.
type Expected struct {
	Site             string   `yaml:"site,omitempty"`
	MinProfit        *float64 `yaml:"min_profit,omitempty"`
	MaxProfit        *float64 `yaml:"max_profit,omitempty"`
	LateCostZero     bool     `yaml:"late_cost_zero,omitempty"`
	MinProbOnTime    *float64 `yaml:"min_prob_on_time,omitempty"`
	ExpediteEmpty    bool     `yaml:"expedite_empty,omitempty"`
	ExpediteContains []string `yaml:"expedite_contains,omitempty"`
}

type Scenario struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description,omitempty"`
	Service     string              `yaml:"service"`
	Site        string              `yaml:"site"`
	Missing     map[string][]string `yaml:"missing,omitempty"`
	Expedite    []string            `yaml:"expedite,omitempty"`
	Strategy    string              `yaml:"strategy,omitempty"`
	Trials      int                 `yaml:"trials,omitempty"`
	Expected    Expected            `yaml:"expected"`
}

// Request converts the scenario into the planner's input.
func (s *Scenario) Request() model.DecisionRequest {
	return model.DecisionRequest{
		Service:  model.Service(s.Service),
		Site:     s.Site,
		Missing:  s.Missing,
		Expedite: s.Expedite,
		Trials:   s.Trials,
		Strategy: s.Strategy,
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
