package scenarios

import (
	"context"
	"testing"

	"github.com/MathiasVDS1/ProjectManagement/core/catalog"
	"github.com/MathiasVDS1/ProjectManagement/core/costing"
	"github.com/MathiasVDS1/ProjectManagement/core/expedite"
	"github.com/MathiasVDS1/ProjectManagement/core/planner"
	"github.com/MathiasVDS1/ProjectManagement/infra/logger"
)

// RunScenario executes the scenario against a planner built from the
// shipped catalog and checks every expectation it carries.
func RunScenario(t *testing.T, sc *Scenario) {
	cat, err := catalog.Load("../../catalog.yaml")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	var optCfg expedite.Config
	optCfg.SetDefaults()
	pl := planner.New(cat, costing.DefaultPolicy(), optCfg, planner.Config{Trials: 5000, Seed: 42}, logger.NopLogger{})

	d, err := pl.Decide(context.Background(), sc.Request())
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}

	exp := sc.Expected
	if exp.Site != "" && d.Site != exp.Site {
		t.Errorf("scenario %s expected site %s, got %s", sc.Name, exp.Site, d.Site)
	}
	if exp.MinProfit != nil && d.Metrics.ExpectedProfit < *exp.MinProfit {
		t.Errorf("scenario %s profit %.2f below %.2f", sc.Name, d.Metrics.ExpectedProfit, *exp.MinProfit)
	}
	if exp.MaxProfit != nil && d.Metrics.ExpectedProfit > *exp.MaxProfit {
		t.Errorf("scenario %s profit %.2f above %.2f", sc.Name, d.Metrics.ExpectedProfit, *exp.MaxProfit)
	}
	if exp.LateCostZero && d.Metrics.MeanLateCost != 0 {
		t.Errorf("scenario %s expected zero late cost, got %.4f", sc.Name, d.Metrics.MeanLateCost)
	}
	if exp.MinProbOnTime != nil && d.Metrics.ProbOnTime < *exp.MinProbOnTime {
		t.Errorf("scenario %s on-time probability %.4f below %.4f", sc.Name, d.Metrics.ProbOnTime, *exp.MinProbOnTime)
	}
	if exp.ExpediteEmpty && len(d.Expedite) > 0 {
		t.Errorf("scenario %s expected no expedite, got %v", sc.Name, d.Expedite)
	}
	for _, id := range exp.ExpediteContains {
		if !containsID(d.Expedite, id) {
			t.Errorf("scenario %s expected expedite to contain %s, got %v", sc.Name, id, d.Expedite)
		}
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
