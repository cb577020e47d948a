package expedite

import (
	"context"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// Greedy hill-climbs from the empty set. Every round it toggles each
// candidate against the incumbent set, evaluates the result, and commits the
// single toggle with the largest improvement over the incumbent profit,
// provided it clears Epsilon. It stops when no toggle qualifies.
//
// The result is a local optimum: expedite effects interact (speeding up a
// component can change whether crashing a downstream stage still pays), so
// single flips cannot guarantee the global best. That trade-off is the
// documented behavior for large candidate spaces where enumeration is out of
// reach.
type Greedy struct {
	// Epsilon is the minimum profit improvement worth committing.
	Epsilon float64
	// MaxRounds bounds committed rounds; 0 means one per candidate, which
	// is also the bound the monotone profit growth implies.
	MaxRounds int
}

func (o Greedy) Optimize(ctx context.Context, pricer Pricer, candidates []string) (model.IDSet, model.Metrics, error) {
	eps := o.Epsilon
	if eps <= 0 {
		eps = 1e-6
	}
	maxRounds := o.MaxRounds
	if maxRounds <= 0 {
		maxRounds = len(candidates)
	}

	best := model.NewIDSet()
	bestMetrics := pricer.Evaluate(best)

	for round := 0; round < maxRounds; round++ {
		var committed bool
		var bestToggle string
		var toggleMetrics model.Metrics
		toggleProfit := bestMetrics.ExpectedProfit

		for _, id := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, model.Metrics{}, err
			}
			trial := best.Clone()
			trial.Toggle(id)
			m := pricer.Evaluate(trial)
			if m.ExpectedProfit > toggleProfit+eps {
				toggleProfit = m.ExpectedProfit
				bestToggle = id
				toggleMetrics = m
				committed = true
			}
		}
		if !committed {
			break
		}
		best.Toggle(bestToggle)
		bestMetrics = toggleMetrics
	}
	return best, bestMetrics, nil
}
