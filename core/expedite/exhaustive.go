package expedite

import (
	"context"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// Exhaustive enumerates every subset of the candidate list and keeps the one
// with strictly greater profit than everything seen before. Subsets are
// walked in binary counting order over the candidate list, so profit ties
// keep the first subset seen, an arbitrary but stable tie-break. Cost is
// exponential in the candidate count.
type Exhaustive struct {
	// MaxCandidates rejects candidate lists too large to enumerate.
	MaxCandidates int
}

func (o Exhaustive) Optimize(ctx context.Context, pricer Pricer, candidates []string) (model.IDSet, model.Metrics, error) {
	limit := o.MaxCandidates
	if limit <= 0 {
		limit = 20
	}
	if len(candidates) > limit {
		return nil, model.Metrics{}, model.Invalidf("exhaustive search over %d candidates exceeds the limit of %d", len(candidates), limit)
	}

	best := model.NewIDSet()
	bestMetrics := pricer.Evaluate(best)
	for mask := uint64(1); mask < uint64(1)<<len(candidates); mask++ {
		if err := ctx.Err(); err != nil {
			return nil, model.Metrics{}, err
		}
		set := model.NewIDSet()
		for i, id := range candidates {
			if mask&(uint64(1)<<i) != 0 {
				set.Add(id)
			}
		}
		m := pricer.Evaluate(set)
		if m.ExpectedProfit > bestMetrics.ExpectedProfit {
			best, bestMetrics = set, m
		}
	}
	return best, bestMetrics, nil
}
