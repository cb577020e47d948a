// Package expedite searches the space of expedite decisions for the set
// maximizing expected profit. Candidate sets are priced by a full Monte
// Carlo evaluation; two search strategies are available behind the Optimizer
// interface.
package expedite

import (
	"math/rand/v2"

	"github.com/MathiasVDS1/ProjectManagement/core/catalog"
	"github.com/MathiasVDS1/ProjectManagement/core/costing"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
	"github.com/MathiasVDS1/ProjectManagement/core/sim"
)

// Evaluator prices expedite sets for one fixed (service, site, missing set,
// trial count). It reseeds its random source before every evaluation, so
// identical inputs produce bit-identical metrics and different candidate
// sets are compared on a common random stream rather than on sampling noise.
type Evaluator struct {
	cat      *catalog.Catalog
	sim      *sim.Simulator
	policy   costing.Policy
	site     string
	missing  model.IDSet
	trials   int
	seed     uint64
	margin   float64
	promised float64
	calls    int
}

// NewEvaluator builds an evaluator. Inputs must have been validated by the
// caller: the site exists, the service level is known and trials is
// positive.
func NewEvaluator(cat *catalog.Catalog, policy costing.Policy, svc model.Service, site string, missing model.IDSet, trials int, seed uint64) *Evaluator {
	return &Evaluator{
		cat:      cat,
		sim:      sim.New(cat),
		policy:   policy,
		site:     site,
		missing:  missing,
		trials:   trials,
		seed:     seed,
		margin:   policy.Margin(svc),
		promised: policy.LeadTime(svc),
	}
}

// Site returns the evaluator's production site.
func (e *Evaluator) Site() string { return e.site }

// Calls reports how many evaluations have run.
func (e *Evaluator) Calls() int { return e.calls }

// Evaluate runs the full simulation for one expedite set and returns its
// metrics.
func (e *Evaluator) Evaluate(set model.IDSet) model.Metrics {
	e.calls++
	src := rand.NewPCG(e.seed, e.seed)
	samples := e.sim.Run(src, e.site, set, e.missing, e.trials)
	m := e.policy.Aggregate(samples, e.promised)
	m.Site = e.site
	m.Margin = e.margin
	m.ExpressCost = e.ExpressCost(set)
	m.ExpectedProfit = m.Margin - m.ExpressCost - m.MeanLateCost
	return m
}

// ExpressCost totals the internal cost of an expedite set: stage candidates
// are paid unconditionally once chosen, component candidates only when the
// component is actually missing. Summation follows the catalog's candidate
// order so the floating-point result is reproducible.
func (e *Evaluator) ExpressCost(set model.IDSet) float64 {
	var total float64
	for _, id := range e.cat.Candidates() {
		if !set.Has(id) {
			continue
		}
		if comp, ok := e.cat.Component(id); ok {
			if e.missing.Has(id) {
				total += comp.ExpressCost
			}
			continue
		}
		if st, ok := e.cat.Stage(id); ok {
			total += st.ExpressCost
		}
	}
	return total
}
