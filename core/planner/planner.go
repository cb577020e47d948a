// Package planner exposes the two operations every outer surface builds on:
// deciding an expedite strategy and laying out the expected schedule. It
// owns request validation; the packages below it trust their inputs.
package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MathiasVDS1/ProjectManagement/core/catalog"
	"github.com/MathiasVDS1/ProjectManagement/core/costing"
	"github.com/MathiasVDS1/ProjectManagement/core/expedite"
	"github.com/MathiasVDS1/ProjectManagement/core/logger"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
	"github.com/MathiasVDS1/ProjectManagement/core/schedule"
)

// StrategyFixed marks a decision whose expedite set was pinned by the
// request instead of searched.
const StrategyFixed = "fixed"

// Config carries the evaluation defaults applied when a request leaves them
// unset.
type Config struct {
	Trials int
	Seed   uint64
}

// Planner runs per-site expedite optimization against one catalog. It is
// safe for concurrent use: every evaluation reseeds its own random source
// and shares nothing mutable beyond the read-only catalog.
type Planner struct {
	cat     *catalog.Catalog
	policy  costing.Policy
	optCfg  expedite.Config
	cfg     Config
	builder *schedule.Builder
	log     logger.Logger
}

func New(cat *catalog.Catalog, policy costing.Policy, optCfg expedite.Config, cfg Config, log logger.Logger) *Planner {
	return &Planner{
		cat:     cat,
		policy:  policy,
		optCfg:  optCfg,
		cfg:     cfg,
		builder: schedule.NewBuilder(cat),
		log:     log,
	}
}

// Decide validates the request, optimizes the expedite set independently per
// candidate site and returns the decision for the most profitable one. The
// first configured site keeps ties. A request with a pinned expedite set is
// evaluated as-is on every site; its strategy field is ignored.
func (p *Planner) Decide(ctx context.Context, req model.DecisionRequest) (model.Decision, error) {
	started := time.Now()

	svc, err := model.ParseService(string(req.Service))
	if err != nil {
		return model.Decision{}, err
	}
	sites, err := p.resolveSites(req.Site)
	if err != nil {
		return model.Decision{}, err
	}
	missing, err := p.missingSets(req.Missing)
	if err != nil {
		return model.Decision{}, err
	}
	trials := req.Trials
	if trials == 0 {
		trials = p.cfg.Trials
	}
	if trials <= 0 {
		return model.Decision{}, model.Invalidf("trial count must be positive, got %d", trials)
	}
	fixed, err := p.expediteSet(req.Expedite)
	if err != nil {
		return model.Decision{}, err
	}

	candidates := p.cat.Candidates()
	strategy := StrategyFixed
	var opt expedite.Optimizer
	if fixed == nil {
		if opt, strategy, err = p.optCfg.Build(req.Strategy, len(candidates)); err != nil {
			return model.Decision{}, err
		}
	}

	var (
		bestSite    string
		bestSet     model.IDSet
		bestMetrics model.Metrics
		siteMetrics = make(map[string]model.Metrics, len(sites))
		evaluations int
	)
	for _, site := range sites {
		eval := expedite.NewEvaluator(p.cat, p.policy, svc, site, missing[site], trials, p.cfg.Seed)
		var (
			set model.IDSet
			m   model.Metrics
		)
		if fixed != nil {
			set, m = fixed.Clone(), eval.Evaluate(fixed)
		} else if set, m, err = opt.Optimize(ctx, eval, candidates); err != nil {
			return model.Decision{}, err
		}
		siteMetrics[site] = m
		evaluations += eval.Calls()
		p.log.Debugf("site %s: profit %.2f with expedite %v", site, m.ExpectedProfit, set.Sorted())
		if bestSite == "" || m.ExpectedProfit > bestMetrics.ExpectedProfit {
			bestSite, bestSet, bestMetrics = site, set, m
		}
	}

	d := model.Decision{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Service:     svc,
		Site:        bestSite,
		Strategy:    strategy,
		Trials:      trials,
		Expedite:    bestSet.Sorted(),
		Metrics:     bestMetrics,
		SiteMetrics: siteMetrics,
		Evaluations: evaluations,
		ElapsedMS:   float64(time.Since(started).Microseconds()) / 1000,
	}
	p.log.Infof("%s", d)
	return d, nil
}

// BuildSchedule validates the request and lays out the deterministic
// expected timeline for one concrete site.
func (p *Planner) BuildSchedule(req model.ScheduleRequest) (model.Schedule, error) {
	if req.Site == "" || req.Site == model.SiteAuto {
		return model.Schedule{}, model.Invalidf("schedule requires a concrete site")
	}
	if !p.cat.HasSite(req.Site) {
		return model.Schedule{}, model.Invalidf("unknown site %q", req.Site)
	}
	missing := model.NewIDSet()
	for _, id := range req.Missing {
		if _, ok := p.cat.Component(id); !ok {
			return model.Schedule{}, model.Invalidf("unknown component %q in missing set", id)
		}
		missing.Add(id)
	}
	set, err := p.expediteSet(req.Expedite)
	if err != nil {
		return model.Schedule{}, err
	}
	if set == nil {
		set = model.NewIDSet()
	}
	return p.builder.Build(req.Site, set, missing), nil
}

func (p *Planner) resolveSites(site string) ([]string, error) {
	if site == "" || site == model.SiteAuto {
		return p.cat.Sites(), nil
	}
	if !p.cat.HasSite(site) {
		return nil, model.Invalidf("unknown site %q", site)
	}
	return []string{site}, nil
}

func (p *Planner) missingSets(missing map[string][]string) (map[string]model.IDSet, error) {
	sets := make(map[string]model.IDSet, len(missing))
	for site, ids := range missing {
		if !p.cat.HasSite(site) {
			return nil, model.Invalidf("missing set names unknown site %q", site)
		}
		set := model.NewIDSet()
		for _, id := range ids {
			if _, ok := p.cat.Component(id); !ok {
				return nil, model.Invalidf("unknown component %q in missing set for site %s", id, site)
			}
			set.Add(id)
		}
		sets[site] = set
	}
	return sets, nil
}

// expediteSet validates request-supplied expedite ids against the candidate
// list. nil means the request left the set open.
func (p *Planner) expediteSet(ids []string) (model.IDSet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	set := model.NewIDSet()
	for _, id := range ids {
		if !p.cat.IsCandidate(id) {
			return nil, model.Invalidf("%q is not an expedite candidate", id)
		}
		set.Add(id)
	}
	return set, nil
}
