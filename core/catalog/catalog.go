// Package catalog loads the immutable production catalog: the stage network,
// the component list and the per-site delivery estimates. A Catalog is
// validated once at load time and then shared read-only by every evaluation.
package catalog

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// StageDef is the on-disk shape of one stage. Exactly one of Group or Normal
// must be set: a group-backed stage derives its duration from component
// deliveries, an intrinsic stage from its own estimates. Express falls back
// to Normal when omitted.
type StageDef struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Predecessors []string          `yaml:"predecessors"`
	Group        string            `yaml:"group,omitempty"`
	Normal       *model.ThreePoint `yaml:"normal,omitempty"`
	Express      *model.ThreePoint `yaml:"express,omitempty"`
	ExpressCost  float64           `yaml:"express_cost,omitempty"`
}

// ComponentDef is the on-disk shape of one component.
type ComponentDef struct {
	ID          string                    `yaml:"id"`
	Name        string                    `yaml:"name"`
	Group       string                    `yaml:"group"`
	ExpressCost float64                   `yaml:"express_cost"`
	Sites       map[string]model.DistPair `yaml:"sites"`
}

// Def is the catalog document.
type Def struct {
	Sites      []string       `yaml:"sites"`
	Stages     []StageDef     `yaml:"stages"`
	Components []ComponentDef `yaml:"components"`
}

// Catalog is the validated registry. Declaration order of stages and
// components is preserved; it fixes the sampling order and the candidate
// enumeration order, which keeps evaluations reproducible.
type Catalog struct {
	sites      []string
	stages     []model.Stage
	components []model.Component

	stageIdx   map[string]int
	compIdx    map[string]int
	byGroup    map[string][]int
	preds      [][]int
	order      []int
	sink       int
	candidates []string
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var def Def
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(def)
}

// New validates a catalog definition and builds the registry. Any violation
// is a fatal configuration error; nothing may be simulated against an
// invalid catalog.
func New(def Def) (*Catalog, error) {
	if len(def.Sites) == 0 {
		return nil, fmt.Errorf("catalog defines no sites")
	}
	if len(def.Stages) == 0 {
		return nil, fmt.Errorf("catalog defines no stages")
	}

	c := &Catalog{
		sites:    slices.Clone(def.Sites),
		stageIdx: make(map[string]int, len(def.Stages)),
		compIdx:  make(map[string]int, len(def.Components)),
		byGroup:  make(map[string][]int),
	}
	for _, s := range c.sites {
		if s == model.SiteAuto {
			return nil, fmt.Errorf("site id %q is reserved", s)
		}
	}
	if dup := firstDuplicate(c.sites); dup != "" {
		return nil, fmt.Errorf("duplicate site %q", dup)
	}

	for i, sd := range def.Stages {
		st, err := buildStage(sd)
		if err != nil {
			return nil, err
		}
		if _, ok := c.stageIdx[st.ID]; ok {
			return nil, fmt.Errorf("duplicate stage %q", st.ID)
		}
		c.stageIdx[st.ID] = i
		c.stages = append(c.stages, st)
	}

	for i, cd := range def.Components {
		comp, err := buildComponent(cd, c.sites)
		if err != nil {
			return nil, err
		}
		if _, ok := c.compIdx[comp.ID]; ok {
			return nil, fmt.Errorf("duplicate component %q", comp.ID)
		}
		if _, ok := c.stageIdx[comp.ID]; ok {
			return nil, fmt.Errorf("component %q collides with a stage id", comp.ID)
		}
		c.compIdx[comp.ID] = i
		c.components = append(c.components, comp)
		c.byGroup[comp.Group] = append(c.byGroup[comp.Group], i)
	}

	for _, st := range c.stages {
		if st.Duration.Kind != model.DurationGroupBacked {
			continue
		}
		if len(c.byGroup[st.Duration.Group]) == 0 {
			return nil, fmt.Errorf("stage %q references group %q with no components", st.ID, st.Duration.Group)
		}
	}

	c.preds = make([][]int, len(c.stages))
	for i, st := range c.stages {
		for _, p := range st.Predecessors {
			j, ok := c.stageIdx[p]
			if !ok {
				return nil, fmt.Errorf("stage %q lists unknown predecessor %q", st.ID, p)
			}
			if j == i {
				return nil, fmt.Errorf("stage %q lists itself as predecessor", st.ID)
			}
			c.preds[i] = append(c.preds[i], j)
		}
	}

	order, sink, err := orderNetwork(c.stages, c.preds)
	if err != nil {
		return nil, err
	}
	c.order = order
	c.sink = sink

	for _, comp := range c.components {
		c.candidates = append(c.candidates, comp.ID)
	}
	for _, st := range c.stages {
		if st.Expeditable() {
			c.candidates = append(c.candidates, st.ID)
		}
	}
	return c, nil
}

func buildStage(sd StageDef) (model.Stage, error) {
	st := model.Stage{
		ID:           sd.ID,
		Name:         sd.Name,
		Predecessors: slices.Clone(sd.Predecessors),
		ExpressCost:  sd.ExpressCost,
	}
	if st.ID == "" {
		return st, fmt.Errorf("stage with empty id (name %q)", sd.Name)
	}
	if sd.ExpressCost < 0 {
		return st, fmt.Errorf("stage %q has negative express cost", st.ID)
	}
	switch {
	case sd.Group != "" && sd.Normal != nil:
		return st, fmt.Errorf("stage %q mixes group-backed and intrinsic duration", st.ID)
	case sd.Group != "":
		if sd.ExpressCost > 0 {
			return st, fmt.Errorf("stage %q is group-backed and cannot carry an express cost", st.ID)
		}
		st.Duration = model.DurationSpec{Kind: model.DurationGroupBacked, Group: sd.Group}
	case sd.Normal != nil:
		normal := *sd.Normal
		express := normal
		if sd.Express != nil {
			express = *sd.Express
		}
		for _, d := range []model.ThreePoint{normal, express} {
			if err := d.Validate(); err != nil {
				return st, fmt.Errorf("stage %q: %w", st.ID, err)
			}
		}
		st.Duration = model.DurationSpec{
			Kind: model.DurationIntrinsic,
			Dist: model.DistPair{Normal: normal, Express: express},
		}
	default:
		return st, fmt.Errorf("stage %q has neither a group nor duration estimates", st.ID)
	}
	return st, nil
}

func buildComponent(cd ComponentDef, sites []string) (model.Component, error) {
	comp := model.Component{
		ID:          cd.ID,
		Name:        cd.Name,
		Group:       cd.Group,
		ExpressCost: cd.ExpressCost,
		PerSite:     make(map[string]model.DistPair, len(cd.Sites)),
	}
	if comp.ID == "" {
		return comp, fmt.Errorf("component with empty id (name %q)", cd.Name)
	}
	if comp.Group == "" {
		return comp, fmt.Errorf("component %q has no group", comp.ID)
	}
	if cd.ExpressCost < 0 {
		return comp, fmt.Errorf("component %q has negative express cost", comp.ID)
	}
	for site, pair := range cd.Sites {
		if !slices.Contains(sites, site) {
			return comp, fmt.Errorf("component %q defines estimates for unknown site %q", comp.ID, site)
		}
		for _, d := range []model.ThreePoint{pair.Normal, pair.Express} {
			if err := d.Validate(); err != nil {
				return comp, fmt.Errorf("component %q site %s: %w", comp.ID, site, err)
			}
		}
		comp.PerSite[site] = pair
	}
	for _, site := range sites {
		if _, ok := comp.PerSite[site]; !ok {
			return comp, fmt.Errorf("component %q has no estimates for site %q", comp.ID, site)
		}
	}
	return comp, nil
}

func firstDuplicate(ids []string) string {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id
		}
		seen[id] = struct{}{}
	}
	return ""
}

// Sites returns the configured site ids in declaration order.
func (c *Catalog) Sites() []string { return slices.Clone(c.sites) }

// HasSite reports whether the site id is configured.
func (c *Catalog) HasSite(id string) bool { return slices.Contains(c.sites, id) }

// Stages returns the stage list in declaration order. The slice is shared;
// callers must not mutate it.
func (c *Catalog) Stages() []model.Stage { return c.stages }

// Stage looks up one stage by id.
func (c *Catalog) Stage(id string) (model.Stage, bool) {
	i, ok := c.stageIdx[id]
	if !ok {
		return model.Stage{}, false
	}
	return c.stages[i], true
}

// Components returns the component list in declaration order. The slice is
// shared; callers must not mutate it.
func (c *Catalog) Components() []model.Component { return c.components }

// Component looks up one component by id.
func (c *Catalog) Component(id string) (model.Component, bool) {
	i, ok := c.compIdx[id]
	if !ok {
		return model.Component{}, false
	}
	return c.components[i], true
}

// GroupComponents returns the components of a group in declaration order.
func (c *Catalog) GroupComponents(group string) []model.Component {
	idxs := c.byGroup[group]
	comps := make([]model.Component, 0, len(idxs))
	for _, i := range idxs {
		comps = append(comps, c.components[i])
	}
	return comps
}

// Candidates returns every expedite candidate id: components first, then
// expeditable stages, both in declaration order. Both optimizers enumerate
// in exactly this order.
func (c *Catalog) Candidates() []string { return slices.Clone(c.candidates) }

// IsCandidate reports whether id may appear in an expedite set.
func (c *Catalog) IsCandidate(id string) bool {
	return slices.Contains(c.candidates, id)
}

// SinkID returns the terminal stage id.
func (c *Catalog) SinkID() string { return c.stages[c.sink].ID }
