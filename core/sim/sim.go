// Package sim samples completion times of the production network. One
// simulator instance is safe for concurrent use as long as every caller
// brings its own random source: all shared state is the immutable catalog.
package sim

import (
	"math/rand/v2"

	"github.com/MathiasVDS1/ProjectManagement/core/catalog"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
	"github.com/MathiasVDS1/ProjectManagement/core/pert"
)

// Simulator applies the duration rule to the catalog's stages and runs the
// critical-path forward pass per trial.
type Simulator struct {
	cat *catalog.Catalog
	// groupComps caches each group-backed stage's components in
	// declaration order, indexed like the stage list.
	groupComps [][]model.Component
}

// New builds a simulator for the catalog.
func New(cat *catalog.Catalog) *Simulator {
	s := &Simulator{
		cat:        cat,
		groupComps: make([][]model.Component, len(cat.Stages())),
	}
	for i, st := range cat.Stages() {
		if st.Duration.Kind == model.DurationGroupBacked {
			s.groupComps[i] = cat.GroupComponents(st.Duration.Group)
		}
	}
	return s
}

// SampleDurations draws one duration per stage into durations (indexed in
// stage declaration order, which fixes the random stream layout).
//
// Intrinsic stages draw from their own normal or express estimate depending
// on expedite membership. Group-backed stages take the maximum sampled
// delivery time across the group's missing components (deliveries run in
// parallel), and 0 when nothing in the group is missing.
func (s *Simulator) SampleDurations(src rand.Source, site string, expedite, missing model.IDSet, durations []float64) {
	for i, st := range s.cat.Stages() {
		if st.Duration.Kind == model.DurationGroupBacked {
			var d float64
			for _, comp := range s.groupComps[i] {
				if !missing.Has(comp.ID) {
					continue
				}
				v := pert.Sample(src, comp.PerSite[site].Pick(expedite.Has(comp.ID)))
				if v > d {
					d = v
				}
			}
			durations[i] = d
			continue
		}
		durations[i] = pert.Sample(src, st.Duration.Dist.Pick(expedite.Has(st.ID)))
	}
}

// ExpectedDurations returns the deterministic mean duration per stage,
// applying the same rule as SampleDurations with the PERT mean substituted
// for the random draw.
func (s *Simulator) ExpectedDurations(site string, expedite, missing model.IDSet) []float64 {
	durations := make([]float64, len(s.cat.Stages()))
	for i, st := range s.cat.Stages() {
		if st.Duration.Kind == model.DurationGroupBacked {
			var d float64
			for _, comp := range s.groupComps[i] {
				if !missing.Has(comp.ID) {
					continue
				}
				v := pert.Mean(comp.PerSite[site].Pick(expedite.Has(comp.ID)))
				if v > d {
					d = v
				}
			}
			durations[i] = d
			continue
		}
		durations[i] = pert.Mean(st.Duration.Dist.Pick(expedite.Has(st.ID)))
	}
	return durations
}

// Run samples trials makespans for the given site, expedite set and missing
// set. The caller owns src and is responsible for the reseed-per-evaluation
// policy that makes runs reproducible.
func (s *Simulator) Run(src rand.Source, site string, expedite, missing model.IDSet, trials int) []float64 {
	stages := s.cat.Stages()
	durations := make([]float64, len(stages))
	out := make([]float64, trials)
	for t := 0; t < trials; t++ {
		s.SampleDurations(src, site, expedite, missing, durations)
		out[t] = s.cat.Makespan(durations)
	}
	return out
}
