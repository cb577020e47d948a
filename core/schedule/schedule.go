// Package schedule derives the deterministic expected timeline for one site.
// It applies the simulator's duration rule with the PERT mean substituted for
// the random draw, runs the network forward pass once, and lays the result
// out as presentation-ready entries.
package schedule

import (
	"sort"

	"github.com/MathiasVDS1/ProjectManagement/core/catalog"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
	"github.com/MathiasVDS1/ProjectManagement/core/sim"
)

// Builder produces expected timelines against one catalog.
type Builder struct {
	cat *catalog.Catalog
	sim *sim.Simulator
}

func NewBuilder(cat *catalog.Catalog) *Builder {
	return &Builder{cat: cat, sim: sim.New(cat)}
}

// Build computes expected start and finish per stage and returns the
// non-terminal stages sorted by start time; ties keep declaration order.
// TotalDuration is the terminal stage's finish. No randomness is involved,
// so repeated calls return identical schedules. The site, expedite set and
// missing set are trusted; callers validate requests before asking for a
// timeline.
func (b *Builder) Build(site string, expedite, missing model.IDSet) model.Schedule {
	durations := b.sim.ExpectedDurations(site, expedite, missing)
	starts, finishes := b.cat.Timeline(durations)

	stages := b.cat.Stages()
	sinkID := b.cat.SinkID()
	entries := make([]model.ScheduleEntry, 0, len(stages)-1)
	var total float64
	for i, st := range stages {
		if st.ID == sinkID {
			total = finishes[i]
			continue
		}
		entries = append(entries, model.ScheduleEntry{
			StageID:  st.ID,
			Label:    st.Name,
			Start:    starts[i],
			Finish:   finishes[i],
			Duration: durations[i],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Start < entries[j].Start })

	return model.Schedule{Site: site, Entries: entries, TotalDuration: total}
}
