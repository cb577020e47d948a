package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// orderNetwork validates the stage graph invariant (acyclic, exactly one
// source, exactly one sink) and returns a deterministic topological order of
// stage indices plus the sink index. In a finite DAG a single out-degree-0
// node is reached from every stage and a single in-degree-0 node reaches
// every stage, so the two counts cover reachability as well.
func orderNetwork(stages []model.Stage, preds [][]int) (order []int, sink int, err error) {
	g := simple.NewDirectedGraph()
	for i := range stages {
		g.AddNode(simple.Node(int64(i)))
	}
	for i, ps := range preds {
		for _, p := range ps {
			g.SetEdge(g.NewEdge(simple.Node(int64(p)), simple.Node(int64(i))))
		}
	}

	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		sort.Slice(nodes, func(a, b int) bool { return nodes[a].ID() < nodes[b].ID() })
	})
	if err != nil {
		var uo topo.Unorderable
		if errors.As(err, &uo) {
			var ids []string
			for _, scc := range uo {
				for _, n := range scc {
					ids = append(ids, stages[n.ID()].ID)
				}
			}
			return nil, 0, fmt.Errorf("stage graph has a cycle involving %s", strings.Join(ids, ", "))
		}
		return nil, 0, fmt.Errorf("order stage graph: %w", err)
	}

	var sources, sinks []int
	for i := range stages {
		if g.To(int64(i)).Len() == 0 {
			sources = append(sources, i)
		}
		if g.From(int64(i)).Len() == 0 {
			sinks = append(sinks, i)
		}
	}
	if len(sources) != 1 {
		return nil, 0, fmt.Errorf("stage graph must have exactly one source, found %s", stageIDs(stages, sources))
	}
	if len(sinks) != 1 {
		return nil, 0, fmt.Errorf("stage graph must have exactly one sink, found %s", stageIDs(stages, sinks))
	}

	order = make([]int, len(sorted))
	for i, n := range sorted {
		order[i] = int(n.ID())
	}
	return order, sinks[0], nil
}

func stageIDs(stages []model.Stage, idxs []int) string {
	if len(idxs) == 0 {
		return "none"
	}
	ids := make([]string, len(idxs))
	for i, j := range idxs {
		ids[i] = stages[j].ID
	}
	return strings.Join(ids, ", ")
}

// Timeline runs the critical-path forward pass for the given per-stage
// durations (indexed like Stages) and returns start and finish times.
// Sources start at 0; every other stage starts at the maximum finish of its
// predecessors.
func (c *Catalog) Timeline(durations []float64) (starts, finishes []float64) {
	starts = make([]float64, len(c.stages))
	finishes = make([]float64, len(c.stages))
	for _, i := range c.order {
		var s float64
		for _, p := range c.preds[i] {
			if finishes[p] > s {
				s = finishes[p]
			}
		}
		starts[i] = s
		finishes[i] = s + durations[i]
	}
	return starts, finishes
}

// Makespan returns the sink finish time for the given per-stage durations.
func (c *Catalog) Makespan(durations []float64) float64 {
	_, finishes := c.Timeline(durations)
	return finishes[c.sink]
}
