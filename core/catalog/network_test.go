package catalog

import "testing"

func diamondDef() Def {
	return Def{
		Sites: []string{"AT"},
		Stages: []StageDef{
			{ID: "a", Name: "Source", Normal: tp(1, 1, 1)},
			{ID: "b", Name: "Left", Predecessors: []string{"a"}, Normal: tp(1, 1, 1)},
			{ID: "c", Name: "Right", Predecessors: []string{"a"}, Normal: tp(1, 1, 1)},
			{ID: "d", Name: "Sink", Predecessors: []string{"b", "c"}, Normal: tp(1, 1, 1)},
		},
	}
}

func TestTimelineForwardPass(t *testing.T) {
	c, err := New(diamondDef())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	durations := []float64{1, 2, 5, 1}
	starts, finishes := c.Timeline(durations)

	wantStarts := []float64{0, 1, 1, 6}
	wantFinishes := []float64{1, 3, 6, 7}
	for i := range durations {
		if starts[i] != wantStarts[i] || finishes[i] != wantFinishes[i] {
			t.Fatalf("stage %d: start/finish = %v/%v, want %v/%v",
				i, starts[i], finishes[i], wantStarts[i], wantFinishes[i])
		}
	}
	if got := c.Makespan(durations); got != 7 {
		t.Fatalf("makespan = %v, want 7", got)
	}
}

func TestMakespanMonotoneInStageDurations(t *testing.T) {
	c, err := New(diamondDef())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	base := []float64{1, 2, 5, 1}
	baseline := c.Makespan(base)
	for i := range base {
		for _, delta := range []float64{0.5, 2, 10} {
			bumped := make([]float64, len(base))
			copy(bumped, base)
			bumped[i] += delta
			if got := c.Makespan(bumped); got < baseline {
				t.Fatalf("makespan decreased from %v to %v after bumping stage %d by %v",
					baseline, got, i, delta)
			}
		}
	}
}
