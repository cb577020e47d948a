package catalog

import (
	"strings"
	"testing"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

func tp(min, mode, max float64) *model.ThreePoint {
	return &model.ThreePoint{Min: min, Mode: mode, Max: max}
}

func sitePair(n, e model.ThreePoint) map[string]model.DistPair {
	return map[string]model.DistPair{
		"AT": {Normal: n, Express: e},
		"BE": {Normal: n, Express: e},
	}
}

func validDef() Def {
	return Def{
		Sites: []string{"AT", "BE"},
		Stages: []StageDef{
			{ID: "start", Name: "Start", Normal: tp(1, 1, 1)},
			{ID: "buy", Name: "Purchasing", Predecessors: []string{"start"}, Group: "parts"},
			{ID: "build", Name: "Build", Predecessors: []string{"buy"},
				Normal: tp(1, 2, 3), Express: tp(0.5, 1, 2), ExpressCost: 80},
			{ID: "ship", Name: "Ship", Predecessors: []string{"build"}, Normal: tp(0, 0, 0)},
		},
		Components: []ComponentDef{
			{ID: "P1", Name: "Part one", Group: "parts", ExpressCost: 40,
				Sites: sitePair(model.ThreePoint{Min: 2, Mode: 3, Max: 5}, model.ThreePoint{Min: 1, Mode: 1, Max: 2})},
			{ID: "P2", Name: "Part two", Group: "parts", ExpressCost: 30,
				Sites: sitePair(model.ThreePoint{Min: 1, Mode: 2, Max: 4}, model.ThreePoint{Min: 0.5, Mode: 1, Max: 1})},
		},
	}
}

func TestNewAcceptsValidDefinition(t *testing.T) {
	c, err := New(validDef())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.SinkID(); got != "ship" {
		t.Fatalf("sink = %q, want ship", got)
	}
	wantCandidates := []string{"P1", "P2", "build"}
	got := c.Candidates()
	if len(got) != len(wantCandidates) {
		t.Fatalf("candidates = %v, want %v", got, wantCandidates)
	}
	for i, id := range wantCandidates {
		if got[i] != id {
			t.Fatalf("candidates = %v, want %v", got, wantCandidates)
		}
	}
	if !c.IsCandidate("build") || c.IsCandidate("ship") || c.IsCandidate("nope") {
		t.Fatalf("candidate membership wrong")
	}
	st, ok := c.Stage("buy")
	if !ok || st.Duration.Kind != model.DurationGroupBacked || st.Duration.Group != "parts" {
		t.Fatalf("buy stage = %+v", st)
	}
	if comps := c.GroupComponents("parts"); len(comps) != 2 || comps[0].ID != "P1" {
		t.Fatalf("group components = %+v", comps)
	}
}

func TestExpressFallsBackToNormal(t *testing.T) {
	c, err := New(validDef())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st, _ := c.Stage("start")
	if st.Duration.Dist.Express != st.Duration.Dist.Normal {
		t.Fatalf("express estimate should default to normal, got %+v", st.Duration.Dist)
	}
}

func TestNewRejectsInvalidDefinitions(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Def)
		wantErr string
	}{
		{"no sites", func(d *Def) { d.Sites = nil }, "no sites"},
		{"reserved site", func(d *Def) { d.Sites = []string{"AT", model.SiteAuto} }, "reserved"},
		{"unknown predecessor", func(d *Def) { d.Stages[2].Predecessors = []string{"ghost"} }, "unknown predecessor"},
		{"self predecessor", func(d *Def) { d.Stages[2].Predecessors = []string{"build"} }, "itself"},
		{"cycle", func(d *Def) {
			d.Stages[1].Predecessors = []string{"start", "build"}
		}, "cycle"},
		{"two sources", func(d *Def) { d.Stages[1].Predecessors = nil }, "one source"},
		{"two sinks", func(d *Def) {
			d.Stages = append(d.Stages, StageDef{ID: "extra", Name: "Extra",
				Predecessors: []string{"build"}, Normal: tp(1, 1, 1)})
		}, "one sink"},
		{"duplicate stage", func(d *Def) { d.Stages[3].ID = "start" }, "duplicate stage"},
		{"mixed duration", func(d *Def) { d.Stages[1].Normal = tp(1, 1, 1) }, "mixes"},
		{"no duration", func(d *Def) { d.Stages[2].Normal = nil }, "neither"},
		{"group stage with cost", func(d *Def) { d.Stages[1].ExpressCost = 10 }, "group-backed"},
		{"empty group", func(d *Def) { d.Components = nil }, "no components"},
		{"descending estimate", func(d *Def) { d.Stages[2].Normal = tp(3, 2, 1) }, "min <= mode <= max"},
		{"negative stage cost", func(d *Def) { d.Stages[2].ExpressCost = -1 }, "negative express cost"},
		{"duplicate component", func(d *Def) { d.Components[1].ID = "P1" }, "duplicate component"},
		{"component without site", func(d *Def) { delete(d.Components[0].Sites, "BE") }, "no estimates for site"},
		{"component with unknown site", func(d *Def) {
			d.Components[0].Sites["XX"] = d.Components[0].Sites["AT"]
		}, "unknown site"},
		{"component without group", func(d *Def) { d.Components[0].Group = "" }, "no group"},
		{"negative component cost", func(d *Def) { d.Components[0].ExpressCost = -5 }, "negative express cost"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := validDef()
			tc.mutate(&def)
			_, err := New(def)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadShippedCatalog(t *testing.T) {
	c, err := Load("../../catalog.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(c.Stages()); got != 14 {
		t.Fatalf("stages = %d, want 14", got)
	}
	if got := len(c.Components()); got != 39 {
		t.Fatalf("components = %d, want 39", got)
	}
	if got := c.SinkID(); got != "n" {
		t.Fatalf("sink = %q, want n", got)
	}
	cands := c.Candidates()
	if len(cands) != 45 {
		t.Fatalf("candidates = %d, want 45", len(cands))
	}
	if cands[0] != "M01" || cands[39] != "e" || cands[44] != "j" {
		t.Fatalf("candidate order off: %v", cands)
	}
	for _, group := range []string{"mechanical", "electrical", "casting"} {
		if len(c.GroupComponents(group)) == 0 {
			t.Fatalf("group %s empty", group)
		}
	}
	if !c.HasSite("AT") || !c.HasSite("BE") || c.HasSite("FR") {
		t.Fatalf("site lookup wrong")
	}
}
