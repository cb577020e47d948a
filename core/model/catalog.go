package model

import (
	"fmt"
	"math"
)

// ThreePoint is a three-point (PERT) duration estimate in days.
type ThreePoint struct {
	Min  float64 `json:"min" yaml:"min"`
	Mode float64 `json:"mode" yaml:"mode"`
	Max  float64 `json:"max" yaml:"max"`
}

// Validate checks ordering and finiteness of the estimate.
func (p ThreePoint) Validate() error {
	for _, v := range []float64{p.Min, p.Mode, p.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite estimate %+v", p)
		}
	}
	if p.Min < 0 {
		return fmt.Errorf("negative minimum in estimate %+v", p)
	}
	if p.Min > p.Mode || p.Mode > p.Max {
		return fmt.Errorf("estimate %+v violates min <= mode <= max", p)
	}
	return nil
}

// DistPair holds the normal and express variants of an estimate.
type DistPair struct {
	Normal  ThreePoint `json:"normal" yaml:"normal"`
	Express ThreePoint `json:"express" yaml:"express"`
}

// Pick returns the express estimate when express is true.
func (d DistPair) Pick(express bool) ThreePoint {
	if express {
		return d.Express
	}
	return d.Normal
}

// DurationKind tags how a stage obtains its duration.
type DurationKind int

const (
	// DurationIntrinsic samples the stage's own distribution pair.
	DurationIntrinsic DurationKind = iota
	// DurationGroupBacked derives the duration from the slowest missing
	// component delivery of the referenced group.
	DurationGroupBacked
)

// String returns a human-readable representation of the duration kind.
func (k DurationKind) String() string {
	switch k {
	case DurationIntrinsic:
		return "intrinsic"
	case DurationGroupBacked:
		return "group-backed"
	default:
		return "unknown"
	}
}

// DurationSpec describes where a stage's duration comes from. Exactly one of
// the two variants is populated, as indicated by Kind.
type DurationSpec struct {
	Kind  DurationKind
	Dist  DistPair // intrinsic stages only
	Group string   // group-backed stages only
}

// Stage is one node of the production/delivery network.
type Stage struct {
	ID           string
	Name         string
	Predecessors []string
	Duration     DurationSpec
	ExpressCost  float64 // 0 means the stage cannot be expedited
}

// Expeditable reports whether the stage is a valid expedite candidate.
func (s Stage) Expeditable() bool {
	return s.Duration.Kind == DurationIntrinsic && s.ExpressCost > 0
}

// Component is a purchasable part that may be on backorder. Delivery
// estimates are per site; a component not present in a request's missing set
// contributes no delivery time.
type Component struct {
	ID          string
	Name        string
	Group       string
	PerSite     map[string]DistPair
	ExpressCost float64
}
