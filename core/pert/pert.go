// Package pert draws and summarizes three-point activity duration
// estimates. Durations are modeled with the PERT distribution, a Beta
// distribution stretched over [min, max] whose shape concentrates around the
// mode.
package pert

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// steepness is the standard PERT shape weight on the mode.
const steepness = 4

// Sample draws one duration from the estimate using the given source.
// A degenerate estimate (min == max) is a point value and returns min
// without consuming randomness.
func Sample(src rand.Source, d model.ThreePoint) float64 {
	if d.Max == d.Min {
		return d.Min
	}
	span := d.Max - d.Min
	b := distuv.Beta{
		Alpha: 1 + steepness*(d.Mode-d.Min)/span,
		Beta:  1 + steepness*(d.Max-d.Mode)/span,
		Src:   src,
	}
	return d.Min + b.Rand()*span
}

// Mean returns the PERT expected value (min + 4*mode + max) / 6.
func Mean(d model.ThreePoint) float64 {
	return (d.Min + 4*d.Mode + d.Max) / 6
}
