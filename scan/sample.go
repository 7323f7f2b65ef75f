// seehuhn.de/go/viewcut - visibility analysis for 2D drawings of 3D scenes
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package scan casts rays through a grid of points of the camera frame and
// keeps the results in a cache which persists between invocations.
//
// The cache is used to find the parts of the frame which changed since
// the last invocation: only objects seen at changed samples need to be
// drawn again.
package scan

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"seehuhn.de/go/viewcut/geometry"
)

// Sample is a point of the camera frame, with coordinates in [0, 1]
// rounded to [geometry.Precision] decimal digits.  The origin is the
// bottom-left corner of the frame.
type Sample struct {
	U, V float64
}

// NewSample returns the sample closest to (u, v) on the grid with the
// given step.
func NewSample(u, v, step float64) Sample {
	return Sample{
		U: geometry.Clamp01(geometry.Quantize(u, step, geometry.Nearest)),
		V: geometry.Clamp01(geometry.Quantize(v, step, geometry.Nearest)),
	}
}

func (s Sample) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", s.U, s.V)
}

// Compare orders samples by u, then by v.
func Compare(a, b Sample) int {
	if c := cmp.Compare(a.U, b.U); c != 0 {
		return c
	}
	return cmp.Compare(a.V, b.V)
}

// Sort sorts samples into (u, v) order.
func Sort(samples []Sample) {
	slices.SortFunc(samples, Compare)
}

// Grid returns the samples covering the full frame at the given step.
// Both ends of the unit interval are included, so that a step of 0.1
// gives 11×11 samples.
func Grid(step float64) []Sample {
	return RectSamples(r2.Rect{X: unitInterval, Y: unitInterval}, step)
}

// RectSamples returns the grid samples inside r, after widening r to the
// grid.  The samples are returned in (u, v) order.
func RectSamples(r r2.Rect, step float64) []Sample {
	if r.IsEmpty() || step <= 0 {
		return nil
	}
	us := axisSamples(r.X.Lo, r.X.Hi, step)
	vs := axisSamples(r.Y.Lo, r.Y.Hi, step)
	res := make([]Sample, 0, len(us)*len(vs))
	for _, u := range us {
		for _, v := range vs {
			res = append(res, Sample{U: u, V: v})
		}
	}
	return res
}

// axisSamples lists the grid values covering [lo, hi], clamped to [0, 1].
func axisSamples(lo, hi, step float64) []float64 {
	lo = geometry.Clamp01(lo)
	hi = geometry.Clamp01(hi)
	i0 := int(math.Floor(geometry.Round6(lo / step)))
	i1 := int(math.Ceil(geometry.Round6(hi / step)))

	var res []float64
	for i := i0; i <= i1; i++ {
		x := geometry.Clamp01(geometry.Round6(float64(i) * step))
		if len(res) > 0 && res[len(res)-1] == x {
			continue
		}
		res = append(res, x)
	}
	return res
}

var unitInterval = r1.Interval{Lo: 0, Hi: 1}
