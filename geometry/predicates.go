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

package geometry

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// PointInQuad reports whether p lies inside the quadrilateral q.
// The quad is split along the diagonal q0–q2 and p is tested against both
// triangles.  Points on the boundary count as inside.  Degenerate quads
// (collapsed to a segment or a point) contain exactly the points on their
// edges.
func PointInQuad(p r2.Point, q [4]r2.Point) bool {
	return inTriangle(p, q[0], q[1], q[2]) || inTriangle(p, q[0], q[2], q[3])
}

// inTriangle reports whether p lies inside or on the boundary of the
// triangle abc, for either orientation.
func inTriangle(p, a, b, c r2.Point) bool {
	if math.Abs(orient(a, b, c)) <= areaEpsilon {
		return onSegment(p, a, b) || onSegment(p, b, c) || onSegment(p, c, a)
	}

	d1 := orient(a, b, p)
	d2 := orient(b, c, p)
	d3 := orient(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// orient returns twice the signed area of the triangle abc.
// The result is positive if a, b, c are in counter-clockwise order.
func orient(a, b, c r2.Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(p, a, b r2.Point) bool {
	ab := b.Sub(a)
	ap := p.Sub(a)
	if ab.Dot(ab) <= areaEpsilon {
		// the segment is a single point
		return ap.Dot(ap) <= areaEpsilon
	}
	if math.Abs(ab.Cross(ap)) > areaEpsilon {
		return false
	}
	t := ap.Dot(ab)
	return t >= -areaEpsilon && t <= ab.Dot(ab)+areaEpsilon
}

// SegmentsIntersect reports whether the open segments a0a1 and b0b1 cross.
// Segments which only touch at an end point do not cross.  Colinear
// segments cross if their overlap has positive length.
func SegmentsIntersect(a0, a1, b0, b1 r2.Point) bool {
	d1 := sign(orient(b0, b1, a0))
	d2 := sign(orient(b0, b1, a1))
	d3 := sign(orient(a0, a1, b0))
	d4 := sign(orient(a0, a1, b1))

	if d1 == 0 && d2 == 0 && d3 == 0 && d4 == 0 {
		dir := a1.Sub(a0)
		if dir.Dot(dir) == 0 {
			dir = b1.Sub(b0)
		}
		if dir.Dot(dir) == 0 {
			return false
		}
		aLo, aHi := minMax(a0.Dot(dir), a1.Dot(dir))
		bLo, bHi := minMax(b0.Dot(dir), b1.Dot(dir))
		return min(aHi, bHi)-max(aLo, bLo) > 0
	}

	return d1*d2 < 0 && d3*d4 < 0
}

func sign(x float64) int {
	switch {
	case x > areaEpsilon:
		return 1
	case x < -areaEpsilon:
		return -1
	default:
		return 0
	}
}

func minMax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}

// IntersectSegmentPlane intersects the line through p0 and p1 with the
// plane through co with normal no.  The returned parameter t locates the
// intersection point as p0 + t·(p1 - p0); values in [0, 1] lie on the
// segment.  The last return value is false if the line is parallel to the
// plane.
func IntersectSegmentPlane(p0, p1, co, no r3.Vector) (r3.Vector, float64, bool) {
	u := p1.Sub(p0)
	dot := no.Dot(u)
	if math.Abs(dot) < parallelEpsilon {
		return r3.Vector{}, 0, false
	}
	t := -no.Dot(p0.Sub(co)) / dot
	return p0.Add(u.Mul(t)), t, true
}

// IsCut reports whether any of the given edges, transformed by m, crosses
// the plane of quad inside the quad.  The edges are given in object space,
// quad and normal in world space.  Intersections exactly at an edge end
// point or on the quad boundary count.
func IsCut(edges [][2]r3.Vector, m Matrix, quad [4]r3.Vector, normal r3.Vector) bool {
	ex := quad[1].Sub(quad[0])
	if ex.Norm2() == 0 {
		return false
	}
	ex = ex.Normalize()
	ey := normal.Cross(ex).Normalize()
	project := func(p r3.Vector) r2.Point {
		d := p.Sub(quad[0])
		return r2.Point{X: d.Dot(ex), Y: d.Dot(ey)}
	}
	var flat [4]r2.Point
	for i, q := range quad {
		flat[i] = project(q)
	}

	for _, e := range edges {
		a := m.Apply(e[0])
		b := m.Apply(e[1])
		hit, t, ok := IntersectSegmentPlane(a, b, quad[0], normal)
		if !ok || t < -paramEpsilon || t > 1+paramEpsilon {
			continue
		}
		if PointInQuad(project(hit), flat) {
			return true
		}
	}
	return false
}

// Numerical tolerances for the predicates.
const (
	// areaEpsilon is the tolerance for treating cross products as zero.
	areaEpsilon = 1e-12

	// parallelEpsilon is the tolerance below which a line is considered
	// parallel to a plane.
	parallelEpsilon = 1e-12

	// paramEpsilon widens the [0, 1] segment parameter range so that
	// intersections at end points survive rounding.
	paramEpsilon = 1e-9
)
