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

package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

// RayCaster finds the mesh instance hit first by a ray.  The geometry is
// transformed to world space once, when the RayCaster is created; later
// changes to the scene are not seen.
type RayCaster struct {
	targets []target
}

type target struct {
	inst   *Instance
	lo, hi r3.Vector
	tris   [][3]r3.Vector
}

// NewRayCaster prepares ray casts against all visible mesh instances of s.
// Instances are canonicalized using in.
func NewRayCaster(s *Scene, in *Interner) *RayCaster {
	rc := &RayCaster{}
	for _, inst := range s.Instances(in) {
		o := inst.Object
		if o.Type != TypeMesh || o.Mesh == nil || len(o.Mesh.Faces) == 0 {
			continue
		}

		world := make([]r3.Vector, len(o.Mesh.Vertices))
		for i, v := range o.Mesh.Vertices {
			world[i] = inst.Matrix.Apply(v)
		}
		t := target{inst: inst, lo: world[0], hi: world[0]}
		for _, v := range world[1:] {
			t.lo = r3.Vector{X: math.Min(t.lo.X, v.X), Y: math.Min(t.lo.Y, v.Y), Z: math.Min(t.lo.Z, v.Z)}
			t.hi = r3.Vector{X: math.Max(t.hi.X, v.X), Y: math.Max(t.hi.Y, v.Y), Z: math.Max(t.hi.Z, v.Z)}
		}
		for _, tri := range o.Mesh.Triangles() {
			t.tris = append(t.tris, [3]r3.Vector{world[tri[0]], world[tri[1]], world[tri[2]]})
		}
		rc.targets = append(rc.targets, t)
	}
	return rc
}

// RayCast returns the instance whose surface is hit first by the ray from
// origin in direction dir.  Hits at or behind the origin are ignored.  If
// two instances are hit at the same distance, the one evaluated first wins.
func (rc *RayCaster) RayCast(origin, dir r3.Vector) (*Instance, bool) {
	var best *Instance
	bestT := math.Inf(1)
	for i := range rc.targets {
		t := &rc.targets[i]
		if !hitsBox(origin, dir, t.lo, t.hi, bestT) {
			continue
		}
		for _, tri := range t.tris {
			d, ok := hitTriangle(origin, dir, tri[0], tri[1], tri[2])
			if ok && d < bestT {
				bestT = d
				best = t.inst
			}
		}
	}
	return best, best != nil
}

// hitsBox is the slab test for an axis-aligned box.  Only hits closer than
// tMax are reported.
func hitsBox(o, d, lo, hi r3.Vector, tMax float64) bool {
	tMin := 0.0
	for _, ax := range [3][4]float64{
		{o.X, d.X, lo.X, hi.X},
		{o.Y, d.Y, lo.Y, hi.Y},
		{o.Z, d.Z, lo.Z, hi.Z},
	} {
		p, v, a, b := ax[0], ax[1], ax[2], ax[3]
		if math.Abs(v) < rayEpsilon {
			if p < a-rayEpsilon || p > b+rayEpsilon {
				return false
			}
			continue
		}
		t0 := (a - p) / v
		t1 := (b - p) / v
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math.Max(tMin, t0-rayEpsilon)
		tMax = math.Min(tMax, t1+rayEpsilon)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// hitTriangle implements the Möller-Trumbore ray/triangle test.  It returns
// the distance along the ray, in units of |d|.  Points on the triangle
// boundary count as hits.
func hitTriangle(o, d, a, b, c r3.Vector) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := d.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < rayEpsilon*rayEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := o.Sub(a)
	u := s.Dot(p) * inv
	if u < -rayEpsilon || u > 1+rayEpsilon {
		return 0, false
	}
	q := s.Cross(e1)
	v := d.Dot(q) * inv
	if v < -rayEpsilon || u+v > 1+rayEpsilon {
		return 0, false
	}
	t := e2.Dot(q) * inv
	return t, t > rayEpsilon
}

const rayEpsilon = 1e-9
