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

package scan

import (
	"context"

	"github.com/golang/geo/r3"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/scene"
)

// Caster finds the first instance hit by a ray.
type Caster interface {
	RayCast(origin, dir r3.Vector) (*scene.Instance, bool)
}

// Results maps samples to the instance seen there.  Samples where no
// instance was hit map to nil.
type Results map[Sample]*scene.Instance

// Samples returns the samples of r in (u, v) order.
func (r Results) Samples() []Sample {
	res := make([]Sample, 0, len(r))
	for s := range r {
		res = append(res, s)
	}
	Sort(res)
	return res
}

// Instances returns the distinct instances seen, in sample order.
func (r Results) Instances() []*scene.Instance {
	var res []*scene.Instance
	seen := map[*scene.Instance]bool{}
	for _, s := range r.Samples() {
		inst := r[s]
		if inst != nil && !seen[inst] {
			seen[inst] = true
			res = append(res, inst)
		}
	}
	return res
}

// Scanner casts rays from points of the camera's near plane.
type Scanner struct {
	Caster Caster
	Camera *geometry.Camera

	// Step is the grid spacing of the samples.
	Step float64
}

// Scan casts one ray per sample.  The scene is not modified.
// The context is only checked before the first ray is cast.
func (s *Scanner) Scan(ctx context.Context, samples []Sample) (Results, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := make(Results, len(samples))
	for _, smp := range samples {
		if _, done := res[smp]; done {
			continue
		}
		origin, dir := s.Camera.RayAt(smp.U, smp.V)
		inst, ok := s.Caster.RayCast(origin, dir)
		if !ok {
			inst = nil
		}
		res[smp] = inst
	}
	return res, nil
}
