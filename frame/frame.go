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

// Package frame decides which instances can appear in the camera frame,
// based on their bounding boxes only.
package frame

import (
	"github.com/golang/geo/r2"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/scene"
)

// Result is the classification of one instance.
type Result struct {
	Instance *scene.Instance

	// Framed is set if the bounding box reaches into the camera frame.
	Framed bool

	// InFront is set if part of the bounding box lies beyond the near
	// plane, i.e. in the part of the scene the camera sees.
	InFront bool

	// Behind is set if part of the bounding box lies in front of the
	// near plane, between the camera and the cut.
	Behind bool

	// Box holds the corners of the bounding box in camera-normalized
	// coordinates.  It is set even if the instance is not framed.
	Box geometry.BoundBox
}

var frameCorners = [4]r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

var frameCenter = r2.Point{X: 0.5, Y: 0.5}

// Classify computes the classification of inst as seen by cam.  The
// result is nil for instances without mesh or curve geometry.
func Classify(inst *scene.Instance, cam *geometry.Camera) *Result {
	o := inst.Object
	if o.Type != scene.TypeMesh && o.Type != scene.TypeCurve {
		return nil
	}
	local, ok := o.Bounds()
	if !ok {
		return nil
	}

	box := geometry.BoxInCamera(local, inst.Matrix, cam)
	res := &Result{
		Instance: inst,
		InFront:  box.MaxZ() >= cam.ClipStart,
		Behind:   box.MinZ() <= cam.ClipStart,
		Box:      box,
	}
	res.Framed = framed(&box)
	return res
}

func framed(box *geometry.BoundBox) bool {
	for i := range box {
		p := box.XY(i)
		if p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1 {
			return true
		}
	}

	// The box may be larger than the frame.
	for i := range geometry.BoxFaces {
		if geometry.PointInQuad(frameCenter, box.Face(i)) {
			return true
		}
	}

	for _, e := range geometry.BoxEdges {
		a, b := box.XY(e[0]), box.XY(e[1])
		for i := range frameCorners {
			if geometry.SegmentsIntersect(a, b, frameCorners[i], frameCorners[(i+1)%4]) {
				return true
			}
		}
	}
	return false
}

// Filter classifies all instances and returns the results for the framed
// ones, in the original order.
func Filter(instances []*scene.Instance, cam *geometry.Camera) []*Result {
	var res []*Result
	skipped := 0
	for _, inst := range instances {
		r := Classify(inst, cam)
		if r == nil {
			skipped++
			continue
		}
		if r.Framed {
			res = append(res, r)
		}
	}
	diag.Logger().Debug("frame filter",
		"instances", len(instances), "framed", len(res), "unsupported", skipped)
	return res
}
