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

// BoundBox holds the eight corners of a box.
//
// Corner i has the maximum x coordinate iff i >= 4, the maximum y
// coordinate iff i is 2, 3, 6 or 7 and the maximum z coordinate iff i is
// 1, 2, 5 or 6.
type BoundBox [8]r3.Vector

// BoxFaces lists the corner indices of the six faces of a [BoundBox].
// Each face is given as a cycle around its boundary.
var BoxFaces = [6][4]int{
	{0, 1, 2, 3},
	{4, 5, 6, 7},
	{0, 1, 5, 4},
	{3, 2, 6, 7},
	{0, 3, 7, 4},
	{1, 2, 6, 5},
}

// BoxEdges lists the corner indices of the twelve edges of a [BoundBox].
var BoxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// BoundsOf returns the axis-aligned bounding box of the given points.
// The result is the zero box if pts is empty.
func BoundsOf(pts []r3.Vector) BoundBox {
	if len(pts) == 0 {
		return BoundBox{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = r3.Vector{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vector{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return BoundBox{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
	}
}

// BoxInCamera transforms the corners of an object-space bounding box by
// the world matrix m and projects them into camera-normalized
// coordinates.
func BoxInCamera(local BoundBox, m Matrix, cam *Camera) BoundBox {
	var res BoundBox
	for i, p := range local {
		res[i] = cam.Project(m.Apply(p))
	}
	return res
}

// MinZ returns the smallest depth of all corners.
func (b *BoundBox) MinZ() float64 {
	z := b[0].Z
	for _, p := range b[1:] {
		z = math.Min(z, p.Z)
	}
	return z
}

// MaxZ returns the largest depth of all corners.
func (b *BoundBox) MaxZ() float64 {
	z := b[0].Z
	for _, p := range b[1:] {
		z = math.Max(z, p.Z)
	}
	return z
}

// XY returns corner i projected onto the image plane.
func (b *BoundBox) XY(i int) r2.Point {
	return r2.Point{X: b[i].X, Y: b[i].Y}
}

// Face returns face i (see [BoxFaces]) projected onto the image plane.
func (b *BoundBox) Face(i int) [4]r2.Point {
	f := BoxFaces[i]
	return [4]r2.Point{b.XY(f[0]), b.XY(f[1]), b.XY(f[2]), b.XY(f[3])}
}
