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
	"slices"

	"github.com/golang/geo/r3"
)

// Mesh is a polygon mesh.
type Mesh struct {
	Vertices []r3.Vector

	// Faces lists the vertex indices of every face, in order around the
	// face boundary.
	Faces [][]int

	// Materials names the materials of the mesh.  viewcut ignores them,
	// they are only carried along.
	Materials []string
}

// Edges returns the distinct edges of all faces.  Each edge is listed once,
// with the smaller vertex index first, in order of first appearance.
func (m *Mesh) Edges() [][2]int {
	seen := map[[2]int]bool{}
	var res [][2]int
	for _, f := range m.Faces {
		for i, a := range f {
			b := f[(i+1)%len(f)]
			if a == b {
				continue
			}
			e := [2]int{min(a, b), max(a, b)}
			if !seen[e] {
				seen[e] = true
				res = append(res, e)
			}
		}
	}
	return res
}

// Triangles splits every face into a triangle fan.
func (m *Mesh) Triangles() [][3]int {
	var res [][3]int
	for _, f := range m.Faces {
		for i := 2; i < len(f); i++ {
			res = append(res, [3]int{f[0], f[i-1], f[i]})
		}
	}
	return res
}

// Clone returns an independent copy of the mesh, without materials.
// Subjects hold such copies, so that later changes to the scene do not
// affect a running invocation.
func (m *Mesh) Clone() *Mesh {
	faces := make([][]int, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = slices.Clone(f)
	}
	return &Mesh{
		Vertices: slices.Clone(m.Vertices),
		Faces:    faces,
	}
}

// Spline is a polyline through the given points.
type Spline struct {
	Points []r3.Vector
	Cyclic bool
}

// Curve is a set of splines, drawn as lines of the given width.
type Curve struct {
	Splines []Spline

	// Width is the line width in scene units.
	Width float64
}

// Points returns the points of all splines.
func (c *Curve) Points() []r3.Vector {
	var res []r3.Vector
	for _, s := range c.Splines {
		res = append(res, s.Points...)
	}
	return res
}

// Edges returns the line segments of all splines.
func (c *Curve) Edges() [][2]r3.Vector {
	var res [][2]r3.Vector
	for _, s := range c.Splines {
		n := len(s.Points)
		for i := 1; i < n; i++ {
			res = append(res, [2]r3.Vector{s.Points[i-1], s.Points[i]})
		}
		if s.Cyclic && n > 2 {
			res = append(res, [2]r3.Vector{s.Points[n-1], s.Points[0]})
		}
	}
	return res
}

// Clone returns an independent copy of the curve.
func (c *Curve) Clone() *Curve {
	splines := make([]Spline, len(c.Splines))
	for i, s := range c.Splines {
		splines[i] = Spline{Points: slices.Clone(s.Points), Cyclic: s.Cyclic}
	}
	return &Curve{Splines: splines, Width: c.Width}
}
