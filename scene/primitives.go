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

	"seehuhn.de/go/viewcut/geometry"
)

// Cube returns a mesh object for the axis-aligned cube with the given edge
// length, centred at the origin of object space.
func Cube(name string, size float64) *Object {
	return Box(name, size, size, size)
}

// Box returns a mesh object for an axis-aligned box centred at the origin.
func Box(name string, sx, sy, sz float64) *Object {
	x, y, z := sx/2, sy/2, sz/2
	m := &Mesh{
		Vertices: []r3.Vector{
			{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z},
			{X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z},
			{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z},
			{X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z},
		},
		Faces: [][]int{
			{0, 3, 2, 1}, // bottom
			{4, 5, 6, 7}, // top
			{0, 1, 5, 4},
			{1, 2, 6, 5},
			{2, 3, 7, 6},
			{3, 0, 4, 7},
		},
	}
	return &Object{Name: name, Type: TypeMesh, Matrix: geometry.Identity, Mesh: m}
}

// Plane returns a square in the xy-plane, centred at the origin.
func Plane(name string, size float64) *Object {
	s := size / 2
	m := &Mesh{
		Vertices: []r3.Vector{
			{X: -s, Y: -s}, {X: s, Y: -s}, {X: s, Y: s}, {X: -s, Y: s},
		},
		Faces: [][]int{{0, 1, 2, 3}},
	}
	return &Object{Name: name, Type: TypeMesh, Matrix: geometry.Identity, Mesh: m}
}

// Wall returns a thin box standing on the xy-plane: length along x,
// thickness along y and height along z.
func Wall(name string, length, thickness, height float64) *Object {
	o := Box(name, length, thickness, height)
	o.Matrix = geometry.Translate(0, 0, height/2)
	return o
}

// UVSphere returns a sphere with the given number of segments around the
// z-axis and rings from pole to pole.
func UVSphere(name string, radius float64, segments, rings int) *Object {
	segments = max(segments, 3)
	rings = max(rings, 2)

	m := &Mesh{}
	m.Vertices = append(m.Vertices, r3.Vector{Z: -radius})
	for j := 1; j < rings; j++ {
		phi := math.Pi * float64(j) / float64(rings)
		z := -radius * math.Cos(phi)
		r := radius * math.Sin(phi)
		for i := 0; i < segments; i++ {
			theta := 2 * math.Pi * float64(i) / float64(segments)
			m.Vertices = append(m.Vertices, r3.Vector{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z})
		}
	}
	top := len(m.Vertices)
	m.Vertices = append(m.Vertices, r3.Vector{Z: radius})

	ring := func(j, i int) int { return 1 + (j-1)*segments + i%segments }
	for i := 0; i < segments; i++ {
		m.Faces = append(m.Faces, []int{0, ring(1, i+1), ring(1, i)})
	}
	for j := 1; j < rings-1; j++ {
		for i := 0; i < segments; i++ {
			m.Faces = append(m.Faces, []int{ring(j, i), ring(j, i+1), ring(j+1, i+1), ring(j+1, i)})
		}
	}
	for i := 0; i < segments; i++ {
		m.Faces = append(m.Faces, []int{ring(rings-1, i), ring(rings-1, i+1), top})
	}
	return &Object{Name: name, Type: TypeMesh, Matrix: geometry.Identity, Mesh: m}
}

// Polyline returns a curve object with a single spline.
func Polyline(name string, width float64, cyclic bool, pts ...r3.Vector) *Object {
	c := &Curve{
		Splines: []Spline{{Points: pts, Cyclic: cyclic}},
		Width:   width,
	}
	return &Object{Name: name, Type: TypeCurve, Matrix: geometry.Identity, Curve: c}
}

// CameraObject returns a camera object with the given world matrix.
func CameraObject(name string, m geometry.Matrix, cam *geometry.Camera) *Object {
	cam.Matrix = m
	return &Object{Name: name, Type: TypeCamera, Matrix: m, Camera: cam}
}

// Empty returns an empty which instances the collection c.
func Empty(name string, m geometry.Matrix, c *Collection) *Object {
	return &Object{Name: name, Type: TypeEmpty, Matrix: m, Instance: c}
}
