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


// Package testscenes holds the scenes used to test viewcut.
package testscenes

import (
	"math"

	"github.com/golang/geo/r3"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/scene"
)

// Case is one test scene together with the arguments of an invocation.
type Case struct {
	Name    string              // lowercase a-z, 0-9 and _ only
	Scene   func() *scene.Scene // builds a fresh copy of the scene
	Names   []string            // named objects, including the camera
	Width   int                 // drawing width in pixels
	Height  int                 // drawing height in pixels
	DrawAll bool                // keep invisible objects
}

// CameraName is the name of the camera object in all test scenes.
const CameraName = "Camera"

// FrontCamera returns a camera object looking along +y from (0, -10, 0),
// with +z pointing up.  The orthographic frame is 5 units wide, so that
// scene coordinates map to the frame as u = (x+2.5)/5 and v = (z+2.5)/5,
// at distance y+10.
func FrontCamera() *scene.Object {
	cam := &geometry.Camera{
		Ortho:      true,
		OrthoScale: 5,
		ClipStart:  0.1,
		ClipEnd:    100,
	}
	m := geometry.Translate(0, -10, 0).Mul(geometry.RotateX(math.Pi / 2))
	return scene.CameraObject(CameraName, m, cam)
}

// PerspectiveCamera returns a perspective camera at the position of
// [FrontCamera], with a 50mm lens.
func PerspectiveCamera() *scene.Object {
	cam := &geometry.Camera{
		Lens:      50,
		ClipStart: 0.1,
		ClipEnd:   100,
	}
	m := geometry.Translate(0, -10, 0).Mul(geometry.RotateX(math.Pi / 2))
	return scene.CameraObject(CameraName, m, cam)
}

// build returns a scene with the front camera and the given objects.
func build(name string, objs ...*scene.Object) *scene.Scene {
	s := scene.New(name)
	cam := FrontCamera()
	s.Add(cam)
	s.Add(objs...)
	s.Camera = cam
	return s
}

func cubeAt(name string, size, x, y, z float64) *scene.Object {
	o := scene.Cube(name, size)
	o.Matrix = geometry.Translate(x, y, z)
	return o
}

func pt(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}
