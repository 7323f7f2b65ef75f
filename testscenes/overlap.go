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


package testscenes

import (
	"math"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/scene"
)

var overlapCases = []Case{
	{
		Name:   "sphere_behind_cube",
		Scene:  SphereBehindCube,
		Names:  []string{CameraName},
		Width:  50,
		Height: 50,
	},
	{
		Name:   "depth_stack",
		Scene:  depthStack,
		Names:  []string{CameraName, "Middle"},
		Width:  50,
		Height: 50,
	},
}

// SphereBehindCube has a sphere A of radius 1 at the origin, partly hidden
// by a cube B turned by 45 degrees about the view direction, so that the
// bounding rectangle of B contains the one of A.
func SphereBehindCube() *scene.Scene {
	b := scene.Cube("B", 1.6)
	b.Matrix = geometry.Translate(0, -3, 0).Mul(geometry.RotateY(math.Pi / 4))
	return build("sphere_behind_cube",
		scene.UVSphere("A", 1, 16, 8),
		b)
}

func depthStack() *scene.Scene {
	return build("depth_stack",
		cubeAt("Front", 1, -0.4, -3, 0),
		cubeAt("Middle", 1, 0, 0, 0.3),
		cubeAt("Back", 1, 0.4, 3, -0.3))
}
