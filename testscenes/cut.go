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

var cutCases = []Case{
	{
		Name:   "thin_wall",
		Scene:  ThinWall,
		Names:  []string{CameraName},
		Width:  50,
		Height: 50,
	},
	{
		Name:   "floor_slab",
		Scene:  floorSlab,
		Names:  []string{CameraName},
		Width:  50,
		Height: 50,
	},
}

// ThinWall has a wall, seen edge-on, which straddles the near plane of
// the camera.
func ThinWall() *scene.Scene {
	w := scene.Box("Wall", 1, 0.01, 2)
	w.Matrix = geometry.Translate(0, -10, 0).Mul(geometry.RotateZ(math.Pi / 2))
	return build("thin_wall", w)
}

// floorSlab has a floor reaching from behind the camera to the origin,
// and a cube standing on it.
func floorSlab() *scene.Scene {
	f := scene.Box("Floor", 4, 12, 0.2)
	f.Matrix = geometry.Translate(0, -6, -2)
	return build("floor_slab", f, cubeAt("Box", 1, 0, -1, -1.4))
}
