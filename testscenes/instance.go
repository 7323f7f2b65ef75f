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
	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/scene"
)

var instanceCases = []Case{
	{
		Name:   "chairs",
		Scene:  Chairs,
		Names:  []string{CameraName, "E1"},
		Width:  50,
		Height: 50,
	},
}

// Chairs has two empties E1 and E2 instancing a linked collection with a
// single chair.  The collection itself is not part of the scene.
func Chairs() *scene.Scene {
	chairs := &scene.Collection{
		Name:    "Chairs",
		Library: "//furniture.blend",
		Objects: []*scene.Object{scene.Cube("Chair", 0.8)},
	}
	return build("chairs",
		scene.Empty("E1", geometry.Translate(-1, 0, 0), chairs),
		scene.Empty("E2", geometry.Translate(1, 0, 0), chairs))
}
