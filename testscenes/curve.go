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
	"seehuhn.de/go/viewcut/scene"
)

var curveCases = []Case{
	{
		Name:   "rail",
		Scene:  rail,
		Names:  []string{CameraName, "Rail"},
		Width:  50,
		Height: 50,
	},
}

// rail has a polyline passing below a cube.
func rail() *scene.Scene {
	return build("rail",
		scene.Polyline("Rail", 0.2, false, pt(-2, 0, -1), pt(0, 0, -1.5), pt(2, 0, -1)),
		scene.Cube("Post", 1))
}
