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
	"fmt"

	"seehuhn.de/go/viewcut/scene"
)

var spectrumCases = []Case{
	{
		Name:   "grid_28",
		Scene:  func() *scene.Scene { return CubeGrid(7, 4) },
		Names:  []string{CameraName},
		Width:  50,
		Height: 50,
	},
	{
		Name:   "grid_125",
		Scene:  func() *scene.Scene { return CubeGrid(25, 5) },
		Names:  []string{CameraName},
		Width:  100,
		Height: 100,
	},
}

// CubeGrid places cols×rows small cubes side by side in front of the
// camera, none of them hiding another.  The cubes are named "C<col>_<row>".
func CubeGrid(cols, rows int) *scene.Scene {
	dx := 4.8 / float64(cols)
	dz := 4.0 / float64(rows)
	size := min(dx, dz) / 2
	var objs []*scene.Object
	for j := range rows {
		for i := range cols {
			x := -2.4 + dx*(float64(i)+0.5)
			z := -2 + dz*(float64(j)+0.5)
			objs = append(objs, cubeAt(fmt.Sprintf("C%d_%d", i, j), size, x, 0, z))
		}
	}
	return build(fmt.Sprintf("grid_%d", cols*rows), objs...)
}
