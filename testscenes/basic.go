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

var basicCases = []Case{
	{
		Name:   "two_cubes",
		Scene:  TwoCubes,
		Names:  []string{CameraName},
		Width:  50,
		Height: 50,
	},
	{
		Name:   "two_cubes_selected",
		Scene:  TwoCubes,
		Names:  []string{CameraName, "A", "B"},
		Width:  50,
		Height: 50,
	},
	{
		Name:   "off_frame",
		Scene:  OffFrame,
		Names:  []string{CameraName},
		Width:  50,
		Height: 50,
	},
	{
		Name:   "hidden_collection",
		Scene:  hiddenCollection,
		Names:  []string{CameraName},
		Width:  40,
		Height: 40,
	},
	{
		Name:   "perspective",
		Scene:  perspective,
		Names:  []string{CameraName, "Near"},
		Width:  60,
		Height: 40,
	},
	{
		Name:    "draw_all",
		Scene:   occluded,
		Names:   []string{CameraName},
		Width:   50,
		Height:  50,
		DrawAll: true,
	},
}

// TwoCubes has unit cubes A at the origin and B at (2, 0, 0).
func TwoCubes() *scene.Scene {
	return build("two_cubes",
		scene.Cube("A", 1),
		cubeAt("B", 1, 2, 0, 0))
}

// OffFrame has a unit cube A at the origin, a cube C far outside the
// camera frame and a small cube D inside the frame, next to A.
func OffFrame() *scene.Scene {
	return build("off_frame",
		scene.Cube("A", 1),
		cubeAt("C", 1, 10, 0, 0),
		cubeAt("D", 0.5, 1.5, 0, 0))
}

func hiddenCollection() *scene.Scene {
	s := build("hidden_collection", scene.Cube("A", 1))
	s.Root.Children = append(s.Root.Children, &scene.Collection{
		Name:    "Archive",
		Hidden:  true,
		Objects: []*scene.Object{cubeAt("Ghost", 1, 1.5, 0, 0)},
	})
	return s
}

func perspective() *scene.Scene {
	s := scene.New("perspective")
	cam := PerspectiveCamera()
	cam.Camera.ResX, cam.Camera.ResY = 3, 2
	s.Add(cam,
		cubeAt("Near", 1, -1, -2, 0),
		cubeAt("Far", 2, 1, 5, 0))
	s.Camera = cam
	return s
}

// occluded has a small cube hidden completely behind a large one.
func occluded() *scene.Scene {
	return build("occluded",
		cubeAt("Front", 2, 0, -2, 0),
		cubeAt("Back", 0.5, 0, 2, 0))
}
