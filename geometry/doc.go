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

// Package geometry implements the stateless geometric predicates used to
// classify scene objects relative to a camera.
//
// All image-plane computations use camera-normalized coordinates, where
// the visible frame is the unit square [0,1]×[0,1] with the origin in the
// bottom-left corner, and the third coordinate is the distance from the
// camera.  The near clipping plane of the camera acts as the cutting
// plane of a drawing.
package geometry
