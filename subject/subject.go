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

// Package subject holds the drawing subjects of one invocation: one per
// framed instance, each with a unique color used to recognise it in flat
// renders, and the pixels it was found to cover.
package subject

import (
	"image/color"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/scene"
)

// Subject is a drawable unit derived from one instance.
type Subject struct {
	ID       int
	Instance *scene.Instance

	// Mesh and Curve are private copies of the object geometry.  At most
	// one of them is set.
	Mesh  *scene.Mesh
	Curve *scene.Curve

	// Box is the bounding box in camera-normalized coordinates.
	Box geometry.BoundBox

	// Rect is the bounding rectangle in the image plane, widened to the
	// scan grid.  It is set by [Registry.ComputeRects].
	Rect r2.Rect

	// Color identifies the subject in flat renders.
	Color color.NRGBA

	// Pixels holds the pixels, at drawing resolution, where the subject
	// is visible.
	Pixels PixelSet

	InFront bool
	Behind  bool

	Styles Styles

	// Previous holds the pixel ranges stored for this instance by an
	// earlier invocation, if any.
	Previous []Range

	Selected bool

	Collections []scene.Membership
}

// IsCut reports whether the subject crosses the cutting plane.
func (s *Subject) IsCut() bool {
	return s.InFront && s.Behind
}

// Key returns the key of the underlying instance.
func (s *Subject) Key() scene.Key {
	return s.Instance.Key()
}

// Name returns the name of the underlying object.
func (s *Subject) Name() string {
	return s.Instance.Object.Name
}

func (s *Subject) String() string {
	return s.Instance.String()
}

// Edges returns the edges of the subject geometry in object coordinates.
func (s *Subject) Edges() [][2]r3.Vector {
	switch {
	case s.Mesh != nil:
		idx := s.Mesh.Edges()
		res := make([][2]r3.Vector, len(idx))
		for i, e := range idx {
			res[i] = [2]r3.Vector{s.Mesh.Vertices[e[0]], s.Mesh.Vertices[e[1]]}
		}
		return res
	case s.Curve != nil:
		return s.Curve.Edges()
	}
	return nil
}

// CrossesCut reports whether the geometry of the subject intersects the
// near plane of cam inside the camera frame.
func (s *Subject) CrossesCut(cam *geometry.Camera) bool {
	return geometry.IsCut(s.Edges(), s.Instance.Matrix, cam.NearQuad(), cam.Direction())
}
