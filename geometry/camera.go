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

package geometry

import (
	"errors"

	"github.com/golang/geo/r3"
)

// Camera describes the view through which a drawing is made.
//
// In its local coordinate system the camera sits at the origin, looks
// along -Z and has +Y pointing up.  Camera-normalized coordinates map the
// visible frame to [0,1]×[0,1] with the origin in the bottom-left corner;
// the third component is the distance from the camera along the view
// direction.
type Camera struct {
	// Matrix maps camera-local coordinates to world coordinates.
	Matrix Matrix

	// Ortho selects an orthographic projection.
	Ortho bool

	// OrthoScale is the extent of the larger frame side, in scene units.
	// Only used for orthographic cameras.
	OrthoScale float64

	// Lens is the focal length in millimetres (perspective cameras).
	Lens float64

	// SensorWidth is the sensor size in millimetres (perspective cameras).
	// Zero means 36mm.
	SensorWidth float64

	// ClipStart is the distance of the near plane.  The near plane is the
	// cutting plane of the drawing.
	ClipStart float64

	// ClipEnd is the distance of the far plane.
	ClipEnd float64

	// ResX and ResY give the aspect ratio of the frame.
	// Zero values mean a square frame.
	ResX, ResY int

	// Mirrored marks a camera whose view is mirrored, as used for drawings
	// of the back side of a cut.
	Mirrored bool

	inv    Matrix
	hasInv bool
}

// ErrSingularCamera is returned by [Camera.Prepare] if the camera matrix
// cannot be inverted.
var ErrSingularCamera = errors.New("camera matrix is singular")

// Prepare precomputes the world-to-camera transformation.
// It must be called after the camera matrix has been changed.
func (c *Camera) Prepare() error {
	inv, ok := c.Matrix.Inverse()
	if !ok {
		return ErrSingularCamera
	}
	c.inv = inv
	c.hasInv = true
	return nil
}

func (c *Camera) worldToLocal() Matrix {
	if !c.hasInv {
		inv, ok := c.Matrix.Inverse()
		if !ok {
			return Identity
		}
		return inv
	}
	return c.inv
}

// Aspect returns the frame width divided by the frame height.
func (c *Camera) Aspect() float64 {
	if c.ResX <= 0 || c.ResY <= 0 {
		return 1
	}
	return float64(c.ResX) / float64(c.ResY)
}

// halfExtent returns half the frame width and height at the given depth.
func (c *Camera) halfExtent(depth float64) (hw, hh float64) {
	var s float64
	if c.Ortho {
		s = c.OrthoScale / 2
	} else {
		sensor := c.SensorWidth
		if sensor <= 0 {
			sensor = 36
		}
		lens := c.Lens
		if lens <= 0 {
			lens = 50
		}
		if depth > -minDepth && depth < minDepth {
			if depth < 0 {
				depth = -minDepth
			} else {
				depth = minDepth
			}
		}
		s = sensor / (2 * lens) * depth
	}

	// the frame is fitted to the larger side
	aspect := c.Aspect()
	if aspect >= 1 {
		return s, s / aspect
	}
	return s * aspect, s
}

// Project maps a world-space point to camera-normalized coordinates.
func (c *Camera) Project(world r3.Vector) r3.Vector {
	local := c.worldToLocal().Apply(world)
	z := -local.Z
	hw, hh := c.halfExtent(z)
	return r3.Vector{
		X: (local.X + hw) / (2 * hw),
		Y: (local.Y + hh) / (2 * hh),
		Z: z,
	}
}

// Location returns the position of the camera in world space.
func (c *Camera) Location() r3.Vector {
	return c.Matrix.Apply(r3.Vector{})
}

// Direction returns the unit view direction in world space.
// This is also the normal of the near plane.
func (c *Camera) Direction() r3.Vector {
	return c.Matrix.ApplyDir(r3.Vector{Z: -1}).Normalize()
}

// NearQuad returns the corners of the visible part of the near plane in
// world space, ordered bottom-left, bottom-right, top-right, top-left.
func (c *Camera) NearQuad() [4]r3.Vector {
	d := c.ClipStart
	hw, hh := c.halfExtent(d)
	return [4]r3.Vector{
		c.Matrix.Apply(r3.Vector{X: -hw, Y: -hh, Z: -d}),
		c.Matrix.Apply(r3.Vector{X: hw, Y: -hh, Z: -d}),
		c.Matrix.Apply(r3.Vector{X: hw, Y: hh, Z: -d}),
		c.Matrix.Apply(r3.Vector{X: -hw, Y: hh, Z: -d}),
	}
}

// Frame returns the bottom-left corner of the near plane together with
// the two edge vectors spanning it, so that origin + u·fx + v·fy is the
// near-plane point for camera-normalized coordinates (u, v).
func (c *Camera) Frame() (origin, fx, fy r3.Vector) {
	q := c.NearQuad()
	return q[0], q[1].Sub(q[0]), q[3].Sub(q[0])
}

// RayAt returns the ray used to probe the scene at camera-normalized
// coordinates (u, v).  Rays start on the near plane.  For orthographic
// cameras all rays are parallel to the view direction, for perspective
// cameras they point away from the eye.
func (c *Camera) RayAt(u, v float64) (origin, dir r3.Vector) {
	o, fx, fy := c.Frame()
	origin = o.Add(fx.Mul(u)).Add(fy.Mul(v))
	if c.Ortho {
		return origin, c.Direction()
	}
	return origin, origin.Sub(c.Location()).Normalize()
}

// minDepth avoids division by zero for points in the eye plane of a
// perspective camera.
const minDepth = 1e-9
