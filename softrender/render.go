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

package softrender

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/golang/geo/r3"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/raster"
	"seehuhn.de/go/viewcut/subject"
)

// primitive is a face or a curve, ready to be painted.
type primitive struct {
	depth float64
	color color.NRGBA

	// face is in camera-normalized coordinates, curve in pixels
	face  *path.Data
	curve *path.Data
	width float64
}

// Render implements [orchestrate.WorkingScene].
func (ws *workingScene) Render(ctx context.Context, width, height int) (image.Image, error) {
	if ws.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render size %dx%d", width, height)
	}

	v := newView(ws.host.Camera, width, height)
	var prims []primitive
	for _, s := range ws.items {
		switch {
		case s.Mesh != nil:
			prims = v.appendFaces(prims, s)
		case s.Curve != nil:
			prims = v.appendCurves(prims, s)
		}
	}
	// far to near; equal depths keep the link order
	slices.SortStableFunc(prims, func(a, b primitive) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	r := raster.NewRasterizer(rect.Rect{URx: float64(width), URy: float64(height)})
	for _, p := range prims {
		col := p.color
		emit := raster.Solid(func(x, y int) {
			img.SetNRGBA(x, y, col)
		})
		if p.face != nil {
			r.CTM = v.toPixels
			r.Fill(p.face, emit)
		} else {
			r.CTM = matrix.Identity
			r.Width = p.width
			r.Stroke(p.curve, emit)
		}
	}
	diag.Logger().Debug("scene rendered",
		"scene", ws.name, "width", width, "height", height, "primitives", len(prims))

	if ws.host.DumpDir != "" {
		if err := ws.dump(img); err != nil {
			diag.Logger().Warn("cannot write render dump", "scene", ws.name, "error", err)
		}
	}
	return img, nil
}

func (ws *workingScene) dump(img *image.NRGBA) error {
	if err := os.MkdirAll(ws.host.DumpDir, 0o755); err != nil {
		return err
	}
	b := img.Bounds()
	name := fmt.Sprintf("%s-%dx%d.png", strings.ReplaceAll(ws.name, " ", "-"), b.Dx(), b.Dy())
	fd, err := os.Create(filepath.Join(ws.host.DumpDir, name))
	if err != nil {
		return err
	}
	err = png.Encode(fd, img)
	if err2 := fd.Close(); err == nil {
		err = err2
	}
	return err
}

// view holds the camera data needed to project geometry into a render.
type view struct {
	cam *geometry.Camera
	eye r3.Vector
	dir r3.Vector

	near, far float64

	// toPixels maps camera-normalized coordinates to pixel coordinates,
	// with y pointing down.
	toPixels matrix.Matrix

	frameWidth float64
	width      float64
}

func newView(cam *geometry.Camera, width, height int) *view {
	_, fx, _ := cam.Frame()
	return &view{
		cam:        cam,
		eye:        cam.Location(),
		dir:        cam.Direction(),
		near:       cam.ClipStart,
		far:        cam.ClipEnd,
		toPixels:   matrix.Matrix{float64(width), 0, 0, -float64(height), 0, float64(height)},
		frameWidth: fx.Norm(),
		width:      float64(width),
	}
}

// depth returns the distance of p from the camera along the view direction.
func (v *view) depth(p r3.Vector) float64 {
	return p.Sub(v.eye).Dot(v.dir)
}

// clipPolygon removes the parts of a world-space polygon outside the
// depth range of the camera.
func (v *view) clipPolygon(pts []r3.Vector) []r3.Vector {
	pts = clipHalfSpace(pts, func(p r3.Vector) float64 { return v.depth(p) - v.near })
	if v.far > v.near {
		pts = clipHalfSpace(pts, func(p r3.Vector) float64 { return v.far - v.depth(p) })
	}
	return pts
}

// clipHalfSpace keeps the part of a polygon where dist is non-negative.
func clipHalfSpace(pts []r3.Vector, dist func(r3.Vector) float64) []r3.Vector {
	if len(pts) == 0 {
		return nil
	}
	var res []r3.Vector
	prev := pts[len(pts)-1]
	dPrev := dist(prev)
	for _, cur := range pts {
		dCur := dist(cur)
		if (dCur >= 0) != (dPrev >= 0) {
			t := dPrev / (dPrev - dCur)
			res = append(res, prev.Add(cur.Sub(prev).Mul(t)))
		}
		if dCur >= 0 {
			res = append(res, cur)
		}
		prev, dPrev = cur, dCur
	}
	return res
}

func (v *view) appendFaces(prims []primitive, s *subject.Subject) []primitive {
	m := s.Instance.Matrix
	world := make([]r3.Vector, len(s.Mesh.Vertices))
	for i, p := range s.Mesh.Vertices {
		world[i] = m.Apply(p)
	}

	for _, f := range s.Mesh.Faces {
		if len(f) < 3 {
			continue
		}
		pts := make([]r3.Vector, len(f))
		for i, idx := range f {
			pts[i] = world[idx]
		}
		pts = v.clipPolygon(pts)
		if len(pts) < 3 {
			continue
		}

		p := &path.Data{}
		var sum float64
		for i, w := range pts {
			q := v.cam.Project(w)
			sum += q.Z
			if i == 0 {
				p.MoveTo(vec.Vec2{X: q.X, Y: q.Y})
			} else {
				p.LineTo(vec.Vec2{X: q.X, Y: q.Y})
			}
		}
		p.Close()
		prims = append(prims, primitive{
			depth: sum / float64(len(pts)),
			color: s.Color,
			face:  p,
		})
	}
	return prims
}

func (v *view) appendCurves(prims []primitive, s *subject.Subject) []primitive {
	m := s.Instance.Matrix
	for _, sp := range s.Curve.Splines {
		n := len(sp.Points)
		if n < 2 {
			continue
		}
		segs := n - 1
		if sp.Cyclic && n > 2 {
			segs = n
		}

		p := &path.Data{}
		var sum float64
		var count int
		var last vec.Vec2
		connected := false
		allInside := true
		for i := range segs {
			a := m.Apply(sp.Points[i])
			b := m.Apply(sp.Points[(i+1)%n])
			a1, b1, ok := v.clipSegment(a, b)
			if !ok {
				connected = false
				allInside = false
				continue
			}
			if a1 != a || b1 != b {
				allInside = false
			}
			pa, pb := v.pixel(a1), v.pixel(b1)
			if !connected || pa != last {
				p.MoveTo(pa)
			}
			p.LineTo(pb)
			last = pb
			connected = b1 == b
			sum += v.depth(a1) + v.depth(b1)
			count += 2
		}
		if count == 0 {
			continue
		}
		depth := sum / float64(count)
		if sp.Cyclic && n > 2 && allInside {
			p.Close()
		}
		prims = append(prims, primitive{
			depth: depth,
			color: s.Color,
			curve: p,
			width: v.pixelWidth(s.Curve.Width, depth),
		})
	}
	return prims
}

// clipSegment clips a world-space segment to the depth range of the
// camera.
func (v *view) clipSegment(a, b r3.Vector) (r3.Vector, r3.Vector, bool) {
	clip := func(a, b r3.Vector, da, db float64) (r3.Vector, r3.Vector, bool) {
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			a = a.Add(b.Sub(a).Mul(da / (da - db)))
		case db < 0:
			b = a.Add(b.Sub(a).Mul(da / (da - db)))
		}
		return a, b, true
	}
	a, b, ok := clip(a, b, v.depth(a)-v.near, v.depth(b)-v.near)
	if !ok || v.far <= v.near {
		return a, b, ok
	}
	return clip(a, b, v.far-v.depth(a), v.far-v.depth(b))
}

// pixel projects a world-space point to pixel coordinates.
func (v *view) pixel(p r3.Vector) vec.Vec2 {
	q := v.cam.Project(p)
	m := v.toPixels
	return vec.Vec2{X: m[0]*q.X + m[2]*q.Y + m[4], Y: m[1]*q.X + m[3]*q.Y + m[5]}
}

// pixelWidth converts a line width in scene units, at the given depth, to
// pixels.
func (v *view) pixelWidth(w, depth float64) float64 {
	fw := v.frameWidth
	if !v.cam.Ortho && v.near > 0 {
		fw *= depth / v.near
	}
	if fw <= 0 {
		return 1
	}
	return max(w*v.width/fw, 1)
}
