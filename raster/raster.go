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

// Package raster computes the pixel coverage of filled and stroked outlines.
//
// The software renderer uses it to turn projected faces and curves into
// solid-colour pixels.  Coverage is computed exactly, by accumulating the
// signed area each edge contributes to the pixels it crosses, and then
// handed to a caller-supplied span function one row at a time.
package raster

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// SpanFunc receives the coverage of one pixel row.  coverage[i] is the
// fraction of pixel (x0+i, y) covered by the outline, in [0, 1].  The slice
// is only valid during the call.
type SpanFunc func(y, x0 int, coverage []float32)

// Rasterizer converts outlines into coverage spans.  The zero value is not
// usable; create instances with [NewRasterizer].  Internal buffers are
// reused between calls, so a single Rasterizer should be kept for many
// outlines.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps outline coordinates to pixel coordinates.
	CTM matrix.Matrix

	// Clip restricts the output to this pixel rectangle.
	// The coordinates must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in pixels, between a curve and
	// the polygon used to approximate it.
	Flatness float64

	// Width is the stroke width, in outline coordinates.
	Width float64

	// Cap is the shape used at the open ends of a stroke.
	Cap graphics.LineCapStyle

	// Join is the shape used where two stroke segments meet.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins, relative to the
	// stroke width.  Longer miters are drawn as bevels.
	MiterLimit float64

	// smallArea is the largest bounding box area, in pixels, which is
	// rasterized using a full two-dimensional accumulation buffer.
	smallArea int

	edges  []edge
	bounds edgeBounds

	cover   []float32
	area    []float32
	touched []bool
	active  []int

	segs    []segment
	runs    []run
	dots    []vec.Vec2
	outline []vec.Vec2
	polys   []int
}

// NewRasterizer returns a Rasterizer which writes to the given clip
// rectangle.  Stroke parameters are set to a one pixel wide line with
// round caps and round joins.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1,
		Cap:        graphics.LineCapRound,
		Join:       graphics.LineJoinRound,
		MiterLimit: defaultMiterLimit,
		smallArea:  smallAreaLimit,
	}
}

// Fill computes the coverage of the region enclosed by p, using the nonzero
// winding rule.  Open subpaths are closed implicitly.
func (r *Rasterizer) Fill(p *path.Data, emit SpanFunc) {
	r.resetEdges()

	var cur, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if cur != start {
				r.addEdge(cur, start)
			}
			cur = p.Coords[k]
			start = cur
			k++
		case path.CmdLineTo:
			r.addEdge(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuad(cur, p.Coords[k], p.Coords[k+1], r.addEdge)
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCube(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2], r.addEdge)
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if cur != start {
				r.addEdge(cur, start)
			}
			cur = start
		}
	}
	if cur != start {
		r.addEdge(cur, start)
	}

	r.rasterize(emit)
}

// Solid returns a span function which calls set for every pixel covered at
// least half.  This gives aliasing-free output where every pixel either
// belongs to an outline or does not.
func Solid(set func(x, y int)) SpanFunc {
	return func(y, x0 int, coverage []float32) {
		for i, c := range coverage {
			if c >= 0.5 {
				set(x0+i, y)
			}
		}
	}
}

// edge is a non-horizontal line segment in pixel coordinates, stored with
// y0 < y1.
type edge struct {
	x0, y0 float64
	x1, y1 float64

	// slope is dx/dy.
	slope float64

	// dir is +1 if the original segment pointed downwards (increasing y)
	// and -1 otherwise.
	dir float32
}

// xAt returns the x coordinate of the line through e at height y.
func (e *edge) xAt(y float64) float64 {
	return e.x0 + e.slope*(y-e.y0)
}

type edgeBounds struct {
	empty                  bool
	xMin, xMax, yMin, yMax float64
}

func (b *edgeBounds) add(x0, y0, x1, y1 float64) {
	if b.empty {
		b.xMin, b.xMax = min(x0, x1), max(x0, x1)
		b.yMin, b.yMax = y0, y1
		b.empty = false
		return
	}
	b.xMin = min(b.xMin, x0, x1)
	b.xMax = max(b.xMax, x0, x1)
	b.yMin = min(b.yMin, y0)
	b.yMax = max(b.yMax, y1)
}

func (r *Rasterizer) resetEdges() {
	r.edges = r.edges[:0]
	r.bounds = edgeBounds{empty: true}
}

// toDevice maps a point from outline coordinates to pixel coordinates.
func (r *Rasterizer) toDevice(p vec.Vec2) (float64, float64) {
	m := r.CTM
	return m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]
}

// deviceLength returns the length of v after applying the linear part of
// the CTM.
func (r *Rasterizer) deviceLength(v vec.Vec2) float64 {
	m := r.CTM
	return math.Hypot(m[0]*v.X+m[2]*v.Y, m[1]*v.X+m[3]*v.Y)
}

// addEdge appends the segment a→b, given in outline coordinates.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	x0, y0 := r.toDevice(a)
	x1, y1 := r.toDevice(b)
	dir := float32(1)
	if y1 < y0 {
		x0, y0, x1, y1 = x1, y1, x0, y0
		dir = -1
	}
	if y1-y0 < horizontalLimit {
		return
	}
	r.edges = append(r.edges, edge{
		x0: x0, y0: y0,
		x1: x1, y1: y1,
		slope: (x1 - x0) / (y1 - y0),
		dir:   dir,
	})
	r.bounds.add(x0, y0, x1, y1)
}

// pixelBounds returns the pixel rectangle touched by the current edges,
// restricted to the clip rectangle.
func (r *Rasterizer) pixelBounds() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	xMin = max(int(math.Floor(r.bounds.xMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bounds.xMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.bounds.yMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.bounds.yMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// rasterize converts the collected edges into coverage spans.
func (r *Rasterizer) rasterize(emit SpanFunc) {
	xMin, xMax, yMin, yMax, ok := r.pixelBounds()
	if !ok {
		return
	}
	if (xMax-xMin)*(yMax-yMin) < r.smallArea {
		r.rasterizeSmall(xMin, xMax, yMin, yMax, emit)
	} else {
		r.rasterizeLarge(xMin, xMax, yMin, yMax, emit)
	}
}

// flattenQuad approximates the quadratic Bézier curve p0, p1, p2 by line
// segments.
func (r *Rasterizer) flattenQuad(p0, p1, p2 vec.Vec2, line func(a, b vec.Vec2)) {
	dev := r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		line(prev, q)
		prev = q
	}
}

// flattenCube approximates the cubic Bézier curve p0, p1, p2, p3 by line
// segments.  The number of segments follows Wang's formula.
func (r *Rasterizer) flattenCube(p0, p1, p2, p3 vec.Vec2, line func(a, b vec.Vec2)) {
	dev := max(
		r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2)),
		r.deviceLength(p1.Sub(p2.Mul(2)).Add(p3)),
	)
	n := 1
	if f := math.Sqrt(3 * dev / (4 * r.Flatness)); f > 1 {
		n = int(math.Ceil(f))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		line(prev, q)
		prev = q
	}
}

const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF and PostScript.
	defaultMiterLimit = 10.0

	// smallAreaLimit is the default value of Rasterizer.smallArea.
	smallAreaLimit = 65536

	// horizontalLimit is the smallest vertical extent of an edge which
	// still contributes to coverage.
	horizontalLimit = 1e-10
)
