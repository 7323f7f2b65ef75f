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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// segment is a flattened piece of a stroked path, in outline coordinates.
type segment struct {
	A, B vec.Vec2

	// T is the unit tangent from A to B, N is T rotated by 90°
	// counter-clockwise.
	T, N vec.Vec2
}

// run is a maximal sequence of connected segments.
type run struct {
	start  int // index into Rasterizer.segs
	closed bool
}

// Stroke computes the coverage of the stroked path p, using the Width, Cap,
// Join and MiterLimit fields.
//
// The outline of every subpath is built as a polygon and all polygons are
// filled together with the nonzero winding rule, so that overlapping parts
// of the stroke are covered only once.
func (r *Rasterizer) Stroke(p *path.Data, emit SpanFunc) {
	r.flattenStroke(p)
	if len(r.runs) == 0 && len(r.dots) == 0 {
		return
	}

	r.outline = r.outline[:0]
	r.polys = r.polys[:0]

	// Subpaths without extent have no direction.  Only round caps can
	// be drawn for these.
	if r.Cap == graphics.LineCapRound {
		for _, c := range r.dots {
			r.polys = append(r.polys, len(r.outline))
			r.addArc(c, r.Width/2, vec.Vec2{X: 1}, 2*math.Pi, true)
		}
	}

	d := r.Width / 2
	for i, rn := range r.runs {
		end := len(r.segs)
		if i+1 < len(r.runs) {
			end = r.runs[i+1].start
		}
		segs := r.segs[rn.start:end]

		start := len(r.outline)
		if rn.closed {
			r.closedOutline(segs, d)
		} else {
			r.openOutline(segs, d)
		}
		if len(r.outline)-start < 3 {
			r.outline = r.outline[:start]
			continue
		}
		r.polys = append(r.polys, start)
	}

	r.resetEdges()
	for i, start := range r.polys {
		end := len(r.outline)
		if i+1 < len(r.polys) {
			end = r.polys[i+1]
		}
		poly := r.outline[start:end]
		for j := range poly {
			r.addEdge(poly[j], poly[(j+1)%len(poly)])
		}
	}
	r.rasterize(emit)
}

// flattenStroke splits p into runs of line segments.  Curves are
// flattened and zero-length segments are dropped.  Subpaths which consist
// of a single point are collected in r.dots.
func (r *Rasterizer) flattenStroke(p *path.Data) {
	r.segs = r.segs[:0]
	r.runs = r.runs[:0]
	r.dots = r.dots[:0]

	var cur, start vec.Vec2
	first := 0
	open := false
	drawn := false

	finish := func(closed bool) {
		if !open || !(drawn || closed) {
			return
		}
		if len(r.segs) == first {
			r.dots = append(r.dots, start)
		} else {
			r.runs = append(r.runs, run{start: first, closed: closed})
		}
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			cur = p.Coords[k]
			start = cur
			first = len(r.segs)
			open = true
			drawn = false
			k++
		case path.CmdLineTo:
			if open {
				r.addSegment(cur, p.Coords[k])
				cur = p.Coords[k]
				drawn = true
			}
			k++
		case path.CmdQuadTo:
			if open {
				r.flattenQuad(cur, p.Coords[k], p.Coords[k+1], r.addSegment)
				cur = p.Coords[k+1]
				drawn = true
			}
			k += 2
		case path.CmdCubeTo:
			if open {
				r.flattenCube(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2], r.addSegment)
				cur = p.Coords[k+2]
				drawn = true
			}
			k += 3
		case path.CmdClose:
			if open {
				if cur != start {
					r.addSegment(cur, start)
				}
				finish(true)
				cur = start
				first = len(r.segs)
				open = false
				drawn = false
			}
		}
	}
	finish(false)
}

func (r *Rasterizer) addSegment(a, b vec.Vec2) {
	v := b.Sub(a)
	l := v.Length()
	if l < zeroLength {
		return
	}
	t := v.Mul(1 / l)
	r.segs = append(r.segs, segment{A: a, B: b, T: t, N: normal(t)})
}

// normal returns t rotated by 90° counter-clockwise.
func normal(t vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -t.Y, Y: t.X}
}

func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// openOutline appends the outline of an open run: the start cap, the +N
// side forwards, the end cap and the -N side backwards.
func (r *Rasterizer) openOutline(segs []segment, d float64) {
	first := &segs[0]
	last := &segs[len(segs)-1]

	r.addCap(first.A, first.T.Mul(-1), d)
	r.outline = append(r.outline, first.A.Add(first.N.Mul(d)))
	for i := 0; i+1 < len(segs); i++ {
		r.addCorner(segs[i].B, segs[i].T, segs[i+1].T, d, true)
	}
	r.outline = append(r.outline, last.B.Add(last.N.Mul(d)))

	r.addCap(last.B, last.T, d)
	r.outline = append(r.outline, last.B.Sub(last.N.Mul(d)))
	for i := len(segs) - 1; i > 0; i-- {
		r.addCorner(segs[i].A, segs[i-1].T, segs[i].T, d, false)
	}
	r.outline = append(r.outline, first.A.Sub(first.N.Mul(d)))
}

// closedOutline appends the outline of a closed run.  Both sides are
// joined into one polygon; the two connecting edges at the start point
// cancel each other.
func (r *Rasterizer) closedOutline(segs []segment, d float64) {
	first := &segs[0]
	last := &segs[len(segs)-1]

	r.outline = append(r.outline, first.A.Add(first.N.Mul(d)))
	for i := range segs {
		next := &segs[(i+1)%len(segs)]
		r.addCorner(segs[i].B, segs[i].T, next.T, d, true)
	}

	r.addCorner(first.A, last.T, first.T, d, false)
	for i := len(segs) - 1; i > 0; i-- {
		r.addCorner(segs[i].A, segs[i-1].T, segs[i].T, d, false)
	}
	r.outline = append(r.outline, first.A.Sub(first.N.Mul(d)))
}

// addCorner appends the outline points on one side of the corner at p,
// where the path turns from tangent t1 to tangent t2.  On the +N side the
// points are appended in path direction, on the -N side in reverse.
func (r *Rasterizer) addCorner(p, t1, t2 vec.Vec2, d float64, plusN bool) {
	s := d
	if !plusN {
		s = -d
	}
	a := p.Add(normal(t1).Mul(s))
	b := p.Add(normal(t2).Mul(s))
	if !plusN {
		a, b = b, a
	}

	sin := cross(t1, t2)
	switch {
	case math.Abs(sin) < collinearLimit:
		r.outline = append(r.outline, a, b)
	case (sin < 0) == plusN:
		// outer side of the turn
		r.outline = append(r.outline, a)
		r.addJoin(p, t1, t2, d, plusN)
		r.outline = append(r.outline, b)
	default:
		if q, ok := innerPoint(p, t1, t2, d, plusN); ok {
			r.outline = append(r.outline, q)
		} else {
			r.outline = append(r.outline, a, b)
		}
	}
}

// innerPoint returns the point where the two offset lines on the inner
// side of a corner meet.
func innerPoint(p, t1, t2 vec.Vec2, d float64, plusN bool) (vec.Vec2, bool) {
	cos := t1.Dot(t2)
	if cos > 1-1e-9 {
		return vec.Vec2{}, false
	}
	half := math.Sqrt((1 + cos) / 2) // cos(θ/2)
	if half < 1e-9 {
		return vec.Vec2{}, false
	}

	dir := normal(t1).Add(normal(t2))
	if !plusN {
		dir = dir.Mul(-1)
	}
	l := dir.Length()
	if l < 1e-9 {
		return vec.Vec2{}, false
	}
	return p.Add(dir.Mul(d / (half * l))), true
}

// addCap appends the cap at the end point p of a run.  t is the unit
// direction pointing away from the run.
func (r *Rasterizer) addCap(p, t vec.Vec2, d float64) {
	n := normal(t)
	switch r.Cap {
	case graphics.LineCapSquare:
		ext := p.Add(t.Mul(d))
		r.outline = append(r.outline, ext.Add(n.Mul(d)), ext.Sub(n.Mul(d)))
	case graphics.LineCapRound:
		r.addArc(p, d, n, -math.Pi, true)
	}
	// butt caps need no extra points
}

// addJoin appends the join geometry on the outer side of a corner at p.
func (r *Rasterizer) addJoin(p, t1, t2 vec.Vec2, d float64, plusN bool) {
	cos := t1.Dot(t2)
	sin := cross(t1, t2)
	if math.Abs(sin) < collinearLimit {
		return
	}

	if cos < cuspLimit {
		// the path reverses direction
		r.addCap(p, t1, d)
		r.addCap(p, t2.Mul(-1), d)
		return
	}

	switch r.Join {
	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, cos)))
		if plusN {
			if sin < 0 {
				angle = -angle
			}
			r.addArc(p, d, normal(t1), angle, false)
		} else {
			if sin > 0 {
				angle = -angle
			}
			r.addArc(p, d, normal(t2).Mul(-1), angle, false)
		}

	case graphics.LineJoinMiter:
		half := math.Sqrt((1 + cos) / 2)
		if half <= 0 || 1/half > r.MiterLimit+1e-10 {
			return // bevel
		}
		dir := normal(t1).Add(normal(t2))
		if !plusN {
			dir = dir.Mul(-1)
		}
		if l := dir.Length(); l > zeroLength {
			r.outline = append(r.outline, p.Add(dir.Mul(d/(half*l))))
		}
	}
	// bevel joins need no extra points
}

// addArc appends points on the circle around c with the given radius,
// starting in direction from and sweeping by the given angle (positive
// is counter-clockwise).
func (r *Rasterizer) addArc(c vec.Vec2, radius float64, from vec.Vec2, sweep float64, withStart bool) {
	dev := max(
		r.deviceLength(vec.Vec2{X: radius}),
		r.deviceLength(vec.Vec2{Y: radius}),
	)

	n := 1
	if dev >= r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/dev)
		if !(step > 0) {
			step = math.Pi / 4
		}
		n = max(int(math.Ceil(math.Abs(sweep)/step)), 1)
	}

	i0 := 1
	if withStart {
		i0 = 0
	}
	for i := i0; i <= n; i++ {
		sin, cos := math.Sincos(sweep * float64(i) / float64(n))
		dir := vec.Vec2{
			X: from.X*cos - from.Y*sin,
			Y: from.X*sin + from.Y*cos,
		}
		r.outline = append(r.outline, c.Add(dir.Mul(radius)))
	}
}

const (
	// zeroLength is the length below which stroke segments are dropped.
	zeroLength = 1e-10

	// collinearLimit is the value of the cross product of two unit
	// tangents below which no join is drawn.
	collinearLimit = 1e-6

	// cuspLimit is the cosine of the turning angle, about 179.2°,
	// beyond which a corner is treated as a reversal.
	cuspLimit = -0.9999
)
