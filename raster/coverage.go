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
	"cmp"
	"math"
	"slices"
)

// Every edge deposits two numbers into each pixel it crosses within a row:
//
//	cover: the signed height of the part of the edge inside the pixel
//	area:  cover weighted by the fraction of the pixel right of the edge
//
// Scanning a row from left to right, the coverage of pixel i is the sum of
// cover over all pixels left of i, plus area[i].  Clamping the absolute
// value to [0, 1] implements the nonzero winding rule.

// accumulate adds the contribution of e to row y.  The buffers cover the
// pixel columns x0, ..., x1-1.  Contributions left of x0 are added to the
// first column, since they affect every pixel of the row.
func accumulate(e *edge, y int, cover, area []float32, x0, x1 int) {
	top := max(float64(y), e.y0)
	bot := min(float64(y+1), e.y1)
	if bot <= top {
		return
	}

	xa := e.xAt(top)
	xb := e.xAt(bot)
	left := int(math.Floor(min(xa, xb)))
	right := int(math.Floor(max(xa, xb)))

	if right < x0 {
		c := e.dir * float32(bot-top)
		cover[0] += c
		area[0] += c
		return
	}
	if left >= x1 {
		return
	}

	if left == right {
		frac := (xa+xb)/2 - float64(left)
		deposit(cover, area, left, e.dir*float32(bot-top), frac, x0, x1)
		return
	}

	// The edge crosses several pixel columns.  Split it at the column
	// boundaries.
	dydx := 1 / e.slope
	for px := left; px <= right; px++ {
		ya := e.y0 + dydx*(float64(px)-e.x0)
		yb := e.y0 + dydx*(float64(px+1)-e.x0)
		lo := max(min(ya, yb), top)
		hi := min(max(ya, yb), bot)
		if hi <= lo {
			continue
		}
		frac := e.xAt((lo+hi)/2) - float64(px)
		deposit(cover, area, px, e.dir*float32(hi-lo), frac, x0, x1)
	}
}

// deposit adds the contribution c of an edge piece crossing pixel column px
// at horizontal offset frac.
func deposit(cover, area []float32, px int, c float32, frac float64, x0, x1 int) {
	switch {
	case px < x0:
		cover[0] += c
		area[0] += c
	case px < x1:
		i := px - x0
		cover[i] += c
		area[i] += c * float32(1-frac)
	}
}

// integrate converts the accumulated cover and area values of one row into
// coverage, which is stored in cover.
func integrate(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// nonZero returns the part of row between the first and last non-zero
// entries, together with its offset.  If the row is all zero, the
// returned slice is nil.
func nonZero(row []float32) ([]float32, int) {
	lo := 0
	for lo < len(row) && row[lo] == 0 {
		lo++
	}
	if lo == len(row) {
		return nil, 0
	}
	hi := len(row)
	for row[hi-1] == 0 {
		hi--
	}
	return row[lo:hi], lo
}

// rasterizeSmall accumulates all rows at once into a two-dimensional
// buffer.  This is used when the bounding box is small.
func (r *Rasterizer) rasterizeSmall(xMin, xMax, yMin, yMax int, emit SpanFunc) {
	w := xMax - xMin
	h := yMax - yMin

	n := w * h
	r.cover = slices.Grow(r.cover[:0], n)[:n]
	r.area = slices.Grow(r.area[:0], n)[:n]
	r.touched = slices.Grow(r.touched[:0], h)[:h]
	clear(r.cover)
	clear(r.area)
	clear(r.touched)

	for i := range r.edges {
		e := &r.edges[i]
		first := max(int(math.Floor(e.y0)), yMin)
		last := min(int(math.Floor(e.y1))+1, yMax)
		for y := first; y < last; y++ {
			row := y - yMin
			off := row * w
			accumulate(e, y, r.cover[off:off+w], r.area[off:off+w], xMin, xMax)
			r.touched[row] = true
		}
	}

	for row := range h {
		if !r.touched[row] {
			continue
		}
		off := row * w
		cov := r.cover[off : off+w]
		integrate(cov, r.area[off:off+w])
		if span, dx := nonZero(cov); span != nil {
			emit(yMin+row, xMin+dx, span)
		}
	}
}

// rasterizeLarge processes one row at a time, keeping a list of the edges
// which intersect the current row.
func (r *Rasterizer) rasterizeLarge(xMin, xMax, yMin, yMax int, emit SpanFunc) {
	w := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], w)[:w]
	r.area = slices.Grow(r.area[:0], w)[:w]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.y0, b.y0)
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top := float64(y)
		bot := float64(y + 1)

		for next < len(r.edges) && r.edges[next].y0 < bot {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if e.y1 <= top {
				last := len(r.active) - 1
				r.active[i] = r.active[last]
				r.active = r.active[:last]
				continue
			}
			accumulate(e, y, r.cover, r.area, xMin, xMax)
			i++
		}

		integrate(r.cover, r.area)
		if span, dx := nonZero(r.cover); span != nil {
			emit(y, xMin+dx, span)
		}
	}
}
