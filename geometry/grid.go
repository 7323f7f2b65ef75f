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
	"image"
	"math"

	"github.com/golang/geo/r2"
)

// Precision is the number of decimal digits kept by [Round6].
const Precision = 6

const precisionScale = 1e6

// Round6 rounds x to [Precision] decimal digits.
func Round6(x float64) float64 {
	r := math.Round(x*precisionScale) / precisionScale
	if r == 0 {
		return 0 // avoid negative zero
	}
	return r
}

// RoundMode selects the rounding direction used by [Quantize].
type RoundMode int

const (
	// Nearest rounds to the nearest grid value.
	Nearest RoundMode = iota

	// Floor rounds down.  Used for lower bounds.
	Floor

	// Ceil rounds up.  Used for upper bounds.
	Ceil
)

// Quantize maps x to a multiple of base, rounded to [Precision] digits.
// If base is not positive, x is only rounded.
func Quantize(x, base float64, mode RoundMode) float64 {
	if base <= 0 {
		return Round6(x)
	}
	// x/base is snapped to the working precision first, so that values
	// already on the grid are fixed points for Floor and Ceil.
	f := Round6(x / base)
	switch mode {
	case Floor:
		f = math.Floor(f)
	case Ceil:
		f = math.Ceil(f)
	default:
		f = math.Round(f)
	}
	return Round6(base * f)
}

// Clamp01 clamps x to the interval [0, 1].
func Clamp01(x float64) float64 {
	return max(0, min(1, x))
}

// RectOfBox returns the image-space bounding rectangle of a box in
// camera-normalized coordinates.  The rectangle is clamped to the unit
// square and then quantized outward to multiples of step.
func RectOfBox(box *BoundBox, step float64) r2.Rect {
	xLo, xHi := box[0].X, box[0].X
	yLo, yHi := box[0].Y, box[0].Y
	for _, p := range box[1:] {
		xLo, xHi = math.Min(xLo, p.X), math.Max(xHi, p.X)
		yLo, yHi = math.Min(yLo, p.Y), math.Max(yHi, p.Y)
	}
	lo := r2.Point{
		X: Quantize(Clamp01(xLo), step, Floor),
		Y: Quantize(Clamp01(yLo), step, Floor),
	}
	hi := r2.Point{
		X: Quantize(Clamp01(xHi), step, Ceil),
		Y: Quantize(Clamp01(yHi), step, Ceil),
	}
	return r2.RectFromPoints(lo, hi)
}

// RectsOverlap reports whether two image-space rectangles overlap.
//
// Two rectangles overlap if a corner of one lies inside the other, with
// boundaries included, or if they cross without containing each other's
// corners.  Both cases are exactly the closed rectangles intersecting.
func RectsOverlap(a, b r2.Rect) bool {
	return a.Intersects(b)
}

// PixelRect converts an image-space rectangle to the pixel rectangle
// covering it in a raster of the given size.  Pixel rows are counted from
// the top of the image.
func PixelRect(r r2.Rect, width, height int) image.Rectangle {
	w, h := float64(width), float64(height)
	x0 := int(math.Floor(Round6(w * r.X.Lo)))
	x1 := int(math.Ceil(Round6(w * r.X.Hi)))
	y0 := height - int(math.Ceil(Round6(h*r.Y.Hi)))
	y1 := height - int(math.Floor(Round6(h*r.Y.Lo)))
	return image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, width, height))
}
