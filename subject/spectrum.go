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

package subject

import (
	"image/color"
	"math"
)

// SpectrumSize returns the number k of levels per channel needed to give
// n distinct colors, i.e. the smallest k with k³ ≥ n.
func SpectrumSize(n int) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Ceil(math.Cbrt(float64(n))))
	for k > 1 && (k-1)*(k-1)*(k-1) >= n {
		k--
	}
	for k*k*k < n {
		k++
	}
	return k
}

// Spectrum returns n distinct opaque colors.  The colors are taken from
// the k×k×k grid of RGB values with k levels per channel, evenly spaced
// between 0 and 1, in lexicographic (r, g, b) order.
func Spectrum(n int) []color.NRGBA {
	k := SpectrumSize(n)
	if k == 0 {
		return nil
	}
	levels := make([]uint8, k)
	for i := range levels {
		var v float64
		if k > 1 {
			v = float64(i) / float64(k-1)
		}
		levels[i] = uint8(math.Floor(v * 255))
	}

	res := make([]color.NRGBA, 0, n)
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				if len(res) == n {
					return res
				}
				res = append(res, color.NRGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}
	return res
}
