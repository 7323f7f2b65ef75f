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
	"fmt"
	"slices"
	"sort"
)

// Range is an inclusive interval of pixel indices.
type Range struct {
	First, Last int
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.First, r.Last)
}

// Len returns the number of pixels in r.
func (r Range) Len() int {
	return r.Last - r.First + 1
}

// PixelSet is a set of pixel indices, kept both as a sorted list and as a
// list of sorted, disjoint, non-adjacent ranges.  Pixel indices are
// row-major, with the origin at the top-left corner of the image.
type PixelSet struct {
	pixels []int
	ranges []Range
}

// Add inserts p into the set.  Adding pixels in increasing order is
// cheap: the last range is extended or a new one is started.
func (ps *PixelSet) Add(p int) {
	n := len(ps.pixels)
	if n == 0 || p > ps.pixels[n-1] {
		ps.pixels = append(ps.pixels, p)
		if m := len(ps.ranges); m > 0 && ps.ranges[m-1].Last+1 == p {
			ps.ranges[m-1].Last = p
		} else {
			ps.ranges = append(ps.ranges, Range{p, p})
		}
		return
	}

	i, found := slices.BinarySearch(ps.pixels, p)
	if found {
		return
	}
	ps.pixels = slices.Insert(ps.pixels, i, p)
	ps.ranges = Compress(ps.pixels)
}

// Contains reports whether p is in the set.
func (ps *PixelSet) Contains(p int) bool {
	i := sort.Search(len(ps.ranges), func(i int) bool { return ps.ranges[i].Last >= p })
	return i < len(ps.ranges) && ps.ranges[i].First <= p
}

// Len returns the number of pixels in the set.
func (ps *PixelSet) Len() int {
	return len(ps.pixels)
}

// Pixels returns the pixels in increasing order.  The caller must not
// modify the returned slice.
func (ps *PixelSet) Pixels() []int {
	return ps.pixels
}

// Ranges returns the set as a list of ranges.  The caller must not modify
// the returned slice.
func (ps *PixelSet) Ranges() []Range {
	return ps.ranges
}

// Reset removes all pixels.
func (ps *PixelSet) Reset() {
	ps.pixels = ps.pixels[:0]
	ps.ranges = ps.ranges[:0]
}

// Compress converts a sorted list of distinct pixels into ranges.
func Compress(pixels []int) []Range {
	var res []Range
	for _, p := range pixels {
		if n := len(res); n > 0 && res[n-1].Last+1 == p {
			res[n-1].Last = p
		} else {
			res = append(res, Range{p, p})
		}
	}
	return res
}

// Expand lists the pixels covered by the given ranges.
func Expand(ranges []Range) []int {
	var res []int
	for _, r := range ranges {
		for p := r.First; p <= r.Last; p++ {
			res = append(res, p)
		}
	}
	return res
}
