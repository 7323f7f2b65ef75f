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

// Package partition splits subjects into groups which can be rendered
// together without hiding each other.
package partition

import (
	"seehuhn.de/go/viewcut/subject"
)

// Overlaps reports whether two subjects may cover the same pixels.
type Overlaps interface {
	Has(a, b int) bool
}

// Partition splits subjects into groups whose members pairwise do not
// overlap.  Groups are formed greedily: the first remaining subject starts
// a group, and every later subject which overlaps none of the members so
// far joins it.  Every subject ends up in exactly one group, and the order
// of subjects within groups is preserved.
func Partition(subjects []*subject.Subject, g Overlaps) [][]*subject.Subject {
	var groups [][]*subject.Subject
	remaining := subjects
	for len(remaining) > 0 {
		group := []*subject.Subject{remaining[0]}
		var rest []*subject.Subject
	candidates:
		for _, s := range remaining[1:] {
			for _, m := range group {
				if g.Has(m.ID, s.ID) {
					rest = append(rest, s)
					continue candidates
				}
			}
			group = append(group, s)
		}
		groups = append(groups, group)
		remaining = rest
	}
	return groups
}
