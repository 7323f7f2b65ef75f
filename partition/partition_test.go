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

package partition

import (
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/subject"
)

func subjects(n int) []*subject.Subject {
	res := make([]*subject.Subject, n)
	for i := range res {
		res[i] = &subject.Subject{ID: i}
	}
	return res
}

func ids(groups [][]*subject.Subject) [][]int {
	var res [][]int
	for _, g := range groups {
		var row []int
		for _, s := range g {
			row = append(row, s.ID)
		}
		res = append(res, row)
	}
	return res
}

func TestPartition(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		edges [][2]int
		want  [][]int
	}{
		{"empty", 0, nil, nil},
		{"single", 1, nil, [][]int{{0}}},
		{"disjoint", 3, nil, [][]int{{0, 1, 2}}},
		{"pair", 2, [][2]int{{0, 1}}, [][]int{{0}, {1}}},
		{"chain", 4, [][2]int{{0, 1}, {1, 2}, {2, 3}}, [][]int{{0, 2}, {1, 3}}},
		{"star", 4, [][2]int{{0, 1}, {0, 2}, {0, 3}}, [][]int{{0}, {1, 2, 3}}},
		{"clique", 3, [][2]int{{0, 1}, {0, 2}, {1, 2}}, [][]int{{0}, {1}, {2}}},
		{"member conflict", 3, [][2]int{{1, 2}}, [][]int{{0, 1}, {2}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := subject.NewGraph()
			for _, e := range c.edges {
				g.Add(e[0], e[1])
			}
			got := ids(Partition(subjects(c.n), g))
			if d := cmp.Diff(c.want, got); d != "" {
				t.Errorf("groups (-want +got):\n%s", d)
			}
		})
	}
}

func TestPartitionRects(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for trial := range 20 {
		ss := subjects(30)
		g := subject.NewGraph()
		for _, s := range ss {
			x := geometry.Round6(float64(rng.IntN(10)) / 10)
			y := geometry.Round6(float64(rng.IntN(10)) / 10)
			w := geometry.Round6(float64(1+rng.IntN(3)) / 10)
			s.Rect = r2.RectFromPoints(r2.Point{X: x, Y: y}, r2.Point{X: x + w, Y: y + w})
		}
		for i, a := range ss {
			for _, b := range ss[i+1:] {
				if geometry.RectsOverlap(a.Rect, b.Rect) {
					g.Add(a.ID, b.ID)
				}
			}
		}

		groups := Partition(ss, g)
		count := map[int]int{}
		for _, grp := range groups {
			for i, a := range grp {
				count[a.ID]++
				for _, b := range grp[i+1:] {
					if geometry.RectsOverlap(a.Rect, b.Rect) {
						t.Errorf("trial %d: %d and %d overlap", trial, a.ID, b.ID)
					}
				}
			}
		}
		for _, s := range ss {
			if count[s.ID] != 1 {
				t.Errorf("trial %d: subject %d appears %d times", trial, s.ID, count[s.ID])
			}
		}
	}
}
