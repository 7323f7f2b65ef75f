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
	"maps"
	"slices"
)

// Graph is an undirected graph on subject IDs.  Every update changes both
// directions at once, so the relation is always symmetric.  Loops are
// ignored.
type Graph struct {
	adj map[int]map[int]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: map[int]map[int]struct{}{}}
}

// Add connects a and b.
func (g *Graph) Add(a, b int) {
	if a == b {
		return
	}
	g.link(a, b)
	g.link(b, a)
}

func (g *Graph) link(a, b int) {
	m := g.adj[a]
	if m == nil {
		m = map[int]struct{}{}
		g.adj[a] = m
	}
	m[b] = struct{}{}
}

// Remove disconnects a and b.
func (g *Graph) Remove(a, b int) {
	delete(g.adj[a], b)
	delete(g.adj[b], a)
}

// Drop removes all edges at a.
func (g *Graph) Drop(a int) {
	for b := range g.adj[a] {
		delete(g.adj[b], a)
	}
	delete(g.adj, a)
}

// Has reports whether a and b are connected.
func (g *Graph) Has(a, b int) bool {
	_, ok := g.adj[a][b]
	return ok
}

// Neighbors returns the IDs connected to a, in increasing order.
func (g *Graph) Neighbors(a int) []int {
	return slices.Sorted(maps.Keys(g.adj[a]))
}

// Degree returns the number of neighbours of a.
func (g *Graph) Degree(a int) int {
	return len(g.adj[a])
}
