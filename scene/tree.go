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

package scene

import (
	"strconv"
	"strings"
)

// Position is the path of indices leading from the root collection to an
// item of the collection tree.  Within a collection, the child
// collections come first, followed by the objects.
type Position []int

func (p Position) String() string {
	parts := make([]string, len(p))
	for i, k := range p {
		parts[i] = strconv.Itoa(k)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Node is an item of the collection tree.  Exactly one of Collection and
// Object is set.
type Node struct {
	Pos        Position
	Collection *Collection
	Object     *Object
	Parent     *Node
}

// Tree maps positions to the collections and objects of a scene.
type Tree struct {
	root   *Node
	byPos  map[string]*Node
	order  []*Node
	byObj  map[*Object][]*Node
	byColl map[*Collection][]*Node
}

// NewTree indexes the collection hierarchy below root.  A collection which
// contains itself is only entered once on every path.
func NewTree(root *Collection) *Tree {
	t := &Tree{
		byPos:  map[string]*Node{},
		byObj:  map[*Object][]*Node{},
		byColl: map[*Collection][]*Node{},
	}
	t.root = &Node{Pos: Position{}, Collection: root}
	t.insert(t.root)

	onPath := map[*Collection]bool{}
	var walk func(n *Node)
	walk = func(n *Node) {
		c := n.Collection
		if c == nil || onPath[c] {
			return
		}
		onPath[c] = true
		for i, child := range c.Children {
			m := &Node{Pos: childPos(n.Pos, i), Collection: child, Parent: n}
			t.insert(m)
			walk(m)
		}
		for i, o := range c.Objects {
			t.insert(&Node{Pos: childPos(n.Pos, len(c.Children)+i), Object: o, Parent: n})
		}
		delete(onPath, c)
	}
	walk(t.root)
	return t
}

func childPos(p Position, i int) Position {
	res := make(Position, len(p)+1)
	copy(res, p)
	res[len(p)] = i
	return res
}

func (t *Tree) insert(n *Node) {
	t.byPos[n.Pos.String()] = n
	t.order = append(t.order, n)
	if n.Object != nil {
		t.byObj[n.Object] = append(t.byObj[n.Object], n)
	} else {
		t.byColl[n.Collection] = append(t.byColl[n.Collection], n)
	}
}

// Lookup returns the node at the given position, or nil.
func (t *Tree) Lookup(pos Position) *Node {
	return t.byPos[pos.String()]
}

// Nodes returns all nodes in depth-first order.
func (t *Tree) Nodes() []*Node {
	return t.order
}

// ObjectNodes returns the nodes at which o appears.
func (t *Tree) ObjectNodes(o *Object) []*Node {
	return t.byObj[o]
}

// Hidden reports whether n or any of its ancestors is hidden.
func (t *Tree) Hidden(n *Node) bool {
	if n.Object != nil && n.Object.Hidden {
		return true
	}
	if n.Collection != nil && n.Collection.Hidden {
		return true
	}
	return t.ancestorHidden(n)
}

// AncestorHidden reports whether any collection above the item at pos is
// hidden.  Unknown positions report false.
func (t *Tree) AncestorHidden(pos Position) bool {
	n := t.Lookup(pos)
	if n == nil {
		return false
	}
	return t.ancestorHidden(n)
}

func (t *Tree) ancestorHidden(n *Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Collection.Hidden {
			return true
		}
	}
	return false
}

// Tag describes how an instance belongs to a collection.
type Tag int

// Membership tags.
const (
	// TagStrong marks the collections which directly contain the object.
	TagStrong Tag = iota

	// TagWeak marks collections further up the hierarchy.
	TagWeak

	// TagParent marks the collections which directly contain the empty
	// that instanced the object.
	TagParent
)

func (t Tag) String() string {
	switch t {
	case TagStrong:
		return "STRONG"
	case TagWeak:
		return "WEAK"
	case TagParent:
		return "PARENT"
	default:
		return "Tag(" + strconv.Itoa(int(t)) + ")"
	}
}

// Membership records that an instance belongs to a collection.
type Membership struct {
	Collection *Collection
	Tag        Tag
}

// CollectionsOf returns the collections the instance belongs to.  The root
// collection is not included.  If a collection qualifies for several tags,
// the strongest one is reported (STRONG before PARENT before WEAK).
func (t *Tree) CollectionsOf(inst *Instance) []Membership {
	ms := &memberships{index: map[*Collection]int{}}

	if inst.IsInstance && inst.Parent != nil {
		if inner := inst.Parent.Instance; inner != nil {
			findInCollection(inner, inst.Object, nil, ms, 0)
		}
		for _, n := range t.byObj[inst.Parent] {
			t.addAncestors(n, TagParent, ms)
		}
	} else {
		for _, n := range t.byObj[inst.Object] {
			t.addAncestors(n, TagStrong, ms)
		}
	}
	return ms.list
}

// addAncestors adds the collection containing n with the given tag and all
// collections above it as weak members.
func (t *Tree) addAncestors(n *Node, tag Tag, ms *memberships) {
	for p := n.Parent; p != nil && p != t.root; p = p.Parent {
		ms.add(p.Collection, tag)
		tag = TagWeak
	}
}

// findInCollection searches an instanced collection for o.  Collections
// on the path to o are recorded, the innermost one as strong.
func findInCollection(c *Collection, o *Object, path []*Collection, ms *memberships, depth int) {
	if depth > maxInstanceDepth {
		return
	}
	path = append(path, c)
	for _, x := range c.Objects {
		if x == o {
			ms.add(c, TagStrong)
			for i := len(path) - 2; i >= 0; i-- {
				ms.add(path[i], TagWeak)
			}
			break
		}
	}
	for _, child := range c.Children {
		findInCollection(child, o, path, ms, depth+1)
	}
}

type memberships struct {
	list  []Membership
	index map[*Collection]int
}

func (ms *memberships) add(c *Collection, tag Tag) {
	if i, ok := ms.index[c]; ok {
		if tagRank(tag) < tagRank(ms.list[i].Tag) {
			ms.list[i].Tag = tag
		}
		return
	}
	ms.index[c] = len(ms.list)
	ms.list = append(ms.list, Membership{Collection: c, Tag: tag})
}

func tagRank(t Tag) int {
	switch t {
	case TagStrong:
		return 0
	case TagParent:
		return 1
	default:
		return 2
	}
}
