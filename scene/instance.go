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
	"fmt"

	"seehuhn.de/go/viewcut/geometry"
)

// Instance describes one appearance of an object at a world transform.
type Instance struct {
	Object  *Object
	Library string

	// Matrix maps object coordinates to world coordinates.
	Matrix geometry.Matrix

	// Parent is the empty which instanced the collection containing the
	// object.  It is nil unless IsInstance is set.
	Parent *Object

	IsInstance bool
}

// Key returns the identity of the instance.
func (inst *Instance) Key() Key {
	return Key{
		Object:  inst.Object.Name,
		Library: inst.Library,
		Matrix:  inst.Matrix.Round(),
	}
}

// Ref returns the name and library of the instanced object.
func (inst *Instance) Ref() Ref {
	return Ref{Object: inst.Object.Name, Library: inst.Library}
}

func (inst *Instance) String() string {
	return inst.Key().String()
}

// Key identifies an instance by object name, library and the world matrix
// rounded to [geometry.Precision] digits.  Keys are comparable and survive
// a round trip through the ray-cast cache file.
type Key struct {
	Object  string
	Library string
	Matrix  geometry.Matrix
}

// String returns the object name, the library if any, and the translation
// part of the matrix.
func (k Key) String() string {
	m := &k.Matrix
	return fmt.Sprintf("%s@(%g,%g,%g)", k.Ref(), m[0][3], m[1][3], m[2][3])
}

// Ref returns the object part of the key.
func (k Key) Ref() Ref {
	return Ref{Object: k.Object, Library: k.Library}
}

// Ref names an object independently of where it is placed.
type Ref struct {
	Object  string
	Library string
}

func (r Ref) String() string {
	if r.Library == "" {
		return r.Object
	}
	return r.Object + "[" + r.Library + "]"
}

// Interner maps instances which are equal by key to a single canonical
// *Instance.  An Interner belongs to one invocation; there is no global
// table.
type Interner struct {
	byKey map[Key]*Instance
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{byKey: map[Key]*Instance{}}
}

// Intern returns the canonical instance equal to inst.  The first instance
// seen for a key becomes the canonical one.
func (in *Interner) Intern(inst Instance) *Instance {
	k := inst.Key()
	if c, ok := in.byKey[k]; ok {
		return c
	}
	c := &inst
	in.byKey[k] = c
	return c
}

// Lookup returns the canonical instance for k, or nil.
func (in *Interner) Lookup(k Key) *Instance {
	return in.byKey[k]
}

// Len returns the number of distinct instances.
func (in *Interner) Len() int {
	return len(in.byKey)
}

// Instances evaluates the scene and returns every visible instance, in
// evaluation order.  Hidden objects and objects in hidden collections are
// skipped.  Empties which instance a collection are returned themselves,
// followed by the expanded contents of the collection.  Instances equal by
// key are returned once.
func (s *Scene) Instances(in *Interner) []*Instance {
	tree := NewTree(s.Root)

	var res []*Instance
	seen := map[*Instance]bool{}
	emit := func(inst Instance) {
		c := in.Intern(inst)
		if !seen[c] {
			seen[c] = true
			res = append(res, c)
		}
	}

	var expand func(c *Collection, parent *Object, m geometry.Matrix, depth int)
	expand = func(c *Collection, parent *Object, m geometry.Matrix, depth int) {
		if c == nil || c.Hidden || depth > maxInstanceDepth {
			return
		}
		for _, o := range c.Objects {
			if o.Hidden {
				continue
			}
			world := m.Mul(o.Matrix)
			emit(Instance{
				Object:     o,
				Library:    libraryOf(o, c),
				Matrix:     world,
				Parent:     parent,
				IsInstance: true,
			})
			if o.Type == TypeEmpty && o.Instance != nil {
				expand(o.Instance, parent, world, depth+1)
			}
		}
		for _, child := range c.Children {
			expand(child, parent, m, depth+1)
		}
	}

	for _, n := range tree.Nodes() {
		o := n.Object
		if o == nil || tree.Hidden(n) {
			continue
		}
		emit(Instance{
			Object:  o,
			Library: libraryOf(o, n.Parent.Collection),
			Matrix:  o.Matrix,
		})
		if o.Type == TypeEmpty && o.Instance != nil {
			expand(o.Instance, o, o.Matrix, 0)
		}
	}
	return res
}

// libraryOf returns the library of o, falling back to the library of the
// collection it was found in.
func libraryOf(o *Object, c *Collection) string {
	if o.Library != "" || c == nil {
		return o.Library
	}
	return c.Library
}

// maxInstanceDepth bounds the nesting of instanced collections, so that
// collections instancing themselves cannot recurse forever.
const maxInstanceDepth = 16
