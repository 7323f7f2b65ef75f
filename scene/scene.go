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

// Package scene is an in-memory model of a 3D scene as seen by a host
// application: objects with their world transforms, organised in a tree of
// collections, with a camera and a selection.
//
// Objects are iterated in the way a dependency graph evaluates them:
// collections which instance other collections are expanded into separate
// [Instance] values, one per appearance of an object.
package scene

import (
	"github.com/golang/geo/r3"

	"seehuhn.de/go/viewcut/geometry"
)

// ObjectType identifies the kind of data an object carries.
type ObjectType int

// Object types.
const (
	TypeOther ObjectType = iota
	TypeMesh
	TypeCurve
	TypeEmpty
	TypeCamera
)

func (t ObjectType) String() string {
	switch t {
	case TypeMesh:
		return "mesh"
	case TypeCurve:
		return "curve"
	case TypeEmpty:
		return "empty"
	case TypeCamera:
		return "camera"
	default:
		return "other"
	}
}

// Object is a named item of the scene.
type Object struct {
	Name string
	Type ObjectType

	// Matrix maps object coordinates to world coordinates.
	Matrix geometry.Matrix

	// Library is the path of the library the object was linked from.
	// Local objects have an empty library.
	Library string

	// Mesh holds the geometry of mesh objects.
	Mesh *Mesh

	// Curve holds the geometry of curve objects.
	Curve *Curve

	// Camera holds the projection parameters of camera objects.  The
	// camera matrix is taken from the object.
	Camera *geometry.Camera

	// Instance is the collection instanced by an empty.
	Instance *Collection

	// Symbol marks objects which are drawn as symbols only.
	Symbol bool

	// Hidden objects are skipped during evaluation.
	Hidden bool
}

// Renderable reports whether the object can be drawn: meshes, curves and
// empties which instance a collection.
func (o *Object) Renderable() bool {
	switch o.Type {
	case TypeMesh:
		return o.Mesh != nil
	case TypeCurve:
		return o.Curve != nil
	case TypeEmpty:
		return o.Instance != nil
	default:
		return false
	}
}

// Bounds returns the bounding box of the object geometry in object
// coordinates.  The second return value is false for objects without
// geometry.
func (o *Object) Bounds() (geometry.BoundBox, bool) {
	switch {
	case o.Type == TypeMesh && o.Mesh != nil && len(o.Mesh.Vertices) > 0:
		return geometry.BoundsOf(o.Mesh.Vertices), true
	case o.Type == TypeCurve && o.Curve != nil:
		pts := o.Curve.Points()
		if len(pts) == 0 {
			return geometry.BoundBox{}, false
		}
		return geometry.BoundsOf(pts), true
	}
	return geometry.BoundBox{}, false
}

// Edges returns the edges of the object geometry in object coordinates.
func (o *Object) Edges() [][2]r3.Vector {
	switch {
	case o.Type == TypeMesh && o.Mesh != nil:
		idx := o.Mesh.Edges()
		res := make([][2]r3.Vector, len(idx))
		for i, e := range idx {
			res[i] = [2]r3.Vector{o.Mesh.Vertices[e[0]], o.Mesh.Vertices[e[1]]}
		}
		return res
	case o.Type == TypeCurve && o.Curve != nil:
		return o.Curve.Edges()
	}
	return nil
}

// Collection groups objects and other collections.
type Collection struct {
	Name     string
	Children []*Collection
	Objects  []*Object
	Hidden   bool
	Library  string
}

// Scene is the user's scene.  It is only read by viewcut.
type Scene struct {
	Name string

	// Root is the top-level collection.
	Root *Collection

	// Camera is the active camera object.
	Camera *Object

	// Selection lists the names of the selected objects.
	Selection []string
}

// New returns an empty scene.
func New(name string) *Scene {
	return &Scene{
		Name: name,
		Root: &Collection{Name: name},
	}
}

// Add places objects into the root collection.
func (s *Scene) Add(objs ...*Object) {
	s.Root.Objects = append(s.Root.Objects, objs...)
}

// Object returns the object with the given name, or nil if there is none.
// Objects inside instanced collections are found as well.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.Objects() {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Objects returns all objects reachable from the root collection, each
// once, in depth-first order.
func (s *Scene) Objects() []*Object {
	var res []*Object
	seenObj := map[*Object]bool{}
	seenCol := map[*Collection]bool{}
	var walk func(c *Collection)
	walk = func(c *Collection) {
		if c == nil || seenCol[c] {
			return
		}
		seenCol[c] = true
		for _, o := range c.Objects {
			if !seenObj[o] {
				seenObj[o] = true
				res = append(res, o)
			}
			if o.Instance != nil {
				walk(o.Instance)
			}
		}
		for _, child := range c.Children {
			walk(child)
		}
	}
	walk(s.Root)
	return res
}
