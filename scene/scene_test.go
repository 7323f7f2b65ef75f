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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/viewcut/geometry"
)

func TestCubeEdges(t *testing.T) {
	c := Cube("C", 2)
	if n := len(c.Mesh.Edges()); n != 12 {
		t.Errorf("cube has %d edges, want 12", n)
	}
	if n := len(c.Mesh.Triangles()); n != 12 {
		t.Errorf("cube has %d triangles, want 12", n)
	}
	box, ok := c.Bounds()
	if !ok {
		t.Fatal("cube has no bounds")
	}
	if box[0] != (r3.Vector{X: -1, Y: -1, Z: -1}) || box[6] != (r3.Vector{X: 1, Y: 1, Z: 1}) {
		t.Errorf("unexpected bounds %v", box)
	}
}

func TestMeshClone(t *testing.T) {
	m := Cube("C", 1).Mesh
	m.Materials = []string{"brick"}
	c := m.Clone()
	c.Vertices[0].X = 100
	c.Faces[0][0] = 7
	if m.Vertices[0].X == 100 || m.Faces[0][0] == 7 {
		t.Error("clone shares data with the original")
	}
	if c.Materials != nil {
		t.Error("clone kept the materials")
	}
}

// chairScene has two empties instancing a collection of one chair, which
// is not linked into the scene itself.
func chairScene() (*Scene, *Collection) {
	chairs := &Collection{Name: "Chairs", Library: "//furniture.blend"}
	chairs.Objects = []*Object{Cube("Chair", 1)}

	s := New("room")
	s.Add(
		Empty("E1", geometry.Identity, chairs),
		Empty("E2", geometry.Translate(5, 0, 0), chairs),
	)
	return s, chairs
}

func TestInstancesExpand(t *testing.T) {
	s, _ := chairScene()
	in := NewInterner()
	insts := s.Instances(in)

	var got []string
	for _, inst := range insts {
		got = append(got, inst.String())
	}
	want := []string{
		"E1@(0,0,0)",
		"Chair[//furniture.blend]@(0,0,0)",
		"E2@(5,0,0)",
		"Chair[//furniture.blend]@(5,0,0)",
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("instances (-want +got):\n%s", d)
	}

	chair := insts[3]
	if !chair.IsInstance || chair.Parent == nil || chair.Parent.Name != "E2" {
		t.Errorf("bad instance metadata: %+v", chair)
	}
	if in.Len() != 4 {
		t.Errorf("interner holds %d instances, want 4", in.Len())
	}
}

func TestInternerCanonical(t *testing.T) {
	in := NewInterner()
	o := Cube("A", 1)
	a := in.Intern(Instance{Object: o, Matrix: geometry.Translate(1, 2, 3)})
	b := in.Intern(Instance{Object: o, Matrix: geometry.Translate(1, 2, 3.0000001)})
	if a != b {
		t.Error("instances equal by key were not canonicalized")
	}
	c := in.Intern(Instance{Object: o, Matrix: geometry.Translate(1, 2, 4)})
	if c == a {
		t.Error("different matrices share an instance")
	}
	if in.Lookup(a.Key()) != a {
		t.Error("lookup failed")
	}
}

func TestInstancesShared(t *testing.T) {
	a := Cube("A", 1)
	s := New("s")
	s.Root.Children = []*Collection{
		{Name: "one", Objects: []*Object{a}},
		{Name: "two", Objects: []*Object{a}},
	}
	insts := s.Instances(NewInterner())
	if len(insts) != 1 {
		t.Errorf("got %d instances, want 1", len(insts))
	}
}

func TestInstancesHidden(t *testing.T) {
	a := Cube("A", 1)
	b := Cube("B", 1)
	b.Hidden = true
	c := Cube("C", 1)
	s := New("s")
	s.Add(a, b)
	s.Root.Children = []*Collection{{Name: "off", Hidden: true, Objects: []*Object{c}}}

	insts := s.Instances(NewInterner())
	if len(insts) != 1 || insts[0].Object != a {
		t.Errorf("unexpected instances %v", insts)
	}
}

func TestTree(t *testing.T) {
	w := Cube("W", 1)
	a := Cube("A", 1)
	walls := &Collection{Name: "Walls", Objects: []*Object{w}}
	building := &Collection{Name: "Building", Children: []*Collection{walls}}
	s := New("s")
	s.Root.Children = []*Collection{building}
	s.Add(a)

	tree := NewTree(s.Root)
	cases := []struct {
		pos  Position
		want string
	}{
		{Position{0}, "Building"},
		{Position{0, 0}, "Walls"},
		{Position{0, 0, 0}, "W"},
		{Position{1}, "A"},
	}
	for _, c := range cases {
		n := tree.Lookup(c.pos)
		if n == nil {
			t.Errorf("%s: not found", c.pos)
			continue
		}
		var name string
		if n.Object != nil {
			name = n.Object.Name
		} else {
			name = n.Collection.Name
		}
		if name != c.want {
			t.Errorf("%s: got %q, want %q", c.pos, name, c.want)
		}
	}
	if tree.Lookup(Position{2}) != nil {
		t.Error("found node at unused position")
	}

	if tree.AncestorHidden(Position{0, 0, 0}) {
		t.Error("no collection is hidden yet")
	}
	building.Hidden = true
	tree = NewTree(s.Root)
	if !tree.AncestorHidden(Position{0, 0, 0}) {
		t.Error("hidden ancestor not detected")
	}
	if tree.AncestorHidden(Position{1}) {
		t.Error("root-level object reported as hidden")
	}
}

func TestCollectionsOf(t *testing.T) {
	chair := Cube("Chair", 1)
	chairs := &Collection{Name: "Chairs", Objects: []*Object{chair}}
	empty := Empty("E", geometry.Identity, chairs)
	w := Cube("W", 1)
	walls := &Collection{Name: "Walls", Objects: []*Object{w}}
	building := &Collection{Name: "Building", Children: []*Collection{walls}, Objects: []*Object{empty}}
	s := New("s")
	s.Root.Children = []*Collection{building}

	tree := NewTree(s.Root)
	in := NewInterner()
	byName := map[string]*Instance{}
	for _, inst := range s.Instances(in) {
		byName[inst.Object.Name] = inst
	}

	summary := func(ms []Membership) map[string]string {
		res := map[string]string{}
		for _, m := range ms {
			res[m.Collection.Name] = m.Tag.String()
		}
		return res
	}

	got := summary(tree.CollectionsOf(byName["W"]))
	want := map[string]string{"Walls": "STRONG", "Building": "WEAK"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("W (-want +got):\n%s", d)
	}

	got = summary(tree.CollectionsOf(byName["Chair"]))
	want = map[string]string{"Chairs": "STRONG", "Building": "PARENT"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Chair (-want +got):\n%s", d)
	}
}

func TestRayCast(t *testing.T) {
	a := Cube("A", 1)
	b := Cube("B", 1)
	b.Matrix = geometry.Translate(0, 3, 0)
	c := Cube("C", 1)
	c.Matrix = geometry.Translate(4, 0, 0)
	s := New("s")
	s.Add(a, b, c)

	rc := NewRayCaster(s, NewInterner())
	dir := r3.Vector{Y: 1}
	cases := []struct {
		origin r3.Vector
		want   string
	}{
		{r3.Vector{Y: -10}, "A"},
		{r3.Vector{Y: 1.5}, "B"},
		{r3.Vector{X: 4, Y: -10, Z: 0.25}, "C"},
		{r3.Vector{X: 2, Y: -10}, ""},
		{r3.Vector{Y: 10}, ""},
	}
	for _, tc := range cases {
		inst, ok := rc.RayCast(tc.origin, dir)
		var got string
		if ok {
			got = inst.Object.Name
		}
		if got != tc.want {
			t.Errorf("ray from %v hit %q, want %q", tc.origin, got, tc.want)
		}
	}
}

func TestRayCastInstances(t *testing.T) {
	s, _ := chairScene()
	rc := NewRayCaster(s, NewInterner())
	inst, ok := rc.RayCast(r3.Vector{X: 5, Y: -10}, r3.Vector{Y: 1})
	if !ok {
		t.Fatal("instanced chair not hit")
	}
	if !inst.IsInstance || inst.Parent.Name != "E2" {
		t.Errorf("hit %v, want the chair instanced by E2", inst)
	}
}

func TestRayCastIgnoresCurves(t *testing.T) {
	s := New("s")
	s.Add(Polyline("L", 0.1, false, r3.Vector{X: -1}, r3.Vector{X: 1}))
	rc := NewRayCaster(s, NewInterner())
	if _, ok := rc.RayCast(r3.Vector{Y: -10}, r3.Vector{Y: 1}); ok {
		t.Error("curve was hit")
	}
}

func TestFileRoundTrip(t *testing.T) {
	s, _ := chairScene()
	s.Add(Wall("W", 4, 0.2, 3))
	s.Add(Polyline("L", 0.05, true, r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 1, Y: 1}))
	cam := CameraObject("Camera", geometry.Translate(0, -10, 0).Mul(geometry.RotateX(1.5707963267948966)),
		&geometry.Camera{Ortho: true, OrthoScale: 5, ClipStart: 0.1, ClipEnd: 100})
	s.Add(cam)
	s.Camera = cam
	s.Selection = []string{"W"}

	buf1 := &bytes.Buffer{}
	if err := Save(buf1, s); err != nil {
		t.Fatal(err)
	}
	s2, err := Load(bytes.NewReader(buf1.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	buf2 := &bytes.Buffer{}
	if err := Save(buf2, s2); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(buf1.String(), buf2.String()); d != "" {
		t.Errorf("round trip changed the file (-first +second):\n%s", d)
	}

	if s2.Camera == nil || !s2.Camera.Camera.Ortho || s2.Camera.Camera.Matrix != cam.Matrix {
		t.Error("camera not restored")
	}
	if got := len(s2.Instances(NewInterner())); got != 7 {
		t.Errorf("loaded scene has %d instances, want 7", got)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"syntax", "name: [unclosed"},
		{"no root", "name: s\nroot: missing\n"},
		{"bad type", "name: s\nroot: s\ncollections: [{name: s, objects: [A]}]\nobjects: [{name: A, type: blob}]\n"},
		{"unknown object", "name: s\nroot: s\ncollections: [{name: s, objects: [A]}]\n"},
		{"bad index", "name: s\nroot: s\ncollections: [{name: s}]\nobjects: [{name: A, type: mesh, mesh: {vertices: [[0,0,0]], faces: [[0,1,2]]}}]\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(c.body))
			if !errors.Is(err, ErrFormat) {
				t.Errorf("got error %v, want ErrFormat", err)
			}
		})
	}
}
