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
	"bytes"
	"errors"
	"image/color"
	"math"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/viewcut/frame"
	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/scene"
)

func TestSpectrumSize(t *testing.T) {
	cases := []struct{ n, k int }{
		{0, 0}, {1, 1}, {2, 2}, {8, 2}, {9, 3}, {27, 3}, {28, 4}, {64, 4}, {65, 5}, {125, 5}, {126, 6},
	}
	for _, c := range cases {
		if got := SpectrumSize(c.n); got != c.k {
			t.Errorf("SpectrumSize(%d) = %d, want %d", c.n, got, c.k)
		}
	}
}

func TestSpectrum(t *testing.T) {
	for _, n := range []int{1, 2, 7, 28, 125, 200} {
		cols := Spectrum(n)
		if len(cols) != n {
			t.Errorf("Spectrum(%d) has %d colors", n, len(cols))
			continue
		}
		seen := map[color.NRGBA]bool{}
		for _, c := range cols {
			if c.A != 255 {
				t.Errorf("Spectrum(%d): color %v is not opaque", n, c)
			}
			if seen[c] {
				t.Errorf("Spectrum(%d): duplicate color %v", n, c)
			}
			seen[c] = true
		}
	}

	// levels for k = 4 are ⌊255·i/3⌋
	var levels []uint8
	for i := range 4 {
		v := float64(i) / float64(3)
		levels = append(levels, uint8(math.Floor(v*255)))
	}
	cols := Spectrum(28)
	want := []color.NRGBA{
		{0, 0, levels[0], 255}, {0, 0, levels[1], 255}, {0, 0, levels[2], 255}, {0, 0, levels[3], 255},
		{0, levels[1], 0, 255},
	}
	if d := cmp.Diff(want, cols[:5]); d != "" {
		t.Errorf("first colors (-want +got):\n%s", d)
	}
	if last := cols[27]; last != (color.NRGBA{R: levels[1], G: levels[2], B: levels[3], A: 255}) {
		t.Errorf("color 28 is %v", last)
	}
}

func TestParseStyles(t *testing.T) {
	cases := []struct {
		in   string
		want Styles
	}{
		{"", Projection | Cut},
		{"p", Projection},
		{"hb", Hidden | Back},
		{"pchb", Projection | Cut | Hidden | Back},
		{"cc", Cut},
	}
	for _, c := range cases {
		got, err := ParseStyles(c.in)
		if err != nil || got != c.want {
			t.Errorf("ParseStyles(%q) = %v, %v, want %v", c.in, got, err, c.want)
		}
	}
	for _, bad := range []string{"x", "ps", "p c"} {
		if _, err := ParseStyles(bad); !errors.Is(err, ErrStyle) {
			t.Errorf("ParseStyles(%q): got error %v", bad, err)
		}
	}

	all := Projection | Cut | Hidden | Back | Symbol
	if all.String() != "pchbs" {
		t.Errorf("String() = %q", all.String())
	}
	if d := cmp.Diff([]string{"projection", "back"}, (Projection | Back).Names()); d != "" {
		t.Errorf("Names() (-want +got):\n%s", d)
	}
}

func TestDeriveStyles(t *testing.T) {
	all := Projection | Cut | Hidden | Back
	cases := []struct {
		name      string
		requested Styles
		flags     Flags
		want      Styles
	}{
		{"in front", all, Flags{InFront: true}, Projection | Hidden},
		{"cut", all, Flags{InFront: true, Behind: true}, all},
		{"behind", all, Flags{Behind: true}, Back},
		{"mirrored", all, Flags{InFront: true, Mirrored: true}, Projection | Hidden | Back},
		{"defaults", DefaultStyles, Flags{InFront: true, Behind: true}, Projection | Cut},
		{"defaults behind", DefaultStyles, Flags{Behind: true}, 0},
		{"symbol", all, Flags{InFront: true, Behind: true, Symbol: true}, Symbol},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DeriveStyles(c.requested, c.flags); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func checkCoherent(t *testing.T, ps *PixelSet) {
	t.Helper()
	pixels := ps.Pixels()
	if !slices.IsSorted(pixels) {
		t.Fatalf("pixels not sorted: %v", pixels)
	}
	ranges := ps.Ranges()
	for i, r := range ranges {
		if r.First > r.Last {
			t.Fatalf("empty range %v", r)
		}
		if i > 0 && ranges[i-1].Last+1 >= r.First {
			t.Fatalf("ranges %v and %v touch", ranges[i-1], r)
		}
	}
	if d := cmp.Diff(pixels, Expand(ranges)); d != "" {
		t.Fatalf("pixels and ranges disagree (-pixels +ranges):\n%s", d)
	}
}

func TestPixelSetAppend(t *testing.T) {
	ps := &PixelSet{}
	for _, p := range []int{3, 4, 5, 9, 10, 20} {
		ps.Add(p)
	}
	want := []Range{{3, 5}, {9, 10}, {20, 20}}
	if d := cmp.Diff(want, ps.Ranges()); d != "" {
		t.Errorf("ranges (-want +got):\n%s", d)
	}
	checkCoherent(t, ps)
	for p, want := range map[int]bool{2: false, 3: true, 5: true, 6: false, 10: true, 20: true, 21: false} {
		if ps.Contains(p) != want {
			t.Errorf("Contains(%d) = %t", p, !want)
		}
	}
}

func TestPixelSetRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ps := &PixelSet{}
	ref := map[int]bool{}
	for range 500 {
		p := rng.IntN(200)
		ps.Add(p)
		ref[p] = true
	}
	checkCoherent(t, ps)
	if ps.Len() != len(ref) {
		t.Errorf("got %d pixels, want %d", ps.Len(), len(ref))
	}
	for p := range 200 {
		if ps.Contains(p) != ref[p] {
			t.Errorf("Contains(%d) = %t", p, !ref[p])
		}
	}

	ps.Reset()
	if ps.Len() != 0 || len(ps.Ranges()) != 0 {
		t.Error("Reset left pixels behind")
	}
}

func TestGraph(t *testing.T) {
	g := NewGraph()
	g.Add(1, 2)
	g.Add(2, 3)
	g.Add(3, 3)
	if !g.Has(2, 1) || !g.Has(3, 2) {
		t.Error("edges are not symmetric")
	}
	if g.Has(3, 3) {
		t.Error("loop was added")
	}
	if d := cmp.Diff([]int{1, 3}, g.Neighbors(2)); d != "" {
		t.Errorf("neighbours (-want +got):\n%s", d)
	}

	g.Remove(2, 1)
	if g.Has(1, 2) || g.Has(2, 1) {
		t.Error("Remove left an edge")
	}
	g.Drop(3)
	if g.Degree(2) != 0 || g.Degree(3) != 0 {
		t.Error("Drop left edges")
	}
}

func frontCamera() *geometry.Camera {
	cam := &geometry.Camera{
		Matrix:     geometry.Translate(0, -10, 0).Mul(geometry.RotateX(math.Pi / 2)),
		Ortho:      true,
		OrthoScale: 5,
		ClipStart:  0.1,
		ClipEnd:    100,
	}
	if err := cam.Prepare(); err != nil {
		panic(err)
	}
	return cam
}

func testRegistry(t *testing.T, objs ...*scene.Object) (*Registry, *geometry.Camera) {
	t.Helper()
	cam := frontCamera()
	s := scene.New("test")
	s.Add(objs...)
	results := frame.Filter(s.Instances(scene.NewInterner()), cam)
	env := &Env{
		Camera:   cam,
		Tree:     scene.NewTree(s.Root),
		Styles:   DefaultStyles,
		Selected: map[scene.Ref]bool{{Object: "A"}: true},
	}
	return NewRegistry(results, env), cam
}

func TestRegistry(t *testing.T) {
	a := scene.Cube("A", 1)
	b := scene.Cube("B", 1)
	b.Matrix = geometry.Translate(2, 0, 0)
	c := scene.Cube("C", 1)
	c.Matrix = geometry.Translate(0.5, 2, 0.5)
	r, _ := testRegistry(t, a, b, c)

	if r.Len() != 3 {
		t.Fatalf("got %d subjects", r.Len())
	}
	for _, s := range r.Subjects() {
		if r.ByColor(s.Color) != s || r.ByID(s.ID) != s {
			t.Errorf("%s: lookup failed", s)
		}
		if s.IsCut() || s.Styles != Projection {
			t.Errorf("%s: cut=%t styles=%q", s, s.IsCut(), s.Styles)
		}
		if s.Selected != (s.Name() == "A") {
			t.Errorf("%s: selected=%t", s, s.Selected)
		}
		if s.Mesh == nil || s.Mesh == s.Instance.Object.Mesh {
			t.Errorf("%s: mesh not copied", s)
		}
	}
	if r.ByColor(color.NRGBA{R: 1, G: 2, B: 3, A: 255}) != nil {
		t.Error("unknown color resolved")
	}
	if r.ByColor(color.NRGBA{}) != nil {
		t.Error("transparent pixel resolved")
	}

	r.ComputeRects(0.1)
	r.ComputeBBoxOverlaps()
	names := func(ss []*Subject) []string {
		var res []string
		for _, s := range ss {
			res = append(res, s.Name())
		}
		return res
	}
	sa, sb, sc := r.Subjects()[0], r.Subjects()[1], r.Subjects()[2]
	if d := cmp.Diff([]string{"C"}, names(r.Overlapping(sa))); d != "" {
		t.Errorf("A overlaps (-want +got):\n%s", d)
	}
	if len(r.Overlapping(sb)) != 0 {
		t.Errorf("B overlaps %v", names(r.Overlapping(sb)))
	}

	// exact overlaps replace the bounding rectangle ones
	sa.Pixels.Add(10)
	sa.Pixels.Add(11)
	sb.Pixels.Add(11)
	sc.Pixels.Add(12)
	r.ComputePixelOverlaps()
	if d := cmp.Diff([]string{"B"}, names(r.Overlapping(sa))); d != "" {
		t.Errorf("A exact overlaps (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"A"}, names(r.Overlapping(sb))); d != "" {
		t.Errorf("B exact overlaps (-want +got):\n%s", d)
	}

	col := sb.Color
	r.Retain(func(s *Subject) bool { return s != sb })
	if r.Len() != 2 || r.ByColor(col) != nil || r.ByID(sb.ID) != nil {
		t.Error("Retain did not remove B")
	}
	if len(r.Overlapping(sa)) != 0 {
		t.Error("edge to removed subject survived")
	}
}

func TestRegistryCut(t *testing.T) {
	wall := scene.Box("W", 4, 0.4, 1)
	wall.Matrix = geometry.Translate(0, -9.9, 0)
	r, cam := testRegistry(t, wall)
	s := r.Subjects()[0]
	if !s.IsCut() || s.Styles != Projection|Cut {
		t.Errorf("cut=%t styles=%q", s.IsCut(), s.Styles)
	}
	if !s.CrossesCut(cam) {
		t.Error("wall does not cross the near plane")
	}
}

func TestRangeStore(t *testing.T) {
	rs := NewRangeStore(40, 30)
	ka := scene.Key{Object: "A", Matrix: geometry.Translate(1, 0, 0)}
	kb := scene.Key{Object: "B", Library: "//lib.blend", Matrix: geometry.Identity}
	rs.Put(kb, []Range{{0, 3}})
	rs.Put(ka, []Range{{5, 9}, {12, 12}})

	path := filepath.Join(t.TempDir(), "ranges.json")
	if err := rs.Store(path); err != nil {
		t.Fatal(err)
	}
	rs2, err := LoadRanges(path)
	if err != nil {
		t.Fatal(err)
	}
	if rs2.Width != 40 || rs2.Height != 30 {
		t.Errorf("resolution %dx%d", rs2.Width, rs2.Height)
	}
	if d := cmp.Diff([]Range{{5, 9}, {12, 12}}, rs2.Get(ka)); d != "" {
		t.Errorf("ranges of A (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]scene.Key{ka, kb}, rs2.Keys()); d != "" {
		t.Errorf("keys (-want +got):\n%s", d)
	}

	buf1, buf2 := &bytes.Buffer{}, &bytes.Buffer{}
	if err := rs.Write(buf1); err != nil {
		t.Fatal(err)
	}
	if err := rs2.Write(buf2); err != nil {
		t.Fatal(err)
	}
	if buf1.String() != buf2.String() {
		t.Error("store changed in round trip")
	}

	missing, err := LoadRanges(filepath.Join(t.TempDir(), "none.json"))
	if err != nil || len(missing.Keys()) != 0 {
		t.Errorf("missing file: %v", err)
	}
}

func TestRangeStoreForRef(t *testing.T) {
	rs := NewRangeStore(10, 10)
	rs.Put(scene.Key{Object: "A", Matrix: geometry.Identity}, []Range{{0, 4}})
	rs.Put(scene.Key{Object: "A", Matrix: geometry.Translate(0, 0, 1)}, []Range{{3, 7}, {20, 21}})
	rs.Put(scene.Key{Object: "B", Matrix: geometry.Identity}, []Range{{50, 60}})

	got := rs.ForRef(scene.Ref{Object: "A"})
	if d := cmp.Diff([]Range{{0, 7}, {20, 21}}, got); d != "" {
		t.Errorf("ranges of A (-want +got):\n%s", d)
	}
	if got := rs.ForRef(scene.Ref{Object: "C"}); got != nil {
		t.Errorf("unknown object has ranges %v", got)
	}
}
