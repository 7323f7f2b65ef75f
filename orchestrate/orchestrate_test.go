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

package orchestrate

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/viewcut/frame"
	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/scene"
	"seehuhn.de/go/viewcut/subject"
)

// rectHost paints the grid-aligned bounding rectangle of every linked
// subject in its color.
type rectHost struct {
	hide   map[string]bool
	failAt string

	live   int
	scenes []string
}

func (h *rectHost) NewWorkingScene(name string) (WorkingScene, error) {
	h.live++
	h.scenes = append(h.scenes, name)
	return &rectScene{host: h, name: name}, nil
}

type rectScene struct {
	host  *rectHost
	name  string
	items []*subject.Subject
}

func (s *rectScene) Link(item *subject.Subject) error {
	s.items = append(s.items, item)
	return nil
}

func (s *rectScene) Render(ctx context.Context, w, h int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.name == s.host.failAt {
		return nil, errors.New("out of memory")
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for _, item := range s.items {
		if s.host.hide[item.Name()] {
			continue
		}
		r := geometry.PixelRect(geometry.RectOfBox(&item.Box, testStep), w, h)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetNRGBA(x, y, item.Color)
			}
		}
	}
	return img, nil
}

func (s *rectScene) Close() error {
	s.host.live--
	return nil
}

const testStep = 0.1

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

// registry builds a registry of unit cubes at the given positions.
func registry(cam *geometry.Camera, names []string, pos []geometry.Matrix) *subject.Registry {
	var results []*frame.Result
	for i, name := range names {
		inst := &scene.Instance{Object: scene.Cube(name, 1), Matrix: pos[i]}
		res := frame.Classify(inst, cam)
		if res == nil || !res.Framed {
			panic("test cube not framed")
		}
		results = append(results, res)
	}
	env := &subject.Env{Camera: cam, Styles: subject.DefaultStyles}
	return subject.NewRegistry(results, env)
}

func names(ss []*subject.Subject) []string {
	var res []string
	for _, s := range ss {
		res = append(res, s.Name())
	}
	return res
}

func groupNames(groups [][]*subject.Subject) [][]string {
	var res [][]string
	for _, g := range groups {
		res = append(res, names(g))
	}
	return res
}

func TestRunDisjoint(t *testing.T) {
	cam := frontCamera()
	reg := registry(cam, []string{"A", "B"}, []geometry.Matrix{
		geometry.Translate(-1.2, 0, 0),
		geometry.Translate(1.2, 0, 0),
	})
	host := &rectHost{}
	opts := &Options{Width: 20, Height: 20, Step: testStep, Camera: cam}

	res, err := Run(context.Background(), host, reg, opts)
	if err != nil {
		t.Fatal(err)
	}

	if d := cmp.Diff([][]string{{"A", "B"}}, groupNames(res.Groups)); d != "" {
		t.Errorf("groups (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"classification", "group 0"}, host.scenes); d != "" {
		t.Errorf("scenes (-want +got):\n%s", d)
	}
	if host.live != 0 {
		t.Errorf("%d working scenes left open", host.live)
	}
	for _, s := range res.Subjects {
		want := geometry.PixelRect(s.Rect, 20, 20)
		if got := s.Pixels.Len(); got != want.Dx()*want.Dy() {
			t.Errorf("%s: %d pixels, want %d", s.Name(), got, want.Dx()*want.Dy())
		}
		if len(reg.Overlapping(s)) != 0 {
			t.Errorf("%s overlaps %v", s.Name(), names(reg.Overlapping(s)))
		}
	}
	if len(res.PreviousPixel) != 0 {
		t.Errorf("unexpected previous-pixel subjects %v", names(res.PreviousPixel))
	}
	if b := res.Classification.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("classification image is %v", b)
	}
}

func TestRunOverlap(t *testing.T) {
	cam := frontCamera()
	// The rectangles of A and B share two pixel columns, C is separate.
	reg := registry(cam, []string{"A", "B", "C"}, []geometry.Matrix{
		geometry.Translate(-0.5, 0, 0),
		geometry.Translate(0.3, 2, 0),
		geometry.Translate(0, 0, 1.8),
	})
	host := &rectHost{}
	opts := &Options{Width: 20, Height: 20, Step: testStep, Camera: cam}

	res, err := Run(context.Background(), host, reg, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"A", "C"}, {"B"}}
	if d := cmp.Diff(want, groupNames(res.Groups)); d != "" {
		t.Errorf("groups (-want +got):\n%s", d)
	}
	if host.live != 0 {
		t.Errorf("%d working scenes left open", host.live)
	}

	a, b := res.Subjects[0], res.Subjects[1]
	if !reg.Exact.Has(a.ID, b.ID) || !reg.Exact.Has(b.ID, a.ID) {
		t.Error("A and B share pixels but are not marked as overlapping")
	}
	if got := names(reg.Overlapping(res.Subjects[2])); len(got) != 0 {
		t.Errorf("C overlaps %v", got)
	}
}

func TestRunHidden(t *testing.T) {
	cam := frontCamera()
	pos := []geometry.Matrix{
		geometry.Translate(-1.2, 0, 0),
		geometry.Translate(1.2, 0, 0),
		geometry.Translate(0, -9.9, 1.8), // straddles the near plane
	}
	cases := []struct {
		name    string
		drawAll bool
		want    []string
	}{
		{"filtered", false, []string{"A", "Cut"}},
		{"draw all", true, []string{"A", "B", "Cut"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			reg := registry(cam, []string{"A", "B", "Cut"}, pos)
			host := &rectHost{hide: map[string]bool{"B": true, "Cut": true}}
			opts := &Options{Width: 20, Height: 20, Step: testStep, Camera: cam, DrawAll: c.drawAll}

			res, err := Run(context.Background(), host, reg, opts)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(c.want, names(res.Subjects)); d != "" {
				t.Errorf("subjects (-want +got):\n%s", d)
			}
			if reg.Len() != len(c.want) {
				t.Errorf("registry holds %d subjects", reg.Len())
			}
		})
	}
}

func TestRunPreviousPixels(t *testing.T) {
	cam := frontCamera()
	reg := registry(cam, []string{"A", "B"}, []geometry.Matrix{
		geometry.Translate(-1.2, 0, 0),
		geometry.Translate(1.2, 0, 0),
	})

	// A used to cover a pixel in the middle of B's current rectangle.
	a := reg.Subjects()[0]
	a.Selected = true
	a.Previous = []subject.Range{{First: 10*20 + 15, Last: 10*20 + 15}}

	res, err := Run(context.Background(), &rectHost{}, reg, &Options{
		Width: 20, Height: 20, Step: testStep, Camera: cam,
	})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"B"}, names(res.PreviousPixel)); d != "" {
		t.Errorf("previous-pixel subjects (-want +got):\n%s", d)
	}
}

func TestRunRenderError(t *testing.T) {
	for _, failAt := range []string{"classification", "group 0"} {
		t.Run(failAt, func(t *testing.T) {
			cam := frontCamera()
			reg := registry(cam, []string{"A"}, []geometry.Matrix{geometry.Identity})
			host := &rectHost{failAt: failAt}

			_, err := Run(context.Background(), host, reg, &Options{
				Width: 20, Height: 20, Step: testStep, Camera: cam,
			})
			if !errors.Is(err, diag.ErrRender) {
				t.Errorf("got %v, want a render error", err)
			}
			if host.live != 0 {
				t.Errorf("%d working scenes left open", host.live)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	cam := frontCamera()
	reg := registry(cam, []string{"A"}, []geometry.Matrix{geometry.Identity})
	host := &rectHost{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, host, reg, &Options{Width: 20, Height: 20, Step: testStep, Camera: cam})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if diag.Classify(err) != diag.CodeCancel {
		t.Errorf("classified as %q", diag.Classify(err))
	}
	if host.live != 0 {
		t.Errorf("%d working scenes left open", host.live)
	}
}
