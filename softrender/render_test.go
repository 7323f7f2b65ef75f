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

package softrender

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/scene"
	"seehuhn.de/go/viewcut/subject"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// frontCamera looks along +y from y = -10.  A 50x50 render maps
// x ∈ [-2.5, 2.5] and z ∈ [-2.5, 2.5] to the full image, 10 pixels per
// scene unit.
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

func newSubject(o *scene.Object, m geometry.Matrix, c color.NRGBA) *subject.Subject {
	return &subject.Subject{
		Instance: &scene.Instance{Object: o, Matrix: m},
		Mesh:     o.Mesh,
		Curve:    o.Curve,
		Color:    c,
	}
}

func render(t *testing.T, h *Host, subjects ...*subject.Subject) *image.NRGBA {
	t.Helper()
	ws, err := h.NewWorkingScene("test")
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()
	for _, s := range subjects {
		if err := ws.Link(s); err != nil {
			t.Fatal(err)
		}
	}
	img, err := ws.Render(context.Background(), 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	return img.(*image.NRGBA)
}

func countColor(img *image.NRGBA, c color.NRGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestRenderCube(t *testing.T) {
	h := NewHost(frontCamera())
	img := render(t, h, newSubject(scene.Cube("A", 2), geometry.Identity, red))

	if got := countColor(img, red); got != 400 {
		t.Errorf("cube covers %d pixels, want 400", got)
	}
	if got := img.NRGBAAt(25, 25); got != red {
		t.Errorf("center pixel is %v", got)
	}
	if got := img.NRGBAAt(2, 2); got.A != 0 {
		t.Errorf("background pixel is %v", got)
	}
	for _, c := range img.Pix {
		if c != 0 && c != 255 {
			t.Fatalf("render is not flat: found component %d", c)
		}
	}
}

func TestRenderOcclusion(t *testing.T) {
	near := scene.Cube("near", 2)
	far := scene.Cube("far", 4)
	for _, reversed := range []bool{false, true} {
		h := NewHost(frontCamera())
		a := newSubject(far, geometry.Identity, blue)
		b := newSubject(near, geometry.Translate(0, -3, 0), red)
		var img *image.NRGBA
		if reversed {
			img = render(t, h, b, a)
		} else {
			img = render(t, h, a, b)
		}

		if got := img.NRGBAAt(25, 25); got != red {
			t.Errorf("reversed=%t: center pixel is %v, want near cube", reversed, got)
		}
		if got := img.NRGBAAt(40, 25); got != blue {
			t.Errorf("reversed=%t: side pixel is %v, want far cube", reversed, got)
		}
		if got := countColor(img, red); got != 400 {
			t.Errorf("reversed=%t: near cube covers %d pixels", reversed, got)
		}
		if got := countColor(img, blue); got != 1600-400 {
			t.Errorf("reversed=%t: far cube covers %d pixels", reversed, got)
		}
	}
}

func TestRenderBehindCamera(t *testing.T) {
	h := NewHost(frontCamera())
	img := render(t, h, newSubject(scene.Cube("A", 1), geometry.Translate(0, -11, 0), red))
	if got := countColor(img, red); got != 0 {
		t.Errorf("cube behind the camera covers %d pixels", got)
	}
}

func TestRenderNearClip(t *testing.T) {
	// The cube straddles the near plane.  Its front face is clipped, but
	// the back face still covers the full square.
	h := NewHost(frontCamera())
	img := render(t, h, newSubject(scene.Cube("A", 2), geometry.Translate(0, -9.9, 0), red))
	if got := countColor(img, red); got != 400 {
		t.Errorf("clipped cube covers %d pixels, want 400", got)
	}
}

func TestRenderEdgeOn(t *testing.T) {
	// The plane contains the view direction, so it has no area.
	o := scene.Plane("P", 2)
	h := NewHost(frontCamera())
	img := render(t, h, newSubject(o, geometry.Identity, red))
	if got := countColor(img, red); got != 0 {
		t.Errorf("edge-on plane covers %d pixels", got)
	}
}

func TestRenderCurve(t *testing.T) {
	o := scene.Polyline("L", 0.4, false,
		r3.Vector{X: -2, Z: 0}, r3.Vector{X: 2, Z: 0})
	h := NewHost(frontCamera())
	img := render(t, h, newSubject(o, geometry.Identity, blue))

	for _, p := range []image.Point{{25, 24}, {25, 25}, {10, 23}, {40, 26}} {
		if got := img.NRGBAAt(p.X, p.Y); got != blue {
			t.Errorf("pixel %v is %v, want line color", p, got)
		}
	}
	for _, p := range []image.Point{{25, 20}, {25, 30}, {1, 25}, {49, 25}} {
		if got := img.NRGBAAt(p.X, p.Y); got.A != 0 {
			t.Errorf("pixel %v is %v, want background", p, got)
		}
	}
}

func TestWorkingSceneClose(t *testing.T) {
	h := NewHost(frontCamera())
	ws, err := h.NewWorkingScene("a")
	if err != nil {
		t.Fatal(err)
	}
	if h.Live() != 1 {
		t.Errorf("Live() = %d, want 1", h.Live())
	}
	if err := ws.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ws.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if h.Live() != 0 {
		t.Errorf("Live() = %d after Close, want 0", h.Live())
	}

	s := newSubject(scene.Cube("A", 1), geometry.Identity, red)
	if err := ws.Link(s); !errors.Is(err, ErrClosed) {
		t.Errorf("Link after Close: got %v", err)
	}
	if _, err := ws.Render(context.Background(), 10, 10); !errors.Is(err, ErrClosed) {
		t.Errorf("Render after Close: got %v", err)
	}
}

func TestRenderCancelled(t *testing.T) {
	h := NewHost(frontCamera())
	ws, err := h.NewWorkingScene("a")
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ws.Render(ctx, 10, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestRenderDump(t *testing.T) {
	h := NewHost(frontCamera())
	h.DumpDir = t.TempDir()
	render(t, h, newSubject(scene.Cube("A", 1), geometry.Identity, red))

	if _, err := os.Stat(filepath.Join(h.DumpDir, "test-50x50.png")); err != nil {
		t.Error(err)
	}
}
