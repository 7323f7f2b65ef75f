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

// Package orchestrate drives the host renderer to find out which subjects
// are visible and which pixels each of them covers.
//
// A classification render of all subjects at high resolution decides
// visibility.  The visible subjects are then split into groups with
// disjoint bounding rectangles, and each group is rendered at drawing
// resolution, so that every pixel of a group render belongs to exactly one
// subject.
package orchestrate

import (
	"context"
	"fmt"
	"image"
	"time"

	"golang.org/x/image/draw"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/partition"
	"seehuhn.de/go/viewcut/subject"
)

// DefaultScale is the resolution factor of the classification render.
const DefaultScale = 4

// Options control a run of the orchestrator.
type Options struct {
	// Width and Height give the drawing resolution in pixels.
	Width, Height int

	// Scale is the resolution factor of the classification render,
	// relative to the drawing resolution.  Zero means [DefaultScale].
	Scale int

	// Step is the scan grid step used to widen bounding rectangles.
	Step float64

	// DrawAll keeps all subjects, whether they show in the classification
	// render or not.
	DrawAll bool

	// Camera is used for the geometric cut test of subjects which do not
	// show in the classification render.
	Camera *geometry.Camera
}

// Result holds the outcome of [Run].
type Result struct {
	// Subjects are the visible subjects, with pixel sets filled in.
	Subjects []*subject.Subject

	// Groups are the render groups used for pixel attribution.
	Groups [][]*subject.Subject

	// Classification is the classification render, downscaled to drawing
	// resolution.
	Classification *image.NRGBA

	// PreviousPixel lists the subjects which now occupy pixels covered by
	// a selected subject in an earlier invocation.
	PreviousPixel []*subject.Subject
}

// Run finds the visible subjects of reg and attributes pixels to them.
// Subjects which are found invisible are removed from reg.
//
// The context is checked between phases; a render, once started, is not
// interrupted.
func Run(ctx context.Context, host Host, reg *subject.Registry, opts *Options) (*Result, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid drawing size %dx%d", opts.Width, opts.Height)
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	log := diag.Logger()

	// Phase A: classification render
	start := time.Now()
	var classified *image.NRGBA
	err := withScene(host, "classification", reg.Subjects(), func(ws WorkingScene) error {
		img, err := ws.Render(ctx, opts.Width*scale, opts.Height*scale)
		if err != nil {
			return err
		}
		classified = toNRGBA(img)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: classification: %w", diag.ErrRender, err)
	}
	present := colorsPresent(classified, reg)
	before := reg.Len()
	reg.Retain(func(s *subject.Subject) bool {
		switch {
		case present[s.ID], opts.DrawAll:
			return true
		case opts.Camera != nil && s.CrossesCut(opts.Camera):
			log.Debug("kept by cut test", "subject", s)
			return true
		}
		return false
	})
	log.Debug("classification done",
		"subjects", before, "visible", reg.Len(), "duration", time.Since(start))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase B: bounding rectangle overlaps
	reg.ComputeRects(opts.Step)
	reg.ComputeBBoxOverlaps()

	// Phase C: render groups
	groups := partition.Partition(reg.Subjects(), reg.BBox)
	log.Debug("subjects partitioned", "groups", len(groups))

	// Phase D: per-group renders
	start = time.Now()
	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := fmt.Sprintf("group %d", i)
		err := withScene(host, name, group, func(ws WorkingScene) error {
			img, err := ws.Render(ctx, opts.Width, opts.Height)
			if err != nil {
				return err
			}
			claimPixels(toNRGBA(img), group)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", diag.ErrRender, name, err)
		}
	}
	log.Debug("group renders done", "groups", len(groups), "duration", time.Since(start))

	// Phase E: exact overlaps
	reg.ComputePixelOverlaps()

	// Phase F: previous-state diff
	baseline := downscale(classified, opts.Width, opts.Height)
	previous := previousPixelSubjects(baseline, reg)

	return &Result{
		Subjects:       reg.Subjects(),
		Groups:         groups,
		Classification: baseline,
		PreviousPixel:  previous,
	}, nil
}

// toNRGBA returns img as an NRGBA image with origin (0, 0).
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if res, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return res
	}
	res := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(res, res.Bounds(), img, b.Min, draw.Src)
	return res
}

// colorsPresent returns the IDs of all subjects whose color occurs in img.
func colorsPresent(img *image.NRGBA, reg *subject.Registry) map[int]bool {
	res := map[int]bool{}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.A != 255 {
				continue
			}
			if s := reg.ByColor(c); s != nil {
				res[s.ID] = true
			}
		}
	}
	return res
}

// claimPixels adds the pixels of a group render to the pixel sets of the
// group members.  Only the pixel rectangle of each member is inspected.
func claimPixels(img *image.NRGBA, group []*subject.Subject) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for _, s := range group {
		r := geometry.PixelRect(s.Rect, w, h)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := img.NRGBAAt(x, y)
				// Rectangles of group members may share a boundary
				// column, so the color is checked as well.
				if c.A == 255 && c == s.Color {
					s.Pixels.Add(y*w + x)
				}
			}
		}
	}
}

// downscale maps img to the given size by nearest-neighbour sampling.
func downscale(img *image.NRGBA, width, height int) *image.NRGBA {
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		return img
	}
	res := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(res, res.Bounds(), img, img.Bounds(), draw.Src, nil)
	return res
}

// previousPixelSubjects looks up the earlier pixels of all selected
// subjects in the baseline classification image, and returns the
// unselected subjects now found there, in order of their IDs.
func previousPixelSubjects(baseline *image.NRGBA, reg *subject.Registry) []*subject.Subject {
	w, h := baseline.Bounds().Dx(), baseline.Bounds().Dy()
	found := map[int]bool{}
	for _, s := range reg.Subjects() {
		if !s.Selected || len(s.Previous) == 0 {
			continue
		}
		for _, r := range s.Previous {
			for p := max(r.First, 0); p <= r.Last && p < w*h; p++ {
				o := reg.ByColor(baseline.NRGBAAt(p%w, p/w))
				if o != nil && o != s && !o.Selected {
					found[o.ID] = true
				}
			}
		}
	}

	var res []*subject.Subject
	for _, s := range reg.Subjects() {
		if found[s.ID] {
			res = append(res, s)
		}
	}
	if len(res) > 0 {
		diag.Logger().Debug("previous-pixel subjects", "count", len(res))
	}
	return res
}
