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

// Package viewcut finds out what a 2D drawing of a 3D scene has to show.
//
// For a camera and a set of selected objects, [Run] determines which
// objects are visible, which of them are cut by the near plane of the
// camera, and which pixels of the drawing each of them covers.  A ray-cast
// cache kept between invocations localizes changes, so that only objects
// which moved need to be drawn again.
package viewcut

//go:generate go run ./testscenes/export

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"slices"
	"time"

	"seehuhn.de/go/viewcut/config"
	"seehuhn.de/go/viewcut/frame"
	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/orchestrate"
	"seehuhn.de/go/viewcut/pipeline"
	"seehuhn.de/go/viewcut/scan"
	"seehuhn.de/go/viewcut/scene"
	"seehuhn.de/go/viewcut/softrender"
	"seehuhn.de/go/viewcut/subject"
)

// Selection errors.  They are reported before any file is touched.
var (
	ErrNoCamera        = fmt.Errorf("%w: no camera", diag.ErrInvalidSelection)
	ErrMultipleCameras = fmt.Errorf("%w: more than one camera", diag.ErrInvalidSelection)
	ErrNotRenderable   = fmt.Errorf("%w: object cannot be drawn", diag.ErrInvalidSelection)
	ErrUnknownObject   = fmt.Errorf("%w: unknown object", diag.ErrInvalidSelection)
)

// DefaultStep is the scan grid step used when no resolution is given.
const DefaultStep = 0.1

// SetLogger sets the logger used by viewcut and its sub-packages.
// Logging is disabled by default; nil disables it again.
func SetLogger(l *slog.Logger) {
	diag.SetLogger(l)
}

// Options control an invocation.
type Options struct {
	// Names lists the named objects.  Together with the selection of the
	// scene they must contain exactly one camera.
	Names []string

	// Styles are the requested drawing styles.  Zero means
	// [subject.DefaultStyles].
	Styles subject.Styles

	// Resolution is the scan resolution.  If nil, [DefaultStep] is used.
	Resolution *config.Resolution

	// DrawAll keeps all framed objects, visible or not.
	DrawAll bool

	// Width and Height give the drawing resolution in pixels.  Zero
	// values mean the defaults from [config.Default].
	Width, Height int

	// Scale is the resolution factor of the classification render.
	Scale int

	// CachePath is the ray-cast cache file.  If empty, no cache is kept
	// between invocations.
	CachePath string

	// RangesPath is the file for the pixel ranges of drawn subjects.  If
	// empty, previous pixels are not tracked.
	RangesPath string

	// Host renders the working scenes.  If nil, the software renderer is
	// used.
	Host orchestrate.Host

	// DumpDir, if set, receives a PNG file for every render of the
	// software renderer.
	DumpDir string

	// Pending lists objects which are already on the draw list of the
	// caller and have not been drawn yet.  They stay on the draw list.
	Pending []scene.Ref
}

// Drawing is the outcome of an invocation.
type Drawing struct {
	// Camera is the camera of the invocation, with the world matrix of
	// the camera object.
	Camera *geometry.Camera

	// Step is the scan grid step.
	Step float64

	// Subjects are the visible subjects, in order of creation.
	Subjects []*subject.Subject

	// Registry holds the subjects together with their overlap graphs.
	Registry *subject.Registry

	// Groups are the render groups used to attribute pixels.
	Groups [][]*subject.Subject

	// Classification is the classification render at drawing resolution.
	Classification *image.NRGBA

	// PreviousPixel lists the subjects which now show where a selected
	// subject was drawn before.  They must be drawn again.
	PreviousPixel []*subject.Subject

	// Visible lists the instances seen by the ray casts.
	Visible []*scene.Instance

	// Changed lists the objects whose visible footprint changed.
	Changed []scene.Ref

	// DrawList lists the objects which need to be drawn.
	DrawList []scene.Ref

	// CacheWritten reports whether the ray-cast cache file was rewritten.
	CacheWritten bool
}

// Run performs one invocation on the scene s.
//
// The context is checked between phases.  Scans and renders which have
// started run to completion.
func Run(ctx context.Context, s *scene.Scene, opts *Options) (*Drawing, error) {
	start := time.Now()
	log := diag.Logger()

	sel, err := resolve(s, opts.Names)
	if err != nil {
		return nil, err
	}
	cam, err := sel.camera()
	if err != nil {
		return nil, err
	}
	step := DefaultStep
	if opts.Resolution != nil {
		step, err = opts.Resolution.Step(cam.OrthoScale)
		if err != nil {
			return nil, err
		}
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		def := config.Default()
		width, height = def.Width, def.Height
	}
	styles := opts.Styles
	if styles == 0 {
		styles = subject.DefaultStyles
	}
	log.Info("invocation started",
		"scene", s.Name, "camera", sel.cam.Name, "objects", len(sel.objects), "step", step)

	cache := scan.NewCache()
	if opts.CachePath != "" {
		cache, err = scan.Load(opts.CachePath)
		if err != nil {
			return nil, err
		}
	}
	previous, err := loadRanges(opts.RangesPath, width, height)
	if err != nil {
		return nil, err
	}

	in := scene.NewInterner()
	instances := s.Instances(in)

	// change detection
	scanner := &scan.Scanner{
		Caster: scene.NewRayCaster(s, in),
		Camera: cam,
		Step:   step,
	}
	p := pipeline.New(scanner, cache)
	p.CachePath = opts.CachePath
	p.PreviouslyDrawn = opts.Pending
	selections, selected := sel.selections(instances)
	out, err := p.Run(ctx, selections)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// visibility and pixels
	reg := subject.NewRegistry(frame.Filter(instances, cam), &subject.Env{
		Camera:   cam,
		Tree:     scene.NewTree(s.Root),
		Styles:   styles,
		Selected: selected,
		Previous: previous,
	})
	host := opts.Host
	if host == nil {
		h := softrender.NewHost(cam)
		h.DumpDir = opts.DumpDir
		host = h
	}
	res, err := orchestrate.Run(ctx, host, reg, &orchestrate.Options{
		Width:   width,
		Height:  height,
		Scale:   opts.Scale,
		Step:    step,
		DrawAll: opts.DrawAll,
		Camera:  cam,
	})
	if err != nil {
		return nil, err
	}

	d := &Drawing{
		Camera:         cam,
		Step:           step,
		Subjects:       res.Subjects,
		Registry:       reg,
		Groups:         res.Groups,
		Classification: res.Classification,
		PreviousPixel:  res.PreviousPixel,
		Visible:        out.Visible,
		Changed:        out.Changed,
		DrawList:       out.DrawList,
		CacheWritten:   out.CacheWritten,
	}
	for _, sub := range res.PreviousPixel {
		if r := sub.Instance.Ref(); !slices.Contains(d.DrawList, r) {
			d.DrawList = append(d.DrawList, r)
		}
	}

	if opts.RangesPath != "" {
		if err := storeRanges(opts.RangesPath, width, height, res.Subjects); err != nil {
			return nil, err
		}
	}

	log.Info("invocation done",
		"subjects", len(d.Subjects),
		"groups", len(d.Groups),
		"changed", len(d.Changed),
		"draw", len(d.DrawList),
		"duration", time.Since(start))
	return d, nil
}

// loadRanges reads the pixel ranges of the previous invocation.  Ranges
// for a different drawing resolution are ignored.
func loadRanges(path string, width, height int) (*subject.RangeStore, error) {
	if path == "" {
		return nil, nil
	}
	rs, err := subject.LoadRanges(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(rs.Keys()) > 0 && (rs.Width != width || rs.Height != height) {
		diag.Logger().Debug("previous ranges ignored",
			"width", rs.Width, "height", rs.Height)
		return nil, nil
	}
	return rs, nil
}

func storeRanges(path string, width, height int, subjects []*subject.Subject) error {
	rs := subject.NewRangeStore(width, height)
	for _, s := range subjects {
		if s.Pixels.Len() > 0 {
			rs.Put(s.Key(), s.Pixels.Ranges())
		}
	}
	return rs.Store(path)
}
