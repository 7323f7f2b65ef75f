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
	"image/color"
	"slices"

	"seehuhn.de/go/viewcut/frame"
	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/scene"
)

// Env holds the information needed to turn framed instances into
// subjects.
type Env struct {
	Camera *geometry.Camera

	// Tree is used to find the collections of each instance.  If Tree is
	// nil, no memberships are recorded.
	Tree *scene.Tree

	// Styles are the styles requested by the user.
	Styles Styles

	// Selected lists the selected objects.
	Selected map[scene.Ref]bool

	// Previous holds the pixel ranges of an earlier invocation.  It may
	// be nil.  Selected subjects get the ranges of all earlier placements
	// of their object, other subjects those of their own placement.
	Previous *RangeStore
}

// Registry holds the subjects of one invocation.
type Registry struct {
	subjects []*Subject
	byColor  map[color.NRGBA]*Subject
	byID     map[int]*Subject

	// BBox connects subjects whose bounding rectangles overlap.
	BBox *Graph

	// Exact connects subjects which share at least one pixel.  It is
	// filled by [Registry.ComputePixelOverlaps].
	Exact    *Graph
	hasExact bool
}

// NewRegistry creates one subject for every result.  Results for the same
// instance give a single subject.
func NewRegistry(results []*frame.Result, env *Env) *Registry {
	r := &Registry{
		byColor: map[color.NRGBA]*Subject{},
		byID:    map[int]*Subject{},
		BBox:    NewGraph(),
		Exact:   NewGraph(),
	}

	seen := map[*scene.Instance]bool{}
	for _, res := range results {
		inst := res.Instance
		if seen[inst] {
			continue
		}
		seen[inst] = true

		s := &Subject{
			ID:       len(r.subjects),
			Instance: inst,
			Box:      res.Box,
			InFront:  res.InFront,
			Behind:   res.Behind,
			Selected: env.Selected[inst.Ref()],
		}
		switch o := inst.Object; {
		case o.Mesh != nil:
			s.Mesh = o.Mesh.Clone()
		case o.Curve != nil:
			s.Curve = o.Curve.Clone()
		}
		flags := Flags{
			InFront: s.InFront,
			Behind:  s.Behind,
			Symbol:  inst.Object.Symbol,
		}
		if env.Camera != nil {
			flags.Mirrored = env.Camera.Mirrored
		}
		s.Styles = DeriveStyles(env.Styles, flags)
		if env.Tree != nil {
			s.Collections = env.Tree.CollectionsOf(inst)
		}
		switch {
		case env.Previous == nil:
		case s.Selected:
			// a selected object may have moved since
			s.Previous = env.Previous.ForRef(inst.Ref())
		default:
			s.Previous = env.Previous.Get(inst.Key())
		}
		r.subjects = append(r.subjects, s)
		r.byID[s.ID] = s
	}

	for i, c := range Spectrum(len(r.subjects)) {
		s := r.subjects[i]
		s.Color = c
		r.byColor[c] = s
	}
	diag.Logger().Debug("subjects created",
		"subjects", len(r.subjects), "levels", SpectrumSize(len(r.subjects)))
	return r
}

// Len returns the number of live subjects.
func (r *Registry) Len() int {
	return len(r.subjects)
}

// Subjects returns the live subjects in order of creation.  The caller
// must not modify the returned slice.
func (r *Registry) Subjects() []*Subject {
	return r.subjects
}

// ByID returns the subject with the given ID, or nil.
func (r *Registry) ByID(id int) *Subject {
	return r.byID[id]
}

// ByColor returns the subject drawn in color c, or nil.  Colors which are
// not fully opaque never belong to a subject.
func (r *Registry) ByColor(c color.Color) *Subject {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	if nc.A != 255 {
		return nil
	}
	return r.byColor[nc]
}

// Retain removes all subjects for which keep returns false.  The colors
// of the remaining subjects are unchanged.
func (r *Registry) Retain(keep func(*Subject) bool) {
	r.subjects = slices.DeleteFunc(r.subjects, func(s *Subject) bool {
		if keep(s) {
			return false
		}
		delete(r.byColor, s.Color)
		delete(r.byID, s.ID)
		r.BBox.Drop(s.ID)
		r.Exact.Drop(s.ID)
		return true
	})
}

// ComputeRects sets the bounding rectangles of all subjects, widened to
// the grid with the given step.
func (r *Registry) ComputeRects(step float64) {
	for _, s := range r.subjects {
		s.Rect = geometry.RectOfBox(&s.Box, step)
	}
}

// ComputeBBoxOverlaps connects all pairs of subjects whose bounding
// rectangles overlap.
func (r *Registry) ComputeBBoxOverlaps() {
	for i, a := range r.subjects {
		for _, b := range r.subjects[i+1:] {
			if geometry.RectsOverlap(a.Rect, b.Rect) {
				r.BBox.Add(a.ID, b.ID)
			}
		}
	}
}

// ComputePixelOverlaps connects all pairs of subjects which share a pixel.
// From then on, [Registry.Overlapping] reports these exact overlaps.
func (r *Registry) ComputePixelOverlaps() {
	owners := map[int][]int{}
	for _, s := range r.subjects {
		for _, p := range s.Pixels.Pixels() {
			owners[p] = append(owners[p], s.ID)
		}
	}
	r.Exact = NewGraph()
	for _, ids := range owners {
		for i, a := range ids {
			for _, b := range ids[i+1:] {
				r.Exact.Add(a, b)
			}
		}
	}
	r.hasExact = true
}

// Overlapping returns the subjects overlapping s.  Before pixel overlaps
// are known, bounding rectangles are used.
func (r *Registry) Overlapping(s *Subject) []*Subject {
	g := r.BBox
	if r.hasExact {
		g = r.Exact
	}
	return r.resolve(g.Neighbors(s.ID))
}

func (r *Registry) resolve(ids []int) []*Subject {
	res := make([]*Subject, 0, len(ids))
	for _, id := range ids {
		if s := r.byID[id]; s != nil {
			res = append(res, s)
		}
	}
	return res
}
