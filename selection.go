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

package viewcut

import (
	"fmt"
	"slices"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/pipeline"
	"seehuhn.de/go/viewcut/scene"
)

// selection holds the resolved object names of an invocation.
type selection struct {
	cam     *scene.Object
	objects []*scene.Object
}

// resolve looks up the named objects and the objects selected in the
// scene.  Exactly one of them must be a camera, all others must be
// renderable.
func resolve(s *scene.Scene, names []string) (*selection, error) {
	var all []string
	for _, name := range slices.Concat(names, s.Selection) {
		if !slices.Contains(all, name) {
			all = append(all, name)
		}
	}

	sel := &selection{}
	for _, name := range all {
		o := s.Object(name)
		switch {
		case o == nil:
			return nil, fmt.Errorf("%w %q", ErrUnknownObject, name)
		case o.Type == scene.TypeCamera:
			if sel.cam != nil && sel.cam != o {
				return nil, fmt.Errorf("%w: %q and %q", ErrMultipleCameras, sel.cam.Name, o.Name)
			}
			sel.cam = o
		case !o.Renderable():
			return nil, fmt.Errorf("%w: %q is of type %s", ErrNotRenderable, name, o.Type)
		default:
			sel.objects = append(sel.objects, o)
		}
	}
	if sel.cam == nil {
		return nil, ErrNoCamera
	}
	return sel, nil
}

// camera returns a prepared copy of the selected camera.
func (sel *selection) camera() (*geometry.Camera, error) {
	o := sel.cam
	if o.Camera == nil {
		return nil, fmt.Errorf("%w: %q has no camera data", ErrNoCamera, o.Name)
	}
	cam := *o.Camera
	cam.Matrix = o.Matrix
	if err := cam.Prepare(); err != nil {
		return nil, fmt.Errorf("%w: camera %q: %w", diag.ErrInvalidSelection, o.Name, err)
	}
	return &cam, nil
}

// selections describes the selected objects for the change pipeline, and
// returns the set of selected objects.  The instances of an empty include
// the contents of the collection it instances.
func (sel *selection) selections(instances []*scene.Instance) ([]pipeline.Selection, map[scene.Ref]bool) {
	var res []pipeline.Selection
	selected := map[scene.Ref]bool{}
	for _, o := range sel.objects {
		ps := pipeline.Selection{Name: o.Name}
		for _, inst := range instances {
			if inst.Object != o && inst.Parent != o {
				continue
			}
			if inst.Object == o && o.Type == scene.TypeEmpty {
				// only the contents of the collection are drawn
				continue
			}
			ps.Instances = append(ps.Instances, inst)
			if r := inst.Ref(); !slices.Contains(ps.Refs, r) {
				ps.Refs = append(ps.Refs, r)
			}
		}
		if len(ps.Refs) == 0 {
			// hidden now, but its earlier footprint is still re-scanned
			ps.Refs = []scene.Ref{{Object: o.Name, Library: o.Library}}
		}
		for _, r := range ps.Refs {
			selected[r] = true
		}
		res = append(res, ps)
	}
	return res, selected
}

// CameraObject returns the camera among the named objects and the
// selection of s.  The names are checked as by [Run].
func CameraObject(s *scene.Scene, names []string) (*scene.Object, error) {
	sel, err := resolve(s, names)
	if err != nil {
		return nil, err
	}
	return sel.cam, nil
}
