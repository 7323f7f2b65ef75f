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

// Package softrender is a software implementation of the working scenes
// used by the render orchestrator.
//
// Renders are flat: faces are filled with the color of their subject,
// without shading or anti-aliasing, and the background is transparent.
// Hidden surfaces are removed with the painter's algorithm.
package softrender

import (
	"errors"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/orchestrate"
	"seehuhn.de/go/viewcut/subject"
)

// ErrClosed is returned when a closed working scene is used.
var ErrClosed = errors.New("working scene is closed")

// Host creates working scenes which render through a fixed camera.
// A Host is not safe for concurrent use.
type Host struct {
	Camera *geometry.Camera

	// DumpDir, if set, is a directory where every render is written as a
	// PNG file.
	DumpDir string

	live int
}

// NewHost returns a host rendering through cam.
func NewHost(cam *geometry.Camera) *Host {
	return &Host{Camera: cam}
}

// NewWorkingScene implements [orchestrate.Host].
func (h *Host) NewWorkingScene(name string) (orchestrate.WorkingScene, error) {
	if h.Camera == nil {
		return nil, errors.New("host has no camera")
	}
	h.live++
	diag.Logger().Debug("working scene created", "scene", name)
	return &workingScene{host: h, name: name}, nil
}

// Live returns the number of working scenes which have not been closed.
func (h *Host) Live() int {
	return h.live
}

type workingScene struct {
	host   *Host
	name   string
	items  []*subject.Subject
	closed bool
}

// Link adds a subject to the scene.  Subjects without geometry are
// accepted and never drawn.
func (ws *workingScene) Link(s *subject.Subject) error {
	if ws.closed {
		return ErrClosed
	}
	ws.items = append(ws.items, s)
	return nil
}

// Close unlinks all subjects and removes the scene.  Closing a scene more
// than once has no effect.
func (ws *workingScene) Close() error {
	if ws.closed {
		return nil
	}
	ws.closed = true
	ws.items = nil
	ws.host.live--
	diag.Logger().Debug("working scene removed", "scene", ws.name)
	return nil
}
