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

	"seehuhn.de/go/viewcut/subject"
)

// Host is the renderer of the host application.
type Host interface {
	// NewWorkingScene creates an empty scene, separate from the user's
	// scene, which renders through the active camera.
	NewWorkingScene(name string) (WorkingScene, error)
}

// WorkingScene is a scene owned by viewcut for the duration of a render.
//
// Render must produce a flat image without anti-aliasing: the background
// has alpha 0 and every pixel covered by a subject has exactly the color
// of that subject, with alpha 255.
type WorkingScene interface {
	Link(s *subject.Subject) error
	Render(ctx context.Context, width, height int) (image.Image, error)

	// Close unlinks all subjects and removes the scene.
	Close() error
}

// withScene runs fn on a new working scene holding the given subjects.
// The scene is closed on all paths.
func withScene(host Host, name string, subjects []*subject.Subject, fn func(WorkingScene) error) (err error) {
	ws, err := host.NewWorkingScene(name)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ws.Close())
	}()

	for _, s := range subjects {
		if err := ws.Link(s); err != nil {
			return err
		}
	}
	return fn(ws)
}
