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


package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"seehuhn.de/go/viewcut/internal/diag"
)

// settle is the time to wait for further changes after a scene file event,
// since editors often write a file in several steps.
const settle = 200 * time.Millisecond

// watch runs an invocation, and runs again whenever the scene file
// changes, until ctx is cancelled.  Failed invocations are reported but
// do not end the loop.
func (c *command) watch(ctx context.Context) error {
	target, err := filepath.Abs(c.sceneFile)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, so that files replaced by rename are seen.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	log := diag.Logger()
	once := func() {
		if err := c.invoke(ctx); err != nil {
			fmt.Fprintf(c.out, "error %v\n", err)
			log.Warn("invocation failed", "code", string(diag.Classify(err)), "error", err)
		}
	}
	once()

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				log.Debug("scene file changed", "op", event.Op.String())
				timer = time.After(settle)
			}
		case <-timer:
			timer = nil
			once()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watching scene file", "error", err)
		}
	}
}
