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

package pipeline

import (
	"seehuhn.de/go/viewcut/scan"
	"seehuhn.de/go/viewcut/scene"
)

// Observer is notified of the results of the pipeline stages.
//
// Observers are called synchronously, in the order they were registered.
// They must not call back into the pipeline.  If an observer returns an
// error, the pipeline stops.
type Observer interface {
	ScannedArea(*ScannedArea) error
	AnalyzedData(*AnalyzedData) error
	UpdatedRayCast(*UpdatedRayCast) error
}

// NopObserver implements all methods of [Observer] as no-ops.  It can be
// embedded by observers interested only in some of the stages.
type NopObserver struct{}

// ScannedArea implements [Observer].
func (NopObserver) ScannedArea(*ScannedArea) error { return nil }

// AnalyzedData implements [Observer].
func (NopObserver) AnalyzedData(*AnalyzedData) error { return nil }

// UpdatedRayCast implements [Observer].
func (NopObserver) UpdatedRayCast(*UpdatedRayCast) error { return nil }

// ScannedArea holds the scan results of one region.
type ScannedArea struct {
	Region  *Region
	Results scan.Results
}

// AnalyzedData holds the comparison of one region's scan results with the
// ray-cast cache.
type AnalyzedData struct {
	Region *Region
	Diff   *scan.Diff

	// Changed lists the objects touched by changed or new samples.
	Changed []scene.Ref
}

// UpdatedRayCast is posted once the cache has absorbed all scan results.
type UpdatedRayCast struct {
	Cache *scan.Cache

	// Changed lists the objects touched by changed or new samples of all
	// regions.
	Changed []scene.Ref
}

// cacheUpdater stores the scan results in the cache.
type cacheUpdater struct {
	NopObserver
	cache *scan.Cache
}

func (u *cacheUpdater) AnalyzedData(d *AnalyzedData) error {
	u.cache.Apply(d.Diff)
	return nil
}

// drawLister adds changed objects to the draw list.
type drawLister struct {
	NopObserver
	p *Pipeline
}

func (l *drawLister) AnalyzedData(d *AnalyzedData) error {
	l.p.addChanged(d.Changed)
	return nil
}

// persister writes the cache back to disk, if anything changed.
type persister struct {
	NopObserver
	p *Pipeline
}

func (w *persister) UpdatedRayCast(u *UpdatedRayCast) error {
	if w.p.CachePath == "" || (len(u.Changed) == 0 && !u.Cache.Partial) {
		return nil
	}
	if err := u.Cache.Store(w.p.CachePath); err != nil {
		return err
	}
	w.p.written = true
	return nil
}
