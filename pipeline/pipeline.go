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

// Package pipeline reconciles ray-cast scans with the ray-cast cache, to
// find out which objects changed since the last invocation.
//
// A run has three stages.  First every scan region is scanned, then the
// results of each region are compared with the cache and absorbed into
// it, and finally the updated cache is handed on for persistence.  The
// result of each stage is passed to the registered observers.
package pipeline

import (
	"context"
	"slices"

	"seehuhn.de/go/viewcut/frame"
	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/scan"
	"seehuhn.de/go/viewcut/scene"
)

// Region is a set of samples scanned together.
type Region struct {
	Name    string
	Samples []scan.Sample
}

// Selection describes one selected object.
type Selection struct {
	Name string

	// Refs lists the objects whose earlier footprint is re-scanned.  For
	// an empty this includes the objects of the instanced collection.
	Refs []scene.Ref

	// Instances are the current instances of the object.
	Instances []*scene.Instance
}

// Outcome is the result of [Pipeline.Run].
type Outcome struct {
	// Visible lists the instances seen at any scanned sample.
	Visible []*scene.Instance

	// Changed lists the objects touched by changed or new samples.
	Changed []scene.Ref

	// DrawList lists the objects to draw: those still pending from
	// before, the changed ones and the selected ones.
	DrawList []scene.Ref

	// CacheWritten reports whether the cache file was rewritten.
	CacheWritten bool
}

// Pipeline runs the change detection of one invocation.
type Pipeline struct {
	Scanner *scan.Scanner
	Cache   *scan.Cache

	// CachePath is where the cache is stored.  If empty, the cache is not
	// persisted.
	CachePath string

	// PreviouslyDrawn lists the objects already on the draw list of the
	// caller.  Objects which were drawn and did not change since are not
	// included.
	PreviouslyDrawn []scene.Ref

	observers []Observer
	cast      scan.Results
	changed   []scene.Ref
	written   bool
}

// New returns a pipeline which scans with s and updates cache.
func New(s *scan.Scanner, cache *scan.Cache) *Pipeline {
	p := &Pipeline{
		Scanner: s,
		Cache:   cache,
		cast:    scan.Results{},
	}
	p.observers = []Observer{
		&cacheUpdater{cache: cache},
		&drawLister{p: p},
		&persister{p: p},
	}
	return p
}

// Subscribe registers an observer.  Observers are called after the
// built-in ones, which update the cache, maintain the draw list and write
// the cache file.
func (p *Pipeline) Subscribe(o Observer) {
	p.observers = append(p.observers, o)
}

// Regions returns the regions to scan.  Without selection, this is the
// full frame.  Otherwise every selected object gives one region, made of
// the samples where the cache shows the object and the samples covering
// its current bounding rectangle.
func (p *Pipeline) Regions(sel []Selection) []*Region {
	step := p.Scanner.Step
	if len(sel) == 0 {
		return []*Region{{Name: "frame", Samples: scan.Grid(step)}}
	}

	var res []*Region
	for _, s := range sel {
		seen := map[scan.Sample]bool{}
		var samples []scan.Sample
		add := func(list []scan.Sample) {
			for _, smp := range list {
				if !seen[smp] {
					seen[smp] = true
					samples = append(samples, smp)
				}
			}
		}
		for _, ref := range s.Refs {
			add(p.Cache.Footprint(ref))
		}
		for _, inst := range s.Instances {
			fr := frame.Classify(inst, p.Scanner.Camera)
			if fr == nil || !fr.Framed {
				continue
			}
			add(scan.RectSamples(geometry.RectOfBox(&fr.Box, step), step))
		}
		scan.Sort(samples)
		res = append(res, &Region{Name: s.Name, Samples: samples})
	}
	return res
}

// ScanRegion casts rays for all samples of r.  Samples already cast
// during this run are not cast again.
func (p *Pipeline) ScanRegion(ctx context.Context, r *Region) (*ScannedArea, error) {
	var missing []scan.Sample
	for _, s := range r.Samples {
		if _, done := p.cast[s]; !done {
			missing = append(missing, s)
		}
	}
	fresh, err := p.Scanner.Scan(ctx, missing)
	if err != nil {
		return nil, err
	}
	for s, inst := range fresh {
		p.cast[s] = inst
	}

	res := make(scan.Results, len(r.Samples))
	for _, s := range r.Samples {
		res[s] = p.cast[s]
	}
	diag.Logger().Debug("region scanned",
		"region", r.Name, "samples", len(r.Samples), "cast", len(missing))
	return &ScannedArea{Region: r, Results: res}, nil
}

// Analyze compares the scan results of one region with the cache.
func (p *Pipeline) Analyze(a *ScannedArea) *AnalyzedData {
	d := p.Cache.Diff(a.Results)
	diag.Logger().Debug("region analyzed",
		"region", a.Region.Name,
		"unchanged", d.Count(scan.Unchanged),
		"changed", d.Count(scan.Changed),
		"new", d.Count(scan.New))
	return &AnalyzedData{Region: a.Region, Diff: d, Changed: d.Objects()}
}

// Run scans the regions for the given selection, updates the cache and
// computes the draw list.
//
// The context is checked between stages.
func (p *Pipeline) Run(ctx context.Context, sel []Selection) (*Outcome, error) {
	regions := p.Regions(sel)

	var areas []*ScannedArea
	for _, r := range regions {
		a, err := p.ScanRegion(ctx, r)
		if err != nil {
			return nil, err
		}
		if err := p.notify(func(o Observer) error { return o.ScannedArea(a) }); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, a := range areas {
		d := p.Analyze(a)
		if err := p.notify(func(o Observer) error { return o.AnalyzedData(d) }); err != nil {
			return nil, err
		}
	}

	u := &UpdatedRayCast{Cache: p.Cache, Changed: slices.Clone(p.changed)}
	if err := p.notify(func(o Observer) error { return o.UpdatedRayCast(u) }); err != nil {
		return nil, err
	}

	out := &Outcome{
		Visible:      p.cast.Instances(),
		Changed:      slices.Clone(p.changed),
		CacheWritten: p.written,
	}
	out.DrawList = appendRefs(out.DrawList, p.PreviouslyDrawn)
	out.DrawList = appendRefs(out.DrawList, p.changed)
	for _, s := range sel {
		out.DrawList = appendRefs(out.DrawList, s.Refs)
	}

	diag.Logger().Info("ray cast updated",
		"regions", len(regions),
		"samples", len(p.cast),
		"changed", len(out.Changed),
		"written", out.CacheWritten)
	return out, nil
}

func (p *Pipeline) notify(call func(Observer) error) error {
	for _, o := range p.observers {
		if err := call(o); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) addChanged(refs []scene.Ref) {
	p.changed = appendRefs(p.changed, refs)
}

// appendRefs appends the elements of refs not yet in list.
func appendRefs(list, refs []scene.Ref) []scene.Ref {
	for _, r := range refs {
		if !slices.Contains(list, r) {
			list = append(list, r)
		}
	}
	return list
}
