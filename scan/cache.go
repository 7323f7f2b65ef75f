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

package scan

import (
	"slices"

	"seehuhn.de/go/viewcut/scene"
)

// Cache maps every sample visited so far to the key of the instance seen
// there, or to nil where nothing was hit.
type Cache struct {
	entries map[Sample]*scene.Key

	// Partial is set when some lines of the cache file could not be read.
	// A partial cache is always written back.
	Partial bool
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[Sample]*scene.Key{}}
}

// Get returns the key stored for s.  The second return value reports
// whether s is in the cache at all.
func (c *Cache) Get(s Sample) (*scene.Key, bool) {
	k, ok := c.entries[s]
	return k, ok
}

// Set stores the key for s.  A nil key records that nothing was hit.
func (c *Cache) Set(s Sample, k *scene.Key) {
	c.entries[s] = k
}

// Len returns the number of samples in the cache.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Samples returns all samples in (u, v) order.
func (c *Cache) Samples() []Sample {
	res := make([]Sample, 0, len(c.entries))
	for s := range c.entries {
		res = append(res, s)
	}
	Sort(res)
	return res
}

// Footprint returns the samples, in (u, v) order, where the cache shows
// the given object at any position.
func (c *Cache) Footprint(ref scene.Ref) []Sample {
	var res []Sample
	for s, k := range c.entries {
		if k != nil && k.Ref() == ref {
			res = append(res, s)
		}
	}
	Sort(res)
	return res
}

// Status classifies a sample when new scan results are compared with the
// cache.
type Status int

// Possible values of Status.
const (
	Unchanged Status = iota
	Changed
	New
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case New:
		return "new"
	default:
		return "invalid"
	}
}

// Diff is the result of comparing scan results with the cache.
type Diff struct {
	Status map[Sample]Status

	// Keys lists the instances touched by changed or new samples, in
	// sample order, without repetitions.  For a changed sample this is the
	// instance previously seen there, or the new one if nothing was seen
	// before.  For a new sample it is the instance now seen.
	Keys []scene.Key

	results Results
}

// Diff compares scan results with the cache.  The cache is not modified.
func (c *Cache) Diff(res Results) *Diff {
	d := &Diff{
		Status:  make(map[Sample]Status, len(res)),
		results: res,
	}
	seen := map[scene.Key]bool{}
	touch := func(k *scene.Key) {
		if k != nil && !seen[*k] {
			seen[*k] = true
			d.Keys = append(d.Keys, *k)
		}
	}

	for _, s := range res.Samples() {
		next := keyOf(res[s])
		prev, known := c.entries[s]
		switch {
		case !known:
			d.Status[s] = New
			touch(next)
		case equalKeys(prev, next):
			d.Status[s] = Unchanged
		default:
			d.Status[s] = Changed
			if prev != nil {
				touch(prev)
			} else {
				touch(next)
			}
		}
	}
	return d
}

// Count returns the number of samples with the given status.
func (d *Diff) Count(st Status) int {
	n := 0
	for _, s := range d.Status {
		if s == st {
			n++
		}
	}
	return n
}

// Objects returns the distinct objects among Keys.
func (d *Diff) Objects() []scene.Ref {
	var res []scene.Ref
	for _, k := range d.Keys {
		r := k.Ref()
		if !slices.Contains(res, r) {
			res = append(res, r)
		}
	}
	return res
}

// Apply stores the scan results the diff was computed from.
func (c *Cache) Apply(d *Diff) {
	for s, inst := range d.results {
		c.entries[s] = keyOf(inst)
	}
}

func keyOf(inst *scene.Instance) *scene.Key {
	if inst == nil {
		return nil
	}
	k := inst.Key()
	return &k
}

func equalKeys(a, b *scene.Key) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
