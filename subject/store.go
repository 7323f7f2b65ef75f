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
	"cmp"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/viewcut/scene"
)

// RangeStore keeps the pixel ranges of drawn subjects between
// invocations.
type RangeStore struct {
	// Width and Height give the drawing resolution the ranges refer to.
	Width, Height int

	ranges map[scene.Key][]Range
}

// NewRangeStore returns an empty store for the given resolution.
func NewRangeStore(width, height int) *RangeStore {
	return &RangeStore{Width: width, Height: height, ranges: map[scene.Key][]Range{}}
}

// Get returns the ranges stored for k.
func (rs *RangeStore) Get(k scene.Key) []Range {
	return rs.ranges[k]
}

// Put stores the ranges for k, replacing earlier values.
func (rs *RangeStore) Put(k scene.Key, ranges []Range) {
	rs.ranges[k] = slices.Clone(ranges)
}

// ForRef returns the union of the ranges stored for all placements of an
// object.
func (rs *RangeStore) ForRef(ref scene.Ref) []Range {
	var pixels []int
	for k, ranges := range rs.ranges {
		if k.Ref() == ref {
			pixels = append(pixels, Expand(ranges)...)
		}
	}
	slices.Sort(pixels)
	return Compress(slices.Compact(pixels))
}

// Delete removes the ranges for k.
func (rs *RangeStore) Delete(k scene.Key) {
	delete(rs.ranges, k)
}

// Keys returns the stored keys in a deterministic order.
func (rs *RangeStore) Keys() []scene.Key {
	res := make([]scene.Key, 0, len(rs.ranges))
	for k := range rs.ranges {
		res = append(res, k)
	}
	slices.SortFunc(res, compareKeys)
	return res
}

func compareKeys(a, b scene.Key) int {
	if c := cmp.Compare(a.Object, b.Object); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Library, b.Library); c != 0 {
		return c
	}
	for i := range 4 {
		for j := range 4 {
			if c := cmp.Compare(a.Matrix[i][j], b.Matrix[i][j]); c != 0 {
				return c
			}
		}
	}
	return 0
}

type storeFile struct {
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Subjects []storeRecord `json:"subjects"`
}

type storeRecord struct {
	Object  string        `json:"object"`
	Library *string       `json:"library"`
	Matrix  [4][4]float64 `json:"matrix"`
	Ranges  [][2]int      `json:"ranges"`
}

// LoadRanges reads a range store from path.  A missing file gives an
// empty store.
func LoadRanges(path string) (*RangeStore, error) {
	fd, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewRangeStore(0, 0), nil
	} else if err != nil {
		return nil, err
	}
	defer fd.Close()
	return ReadRanges(fd)
}

// ReadRanges reads a range store in JSON format.
func ReadRanges(r io.Reader) (*RangeStore, error) {
	var f storeFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, err
	}
	rs := NewRangeStore(f.Width, f.Height)
	for _, rec := range f.Subjects {
		k := scene.Key{Object: rec.Object, Matrix: rec.Matrix}
		if rec.Library != nil {
			k.Library = *rec.Library
		}
		k.Matrix = k.Matrix.Round()
		ranges := make([]Range, len(rec.Ranges))
		for i, p := range rec.Ranges {
			ranges[i] = Range{First: p[0], Last: p[1]}
		}
		rs.ranges[k] = ranges
	}
	return rs, nil
}

// Write writes the store in JSON format.
func (rs *RangeStore) Write(w io.Writer) error {
	f := storeFile{Width: rs.Width, Height: rs.Height, Subjects: []storeRecord{}}
	for _, k := range rs.Keys() {
		rec := storeRecord{Object: k.Object, Matrix: k.Matrix, Ranges: [][2]int{}}
		if k.Library != "" {
			lib := k.Library
			rec.Library = &lib
		}
		for _, r := range rs.ranges[k] {
			rec.Ranges = append(rec.Ranges, [2]int{r.First, r.Last})
		}
		f.Subjects = append(f.Subjects, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&f)
}

// Store writes the store to path, replacing the file atomically.
func (rs *RangeStore) Store(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = rs.Write(tmp)
	if err2 := tmp.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
