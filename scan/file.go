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
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/scene"
)

// ErrMalformedLine is returned for lines of a cache file which cannot be
// parsed.
var ErrMalformedLine = errors.New("malformed cache line")

// The cache file has one line per sample, in (u, v) order:
//
//	((0.100000, 0.200000), {"object": "Cube", "library": null, "matrix": [[1.000000, ...], ...]})
//	((0.100000, 0.300000), None)
//
// All numbers are printed with six decimals, so that writing a cache
// which was just read reproduces the file exactly.

// Load reads the cache file at path.  If the file does not exist, an
// empty file is created and an empty cache is returned.  Lines which
// cannot be parsed are skipped and the cache is marked as partial.
func Load(path string) (*Cache, error) {
	fd, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return nil, err
		}
		diag.Logger().Debug("created empty ray-cast cache", "path", path)
		return NewCache(), nil
	} else if err != nil {
		return nil, err
	}
	defer fd.Close()

	c, err := Read(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read reads a cache in the text format from r.
func Read(r io.Reader) (*Cache, error) {
	c := NewCache()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s, k, err := parseLine(line)
		if err != nil {
			diag.Logger().Warn("skipping cache line", "line", lineNo, "error", err)
			c.Partial = true
			continue
		}
		c.entries[s] = k
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

type keyRecord struct {
	Object  string      `json:"object"`
	Library *string     `json:"library"`
	Matrix  [][]float64 `json:"matrix"`
}

func parseLine(line string) (Sample, *scene.Key, error) {
	rest, ok := strings.CutPrefix(line, "((")
	if !ok {
		return Sample{}, nil, ErrMalformedLine
	}
	coords, rest, ok := strings.Cut(rest, "), ")
	if !ok {
		return Sample{}, nil, ErrMalformedLine
	}
	us, vs, ok := strings.Cut(coords, ", ")
	if !ok {
		return Sample{}, nil, ErrMalformedLine
	}
	u, err1 := strconv.ParseFloat(us, 64)
	v, err2 := strconv.ParseFloat(vs, 64)
	if err1 != nil || err2 != nil || u < 0 || u > 1 || v < 0 || v > 1 {
		return Sample{}, nil, fmt.Errorf("%w: bad sample %q", ErrMalformedLine, coords)
	}
	s := Sample{U: u, V: v}

	body, ok := strings.CutSuffix(rest, ")")
	if !ok {
		return Sample{}, nil, ErrMalformedLine
	}
	if body == "None" {
		return s, nil, nil
	}

	var rec keyRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return Sample{}, nil, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	if len(rec.Matrix) != 4 {
		return Sample{}, nil, fmt.Errorf("%w: matrix needs 4 rows", ErrMalformedLine)
	}
	k := &scene.Key{Object: rec.Object}
	if rec.Library != nil {
		k.Library = *rec.Library
	}
	for i, row := range rec.Matrix {
		if len(row) != 4 {
			return Sample{}, nil, fmt.Errorf("%w: matrix needs 4 columns", ErrMalformedLine)
		}
		copy(k.Matrix[i][:], row)
	}
	k.Matrix = k.Matrix.Round()
	return s, k, nil
}

// Store writes the cache to path.  The file is replaced atomically, so
// that readers never see a partially written cache.
func (c *Cache) Store(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	w := bufio.NewWriter(tmp)
	err = c.Write(w)
	if err == nil {
		err = w.Flush()
	}
	if err2 := tmp.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	c.Partial = false
	return nil
}

// Write writes the cache in the text format.
func (c *Cache) Write(w io.Writer) error {
	for _, s := range c.Samples() {
		line, err := formatLine(s, c.entries[s])
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatLine(s Sample, k *scene.Key) (string, error) {
	b := &strings.Builder{}
	fmt.Fprintf(b, "((%.6f, %.6f), ", s.U, s.V)
	if k == nil {
		b.WriteString("None)\n")
		return b.String(), nil
	}

	name, err := json.Marshal(k.Object)
	if err != nil {
		return "", err
	}
	lib := []byte("null")
	if k.Library != "" {
		lib, err = json.Marshal(k.Library)
		if err != nil {
			return "", err
		}
	}
	fmt.Fprintf(b, `{"object": %s, "library": %s, "matrix": [`, name, lib)
	for i, row := range k.Matrix {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "[%.6f, %.6f, %.6f, %.6f]", row[0], row[1], row[2], row[3])
	}
	b.WriteString("]})\n")
	return b.String(), nil
}
