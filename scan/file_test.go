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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seehuhn.de/go/viewcut/geometry"
	"seehuhn.de/go/viewcut/scene"
)

func sampleCache() *Cache {
	c := NewCache()
	c.Set(Sample{0.5, 0.25}, &scene.Key{
		Object: "Cube",
		Matrix: geometry.Translate(2, 0, -1.5).Round(),
	})
	c.Set(Sample{0, 0}, nil)
	c.Set(Sample{0.5, 0}, &scene.Key{
		Object:  "Chair \"big\"",
		Library: "//lib/furniture.blend",
		Matrix:  geometry.RotateZ(0.5).Round(),
	})
	return c
}

func TestWriteFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := sampleCache().Write(buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0] != "((0.000000, 0.000000), None)" {
		t.Errorf("line 1: %q", lines[0])
	}
	want := `((0.500000, 0.250000), {"object": "Cube", "library": null, "matrix": ` +
		`[[1.000000, 0.000000, 0.000000, 2.000000], [0.000000, 1.000000, 0.000000, 0.000000], ` +
		`[0.000000, 0.000000, 1.000000, -1.500000], [0.000000, 0.000000, 0.000000, 1.000000]]})`
	if lines[2] != want {
		t.Errorf("line 3:\n got %s\nwant %s", lines[2], want)
	}
	if !strings.HasPrefix(lines[1], `((0.500000, 0.000000), {"object": "Chair \"big\"", "library": "//lib/furniture.blend"`) {
		t.Errorf("line 2: %q", lines[1])
	}
}

func TestRoundTrip(t *testing.T) {
	buf1 := &bytes.Buffer{}
	if err := sampleCache().Write(buf1); err != nil {
		t.Fatal(err)
	}
	c, err := Read(bytes.NewReader(buf1.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if c.Partial {
		t.Error("cache marked partial")
	}
	buf2 := &bytes.Buffer{}
	if err := c.Write(buf2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf1.Bytes(), buf2.Bytes()) {
		t.Errorf("round trip changed the file:\n%s\n---\n%s", buf1, buf2)
	}

	k, ok := c.Get(Sample{0.5, 0})
	if !ok || k == nil || k.Library != "//lib/furniture.blend" || k.Object != "Chair \"big\"" {
		t.Errorf("unexpected key %v", k)
	}
}

func TestReadMalformed(t *testing.T) {
	body := "((0.000000, 0.000000), None)\n" +
		"this is not a cache line\n" +
		"((0.100000, 0.000000), {\"object\": \"A\", \"library\": null, \"matrix\": [[1, 0]]})\n" +
		"((2.000000, 0.000000), None)\n" +
		"\n" +
		"((1.000000, 1.000000), None)\n"
	c, err := Read(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if !c.Partial {
		t.Error("cache not marked partial")
	}
	if c.Len() != 2 {
		t.Errorf("got %d samples, want 2", c.Len())
	}
}

func TestParseLineErrors(t *testing.T) {
	for _, line := range []string{
		"",
		"((0.1, 0.2) None)",
		"((0.1; 0.2), None)",
		"((x, 0.2), None)",
		"((0.1, 0.2), {\"object\": 1})",
		"((0.1, 0.2), None",
	} {
		if _, _, err := parseLine(line); !errors.Is(err, ErrMalformedLine) {
			t.Errorf("%q: got error %v", line, err)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cache.txt")
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("new cache has %d samples", c.Len())
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() != 0 {
		t.Errorf("empty cache file not created: %v", err)
	}
}

func TestStoreLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.txt")
	c := sampleCache()
	c.Partial = true
	if err := c.Store(path); err != nil {
		t.Fatal(err)
	}
	if c.Partial {
		t.Error("Partial not cleared by Store")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	c2, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c2.Len() != 3 {
		t.Errorf("loaded %d samples", c2.Len())
	}
}
