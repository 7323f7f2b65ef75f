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

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/subject"
)

func TestParseArgs(t *testing.T) {
	a, err := ParseArgs([]string{"h", "Camera;Wall", "-a", "-r", "5cm", "b", "Door"})
	require.NoError(t, err)

	assert.True(t, a.DrawAll)
	assert.Equal(t, &Resolution{Value: 5, Unit: "cm"}, a.Resolution)
	assert.Equal(t, subject.Hidden|subject.Back, a.Styles)
	assert.Equal(t, []string{"Camera", "Wall", "Door"}, a.Names)
}

func TestParseArgsDefaults(t *testing.T) {
	a, err := ParseArgs([]string{"Camera"})
	require.NoError(t, err)

	assert.False(t, a.DrawAll)
	assert.Nil(t, a.Resolution)
	assert.Zero(t, a.Styles)
	assert.Equal(t, []string{"Camera"}, a.Names)
}

func TestParseArgsErrors(t *testing.T) {
	cases := [][]string{
		{"-r", "abc"},
		{"-r", "2"},
		{"-r", "-1cm"},
		{"-r", "NaN"},
		{"--unknown"},
		{"-r"},
	}
	for _, argv := range cases {
		t.Run(strings.Join(argv, " "), func(t *testing.T) {
			_, err := ParseArgs(argv)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrArgument)
			assert.Equal(t, diag.CodeSelection, diag.Classify(err))
		})
	}
}

func TestResolutionStep(t *testing.T) {
	cases := []struct {
		in    string
		scale float64
		want  float64
	}{
		{"0.05", 5, 0.05},
		{"1m", 10, 0.1},
		{"50cm", 5, 0.1},
		{"250mm", 5, 0.05},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			r, err := ParseResolution(c.in)
			require.NoError(t, err)
			got, err := r.Step(c.scale)
			require.NoError(t, err)
			assert.InDelta(t, c.want, got, 1e-12)
			assert.Equal(t, c.in, r.String())
		})
	}

	r, err := ParseResolution("1cm")
	require.NoError(t, err)
	_, err = r.Step(0)
	assert.ErrorIs(t, err, ErrArgument)
}

func TestRead(t *testing.T) {
	in := `
width = 640
height = 480
styles = "pch"
log_level = "debug"
`
	c, err := Read(strings.NewReader(in))
	require.NoError(t, err)

	want := Default()
	want.Width = 640
	want.Height = 480
	want.Styles = "pch"
	want.LogLevel = "debug"
	assert.Equal(t, want, c)

	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}

func TestReadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key": `colour = "red"`,
		"syntax":      `width = `,
		"bad size":    `width = 0`,
		"bad scale":   `scale = -1`,
		"bad level":   `log_level = "loud"`,
		"bad step":    `resolution = "fine"`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(in))
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewcut.toml")
	require.NoError(t, os.WriteFile(path, []byte("scale = 2\n"), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Scale)
	assert.Equal(t, Default().Width, c.Width)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCachePath(t *testing.T) {
	c := Default()
	c.CacheDir = t.TempDir()
	p, err := c.CachePath("my scene", "Camera/1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.CacheDir, "my_scene-Camera_1.raycast"), p)

	c.CacheDir = "~/cache"
	p, err = c.RangesPath("s", "c")
	require.NoError(t, err)
	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cache", "s-c.ranges.json"), p)
}
