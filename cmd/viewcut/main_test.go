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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/scene"
	"seehuhn.de/go/viewcut/testscenes"
)

// setup writes the two-cube scene and a configuration file into a
// temporary directory.
func setup(t *testing.T) (sceneFile, configFile string) {
	dir := t.TempDir()
	sceneFile = filepath.Join(dir, "two_cubes.yaml")
	require.NoError(t, scene.SaveFile(sceneFile, testscenes.TwoCubes()))

	configFile = filepath.Join(dir, "viewcut.toml")
	conf := fmt.Sprintf("width = 50\nheight = 50\ncache_dir = %q\n", filepath.Join(dir, "cache"))
	require.NoError(t, os.WriteFile(configFile, []byte(conf), 0o644))
	return sceneFile, configFile
}

func TestRun(t *testing.T) {
	sceneFile, configFile := setup(t)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	status := run(context.Background(), []string{"-c", configFile, sceneFile, "Camera"}, out, errOut)
	require.Equal(t, 0, status, errOut.String())
	assert.Contains(t, out.String(), "subject 0 A@(0,0,0) styles=p pixels=100")
	assert.Contains(t, out.String(), "subject 1 B@(2,0,0) styles=p pixels=100")
	assert.Contains(t, out.String(), "draw A;B\n")
	assert.Contains(t, out.String(), "changed A;B\n")
	assert.FileExists(t, filepath.Join(filepath.Dir(configFile), "cache", "two_cubes-Camera.raycast"))

	// Nothing changed since the first run.
	out.Reset()
	status = run(context.Background(), []string{"-c", configFile, sceneFile, "Camera", "h"}, out, errOut)
	require.Equal(t, 0, status, errOut.String())
	assert.Contains(t, out.String(), "styles=h pixels=100")
	assert.Contains(t, out.String(), "changed \n")
	assert.Contains(t, out.String(), "draw \n")
}

func TestRunErrors(t *testing.T) {
	sceneFile, configFile := setup(t)

	cases := []struct {
		name string
		argv []string
		want diag.Code
	}{
		{"no arguments", nil, diag.CodeSelection},
		{"bad flag", []string{"--colour", sceneFile}, diag.CodeSelection},
		{"unknown object", []string{"-c", configFile, sceneFile, "Camera;Missing"}, diag.CodeSelection},
		{"no camera", []string{"-c", configFile, sceneFile, "A"}, diag.CodeSelection},
		{"bad resolution", []string{"-c", configFile, "-r", "3", sceneFile, "Camera"}, diag.CodeSelection},
		{"missing scene", []string{"-c", configFile, sceneFile + ".missing", "Camera"}, diag.CodeIO},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
			status := run(context.Background(), c.argv, out, errOut)
			assert.Equal(t, c.want.ExitStatus(), status, errOut.String())
			assert.Empty(t, out.String())
		})
	}
}

func TestWatchStops(t *testing.T) {
	sceneFile, configFile := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	status := run(ctx, []string{"-c", configFile, "-w", sceneFile, "Camera"}, out, errOut)
	assert.Equal(t, 0, status, errOut.String())
}
