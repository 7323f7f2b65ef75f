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

// Package config holds the settings of viewcut: defaults, an optional
// TOML configuration file, and the arguments of one invocation.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// ErrConfig is returned for configuration files which cannot be used.
var ErrConfig = errors.New("invalid configuration")

// Config holds the settings which do not change between invocations.
type Config struct {
	// Resolution is the default scan resolution, in the syntax of the -r
	// argument.
	Resolution string `toml:"resolution"`

	// Width and Height give the drawing resolution in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Scale is the resolution factor of the classification render.
	Scale int `toml:"scale"`

	// Styles are the default style letters.
	Styles string `toml:"styles"`

	// CacheDir is where ray-cast caches and pixel ranges are stored.
	// A leading "~" is expanded to the home directory.
	CacheDir string `toml:"cache_dir"`

	// DumpDir, if set, receives a PNG file for every render.
	DumpDir string `toml:"dump_dir"`

	// LogLevel is one of "debug", "info", "warn" and "error".
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Resolution: "0.1",
		Width:      1000,
		Height:     1000,
		Scale:      4,
		Styles:     "pc",
		CacheDir:   "~/.cache/viewcut",
		LogLevel:   "warn",
	}
}

// LoadFile reads a configuration file.  Settings missing from the file
// keep their default values.
func LoadFile(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	c, err := Read(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadDefaultFile reads the configuration from the default location,
// "~/.config/viewcut/config.toml".  If there is no such file, the
// built-in settings are used.
func LoadDefaultFile() (*Config, error) {
	c, err := LoadFile("~/.config/viewcut/config.toml")
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Read reads a configuration in TOML format.  Unknown keys are an error.
func Read(r io.Reader) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return c, nil
}

// Check validates the settings.
func (c *Config) Check() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: drawing size %dx%d", ErrConfig, c.Width, c.Height)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("%w: scale %d", ErrConfig, c.Scale)
	}
	if _, err := ParseResolution(c.Resolution); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrConfig, c.LogLevel)
	}
	return l, nil
}

// CachePath returns the ray-cast cache file for a scene and camera.
func (c *Config) CachePath(sceneName, camera string) (string, error) {
	return c.file(sceneName, camera, ".raycast")
}

// RangesPath returns the pixel range file for a scene and camera.
func (c *Config) RangesPath(sceneName, camera string) (string, error) {
	return c.file(sceneName, camera, ".ranges.json")
}

func (c *Config) file(sceneName, camera, ext string) (string, error) {
	dir, err := homedir.Expand(c.CacheDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName(sceneName)+"-"+fileName(camera)+ext), nil
}

// fileName replaces characters which are not safe in file names.
func fileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
