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
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/subject"
)

// ErrArgument is returned for malformed invocation arguments.
var ErrArgument = fmt.Errorf("%w: bad argument", diag.ErrInvalidSelection)

// Args are the arguments of one invocation.
type Args struct {
	// DrawAll disables visibility filtering.
	DrawAll bool

	// Resolution is the scan resolution.  It is nil if none was given.
	Resolution *Resolution

	// Styles are the requested drawing styles.  It is zero if no style
	// letters were given.
	Styles subject.Styles

	// Names lists the named objects, in order.
	Names []string

	resolution string
}

// Register adds the invocation flags to fs.
func (a *Args) Register(fs *pflag.FlagSet) {
	fs.BoolVarP(&a.DrawAll, "all", "a", false, "draw all framed objects, visible or not")
	fs.StringVarP(&a.resolution, "resolution", "r", "",
		"scan resolution: a grid step in [0,1], or a length with unit m, cm or mm")
}

// Finish interprets the positional arguments left after flag parsing.
// Arguments made only of the letters p, c, h and b select styles, all
// other arguments are semicolon-separated lists of object names.
func (a *Args) Finish(positional []string) error {
	if a.resolution != "" {
		r, err := ParseResolution(a.resolution)
		if err != nil {
			return err
		}
		a.Resolution = r
	}

	var letters strings.Builder
	for _, arg := range positional {
		if isStyleWord(arg) {
			letters.WriteString(arg)
			continue
		}
		for _, name := range strings.Split(arg, ";") {
			if name = strings.TrimSpace(name); name != "" {
				a.Names = append(a.Names, name)
			}
		}
	}
	if letters.Len() > 0 {
		styles, err := subject.ParseStyles(letters.String())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrArgument, err)
		}
		a.Styles = styles
	}
	return nil
}

func isStyleWord(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("pchb", c) {
			return false
		}
	}
	return true
}

// ParseArgs parses the arguments of an invocation.  Flags and positional
// arguments may appear in any order.
func ParseArgs(argv []string) (*Args, error) {
	fs := pflag.NewFlagSet("viewcut", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	a := &Args{}
	a.Register(fs)
	if err := fs.Parse(argv); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArgument, err)
	}
	if err := a.Finish(fs.Args()); err != nil {
		return nil, err
	}
	return a, nil
}

// Resolution is a scan resolution, either a grid step in camera-normalized
// coordinates or a length in scene units.
type Resolution struct {
	Value float64

	// Unit is "m", "cm", "mm", or empty for a plain grid step.
	Unit string
}

var unitFactors = map[string]float64{
	"m":  1,
	"cm": 100,
	"mm": 1000,
}

// ParseResolution parses a resolution like "0.05" or "10cm".
func ParseResolution(s string) (*Resolution, error) {
	num, unit := s, ""
	for _, u := range []string{"mm", "cm", "m"} {
		if strings.HasSuffix(s, u) {
			num, unit = strings.TrimSuffix(s, u), u
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || !(v > 0) || math.IsInf(v, 1) {
		return nil, fmt.Errorf("%w: resolution %q", ErrArgument, s)
	}
	if unit == "" && v > 1 {
		return nil, fmt.Errorf("%w: resolution %q outside (0, 1]", ErrArgument, s)
	}
	return &Resolution{Value: v, Unit: unit}, nil
}

// Step returns the grid step for a camera with the given orthographic
// scale.  Lengths are converted as value/factor/orthoScale.
func (r *Resolution) Step(orthoScale float64) (float64, error) {
	if r.Unit == "" {
		return r.Value, nil
	}
	if orthoScale <= 0 {
		return 0, fmt.Errorf("%w: resolution %g%s needs an orthographic scale",
			ErrArgument, r.Value, r.Unit)
	}
	return r.Value / unitFactors[r.Unit] / orthoScale, nil
}

func (r *Resolution) String() string {
	return strconv.FormatFloat(r.Value, 'g', -1, 64) + r.Unit
}
