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
	"errors"
	"fmt"
	"strings"
)

// Styles is a set of drawing styles.
type Styles uint8

// The drawing styles.  Symbol is never requested by the user; it is given
// to objects which are drawn as symbols.
const (
	Projection Styles = 1 << iota
	Cut
	Hidden
	Back
	Symbol
)

// DefaultStyles is used when no style letters are given.
const DefaultStyles = Projection | Cut

// ErrStyle is returned for unknown style letters.
var ErrStyle = errors.New("unknown style")

var styleLetters = []struct {
	letter byte
	style  Styles
	name   string
}{
	{'p', Projection, "projection"},
	{'c', Cut, "cut"},
	{'h', Hidden, "hidden"},
	{'b', Back, "back"},
	{'s', Symbol, "symbol"},
}

// ParseStyles converts style letters like "pch" into a set of styles.
// Only the letters p, c, h and b are accepted.  The empty string gives
// [DefaultStyles].
func ParseStyles(letters string) (Styles, error) {
	if letters == "" {
		return DefaultStyles, nil
	}
	var res Styles
	for i := 0; i < len(letters); i++ {
		st, ok := styleForLetter(letters[i])
		if !ok || st == Symbol {
			return 0, fmt.Errorf("%w %q", ErrStyle, letters[i:i+1])
		}
		res |= st
	}
	return res, nil
}

func styleForLetter(c byte) (Styles, bool) {
	for _, e := range styleLetters {
		if e.letter == c {
			return e.style, true
		}
	}
	return 0, false
}

// Has reports whether all styles in x are in s.
func (s Styles) Has(x Styles) bool {
	return s&x == x
}

// Names returns the names of the styles in s.
func (s Styles) Names() []string {
	var res []string
	for _, e := range styleLetters {
		if s.Has(e.style) {
			res = append(res, e.name)
		}
	}
	return res
}

// String returns the style letters.
func (s Styles) String() string {
	b := &strings.Builder{}
	for _, e := range styleLetters {
		if s.Has(e.style) {
			b.WriteByte(e.letter)
		}
	}
	return b.String()
}

// Flags describe where a subject lies relative to the cutting plane.
type Flags struct {
	InFront bool
	Behind  bool
	Symbol  bool

	// Mirrored is set when the drawing is made through a mirrored camera.
	Mirrored bool
}

// IsCut reports whether the subject crosses the cutting plane.
func (f Flags) IsCut() bool {
	return f.InFront && f.Behind
}

// DeriveStyles selects the requested styles which apply to a subject.
func DeriveStyles(requested Styles, f Flags) Styles {
	if f.Symbol {
		return Symbol
	}
	var res Styles
	if f.InFront {
		res |= requested & (Projection | Hidden)
	}
	if f.IsCut() {
		res |= requested & Cut
	}
	if f.Behind || (f.Mirrored && f.InFront) {
		res |= requested & Back
	}
	return res
}
