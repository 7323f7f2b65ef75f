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

package diag

import (
	"context"
	"errors"
	"io/fs"
)

// Error kinds.  Packages wrap these in their own sentinel errors, so that
// [Classify] works without importing them.
var (
	// ErrInvalidSelection marks argument errors which abort an invocation
	// before any artifact is touched.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrRender marks failures reported by the host renderer.
	ErrRender = errors.New("render failed")
)

// Code is a coarse error category, used in log records and for the exit
// status of the command line tool.
type Code string

// Error codes returned by [Classify].
const (
	CodeUnknown   Code = "unknown"
	CodeSelection Code = "invalid-selection"
	CodeIO        Code = "io"
	CodeRender    Code = "render"
	CodeCancel    Code = "cancel"
)

// Classify maps err to an error code.  The decision only uses sentinel
// errors and error types, never the message text.
func Classify(err error) Code {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancel
	case errors.Is(err, ErrInvalidSelection):
		return CodeSelection
	case errors.Is(err, ErrRender):
		return CodeRender
	}
	var perr *fs.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}

// ExitStatus returns the process exit status for an error code.
func (c Code) ExitStatus() int {
	switch c {
	case CodeSelection:
		return 2
	case CodeIO:
		return 3
	case CodeRender:
		return 4
	case CodeCancel:
		return 130
	default:
		return 1
	}
}
