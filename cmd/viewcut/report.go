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
	"bufio"
	"fmt"
	"io"
	"strings"

	"seehuhn.de/go/viewcut"
	"seehuhn.de/go/viewcut/scene"
	"seehuhn.de/go/viewcut/subject"
)

// report prints the subjects and the draw list of a drawing.
func report(w io.Writer, d *viewcut.Drawing) error {
	bw := bufio.NewWriter(w)
	for _, s := range d.Subjects {
		cut := ""
		if s.IsCut() {
			cut = " cut"
		}
		fmt.Fprintf(bw, "subject %d %s styles=%s pixels=%d rect=[%g,%g]x[%g,%g]%s\n",
			s.ID, s, s.Styles, s.Pixels.Len(),
			s.Rect.X.Lo, s.Rect.X.Hi, s.Rect.Y.Lo, s.Rect.Y.Hi, cut)
		if len(s.Collections) > 0 {
			var cs []string
			for _, m := range s.Collections {
				cs = append(cs, m.Collection.Name+":"+m.Tag.String())
			}
			fmt.Fprintf(bw, "  collections %s\n", strings.Join(cs, " "))
		}
	}
	fmt.Fprintf(bw, "draw %s\n", joinRefs(d.DrawList))
	if len(d.PreviousPixel) > 0 {
		fmt.Fprintf(bw, "previous %s\n", joinSubjects(d.PreviousPixel))
	}
	fmt.Fprintf(bw, "changed %s\n", joinRefs(d.Changed))
	return bw.Flush()
}

func joinRefs(refs []scene.Ref) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.String()
	}
	return strings.Join(names, ";")
}

func joinSubjects(ss []*subject.Subject) string {
	names := make([]string, len(ss))
	for i, s := range ss {
		names[i] = s.Instance.Ref().String()
	}
	return strings.Join(names, ";")
}
