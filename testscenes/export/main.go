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


// Command export writes the test scenes as YAML scene files, for use with
// the viewcut command.  Run from the module root directory.
package main

import (
	"flag"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/viewcut/scene"
	"seehuhn.de/go/viewcut/testscenes"
)

func main() {
	dir := flag.String("d", filepath.Join("testdata", "scenes"), "output directory")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatal(err)
	}
	for _, category := range slices.Sorted(maps.Keys(testscenes.All)) {
		for _, tc := range testscenes.All[category] {
			s := tc.Scene()
			s.Selection = tc.Names
			name := filepath.Join(*dir, category+"_"+tc.Name+".yaml")
			if err := scene.SaveFile(name, s); err != nil {
				log.Fatal(err)
			}
		}
	}
}
