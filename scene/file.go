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

package scene

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/geo/r3"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/viewcut/geometry"
)

// ErrFormat is returned when a scene file cannot be interpreted.
var ErrFormat = errors.New("invalid scene file")

// sceneFile is the YAML representation of a scene.  Collections and
// objects are stored in flat lists and refer to each other by name.
type sceneFile struct {
	Name        string           `yaml:"name"`
	Root        string           `yaml:"root"`
	Camera      string           `yaml:"camera,omitempty"`
	Selection   []string         `yaml:"selection,omitempty"`
	Collections []collectionFile `yaml:"collections"`
	Objects     []objectFile     `yaml:"objects"`
}

type collectionFile struct {
	Name     string   `yaml:"name"`
	Children []string `yaml:"children,omitempty"`
	Objects  []string `yaml:"objects,omitempty"`
	Hidden   bool     `yaml:"hidden,omitempty"`
	Library  string   `yaml:"library,omitempty"`
}

type objectFile struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Matrix   [][]float64 `yaml:"matrix,omitempty,flow"`
	Library  string      `yaml:"library,omitempty"`
	Mesh     *meshFile   `yaml:"mesh,omitempty"`
	Curve    *curveFile  `yaml:"curve,omitempty"`
	Camera   *cameraFile `yaml:"camera,omitempty"`
	Instance string      `yaml:"instance,omitempty"`
	Symbol   bool        `yaml:"symbol,omitempty"`
	Hidden   bool        `yaml:"hidden,omitempty"`
}

type meshFile struct {
	Vertices  [][]float64 `yaml:"vertices,flow"`
	Faces     [][]int     `yaml:"faces,flow"`
	Materials []string    `yaml:"materials,omitempty"`
}

type curveFile struct {
	Splines []splineFile `yaml:"splines"`
	Width   float64      `yaml:"width"`
}

type splineFile struct {
	Points [][]float64 `yaml:"points,flow"`
	Cyclic bool        `yaml:"cyclic,omitempty"`
}

type cameraFile struct {
	Ortho       bool    `yaml:"ortho,omitempty"`
	OrthoScale  float64 `yaml:"ortho_scale,omitempty"`
	Lens        float64 `yaml:"lens,omitempty"`
	SensorWidth float64 `yaml:"sensor_width,omitempty"`
	ClipStart   float64 `yaml:"clip_start"`
	ClipEnd     float64 `yaml:"clip_end,omitempty"`
	ResX        int     `yaml:"res_x,omitempty"`
	ResY        int     `yaml:"res_y,omitempty"`
	Mirrored    bool    `yaml:"mirrored,omitempty"`
}

var typeNames = map[string]ObjectType{
	"mesh":   TypeMesh,
	"curve":  TypeCurve,
	"empty":  TypeEmpty,
	"camera": TypeCamera,
	"other":  TypeOther,
}

// LoadFile reads a scene from the named YAML file.
func LoadFile(name string) (*Scene, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	s, err := Load(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// Load reads a scene in YAML format.
func Load(r io.Reader) (*Scene, error) {
	var f sceneFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	objects := make(map[string]*Object, len(f.Objects))
	for i := range f.Objects {
		of := &f.Objects[i]
		if _, dup := objects[of.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate object %q", ErrFormat, of.Name)
		}
		o, err := of.decode()
		if err != nil {
			return nil, err
		}
		objects[of.Name] = o
	}

	collections := make(map[string]*Collection, len(f.Collections))
	for _, cf := range f.Collections {
		if _, dup := collections[cf.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate collection %q", ErrFormat, cf.Name)
		}
		collections[cf.Name] = &Collection{Name: cf.Name, Hidden: cf.Hidden, Library: cf.Library}
	}
	for _, cf := range f.Collections {
		c := collections[cf.Name]
		for _, name := range cf.Children {
			child, ok := collections[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown collection %q", ErrFormat, name)
			}
			c.Children = append(c.Children, child)
		}
		for _, name := range cf.Objects {
			o, ok := objects[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown object %q", ErrFormat, name)
			}
			c.Objects = append(c.Objects, o)
		}
	}
	for _, of := range f.Objects {
		if of.Instance == "" {
			continue
		}
		c, ok := collections[of.Instance]
		if !ok {
			return nil, fmt.Errorf("%w: unknown collection %q", ErrFormat, of.Instance)
		}
		objects[of.Name].Instance = c
	}

	root, ok := collections[f.Root]
	if !ok {
		return nil, fmt.Errorf("%w: missing root collection %q", ErrFormat, f.Root)
	}
	s := &Scene{Name: f.Name, Root: root, Selection: f.Selection}
	if f.Camera != "" {
		s.Camera, ok = objects[f.Camera]
		if !ok {
			return nil, fmt.Errorf("%w: unknown camera %q", ErrFormat, f.Camera)
		}
	}
	return s, nil
}

func (of *objectFile) decode() (*Object, error) {
	tp, ok := typeNames[of.Type]
	if !ok {
		return nil, fmt.Errorf("%w: object %q has unknown type %q", ErrFormat, of.Name, of.Type)
	}
	o := &Object{
		Name:    of.Name,
		Type:    tp,
		Matrix:  geometry.Identity,
		Library: of.Library,
		Symbol:  of.Symbol,
		Hidden:  of.Hidden,
	}
	if of.Matrix != nil {
		if len(of.Matrix) != 4 {
			return nil, fmt.Errorf("%w: object %q: matrix needs 4 rows", ErrFormat, of.Name)
		}
		for i, row := range of.Matrix {
			if len(row) != 4 {
				return nil, fmt.Errorf("%w: object %q: matrix needs 4 columns", ErrFormat, of.Name)
			}
			copy(o.Matrix[i][:], row)
		}
	}

	if of.Mesh != nil {
		m := &Mesh{Faces: of.Mesh.Faces, Materials: of.Mesh.Materials}
		for _, v := range of.Mesh.Vertices {
			p, err := decodeVector(of.Name, v)
			if err != nil {
				return nil, err
			}
			m.Vertices = append(m.Vertices, p)
		}
		for _, f := range m.Faces {
			for _, idx := range f {
				if idx < 0 || idx >= len(m.Vertices) {
					return nil, fmt.Errorf("%w: object %q: vertex index %d out of range", ErrFormat, of.Name, idx)
				}
			}
		}
		o.Mesh = m
	}
	if of.Curve != nil {
		c := &Curve{Width: of.Curve.Width}
		for _, sf := range of.Curve.Splines {
			sp := Spline{Cyclic: sf.Cyclic}
			for _, v := range sf.Points {
				p, err := decodeVector(of.Name, v)
				if err != nil {
					return nil, err
				}
				sp.Points = append(sp.Points, p)
			}
			c.Splines = append(c.Splines, sp)
		}
		o.Curve = c
	}
	if cf := of.Camera; cf != nil {
		o.Camera = &geometry.Camera{
			Matrix:      o.Matrix,
			Ortho:       cf.Ortho,
			OrthoScale:  cf.OrthoScale,
			Lens:        cf.Lens,
			SensorWidth: cf.SensorWidth,
			ClipStart:   cf.ClipStart,
			ClipEnd:     cf.ClipEnd,
			ResX:        cf.ResX,
			ResY:        cf.ResY,
			Mirrored:    cf.Mirrored,
		}
	}
	return o, nil
}

func decodeVector(obj string, v []float64) (r3.Vector, error) {
	if len(v) != 3 {
		return r3.Vector{}, fmt.Errorf("%w: object %q: vector with %d components", ErrFormat, obj, len(v))
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

// SaveFile writes the scene to the named file.
func SaveFile(name string, s *Scene) error {
	fd, err := os.Create(name)
	if err != nil {
		return err
	}
	err = Save(fd, s)
	if err2 := fd.Close(); err == nil {
		err = err2
	}
	return err
}

// Save writes the scene in YAML format.  Object and collection names must
// be unique.
func Save(w io.Writer, s *Scene) error {
	f := sceneFile{Name: s.Name, Root: s.Root.Name, Selection: s.Selection}
	if s.Camera != nil {
		f.Camera = s.Camera.Name
	}

	collNames := map[string]*Collection{}
	objNames := map[string]*Object{}
	var addColl func(c *Collection) error
	var addObj func(o *Object) error
	addColl = func(c *Collection) error {
		if other, ok := collNames[c.Name]; ok {
			if other != c {
				return fmt.Errorf("%w: duplicate collection %q", ErrFormat, c.Name)
			}
			return nil
		}
		collNames[c.Name] = c
		cf := collectionFile{Name: c.Name, Hidden: c.Hidden, Library: c.Library}
		idx := len(f.Collections)
		f.Collections = append(f.Collections, cf)
		for _, child := range c.Children {
			f.Collections[idx].Children = append(f.Collections[idx].Children, child.Name)
			if err := addColl(child); err != nil {
				return err
			}
		}
		for _, o := range c.Objects {
			f.Collections[idx].Objects = append(f.Collections[idx].Objects, o.Name)
			if err := addObj(o); err != nil {
				return err
			}
		}
		return nil
	}
	addObj = func(o *Object) error {
		if other, ok := objNames[o.Name]; ok {
			if other != o {
				return fmt.Errorf("%w: duplicate object %q", ErrFormat, o.Name)
			}
			return nil
		}
		objNames[o.Name] = o
		f.Objects = append(f.Objects, encodeObject(o))
		if o.Instance != nil {
			return addColl(o.Instance)
		}
		return nil
	}
	if err := addColl(s.Root); err != nil {
		return err
	}
	if s.Camera != nil {
		if err := addObj(s.Camera); err != nil {
			return err
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return err
	}
	return enc.Close()
}

func encodeObject(o *Object) objectFile {
	of := objectFile{
		Name:    o.Name,
		Type:    o.Type.String(),
		Library: o.Library,
		Symbol:  o.Symbol,
		Hidden:  o.Hidden,
	}
	if o.Instance != nil {
		of.Instance = o.Instance.Name
	}
	if o.Matrix != geometry.Identity {
		for _, row := range o.Matrix {
			of.Matrix = append(of.Matrix, []float64{row[0], row[1], row[2], row[3]})
		}
	}
	if m := o.Mesh; m != nil {
		mf := &meshFile{Faces: m.Faces, Materials: m.Materials}
		for _, v := range m.Vertices {
			mf.Vertices = append(mf.Vertices, []float64{v.X, v.Y, v.Z})
		}
		of.Mesh = mf
	}
	if c := o.Curve; c != nil {
		cf := &curveFile{Width: c.Width}
		for _, sp := range c.Splines {
			sf := splineFile{Cyclic: sp.Cyclic}
			for _, p := range sp.Points {
				sf.Points = append(sf.Points, []float64{p.X, p.Y, p.Z})
			}
			cf.Splines = append(cf.Splines, sf)
		}
		of.Curve = cf
	}
	if c := o.Camera; c != nil {
		of.Camera = &cameraFile{
			Ortho:       c.Ortho,
			OrthoScale:  c.OrthoScale,
			Lens:        c.Lens,
			SensorWidth: c.SensorWidth,
			ClipStart:   c.ClipStart,
			ClipEnd:     c.ClipEnd,
			ResX:        c.ResX,
			ResY:        c.ResY,
			Mirrored:    c.Mirrored,
		}
	}
	return of
}
