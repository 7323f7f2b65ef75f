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

package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

// Matrix is a 4×4 transformation matrix in row-major order.
// Points are column vectors, so M.Apply(p) computes M·(p, 1).
//
// Matrix is comparable and can be used as part of a map key.
type Matrix [4][4]float64

// Identity is the identity transformation.
var Identity = Matrix{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{0, 0, 0, 1},
}

// Translate returns a translation by (x, y, z).
func Translate(x, y, z float64) Matrix {
	m := Identity
	m[0][3] = x
	m[1][3] = y
	m[2][3] = z
	return m
}

// Scale returns a scaling transformation.
func Scale(x, y, z float64) Matrix {
	m := Identity
	m[0][0] = x
	m[1][1] = y
	m[2][2] = z
	return m
}

// RotateX returns a rotation about the x axis by the given angle in radians.
func RotateX(angle float64) Matrix {
	s, c := math.Sincos(angle)
	m := Identity
	m[1][1], m[1][2] = c, -s
	m[2][1], m[2][2] = s, c
	return m
}

// RotateY returns a rotation about the y axis by the given angle in radians.
func RotateY(angle float64) Matrix {
	s, c := math.Sincos(angle)
	m := Identity
	m[0][0], m[0][2] = c, s
	m[2][0], m[2][2] = -s, c
	return m
}

// RotateZ returns a rotation about the z axis by the given angle in radians.
func RotateZ(angle float64) Matrix {
	s, c := math.Sincos(angle)
	m := Identity
	m[0][0], m[0][1] = c, -s
	m[1][0], m[1][1] = s, c
	return m
}

// Mul returns the product M·B, i.e. the transformation which first applies
// B and then M.
func (m Matrix) Mul(b Matrix) Matrix {
	var res Matrix
	for i := range 4 {
		for j := range 4 {
			var sum float64
			for k := range 4 {
				sum += m[i][k] * b[k][j]
			}
			res[i][j] = sum
		}
	}
	return res
}

// Apply transforms a point.
// If the matrix is projective, the result is divided by the w component.
func (m Matrix) Apply(p r3.Vector) r3.Vector {
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	if w != 1 && w != 0 {
		return r3.Vector{X: x / w, Y: y / w, Z: z / w}
	}
	return r3.Vector{X: x, Y: y, Z: z}
}

// ApplyDir transforms a direction vector, ignoring the translation part.
func (m Matrix) ApplyDir(d r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0][0]*d.X + m[0][1]*d.Y + m[0][2]*d.Z,
		Y: m[1][0]*d.X + m[1][1]*d.Y + m[1][2]*d.Z,
		Z: m[2][0]*d.X + m[2][1]*d.Y + m[2][2]*d.Z,
	}
}

// Inverse returns the inverse matrix.
// The second return value is false if the matrix is singular.
func (m Matrix) Inverse() (Matrix, bool) {
	// Gauss-Jordan elimination with partial pivoting on [m | I].
	a := m
	inv := Identity
	for col := range 4 {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < singularThreshold {
			return Matrix{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		f := 1 / a[col][col]
		for j := range 4 {
			a[col][j] *= f
			inv[col][j] *= f
		}
		for row := range 4 {
			if row == col {
				continue
			}
			g := a[row][col]
			if g == 0 {
				continue
			}
			for j := range 4 {
				a[row][j] -= g * a[col][j]
				inv[row][j] -= g * inv[col][j]
			}
		}
	}
	return inv, true
}

// Round returns a copy of the matrix with all entries rounded to
// [Precision] decimal digits.  Rounded matrices are used as the "frozen"
// part of instance keys, so that keys survive a round trip through the
// text representation of the ray-cast cache.
func (m Matrix) Round() Matrix {
	var res Matrix
	for i := range 4 {
		for j := range 4 {
			res[i][j] = Round6(m[i][j])
		}
	}
	return res
}

// singularThreshold is the smallest pivot accepted by Inverse.
const singularThreshold = 1e-12
