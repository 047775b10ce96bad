package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a 3x3 homogeneous transform using the row-vector convention:
// a point transforms as p' = p · M. Translate, Scale and Rotate right-multiply
// into the accumulated matrix, so calling Scale, Rotate, Translate in that
// order yields scale-then-rotate-then-translate.
type Matrix struct {
	m *mat.Dense
}

// NewMatrix returns an identity matrix.
func NewMatrix() *Matrix {
	t := &Matrix{}
	t.Identity()
	return t
}

// NewMatrixFromValues builds a matrix from its nine elements in row order.
func NewMatrixFromValues(m11, m12, m13, m21, m22, m23, m31, m32, m33 float64) *Matrix {
	return &Matrix{m: mat.NewDense(3, 3, []float64{
		m11, m12, m13,
		m21, m22, m23,
		m31, m32, m33,
	})}
}

// Identity resets the matrix to identity.
func (t *Matrix) Identity() {
	t.m = mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

// At returns the element at 1-based row r and column c, matching the m11..m33 naming.
func (t *Matrix) At(r, c int) float64 {
	return t.m.At(r-1, c-1)
}

// Multiply sets t = t · in.
func (t *Matrix) Multiply(in *Matrix) {
	var out mat.Dense
	out.Mul(t.m, in.m)
	t.m = &out
}

// Translate right-multiplies a translation by (x, y).
func (t *Matrix) Translate(x, y float64) {
	t.Multiply(NewMatrixFromValues(
		1, 0, 0,
		0, 1, 0,
		x, y, 1,
	))
}

// Scale right-multiplies a scale by (sx, sy).
func (t *Matrix) Scale(sx, sy float64) {
	t.Multiply(NewMatrixFromValues(
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	))
}

// Rotate right-multiplies a rotation by angle radians.
func (t *Matrix) Rotate(angle float64) {
	sin, cos := math.Sincos(angle)
	t.Multiply(NewMatrixFromValues(
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	))
}

// RotateBasis right-multiplies a rotation whose rows are the orthonormal
// forward and side vectors.
func (t *Matrix) RotateBasis(forward, side Vector2D) {
	t.Multiply(NewMatrixFromValues(
		forward.X, forward.Y, 0,
		side.X, side.Y, 0,
		0, 0, 1,
	))
}

// TransformVector2D applies the matrix to p in place.
func (t *Matrix) TransformVector2D(p *Vector2D) {
	x := t.m.At(0, 0)*p.X + t.m.At(1, 0)*p.Y + t.m.At(2, 0)
	y := t.m.At(0, 1)*p.X + t.m.At(1, 1)*p.Y + t.m.At(2, 1)
	p.X, p.Y = x, y
}

// TransformVector2Ds applies the matrix to every point in ps, in place.
func (t *Matrix) TransformVector2Ds(ps []Vector2D) {
	for i := range ps {
		t.TransformVector2D(&ps[i])
	}
}
