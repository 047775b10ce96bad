// Package geom provides the 2D vector, matrix and transform primitives used by
// the steering engine.
package geom

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the tolerance used for normalization guards and equality tests.
const Epsilon = 1e-12

// Rotation direction returned by Sign.
const (
	Clockwise     = 1
	Anticlockwise = -1
)

// Vector2D is a 2D vector with value semantics. The pointer methods Normalize,
// Truncate, Reflect, Zero and AddInPlace mutate the receiver for hot-path
// accumulation.
type Vector2D struct {
	X, Y float64
}

// Vec returns a vector from its components.
func Vec(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

func (v Vector2D) r2() r2.Vec {
	return r2.Vec(v)
}

// Add returns v + o.
func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D(r2.Add(v.r2(), o.r2()))
}

// Sub returns v - o.
func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D(r2.Sub(v.r2(), o.r2()))
}

// Mul returns v scaled by f.
func (v Vector2D) Mul(f float64) Vector2D {
	return Vector2D(r2.Scale(f, v.r2()))
}

// Div returns v divided by f.
func (v Vector2D) Div(f float64) Vector2D {
	return Vector2D{X: v.X / f, Y: v.Y / f}
}

// Dot returns the dot product of v and o.
func (v Vector2D) Dot(o Vector2D) float64 {
	return r2.Dot(v.r2(), o.r2())
}

// Length returns the magnitude of v.
func (v Vector2D) Length() float64 {
	return r2.Norm(v.r2())
}

// LengthSq returns the squared magnitude of v.
func (v Vector2D) LengthSq() float64 {
	return r2.Norm2(v.r2())
}

// IsZero reports whether v is (numerically) the zero vector.
func (v Vector2D) IsZero() bool {
	return v.LengthSq() < math.SmallestNonzeroFloat64
}

// Perp returns the vector perpendicular to v: (-y, x).
func (v Vector2D) Perp() Vector2D {
	return Vector2D{X: -v.Y, Y: v.X}
}

// Reverse returns -v.
func (v Vector2D) Reverse() Vector2D {
	return Vector2D{X: -v.X, Y: -v.Y}
}

// Sign returns Anticlockwise if o is anticlockwise of v (y up), Clockwise otherwise.
// It is derived from the sign of y*o.x - x*o.y.
func (v Vector2D) Sign(o Vector2D) int {
	if -r2.Cross(v.r2(), o.r2()) > 0 {
		return Anticlockwise
	}
	return Clockwise
}

// Distance returns the Euclidean distance between v and o.
func (v Vector2D) Distance(o Vector2D) float64 {
	return math.Sqrt(v.DistanceSq(o))
}

// DistanceSq returns the squared distance between v and o.
func (v Vector2D) DistanceSq(o Vector2D) float64 {
	return r2.Norm2(r2.Sub(o.r2(), v.r2()))
}

// IsEqual compares component-wise within Epsilon.
func (v Vector2D) IsEqual(o Vector2D) bool {
	return IsEqual(v.X, o.X) && IsEqual(v.Y, o.Y)
}

// NotEqual is an exact component-wise inequality test.
func (v Vector2D) NotEqual(o Vector2D) bool {
	return v.X != o.X || v.Y != o.Y
}

// Zero sets v to the zero vector.
func (v *Vector2D) Zero() {
	v.X, v.Y = 0, 0
}

// AddInPlace adds o to v.
func (v *Vector2D) AddInPlace(o Vector2D) {
	v.X += o.X
	v.Y += o.Y
}

// Normalize scales v to unit length. Vectors shorter than Epsilon are left
// unchanged.
func (v *Vector2D) Normalize() {
	l := v.Length()
	if l > Epsilon {
		v.X /= l
		v.Y /= l
	}
}

// Truncate caps the length of v at max.
func (v *Vector2D) Truncate(max float64) {
	if v.Length() > max {
		v.Normalize()
		v.X *= max
		v.Y *= max
	}
}

// Reflect reflects v about the given unit normal: v += -2(v·n)n.
func (v *Vector2D) Reflect(norm Vector2D) {
	v.AddInPlace(norm.Reverse().Mul(2.0 * v.Dot(norm)))
}

// Vec2DNormalize returns a normalized copy of v (unchanged below Epsilon).
func Vec2DNormalize(v Vector2D) Vector2D {
	v.Normalize()
	return v
}

// Vec2DDistance returns the distance between a and b.
func Vec2DDistance(a, b Vector2D) float64 {
	return a.Distance(b)
}

// Vec2DDistanceSq returns the squared distance between a and b.
func Vec2DDistanceSq(a, b Vector2D) float64 {
	return a.DistanceSq(b)
}

// Vec2DLength returns the magnitude of v.
func Vec2DLength(v Vector2D) float64 {
	return v.Length()
}

// Vec2DLengthSq returns the squared magnitude of v.
func Vec2DLengthSq(v Vector2D) float64 {
	return v.LengthSq()
}

// WrapAround wraps pos into [0,maxX]x[0,maxY] in place. Leaving past the far
// edge re-enters at 0, leaving past 0 re-enters at the far edge.
func WrapAround(pos *Vector2D, maxX, maxY float64) {
	if pos.X > maxX {
		pos.X = 0
	}
	if pos.X < 0 {
		pos.X = maxX
	}
	if pos.Y < 0 {
		pos.Y = maxY
	}
	if pos.Y > maxY {
		pos.Y = 0
	}
}

// NotInsideRegion reports whether p lies outside the box topLeft..botRight.
func NotInsideRegion(p, topLeft, botRight Vector2D) bool {
	return p.X < topLeft.X || p.X > botRight.X || p.Y < topLeft.Y || p.Y > botRight.Y
}

// InsideRegion reports whether p lies inside the box topLeft..botRight.
func InsideRegion(p, topLeft, botRight Vector2D) bool {
	return !NotInsideRegion(p, topLeft, botRight)
}

// IsSecondInFOVOfFirst reports whether posSecond is within the field of view
// (radians) of an entity at posFirst facing facingFirst.
func IsSecondInFOVOfFirst(posFirst, facingFirst, posSecond Vector2D, fov float64) bool {
	toTarget := Vec2DNormalize(posSecond.Sub(posFirst))
	return facingFirst.Dot(toTarget) >= math.Cos(fov/2.0)
}

// CloneVectors returns a copy of vs.
func CloneVectors(vs []Vector2D) []Vector2D {
	out := make([]Vector2D, len(vs))
	copy(out, vs)
	return out
}

// IsEqual reports whether a and b differ by less than Epsilon.
func IsEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// RandomClamped returns a random value in (-1, 1).
func RandomClamped(rng *rand.Rand) float64 {
	return rng.Float64() - rng.Float64()
}
