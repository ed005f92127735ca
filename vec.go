package boxlite

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// mathgl covers add/sub/scale/dot and the Mat2 products. The helpers below
// are the 2D cross-product forms and a few component-wise ops it lacks.

// Cross returns the z component of a x b.
func Cross(a, b mgl64.Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// CrossVS returns v x s, i.e. v rotated by -90 degrees and scaled by s.
func CrossVS(v mgl64.Vec2, s float64) mgl64.Vec2 {
	return mgl64.Vec2{s * v[1], -s * v[0]}
}

// CrossSV returns s x v, i.e. v rotated by +90 degrees and scaled by s.
func CrossSV(s float64, v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-s * v[1], s * v[0]}
}

func MulVV(a, b mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{a[0] * b[0], a[1] * b[1]}
}

func AbsVec(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{math.Abs(v[0]), math.Abs(v[1])}
}

func Neg(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v[0], -v[1]}
}

// MatFromAngle builds the rotation matrix for theta radians.
// Columns are (cos, sin) and (-sin, cos).
func MatFromAngle(theta float64) mgl64.Mat2 {
	return mgl64.Rotate2D(theta)
}

func MatFromColumns(col1, col2 mgl64.Vec2) mgl64.Mat2 {
	return mgl64.Mat2FromCols(col1, col2)
}

func AbsMat(m mgl64.Mat2) mgl64.Mat2 {
	return mgl64.Mat2{math.Abs(m[0]), math.Abs(m[1]), math.Abs(m[2]), math.Abs(m[3])}
}

// Invert uses the 2x2 closed form. A singular matrix yields the zero
// matrix.
func Invert(m mgl64.Mat2) mgl64.Mat2 {
	a, c, b, d := m[0], m[1], m[2], m[3]
	det := a*d - b*c
	if det == 0 {
		return mgl64.Mat2{}
	}
	det = 1 / det
	return mgl64.Mat2{det * d, -det * c, -det * b, det * a}
}
