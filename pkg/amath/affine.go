// Package amath carries the affine machinery shared by the image
// transforms, the coordinate solution, and observation propagation.
package amath

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// Point is a continuous pixel coordinate. Integer pixel (i, j) is
// sampled at the continuous point (i, j).
type Point struct {
	X, Y float64
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y) }

// Use a local type so we can hang methods off it
type Aff3 f64.Aff3

func Identity() Aff3 {
	return Aff3{1, 0, 0, 0, 1, 0}
}

func (p Aff3) Mult(q Aff3) Aff3 {
	return Aff3{
		p[3*0+0]*q[3*0+0] + p[3*0+1]*q[3*1+0],
		p[3*0+0]*q[3*0+1] + p[3*0+1]*q[3*1+1],
		p[3*0+0]*q[3*0+2] + p[3*0+1]*q[3*1+2] + p[3*0+2],
		p[3*1+0]*q[3*0+0] + p[3*1+1]*q[3*1+0],
		p[3*1+0]*q[3*0+1] + p[3*1+1]*q[3*1+1],
		p[3*1+0]*q[3*0+2] + p[3*1+1]*q[3*1+2] + p[3*1+2],
	}
}

func (m Aff3) Translate(tx, ty float64) Aff3 {
	return m.Mult(Aff3{1, 0, tx, 0, 1, ty})
}

func (m Aff3) Rotate(thetaDeg float64) Aff3 {
	cosTheta := math.Cos(thetaDeg * math.Pi / 180.0)
	sinTheta := math.Sin(thetaDeg * math.Pi / 180.0)
	return m.Mult(Aff3{cosTheta, -1 * sinTheta, 0, sinTheta, cosTheta, 0})
}

func (m Aff3) Scale(sx, sy float64) Aff3 {
	return m.Mult(Aff3{sx, 0, 0, 0, sy, 0})
}

// RotateAbout rotates by thetaDeg around (x, y).
func RotateAbout(thetaDeg, x, y float64) Aff3 {
	// Remember they compose back to front - rightmost operations performed first
	return Identity().Translate(x, y).Rotate(thetaDeg).Translate(-1*x, -1*y)
}

// ScaleAbout scales by (sx, sy) around (x, y).
func ScaleAbout(sx, sy, x, y float64) Aff3 {
	return Identity().Translate(x, y).Scale(sx, sy).Translate(-1*x, -1*y)
}

// Apply maps a point through the transform.
func (m Aff3) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Linear returns the 2x2 linear part, row major.
func (m Aff3) Linear() [4]float64 {
	return [4]float64{m[0], m[1], m[3], m[4]}
}

// Det returns the determinant of the linear part.
func (m Aff3) Det() float64 {
	return m[0]*m[4] - m[1]*m[3]
}

// Invert returns the inverse transform, or ok=false when the linear
// part is singular.
func (m Aff3) Invert() (Aff3, bool) {
	det := m.Det()
	if math.Abs(det) < 1e-300 {
		return Identity(), false
	}
	inv := Aff3{
		m[4] / det, -m[1] / det, 0,
		-m[3] / det, m[0] / det, 0,
	}
	// Translation: -L^-1 * t
	inv[2] = -(inv[0]*m[2] + inv[1]*m[5])
	inv[5] = -(inv[3]*m[2] + inv[4]*m[5])
	return inv, true
}
