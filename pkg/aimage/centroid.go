package aimage

import (
	"image"
	"math"

	"github.com/astrokit/astrofile/pkg/amath"
)

// Centroid refines a seed position to the intensity-weighted centre of
// the object within radius, iterating until the estimate moves by less
// than a hundredth of a pixel. Returns ok=false when the seed is
// unusable or the iteration does not converge - absence of a centroid
// is not an error.
func (img *Image) Centroid(seed image.Point, radius, iterations int) (amath.Point, bool) {
	if radius <= 0 || iterations <= 0 {
		return amath.Point{}, false
	}
	if seed.X < 0 || seed.X >= img.width || seed.Y < 0 || seed.Y >= img.height {
		return amath.Point{}, false
	}
	p := img.planes[0]

	est := amath.Pt(float64(seed.X), float64(seed.Y))
	for iter := 0; iter < iterations; iter++ {
		// Local background: mean of the window's border ring.
		bg, bgN := 0.0, 0
		x0, x1 := int(est.X)-radius, int(est.X)+radius
		y0, y1 := int(est.Y)-radius, int(est.Y)+radius
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if x < 0 || x >= img.width || y < 0 || y >= img.height {
					continue
				}
				if x == x0 || x == x1 || y == y0 || y == y1 {
					bg += p.Get(x, y)
					bgN++
				}
			}
		}
		if bgN > 0 {
			bg /= float64(bgN)
		}

		sum, sumX, sumY := 0.0, 0.0, 0.0
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if x < 0 || x >= img.width || y < 0 || y >= img.height {
					continue
				}
				v := p.Get(x, y) - bg
				if v <= 0 {
					continue
				}
				sum += v
				sumX += v * float64(x)
				sumY += v * float64(y)
			}
		}
		if sum <= 0 {
			return amath.Point{}, false
		}

		next := amath.Pt(sumX/sum, sumY/sum)
		if math.Hypot(next.X-est.X, next.Y-est.Y) < 0.01 {
			return next, true
		}
		est = next
		if est.X < 0 || est.X >= float64(img.width) || est.Y < 0 || est.Y >= float64(img.height) {
			return amath.Point{}, false
		}
	}
	return amath.Point{}, false
}
