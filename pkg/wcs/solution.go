// Package wcs holds the coordinate solution that maps pixel positions
// on an image to sky coordinates and back. The model is the linear
// tangent-plane one: a reference pixel, the sky coordinates it lands
// on, and a 2x2 CD matrix of degrees-per-pixel terms. Nonlinear
// solutions from a plate solver are carried through the same terms;
// they are an approximation there, which is what the staleness flag is
// for.
package wcs

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/astrokit/astrofile/pkg/acoord"
	"github.com/astrokit/astrofile/pkg/aerr"
	"github.com/astrokit/astrofile/pkg/amath"
	"github.com/astrokit/astrofile/pkg/keyword"
)

// Solution is owned by exactly one image block and never shared.
type Solution struct {
	refPix amath.Point         // zero-based pixel coordinates of the reference point
	refSky acoord.Coordinates  // sky coordinates at the reference point
	cd     [4]float64          // row-major degrees/pixel: on-sky-RA and Dec per pixel step
	inv    [4]float64          // cached inverse of cd
	stale  bool
}

// NewLinear builds a solution from explicit terms. The CD matrix must
// be invertible.
func NewLinear(refPix amath.Point, refSky acoord.Coordinates, cd [4]float64) (*Solution, error) {
	inv, err := invert2x2(cd)
	if err != nil {
		return nil, err
	}
	return &Solution{refPix: refPix, refSky: refSky, cd: cd, inv: inv}, nil
}

func invert2x2(m [4]float64) ([4]float64, error) {
	src := mat.NewDense(2, 2, []float64{m[0], m[1], m[2], m[3]})
	var dst mat.Dense
	if err := dst.Inverse(src); err != nil {
		return [4]float64{}, aerr.InvalidArgf("singular CD matrix %v", m)
	}
	return [4]float64{dst.At(0, 0), dst.At(0, 1), dst.At(1, 0), dst.At(1, 1)}, nil
}

// FromKeywords derives a solution from the declared linear terms
// (CRPIX/CRVAL plus either a CD matrix or CDELT/CROTA2). Returns
// NotFound when the store declares no solution.
func FromKeywords(st *keyword.Store) (*Solution, error) {
	need := func(name string) (float64, error) {
		v, err := st.Read(name)
		if err != nil {
			return 0, err
		}
		return v.AsFloat64()
	}

	crpix1, err := need("CRPIX1")
	if err != nil {
		return nil, err
	}
	crpix2, err := need("CRPIX2")
	if err != nil {
		return nil, err
	}
	crval1, err := need("CRVAL1")
	if err != nil {
		return nil, err
	}
	crval2, err := need("CRVAL2")
	if err != nil {
		return nil, err
	}

	var cd [4]float64
	if st.Exists("CD1_1") {
		names := []string{"CD1_1", "CD1_2", "CD2_1", "CD2_2"}
		for i, n := range names {
			if cd[i], err = need(n); err != nil {
				return nil, err
			}
		}
	} else {
		cdelt1, err := need("CDELT1")
		if err != nil {
			return nil, err
		}
		cdelt2, err := need("CDELT2")
		if err != nil {
			return nil, err
		}
		rot := 0.0
		if st.Exists("CROTA2") {
			if rot, err = need("CROTA2"); err != nil {
				return nil, err
			}
		}
		c, s := math.Cos(rot*math.Pi/180), math.Sin(rot*math.Pi/180)
		cd = [4]float64{cdelt1 * c, -cdelt2 * s, cdelt1 * s, cdelt2 * c}
	}

	// CRPIX is one-based in the header convention.
	return NewLinear(amath.Pt(crpix1-1, crpix2-1), acoord.New(crval1, crval2), cd)
}

// WriteKeywords declares the current terms into a keyword store,
// one-based CRPIX, CD matrix form.
func (s *Solution) WriteKeywords(st *keyword.Store) error {
	w := func(name string, v float64, comment string) error {
		return st.Write(name, keyword.Float64(v), comment)
	}
	if err := w("CRPIX1", s.refPix.X+1, "reference pixel, axis 1"); err != nil {
		return err
	}
	if err := w("CRPIX2", s.refPix.Y+1, "reference pixel, axis 2"); err != nil {
		return err
	}
	if err := w("CRVAL1", s.refSky.RA, "RA at reference pixel (deg)"); err != nil {
		return err
	}
	if err := w("CRVAL2", s.refSky.Dec, "Dec at reference pixel (deg)"); err != nil {
		return err
	}
	names := []string{"CD1_1", "CD1_2", "CD2_1", "CD2_2"}
	for i, n := range names {
		if err := w(n, s.cd[i], "CD matrix (deg/pixel)"); err != nil {
			return err
		}
	}
	return nil
}

// PixToSky maps a pixel position to sky coordinates.
func (s *Solution) PixToSky(p amath.Point) acoord.Coordinates {
	dx, dy := p.X-s.refPix.X, p.Y-s.refPix.Y
	u := s.cd[0]*dx + s.cd[1]*dy // on-sky offset along RA (deg)
	v := s.cd[2]*dx + s.cd[3]*dy // offset along Dec (deg)

	cosDec := math.Cos(s.refSky.Dec * math.Pi / 180)
	if cosDec == 0 {
		cosDec = 1e-12
	}
	out := acoord.New(s.refSky.RA+u/cosDec, s.refSky.Dec+v)
	out.System = s.refSky.System
	out.Epoch = s.refSky.Epoch
	return out
}

// SkyToPix is the inverse of PixToSky for the linear model.
func (s *Solution) SkyToPix(c acoord.Coordinates) amath.Point {
	cosDec := math.Cos(s.refSky.Dec * math.Pi / 180)
	dRA := c.RA - s.refSky.RA
	// Shortest way around the RA seam.
	if dRA > 180 {
		dRA -= 360
	} else if dRA < -180 {
		dRA += 360
	}
	u := dRA * cosDec
	v := c.Dec - s.refSky.Dec
	return amath.Pt(
		s.refPix.X+s.inv[0]*u+s.inv[1]*v,
		s.refPix.Y+s.inv[2]*u+s.inv[3]*v,
	)
}

// Stale reports whether the terms were mechanically updated by a
// geometric transform since the last solve. A stale solution still
// answers queries; registration-sensitive callers must re-solve.
func (s *Solution) Stale() bool { return s.stale }

func (s *Solution) MarkStale() { s.stale = true }

// RefSky returns the sky coordinates of the reference point.
func (s *Solution) RefSky() acoord.Coordinates { return s.refSky }

// RefPix returns the zero-based reference pixel.
func (s *Solution) RefPix() amath.Point { return s.refPix }

// Scale returns the mean plate scale in degrees per pixel.
func (s *Solution) Scale() float64 {
	det := s.cd[0]*s.cd[3] - s.cd[1]*s.cd[2]
	return math.Sqrt(math.Abs(det))
}

// ApplyPixelTransform updates the terms for a forward pixel mapping
// fwd (old pixel -> new pixel) and marks the solution stale. The new
// reference pixel is the image of the old one; the CD matrix picks up
// the inverse of fwd's linear part so that unchanged sky positions map
// to the transformed pixel positions.
func (s *Solution) ApplyPixelTransform(fwd amath.Aff3) error {
	back, ok := fwd.Invert()
	if !ok {
		return aerr.InvalidArgf("singular pixel transform %v", fwd)
	}

	s.refPix = fwd.Apply(s.refPix)

	l := back.Linear()
	cdM := mat.NewDense(2, 2, []float64{s.cd[0], s.cd[1], s.cd[2], s.cd[3]})
	lM := mat.NewDense(2, 2, l[:])
	var out mat.Dense
	out.Mul(cdM, lM)
	s.cd = [4]float64{out.At(0, 0), out.At(0, 1), out.At(1, 0), out.At(1, 1)}

	inv, err := invert2x2(s.cd)
	if err != nil {
		return err
	}
	s.inv = inv
	s.stale = true
	return nil
}

func (s *Solution) Copy() *Solution {
	out := *s
	return &out
}
