package astrofile

import (
	"fmt"
	"image"
	"math"

	"github.com/astrokit/astrofile/pkg/aerr"
	"github.com/astrokit/astrofile/pkg/aimage"
	"github.com/astrokit/astrofile/pkg/amath"
	"github.com/astrokit/astrofile/pkg/hdb"
	"github.com/astrokit/astrofile/pkg/wcs"
)

// Collaborator contracts. Source extraction, plate solving and frame
// calibration are pluggable engines; the aggregate owns the
// bookkeeping around them.

// StarFinder extracts candidate point sources from an image plane.
type StarFinder interface {
	FindStars(img *aimage.Image, plane int) ([]amath.Point, error)
}

// PlateSolver fits a coordinate solution to reference observations.
type PlateSolver interface {
	Solve(obs []hdb.AstrometryObservation, width, height int) (*wcs.Solution, error)
}

// Calibrator reduces a target frame against a calibration frame
// (dark, flat or bias), returning a new image.
type Calibrator interface {
	Calibrate(target, frame *aimage.Image) (*aimage.Image, error)
}

// FindStars runs the finder over a block's payload and records each
// detection in the astrometry block under a generated name. Returns
// the detected positions.
func (f *File) FindStars(block int, finder StarFinder) ([]amath.Point, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	ib, err := f.imageBlock(block)
	if err != nil {
		return nil, err
	}
	points, err := finder.FindStars(ib.Image(), 0)
	if err != nil {
		return nil, err
	}

	ab, err := f.CreateAstrometryBlock()
	if err != nil {
		return nil, err
	}
	n := ab.Count()
	for _, p := range points {
		for {
			n++
			name := starName(n)
			if ab.Add(hdb.AstrometryObservation{Name: name, Pix: p}) {
				break
			}
		}
	}
	f.dirty = true
	return points, nil
}

func starName(n int) string {
	return fmt.Sprintf("STAR-%03d", n)
}

// PlateSolve fits a fresh coordinate solution from the catalogue-
// referenced astrometry observations and installs it on the primary
// image. The new solution is not stale; the plate data is marked fit.
func (f *File) PlateSolve(solver PlateSolver) error {
	if err := f.check(); err != nil {
		return err
	}
	ib, err := f.imageBlock(0)
	if err != nil {
		return err
	}
	ab, ok := f.Astrometry()
	if !ok || !ab.ReadyToSolve() {
		return aerr.InvalidArgf("plate solving needs at least 3 reference observations")
	}

	var refs []hdb.AstrometryObservation
	for o := ab.First(); o != nil; o = ab.Next() {
		if o.HasSky && o.Source == hdb.CoordReference {
			refs = append(refs, *o)
		}
	}

	sol, err := solver.Solve(refs, ib.Width(), ib.Height())
	if err != nil {
		return err
	}
	if err := ib.SetSolution(sol); err != nil {
		return err
	}
	ab.SetPlateDataValid(true)
	f.dirty = true
	return nil
}

// Calibrate replaces a block's payload with the reduced frame. The
// swap happens only after the engine has fully succeeded, so a failed
// calibration leaves the payload untouched.
func (f *File) Calibrate(block int, cal Calibrator, frame *aimage.Image) error {
	if err := f.check(); err != nil {
		return err
	}
	ib, err := f.imageBlock(block)
	if err != nil {
		return err
	}
	if frame != nil &&
		(frame.Width() != ib.Width() || frame.Height() != ib.Height()) {
		return aerr.InvalidArgf("calibration frame %dx%d against %dx%d target",
			frame.Width(), frame.Height(), ib.Width(), ib.Height())
	}
	out, err := cal.Calibrate(ib.Image(), frame)
	if err != nil {
		return err
	}
	ib.SetImage(out)
	ib.HistoryWrite("calibrated")
	f.dirty = true
	return nil
}

// FWHM measures the full width at half maximum of an object from its
// radial profile, in pixels.
func (f *File) FWHM(block int, center amath.Point, radius int) (float64, error) {
	ib, err := f.imageBlock(block)
	if err != nil {
		return 0, err
	}
	profile, err := ib.Image().ObjectProfile(center, radius)
	if err != nil {
		return 0, err
	}
	if len(profile) < 2 {
		return 0, aerr.InvalidArgf("profile radius %d too small", radius)
	}

	peak := profile[0].Mean
	background := profile[len(profile)-1].Mean
	if peak <= background {
		return 0, aerr.NotFound("no object above background at %v", center)
	}
	half := background + (peak-background)/2

	for i := 1; i < len(profile); i++ {
		if profile[i].Mean <= half {
			// Linear interpolation between the straddling rings.
			lo, hi := profile[i-1], profile[i]
			t := (lo.Mean - half) / (lo.Mean - hi.Mean)
			r := lo.Radius + t*(hi.Radius-lo.Radius)
			return 2 * r, nil
		}
	}
	return 0, aerr.NotFound("profile never falls to half maximum within radius %d", radius)
}

// PointPhotometry measures an object's flux and instrumental magnitude
// at a seed position: centroid first, then background-subtracted
// aperture sum.
func (f *File) PointPhotometry(block int, seed image.Point, radius int) (hdb.PhotometryObservation, error) {
	var obs hdb.PhotometryObservation

	ib, err := f.imageBlock(block)
	if err != nil {
		return obs, err
	}
	img := ib.Image()

	center, ok := img.Centroid(seed, radius, 10)
	if !ok {
		return obs, aerr.NotFound("no centroid near (%d,%d)", seed.X, seed.Y)
	}

	p, err := img.Plane(0)
	if err != nil {
		return obs, err
	}

	// Background from an annulus just outside the aperture.
	bgSum, bgN := 0.0, 0
	flux := 0.0
	r2 := float64(radius * radius)
	out2 := float64((radius + 3) * (radius + 3))
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			dx, dy := float64(x)-center.X, float64(y)-center.Y
			d2 := dx*dx + dy*dy
			if d2 > r2 && d2 <= out2 {
				bgSum += p.Get(x, y)
				bgN++
			}
		}
	}
	if bgN == 0 {
		return obs, aerr.OutOfRangef("aperture at %v leaves no background annulus", center)
	}
	bg := bgSum / float64(bgN)

	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			dx, dy := float64(x)-center.X, float64(y)-center.Y
			if dx*dx+dy*dy <= r2 {
				flux += p.Get(x, y) - bg
			}
		}
	}
	if flux <= 0 {
		return obs, aerr.NotFound("no positive flux at %v", center)
	}

	obs.Pix = center
	obs.Flux = flux
	obs.Magnitude = -2.5 * math.Log10(flux)
	if sky, ok := ib.PixToSky(center); ok {
		obs.Sky = sky
		obs.HasSky = true
	}
	return obs, nil
}
