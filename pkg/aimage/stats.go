package aimage

import (
	"math"
	"sort"

	"github.com/codahale/hdrhistogram"
	"github.com/skypies/util/histogram"
	"gonum.org/v1/gonum/stat"

	"github.com/astrokit/astrofile/pkg/aerr"
	"github.com/astrokit/astrofile/pkg/amath"
)

func (img *Image) Min(plane int) (float64, error) {
	p, err := img.Plane(plane)
	if err != nil {
		return 0, err
	}
	min := math.MaxFloat64
	for _, v := range p.Values() {
		if v < min {
			min = v
		}
	}
	return min, nil
}

func (img *Image) Max(plane int) (float64, error) {
	p, err := img.Plane(plane)
	if err != nil {
		return 0, err
	}
	max := -math.MaxFloat64
	for _, v := range p.Values() {
		if v > max {
			max = v
		}
	}
	return max, nil
}

func (img *Image) Mean(plane int) (float64, error) {
	p, err := img.Plane(plane)
	if err != nil {
		return 0, err
	}
	return stat.Mean(p.Values(), nil), nil
}

func (img *Image) StdDev(plane int) (float64, error) {
	p, err := img.Plane(plane)
	if err != nil {
		return 0, err
	}
	return stat.StdDev(p.Values(), nil), nil
}

func (img *Image) Median(plane int) (float64, error) {
	p, err := img.Plane(plane)
	if err != nil {
		return 0, err
	}
	vals := append([]float64(nil), p.Values()...)
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2], nil
	}
	return (vals[n/2-1] + vals[n/2]) / 2, nil
}

// DisplayHistogram buckets a plane's values into 256 display levels
// between the plane's min and max.
func (img *Image) DisplayHistogram(plane int) (histogram.Histogram, error) {
	p, err := img.Plane(plane)
	if err != nil {
		return histogram.Histogram{}, err
	}
	min, _ := img.Min(plane)
	max, _ := img.Max(plane)
	span := max - min
	if span == 0 {
		span = 1
	}

	hist := histogram.Histogram{NumBuckets: 256, ValMin: 0, ValMax: 256}
	for _, v := range p.Values() {
		level := int((v - min) / span * 255)
		hist.Add(histogram.ScalarVal(level))
	}
	return hist, nil
}

// StretchPoints finds display black/white points as low/high quantiles
// (0..1) of the plane's value distribution.
func (img *Image) StretchPoints(plane int, loQ, hiQ float64) (float64, float64, error) {
	if loQ < 0 || hiQ > 1 || loQ >= hiQ {
		return 0, 0, aerr.InvalidArgf("stretch quantiles %v, %v", loQ, hiQ)
	}
	p, err := img.Plane(plane)
	if err != nil {
		return 0, 0, err
	}
	min, _ := img.Min(plane)
	max, _ := img.Max(plane)
	span := max - min
	if span == 0 {
		return min, min + 1, nil
	}

	// Quantize into a 16-bit range for the histogram; precision well
	// beyond anything a display stretch needs.
	const levels = 1 << 16
	h := hdrhistogram.New(0, levels, 3)
	for _, v := range p.Values() {
		h.RecordValue(int64((v - min) / span * (levels - 1)))
	}
	lo := min + float64(h.ValueAtQuantile(loQ*100))/(levels-1)*span
	hi := min + float64(h.ValueAtQuantile(hiQ*100))/(levels-1)*span
	if hi <= lo {
		hi = lo + span/levels
	}
	return lo, hi, nil
}

// ProfilePoint is one ring of an object's radial profile.
type ProfilePoint struct {
	Radius float64
	Mean   float64
}

// ObjectProfile averages plane-0 values in unit-width rings around a
// centroid, out to radius pixels.
func (img *Image) ObjectProfile(center amath.Point, radius int) ([]ProfilePoint, error) {
	if radius <= 0 {
		return nil, aerr.InvalidArgf("profile radius %d", radius)
	}
	p := img.planes[0]

	sums := make([]float64, radius+1)
	counts := make([]int, radius+1)
	x0, x1 := int(center.X)-radius, int(center.X)+radius
	y0, y1 := int(center.Y)-radius, int(center.Y)+radius
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= img.width || y < 0 || y >= img.height {
				continue
			}
			r := math.Hypot(float64(x)-center.X, float64(y)-center.Y)
			ring := int(r)
			if ring > radius {
				continue
			}
			sums[ring] += p.Get(x, y)
			counts[ring]++
		}
	}

	out := make([]ProfilePoint, 0, radius+1)
	for i := 0; i <= radius; i++ {
		if counts[i] == 0 {
			continue
		}
		out = append(out, ProfilePoint{Radius: float64(i), Mean: sums[i] / float64(counts[i])})
	}
	return out, nil
}
