package aimage

import (
	"math"
	"testing"

	"github.com/astrokit/astrofile/pkg/amath"
)

func TestBasicStats(t *testing.T) {
	img, _ := New(4, 1, 1)
	p, _ := img.Plane(0)
	for i, v := range []float64{2, 4, 4, 6} {
		p.Set(i, 0, v)
	}

	if v, _ := img.Min(0); v != 2 {
		t.Fatalf("min: %v", v)
	}
	if v, _ := img.Max(0); v != 6 {
		t.Fatalf("max: %v", v)
	}
	if v, _ := img.Mean(0); v != 4 {
		t.Fatalf("mean: %v", v)
	}
	if v, _ := img.Median(0); v != 4 {
		t.Fatalf("median: %v", v)
	}
	// Sample standard deviation of {2,4,4,6}.
	if v, _ := img.StdDev(0); math.Abs(v-1.63299) > 1e-4 {
		t.Fatalf("stddev: %v", v)
	}

	if _, err := img.Mean(7); err == nil {
		t.Fatalf("expected error for bad plane index")
	}
}

func TestStretchPoints(t *testing.T) {
	img, _ := New(100, 100, 1)
	p, _ := img.Plane(0)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			p.Set(x, y, float64(y*100+x)) // uniform ramp 0..9999
		}
	}

	lo, hi, err := img.StretchPoints(0, 0.05, 0.95)
	if err != nil {
		t.Fatalf("stretch: %v", err)
	}
	if lo < 300 || lo > 700 {
		t.Fatalf("low stretch point: %v", lo)
	}
	if hi < 9300 || hi > 9700 {
		t.Fatalf("high stretch point: %v", hi)
	}

	if _, _, err := img.StretchPoints(0, 0.9, 0.1); err == nil {
		t.Fatalf("expected error for inverted quantiles")
	}
}

func TestDisplayHistogram(t *testing.T) {
	img, _ := New(16, 16, 1)
	p, _ := img.Plane(0)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			p.Set(x, y, float64(x))
		}
	}
	if _, err := img.DisplayHistogram(0); err != nil {
		t.Fatalf("histogram: %v", err)
	}
}

func TestObjectProfile(t *testing.T) {
	img, _ := New(21, 21, 1)
	p, _ := img.Plane(0)
	// Radially symmetric fake star: value falls off with distance.
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			r := math.Hypot(float64(x-10), float64(y-10))
			p.Set(x, y, 100/(1+r))
		}
	}

	prof, err := img.ObjectProfile(amath.Pt(10, 10), 5)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(prof) < 3 {
		t.Fatalf("profile too short: %v", prof)
	}
	for i := 1; i < len(prof); i++ {
		if prof[i].Mean >= prof[i-1].Mean {
			t.Fatalf("profile not monotonically falling: %v", prof)
		}
	}
}
