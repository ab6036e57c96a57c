package aimage

import (
	"errors"
	"image"
	"testing"

	"github.com/astrokit/astrofile/pkg/aerr"
	"github.com/astrokit/astrofile/pkg/amath"
)

func gradientImage(t *testing.T, w, h int) *Image {
	t.Helper()
	img, err := New(w, h, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p, _ := img.Plane(0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Set(x, y, float64(y*w+x))
		}
	}
	return img
}

func planesEqual(a, b *Image) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() || a.PlaneCount() != b.PlaneCount() {
		return false
	}
	for i := 0; i < a.PlaneCount(); i++ {
		pa, _ := a.Plane(i)
		pb, _ := b.Plane(i)
		va, vb := pa.Values(), pb.Values()
		for j := range va {
			if va[j] != vb[j] {
				return false
			}
		}
	}
	return true
}

func TestCropBounds(t *testing.T) {
	img := gradientImage(t, 100, 100)
	orig := img.Copy()

	_, err := img.Crop(image.Pt(90, 90), image.Pt(20, 20))
	if !errors.Is(err, aerr.ErrOutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
	if !planesEqual(img, orig) {
		t.Fatalf("failed crop mutated the image")
	}

	// A full-frame crop is a pixel no-op.
	fwd, err := img.Crop(image.Pt(0, 0), image.Pt(100, 100))
	if err != nil {
		t.Fatalf("full crop: %v", err)
	}
	if !planesEqual(img, orig) {
		t.Fatalf("full-frame crop changed pixel content")
	}
	if p := fwd.Apply(amath.Pt(10, 20)); p.X != 10 || p.Y != 20 {
		t.Fatalf("full-frame crop mapping moved a point: %v", p)
	}

	// Zero-sized crops are malformed, not out of range.
	_, err = img.Crop(image.Pt(0, 0), image.Pt(0, 10))
	if !errors.Is(err, aerr.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestCropContentAndMapping(t *testing.T) {
	img := gradientImage(t, 10, 10)
	fwd, err := img.Crop(image.Pt(2, 3), image.Pt(4, 5))
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	if img.Width() != 4 || img.Height() != 5 {
		t.Fatalf("crop dims: %dx%d", img.Width(), img.Height())
	}
	v, _ := img.Value(0, 0, 0)
	if v != float64(3*10+2) {
		t.Fatalf("crop origin pixel: %v", v)
	}
	if p := fwd.Apply(amath.Pt(2, 3)); p.X != 0 || p.Y != 0 {
		t.Fatalf("crop mapping: %v", p)
	}
}

func TestFlipFlopIdempotent(t *testing.T) {
	img := gradientImage(t, 17, 9) // odd sizes exercise the middle row/column
	orig := img.Copy()

	if _, err := img.Flip(); err != nil {
		t.Fatalf("flip: %v", err)
	}
	if planesEqual(img, orig) {
		t.Fatalf("flip was a no-op")
	}
	if _, err := img.Flip(); err != nil {
		t.Fatalf("flip: %v", err)
	}
	if !planesEqual(img, orig) {
		t.Fatalf("flip twice did not restore pixel content")
	}

	if _, err := img.Flop(); err != nil {
		t.Fatalf("flop: %v", err)
	}
	if _, err := img.Flop(); err != nil {
		t.Fatalf("flop: %v", err)
	}
	if !planesEqual(img, orig) {
		t.Fatalf("flop twice did not restore pixel content")
	}
}

func TestFlipMapping(t *testing.T) {
	img := gradientImage(t, 10, 10)
	fwd, _ := img.Flip()
	if p := fwd.Apply(amath.Pt(3, 0)); p.X != 3 || p.Y != 9 {
		t.Fatalf("flip mapping: %v", p)
	}
	fwd, _ = img.Flop()
	if p := fwd.Apply(amath.Pt(0, 4)); p.X != 9 || p.Y != 4 {
		t.Fatalf("flop mapping: %v", p)
	}
}

func TestRotate90(t *testing.T) {
	img, _ := New(100, 100, 1)
	p, _ := img.Plane(0)
	p.Set(10, 10, 1000)

	fwd, err := img.Rotate(90)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if img.Width() != 100 || img.Height() != 100 {
		t.Fatalf("rotate 90 of a square changed dims: %dx%d", img.Width(), img.Height())
	}

	moved := fwd.Apply(amath.Pt(10, 10))
	if d := abs(moved.X-90) + abs(moved.Y-10); d > 1e-9 {
		t.Fatalf("rotate mapping: got %v, want (90, 10)", moved)
	}

	// The bright pixel's flux lands around the mapped position.
	sum := 0.0
	for y := 9; y <= 11; y++ {
		for x := 89; x <= 91; x++ {
			v, _ := img.Value(x, y, 0)
			sum += v
		}
	}
	if sum < 900 {
		t.Fatalf("rotated flux not found near (90, 10): %v", sum)
	}
}

func TestResample(t *testing.T) {
	img := gradientImage(t, 100, 100)

	if _, err := img.Resample(200, 100); !errors.Is(err, aerr.ErrOutOfRange) {
		t.Fatalf("expected OutOfRange for upsampling, got %v", err)
	}
	if _, err := img.Resample(0, 50); !errors.Is(err, aerr.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	fwd, err := img.Resample(50, 50)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if img.Width() != 50 || img.Height() != 50 {
		t.Fatalf("resample dims: %dx%d", img.Width(), img.Height())
	}
	// The frame centre is a fixed point of a symmetric rescale.
	p := fwd.Apply(amath.Pt(49.5, 49.5))
	if abs(p.X-24.5)+abs(p.Y-24.5) > 1e-9 {
		t.Fatalf("resample centre mapping: %v", p)
	}
}

func TestBin(t *testing.T) {
	img := gradientImage(t, 8, 8)

	if _, err := img.Bin(0); !errors.Is(err, aerr.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument for factor 0, got %v", err)
	}
	if _, err := img.Bin(3); !errors.Is(err, aerr.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument for non-dividing factor, got %v", err)
	}

	fwd, err := img.Bin(2)
	if err != nil {
		t.Fatalf("bin: %v", err)
	}
	if img.Width() != 4 || img.Height() != 4 {
		t.Fatalf("bin dims: %dx%d", img.Width(), img.Height())
	}
	// Binning sums: output (0,0) = 0 + 1 + 8 + 9.
	v, _ := img.Value(0, 0, 0)
	if v != 18 {
		t.Fatalf("bin sum: %v", v)
	}
	// Block-centre mapping: old (0.5, 0.5) is the centre of block (0, 0).
	p := fwd.Apply(amath.Pt(0.5, 0.5))
	if abs(p.X)+abs(p.Y) > 1e-9 {
		t.Fatalf("bin mapping: %v", p)
	}
}

func TestFloat(t *testing.T) {
	img := gradientImage(t, 4, 4)
	if _, err := img.Float(2, 2, 0); !errors.Is(err, aerr.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument for shrinking float, got %v", err)
	}

	fwd, err := img.Float(8, 8, -1)
	if err != nil {
		t.Fatalf("float: %v", err)
	}
	if img.Width() != 8 || img.Height() != 8 {
		t.Fatalf("float dims: %dx%d", img.Width(), img.Height())
	}
	v, _ := img.Value(0, 0, 0)
	if v != -1 {
		t.Fatalf("float background: %v", v)
	}
	v, _ = img.Value(2, 2, 0)
	if v != 0 {
		t.Fatalf("float relocated origin pixel: %v", v)
	}
	if p := fwd.Apply(amath.Pt(0, 0)); p.X != 2 || p.Y != 2 {
		t.Fatalf("float mapping: %v", p)
	}
}

func TestTransformMask(t *testing.T) {
	img := gradientImage(t, 10, 10)

	if _, err := img.Transform(amath.Pt(5, 5), amath.Point{}, 0, 0, nil); !errors.Is(err, aerr.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument for zero scale, got %v", err)
	}

	mask := make([]bool, 100)
	_, err := img.Transform(amath.Pt(4.5, 4.5), amath.Pt(3, 0), 0, 1, mask)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	// Shift right by 3: leftmost 3 columns have no source coverage.
	if mask[0] || mask[2] {
		t.Fatalf("expected uncovered pixels at left edge")
	}
	if !mask[5] {
		t.Fatalf("expected covered pixel at (5, 0)")
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
