package aimage

import (
	"image"
	"math"

	"github.com/astrokit/astrofile/pkg/aerr"
	"github.com/astrokit/astrofile/pkg/amath"
)

// Every geometric transform returns the forward pixel mapping it
// applied (old pixel -> new pixel), which the owning file propagates to
// the coordinate solution and the observation lists.

// Crop keeps the rectangle [origin, origin+dims).
func (img *Image) Crop(origin, dims image.Point) (amath.Aff3, error) {
	if dims.X <= 0 || dims.Y <= 0 {
		return amath.Identity(), aerr.InvalidArgf("crop dimensions %dx%d", dims.X, dims.Y)
	}
	if origin.X < 0 || origin.Y < 0 ||
		origin.X+dims.X > img.width || origin.Y+dims.Y > img.height {
		return amath.Identity(), aerr.OutOfRangef("crop %v+%v of %dx%d",
			origin, dims, img.width, img.height)
	}

	planes := make([]*Plane, 0, len(img.planes))
	for _, src := range img.planes {
		dst := NewPlane(dims.X, dims.Y)
		for y := 0; y < dims.Y; y++ {
			for x := 0; x < dims.X; x++ {
				dst.Set(x, y, src.Get(origin.X+x, origin.Y+y))
			}
		}
		planes = append(planes, dst)
	}
	img.replacePlanes(dims.X, dims.Y, planes)

	return amath.Identity().Translate(-float64(origin.X), -float64(origin.Y)), nil
}

// Flip mirrors about the horizontal axis (top row becomes bottom row).
func (img *Image) Flip() (amath.Aff3, error) {
	for _, p := range img.planes {
		for y := 0; y < img.height/2; y++ {
			y2 := img.height - 1 - y
			for x := 0; x < img.width; x++ {
				a, b := p.Get(x, y), p.Get(x, y2)
				p.Set(x, y, b)
				p.Set(x, y2, a)
			}
		}
	}
	return amath.Aff3{1, 0, 0, 0, -1, float64(img.height - 1)}, nil
}

// Flop mirrors about the vertical axis (left column becomes right).
func (img *Image) Flop() (amath.Aff3, error) {
	for _, p := range img.planes {
		for y := 0; y < img.height; y++ {
			for x := 0; x < img.width/2; x++ {
				x2 := img.width - 1 - x
				a, b := p.Get(x, y), p.Get(x2, y)
				p.Set(x, y, b)
				p.Set(x2, y, a)
			}
		}
	}
	return amath.Aff3{-1, 0, float64(img.width - 1), 0, 1, 0}, nil
}

// Rotate turns the image by angleDeg about its centre, growing the
// canvas to the bounding box of the rotated frame. Uncovered corners
// fill with zero.
func (img *Image) Rotate(angleDeg float64) (amath.Aff3, error) {
	rad := angleDeg * math.Pi / 180
	c, s := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	w, h := float64(img.width), float64(img.height)
	newW := int(math.Round(w*c + h*s))
	newH := int(math.Round(w*s + h*c))

	fwd := amath.Identity().
		Translate(float64(newW-img.width)/2, float64(newH-img.height)/2).
		Mult(amath.RotateAbout(angleDeg, w/2, h/2))

	if err := img.resampleThrough(fwd, newW, newH, nil); err != nil {
		return amath.Identity(), err
	}
	return fwd, nil
}

// Resample rescales to newW x newH. Growing past the current extents is
// refused; canvas enlargement is Float's job.
func (img *Image) Resample(newW, newH int) (amath.Aff3, error) {
	if newW <= 0 || newH <= 0 {
		return amath.Identity(), aerr.InvalidArgf("resample to %dx%d", newW, newH)
	}
	if newW > img.width || newH > img.height {
		return amath.Identity(), aerr.OutOfRangef("resample %dx%d beyond %dx%d",
			newW, newH, img.width, img.height)
	}

	sx := float64(newW) / float64(img.width)
	sy := float64(newH) / float64(img.height)
	// Pixel centres sit at integer coordinates, so the mapping is
	// anchored half a pixel before the first centre.
	fwd := amath.Identity().
		Translate(-0.5, -0.5).
		Scale(sx, sy).
		Translate(0.5, 0.5)

	if err := img.resampleThrough(fwd, newW, newH, nil); err != nil {
		return amath.Identity(), err
	}
	return fwd, nil
}

// Bin sums factor x factor pixel blocks into single pixels. The factor
// must divide both dimensions.
func (img *Image) Bin(factor int) (amath.Aff3, error) {
	if factor <= 0 {
		return amath.Identity(), aerr.InvalidArgf("bin factor %d", factor)
	}
	if img.width%factor != 0 || img.height%factor != 0 {
		return amath.Identity(), aerr.InvalidArgf("bin factor %d does not divide %dx%d",
			factor, img.width, img.height)
	}

	newW, newH := img.width/factor, img.height/factor
	planes := make([]*Plane, 0, len(img.planes))
	for _, src := range img.planes {
		dst := NewPlane(newW, newH)
		for y := 0; y < newH; y++ {
			for x := 0; x < newW; x++ {
				sum := 0.0
				for dy := 0; dy < factor; dy++ {
					for dx := 0; dx < factor; dx++ {
						sum += src.Get(x*factor+dx, y*factor+dy)
					}
				}
				dst.Set(x, y, sum)
			}
		}
		planes = append(planes, dst)
	}
	img.replacePlanes(newW, newH, planes)

	f := float64(factor)
	return amath.Identity().
		Scale(1/f, 1/f).
		Translate(-(f-1)/2, -(f-1)/2), nil
}

// Float enlarges the canvas to newW x newH, centring the existing
// pixels on a background level.
func (img *Image) Float(newW, newH int, background float64) (amath.Aff3, error) {
	if newW < img.width || newH < img.height {
		return amath.Identity(), aerr.InvalidArgf("float to %dx%d smaller than %dx%d",
			newW, newH, img.width, img.height)
	}
	ox := (newW - img.width) / 2
	oy := (newH - img.height) / 2

	planes := make([]*Plane, 0, len(img.planes))
	for _, src := range img.planes {
		dst := NewPlane(newW, newH)
		dst.Fill(background)
		for y := 0; y < img.height; y++ {
			for x := 0; x < img.width; x++ {
				dst.Set(x+ox, y+oy, src.Get(x, y))
			}
		}
		planes = append(planes, dst)
	}
	img.replacePlanes(newW, newH, planes)

	return amath.Identity().Translate(float64(ox), float64(oy)), nil
}

// Transform applies a translate-rotate-scale about a centre point:
// pixels move by offset, rotate by angleDeg and scale by scale around
// center. Canvas dimensions are unchanged. When mask is non-nil it must
// have width*height entries and is set true where the destination pixel
// was covered by the source frame.
func (img *Image) Transform(center, offset amath.Point, angleDeg, scale float64, mask []bool) (amath.Aff3, error) {
	if scale <= 0 {
		return amath.Identity(), aerr.InvalidArgf("transform scale %v", scale)
	}
	if mask != nil && len(mask) != img.width*img.height {
		return amath.Identity(), aerr.InvalidArgf("mask length %d for %dx%d image",
			len(mask), img.width, img.height)
	}

	fwd := amath.Identity().
		Translate(center.X+offset.X, center.Y+offset.Y).
		Rotate(angleDeg).
		Scale(scale, scale).
		Translate(-center.X, -center.Y)

	if err := img.resampleThrough(fwd, img.width, img.height, mask); err != nil {
		return amath.Identity(), err
	}
	return fwd, nil
}

// resampleThrough rebuilds every plane at newW x newH by inverse
// mapping through fwd with bilinear sampling.
func (img *Image) resampleThrough(fwd amath.Aff3, newW, newH int, mask []bool) error {
	back, ok := fwd.Invert()
	if !ok {
		return aerr.InvalidArgf("singular transform %v", fwd)
	}

	planes := make([]*Plane, 0, len(img.planes))
	for pi, src := range img.planes {
		dst := NewPlane(newW, newH)
		for y := 0; y < newH; y++ {
			for x := 0; x < newW; x++ {
				sp := back.Apply(amath.Pt(float64(x), float64(y)))
				v, inside := src.Sample(sp.X, sp.Y)
				dst.Set(x, y, v)
				if mask != nil && pi == 0 {
					mask[y*newW+x] = inside
				}
			}
		}
		planes = append(planes, dst)
	}
	img.replacePlanes(newW, newH, planes)
	return nil
}
