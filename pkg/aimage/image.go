// Package aimage implements the pixel payload of an image block: a
// stack of float64 planes plus the pixel-depth descriptor, with the
// geometric transforms, statistics and centroiding the file facade
// exposes. Transforms validate all preconditions before touching the
// buffer, so a failed call leaves the image unchanged.
package aimage

import (
	"github.com/astrokit/astrofile/pkg/aerr"
)

// Image is a width x height x planes pixel buffer. Samples are held as
// float64 regardless of the declared BITPIX; BZERO/BSCALE describe how
// the codec collaborator packed them on disk.
type Image struct {
	width, height int
	planes        []*Plane
	bitpix        int
	bzero, bscale float64
}

func New(w, h, planes int) (*Image, error) {
	if w <= 0 || h <= 0 || planes <= 0 {
		return nil, aerr.InvalidArgf("image dimensions %dx%dx%d", w, h, planes)
	}
	img := &Image{width: w, height: h, bitpix: -64, bscale: 1}
	for i := 0; i < planes; i++ {
		img.planes = append(img.planes, NewPlane(w, h))
	}
	return img, nil
}

func (img *Image) Width() int      { return img.width }
func (img *Image) Height() int     { return img.height }
func (img *Image) PlaneCount() int { return len(img.planes) }
func (img *Image) IsMono() bool    { return len(img.planes) == 1 }
func (img *Image) IsPoly() bool    { return len(img.planes) > 1 }

func (img *Image) BitPix() int        { return img.bitpix }
func (img *Image) SetBitPix(b int)    { img.bitpix = b }
func (img *Image) BZero() float64     { return img.bzero }
func (img *Image) SetBZero(v float64) { img.bzero = v }
func (img *Image) BScale() float64    { return img.bscale }
func (img *Image) SetBScale(v float64) {
	img.bscale = v
}

func (img *Image) Plane(i int) (*Plane, error) {
	if i < 0 || i >= len(img.planes) {
		return nil, aerr.InvalidArgf("plane %d of %d", i, len(img.planes))
	}
	return img.planes[i], nil
}

func (img *Image) Value(x, y, plane int) (float64, error) {
	p, err := img.Plane(plane)
	if err != nil {
		return 0, err
	}
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return 0, aerr.OutOfRangef("pixel (%d, %d) of %dx%d", x, y, img.width, img.height)
	}
	return p.Get(x, y), nil
}

func (img *Image) SetValue(x, y, plane int, v float64) error {
	p, err := img.Plane(plane)
	if err != nil {
		return err
	}
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return aerr.OutOfRangef("pixel (%d, %d) of %dx%d", x, y, img.width, img.height)
	}
	p.Set(x, y, v)
	return nil
}

func (img *Image) Copy() *Image {
	out := &Image{
		width:  img.width,
		height: img.height,
		bitpix: img.bitpix,
		bzero:  img.bzero,
		bscale: img.bscale,
	}
	for _, p := range img.planes {
		out.planes = append(out.planes, p.Copy())
	}
	return out
}

// replacePlanes swaps in a fully-built plane set. All geometric
// transforms funnel through here so partially-transformed state is
// never observable.
func (img *Image) replacePlanes(w, h int, planes []*Plane) {
	img.width = w
	img.height = h
	img.planes = planes
}
