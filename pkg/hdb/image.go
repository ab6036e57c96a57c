package hdb

import (
	"fmt"
	"image"
	"io"

	"github.com/astrokit/astrofile/pkg/acoord"
	"github.com/astrokit/astrofile/pkg/aerr"
	"github.com/astrokit/astrofile/pkg/aimage"
	"github.com/astrokit/astrofile/pkg/amath"
	"github.com/astrokit/astrofile/pkg/keyword"
	"github.com/astrokit/astrofile/pkg/render"
	"github.com/astrokit/astrofile/pkg/wcs"
)

// ImageBlock is a block whose payload is a float-plane image, with an
// optional astrometric coordinate solution and per-plane display
// parameters riding along. The shape keywords (NAXISn, BITPIX, BSCALE,
// BZERO) always describe the payload; every geometric operation resyncs
// them and pushes its pixel mapping into the coordinate solution.
type ImageBlock struct {
	blockBase
	img      *aimage.Image
	solution *wcs.Solution
	params   []render.PlaneParams

	pixelSize    amath.Point // detector pixel size, microns
	hasPixelSize bool
	primary      bool
}

func NewImageBlock(name string, w, h, planes int) (*ImageBlock, error) {
	img, err := aimage.New(w, h, planes)
	if err != nil {
		return nil, err
	}
	b := &ImageBlock{blockBase: newBlockBase(name), img: img}
	b.syncShapeKeywords()
	return b, nil
}

func (b *ImageBlock) Type() BlockType      { return BlockImage }
func (b *ImageBlock) Image() *aimage.Image { return b.img }
func (b *ImageBlock) Width() int           { return b.img.Width() }
func (b *ImageBlock) Height() int          { return b.img.Height() }
func (b *ImageBlock) PlaneCount() int      { return b.img.PlaneCount() }

// MarkPrimary switches the shape header from extension form (XTENSION)
// to primary form (SIMPLE).
func (b *ImageBlock) MarkPrimary() {
	b.primary = true
	b.keywords.Delete(keyword.KwXtension)
	b.syncShapeKeywords()
}

func (b *ImageBlock) IsPrimary() bool { return b.primary }

// SetImage replaces the payload wholesale. Any coordinate solution is
// kept but marked stale, since it described the old pixel grid.
func (b *ImageBlock) SetImage(img *aimage.Image) {
	b.img = img
	b.params = nil
	if b.solution != nil {
		b.solution.MarkStale()
	}
	b.syncShapeKeywords()
}

func (b *ImageBlock) PixelSize() (amath.Point, bool) { return b.pixelSize, b.hasPixelSize }

func (b *ImageBlock) SetPixelSize(sz amath.Point) {
	b.pixelSize = sz
	b.hasPixelSize = true
	b.keywords.Write(keyword.KwPixelSzX, keyword.Float64(sz.X), "pixel width, microns")
	b.keywords.Write(keyword.KwPixelSzY, keyword.Float64(sz.Y), "pixel height, microns")
}

// Coordinate solution.

func (b *ImageBlock) HasSolution() bool        { return b.solution != nil }
func (b *ImageBlock) Solution() *wcs.Solution  { return b.solution }

// SetSolution installs a freshly-derived solution and mirrors it into
// the keyword store.
func (b *ImageBlock) SetSolution(s *wcs.Solution) error {
	b.solution = s
	if s == nil {
		return nil
	}
	return s.WriteKeywords(b.keywords)
}

// PixToSky converts a payload pixel position to sky coordinates. ok is
// false when the block has no coordinate solution; a stale solution
// still answers, callers check Solution().Stale() when it matters.
func (b *ImageBlock) PixToSky(p amath.Point) (acoord.Coordinates, bool) {
	if b.solution == nil {
		return acoord.Coordinates{}, false
	}
	return b.solution.PixToSky(p), true
}

func (b *ImageBlock) SkyToPix(c acoord.Coordinates) (amath.Point, bool) {
	if b.solution == nil {
		return amath.Point{}, false
	}
	return b.solution.SkyToPix(c), true
}

// Keyword handling.

func legalBitPix(v int64) bool {
	switch v {
	case 8, 16, 32, 64, -32, -64:
		return true
	}
	return false
}

// KeywordWrite rejects writes to shape keywords that disagree with the
// payload, so header and data cannot drift apart.
func (b *ImageBlock) KeywordWrite(name string, v keyword.Value, comment string) error {
	name = keyword.Normalize(name)
	if keyword.IsShapeReserved(name) {
		if err := b.checkShapeWrite(name, v); err != nil {
			return err
		}
	}
	return b.keywords.Write(name, v, comment)
}

func (b *ImageBlock) checkShapeWrite(name string, v keyword.Value) error {
	axes := 2
	if b.img.IsPoly() {
		axes = 3
	}

	switch name {
	case keyword.KwBitPix:
		i, err := v.AsInt64()
		if err != nil {
			return err
		}
		if !legalBitPix(i) {
			return aerr.InvalidArgf("BITPIX %d is not a legal pixel format", i)
		}
		b.img.SetBitPix(int(i))
		return nil
	case keyword.KwBScale:
		f, err := v.AsFloat64()
		if err != nil {
			return err
		}
		b.img.SetBScale(f)
		return nil
	case keyword.KwBZero:
		f, err := v.AsFloat64()
		if err != nil {
			return err
		}
		b.img.SetBZero(f)
		return nil
	case keyword.KwNAxis:
		return b.requireShape(name, v, int64(axes))
	case keyword.KwNAxis + "1":
		return b.requireShape(name, v, int64(b.img.Width()))
	case keyword.KwNAxis + "2":
		return b.requireShape(name, v, int64(b.img.Height()))
	case keyword.KwNAxis + "3":
		if axes < 3 {
			return aerr.Inconsistentf("NAXIS3 on a %d-axis image", axes)
		}
		return b.requireShape(name, v, int64(b.img.PlaneCount()))
	}
	return nil
}

func (b *ImageBlock) requireShape(name string, v keyword.Value, want int64) error {
	got, err := v.AsInt64()
	if err != nil {
		return err
	}
	if got != want {
		return aerr.Inconsistentf("%s=%d disagrees with payload (%d)", name, got, want)
	}
	return nil
}

// syncShapeKeywords rewrites the reserved shape keywords from the
// payload. Writes go straight to the store; the checked path would
// just re-derive the same values.
func (b *ImageBlock) syncShapeKeywords() {
	st := b.keywords
	if b.primary {
		st.Write(keyword.KwSimple, keyword.Bool(true), "conforms to standard")
	} else {
		st.Write(keyword.KwXtension, keyword.String("IMAGE"), "image extension")
		st.Write(keyword.KwExtName, keyword.String(b.name), "")
	}
	st.Write(keyword.KwBitPix, keyword.Int64(int64(b.img.BitPix())), "pixel format")
	if b.img.IsPoly() {
		st.Write(keyword.KwNAxis, keyword.Int64(3), "")
		st.Write(keyword.KwNAxis+"3", keyword.Int64(int64(b.img.PlaneCount())), "colour planes")
	} else {
		st.Write(keyword.KwNAxis, keyword.Int64(2), "")
		st.Delete(keyword.KwNAxis + "3")
	}
	st.Write(keyword.KwNAxis+"1", keyword.Int64(int64(b.img.Width())), "")
	st.Write(keyword.KwNAxis+"2", keyword.Int64(int64(b.img.Height())), "")
	st.Write(keyword.KwBScale, keyword.Float64(b.img.BScale()), "")
	st.Write(keyword.KwBZero, keyword.Float64(b.img.BZero()), "")
}

// Geometric operations. Each wraps the payload operation, then resyncs
// the shape keywords, pushes the forward pixel mapping into the
// coordinate solution, and records a history line. The returned affine
// lets the owner propagate the same mapping to observation lists.

func (b *ImageBlock) afterGeometry(fwd amath.Aff3, what string) error {
	b.syncShapeKeywords()
	b.params = nil
	b.historyf("%s", what)
	if b.solution != nil {
		if err := b.solution.ApplyPixelTransform(fwd); err != nil {
			return aerr.Inconsistentf("coordinate solution update after %s: %v", what, err)
		}
		b.solution.WriteKeywords(b.keywords)
	}
	return nil
}

func (b *ImageBlock) Crop(origin, dims image.Point) (amath.Aff3, error) {
	fwd, err := b.img.Crop(origin, dims)
	if err != nil {
		return fwd, err
	}
	return fwd, b.afterGeometry(fwd,
		fmt.Sprintf("crop %dx%d at (%d,%d)", dims.X, dims.Y, origin.X, origin.Y))
}

func (b *ImageBlock) Flip() (amath.Aff3, error) {
	fwd, err := b.img.Flip()
	if err != nil {
		return fwd, err
	}
	return fwd, b.afterGeometry(fwd, "flip (vertical mirror)")
}

func (b *ImageBlock) Flop() (amath.Aff3, error) {
	fwd, err := b.img.Flop()
	if err != nil {
		return fwd, err
	}
	return fwd, b.afterGeometry(fwd, "flop (horizontal mirror)")
}

func (b *ImageBlock) Rotate(angleDeg float64) (amath.Aff3, error) {
	fwd, err := b.img.Rotate(angleDeg)
	if err != nil {
		return fwd, err
	}
	return fwd, b.afterGeometry(fwd, fmt.Sprintf("rotate %.4f deg", angleDeg))
}

func (b *ImageBlock) Resample(newW, newH int) (amath.Aff3, error) {
	fwd, err := b.img.Resample(newW, newH)
	if err != nil {
		return fwd, err
	}
	return fwd, b.afterGeometry(fwd, fmt.Sprintf("resample to %dx%d", newW, newH))
}

func (b *ImageBlock) Bin(factor int) (amath.Aff3, error) {
	fwd, err := b.img.Bin(factor)
	if err != nil {
		return fwd, err
	}
	return fwd, b.afterGeometry(fwd, fmt.Sprintf("bin %dx%d", factor, factor))
}

func (b *ImageBlock) Float(newW, newH int, background float64) (amath.Aff3, error) {
	fwd, err := b.img.Float(newW, newH, background)
	if err != nil {
		return fwd, err
	}
	return fwd, b.afterGeometry(fwd, fmt.Sprintf("float to %dx%d", newW, newH))
}

func (b *ImageBlock) Transform(center, offset amath.Point, angleDeg, scale float64, mask []bool) (amath.Aff3, error) {
	fwd, err := b.img.Transform(center, offset, angleDeg, scale, mask)
	if err != nil {
		return fwd, err
	}
	return fwd, b.afterGeometry(fwd,
		fmt.Sprintf("transform rot %.4f deg scale %.4f about (%.1f,%.1f)",
			angleDeg, scale, center.X, center.Y))
}

// Display parameters and rendering.

// ensureParams derives default per-plane stretch points on first use.
func (b *ImageBlock) ensureParams() error {
	if len(b.params) == b.img.PlaneCount() {
		return nil
	}
	params := make([]render.PlaneParams, b.img.PlaneCount())
	for i := range params {
		lo, hi, err := b.img.StretchPoints(i, 0.02, 0.998)
		if err != nil {
			return err
		}
		params[i] = render.DefaultPlaneParams(lo, hi)
	}
	b.params = params
	return nil
}

func (b *ImageBlock) RenderParams(plane int) (render.PlaneParams, error) {
	if err := b.ensureParams(); err != nil {
		return render.PlaneParams{}, err
	}
	if plane < 0 || plane >= len(b.params) {
		return render.PlaneParams{}, aerr.OutOfRangef("plane %d of %d", plane, len(b.params))
	}
	return b.params[plane], nil
}

func (b *ImageBlock) SetRenderParams(plane int, pp render.PlaneParams) error {
	if err := b.ensureParams(); err != nil {
		return err
	}
	if plane < 0 || plane >= len(b.params) {
		return aerr.OutOfRangef("plane %d of %d", plane, len(b.params))
	}
	b.params[plane] = pp
	return nil
}

// Rendered builds a display raster from the payload using the current
// per-plane parameters.
func (b *ImageBlock) Rendered(mode render.Mode) (image.Image, error) {
	if err := b.ensureParams(); err != nil {
		return nil, err
	}
	return render.Render(b.img, b.params, mode)
}

// ExportRadiance writes the payload as a Radiance (.hdr) image.
func (b *ImageBlock) ExportRadiance(w io.Writer) error {
	if err := b.ensureParams(); err != nil {
		return err
	}
	return render.ExportRadiance(w, b.img, b.params)
}

// Common observation keywords.

func (b *ImageBlock) Exposure() (float64, error) {
	v, err := b.keywords.Read(keyword.KwExposure)
	if err != nil {
		return 0, err
	}
	return v.AsFloat64()
}

func (b *ImageBlock) Filter() (string, error) {
	v, err := b.keywords.Read(keyword.KwFilter)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

func (b *ImageBlock) Copy() Block {
	out := &ImageBlock{
		blockBase:    b.copyBase(),
		img:          b.img.Copy(),
		params:       append([]render.PlaneParams(nil), b.params...),
		pixelSize:    b.pixelSize,
		hasPixelSize: b.hasPixelSize,
		primary:      b.primary,
	}
	if b.solution != nil {
		out.solution = b.solution.Copy()
	}
	return out
}
