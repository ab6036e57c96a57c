package render

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/mdouchement/hdr/tmo"
	xdraw "golang.org/x/image/draw"

	"github.com/astrokit/astrofile/pkg/aerr"
	"github.com/astrokit/astrofile/pkg/aimage"
)

type Mode int

const (
	ModeGrey8 Mode = iota
	ModeRGB
	ModeTonemapped
)

// ParseMode maps a config string to a render mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "grey8":
		return ModeGrey8, nil
	case "rgb":
		return ModeRGB, nil
	case "tonemapped":
		return ModeTonemapped, nil
	default:
		return ModeGrey8, aerr.InvalidArgf("no render mode named '%s'", name)
	}
}

// Render builds a display raster from the float planes. params must
// carry one entry per plane.
func Render(img *aimage.Image, params []PlaneParams, mode Mode) (image.Image, error) {
	if len(params) != img.PlaneCount() {
		return nil, aerr.InvalidArgf("%d plane params for %d planes",
			len(params), img.PlaneCount())
	}

	switch mode {
	case ModeGrey8:
		return renderGrey8(img, params), nil
	case ModeRGB:
		return renderRGB(img, params), nil
	case ModeTonemapped:
		op := tmo.NewDefaultDrago03(&hdrView{img: img, params: params})
		return op.Perform(), nil
	default:
		return nil, aerr.InvalidArgf("render mode %d", mode)
	}
}

func renderGrey8(img *aimage.Image, params []PlaneParams) image.Image {
	out := image.NewGray(image.Rect(0, 0, img.Width(), img.Height()))
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			sum, wsum := 0.0, 0.0
			for i := 0; i < img.PlaneCount(); i++ {
				p, _ := img.Plane(i)
				sum += params[i].stretch(p.Get(x, y)) * params[i].Weight
				wsum += params[i].Weight
			}
			if wsum > 0 {
				sum /= wsum
			}
			out.SetGray(x, y, color.Gray{Y: uint8(sum * 255)})
		}
	}
	return out
}

func renderRGB(img *aimage.Image, params []PlaneParams) image.Image {
	out := image.NewRGBA64(image.Rect(0, 0, img.Width(), img.Height()))
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			var r, g, b float64
			for i := 0; i < img.PlaneCount(); i++ {
				p, _ := img.Plane(i)
				t := params[i].stretch(p.Get(x, y)) * params[i].Weight
				r += t * params[i].Colour.R
				g += t * params[i].Colour.G
				b += t * params[i].Colour.B
			}
			c := colorful.Color{R: r, G: g, B: b}.Clamped()
			out.SetRGBA64(x, y, color.RGBA64{
				R: uint16(c.R * 0xffff),
				G: uint16(c.G * 0xffff),
				B: uint16(c.B * 0xffff),
				A: 0xffff,
			})
		}
	}
	return out
}

// hdrView exposes the float planes, colour-weighted but unstretched, as
// an HDR image for tone mapping and Radiance export.
type hdrView struct {
	img    *aimage.Image
	params []PlaneParams
}

// Implement image.Image
func (hv *hdrView) ColorModel() color.Model { return hdrcolor.RGBModel }
func (hv *hdrView) Bounds() image.Rectangle {
	return image.Rect(0, 0, hv.img.Width(), hv.img.Height())
}
func (hv *hdrView) At(x, y int) color.Color { return hv.HDRAt(x, y) }

// Implement hdr.Image
func (hv *hdrView) HDRAt(x, y int) hdrcolor.Color {
	var r, g, b float64
	for i := 0; i < hv.img.PlaneCount(); i++ {
		p, _ := hv.img.Plane(i)
		v := p.Get(x, y) * hv.params[i].Weight
		r += v * hv.params[i].Colour.R
		g += v * hv.params[i].Colour.G
		b += v * hv.params[i].Colour.B
	}
	return hdrcolor.RGB{R: r, G: g, B: b}
}
func (hv *hdrView) Size() int { return hv.img.Width() * hv.img.Height() }

// ScaledView resizes a rendered raster for display thumbnails.
func ScaledView(src image.Image, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, aerr.InvalidArgf("scaled view %dx%d", w, h)
	}
	dst := image.NewRGBA64(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst, nil
}
