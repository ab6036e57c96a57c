package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/fogleman/gg"
	"github.com/mdouchement/hdr/codec/rgbe"

	"github.com/astrokit/astrofile/pkg/aimage"
	"github.com/astrokit/astrofile/pkg/amath"
)

// Mark is an annotation drawn over a rendered raster, typically an
// astrometry or photometry observation.
type Mark struct {
	Pos    amath.Point
	Radius float64
	Label  string
}

// Annotate draws circled, labelled marks over a rendered raster.
func Annotate(base image.Image, marks []Mark) image.Image {
	dc := gg.NewContextForImage(base)
	dc.SetRGB(0, 1, 0)
	dc.SetLineWidth(1.5)
	for _, m := range marks {
		r := m.Radius
		if r <= 0 {
			r = 8
		}
		dc.DrawCircle(m.Pos.X, m.Pos.Y, r)
		dc.Stroke()
		if m.Label != "" {
			dc.DrawString(m.Label, m.Pos.X+r+2, m.Pos.Y)
		}
	}
	return dc.Image()
}

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}

// ExportRadiance writes the colour-weighted float planes as a Radiance
// (.hdr) image, preserving the full dynamic range.
func ExportRadiance(w io.Writer, img *aimage.Image, params []PlaneParams) error {
	if len(params) != img.PlaneCount() {
		return fmt.Errorf("radiance export: %d plane params for %d planes",
			len(params), img.PlaneCount())
	}
	return rgbe.Encode(w, &hdrView{img: img, params: params})
}
