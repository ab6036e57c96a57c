package render

import (
	"bytes"
	"image"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrokit/astrofile/pkg/aimage"
	"github.com/astrokit/astrofile/pkg/amath"
)

func rampImage(t *testing.T) *aimage.Image {
	t.Helper()
	img, err := aimage.New(16, 16, 1)
	require.NoError(t, err)
	p, _ := img.Plane(0)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			p.Set(x, y, float64(x))
		}
	}
	return img
}

func TestRenderGrey8(t *testing.T) {
	img := rampImage(t)
	params := []PlaneParams{DefaultPlaneParams(0, 15)}

	out, err := Render(img, params, ModeGrey8)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 16, 16), out.Bounds())

	grey := out.(*image.Gray)
	assert.Equal(t, uint8(0), grey.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), grey.GrayAt(15, 0).Y)
	left, right := grey.GrayAt(4, 8).Y, grey.GrayAt(12, 8).Y
	assert.Less(t, left, right)
}

func TestRenderParamCountChecked(t *testing.T) {
	img := rampImage(t)
	_, err := Render(img, nil, ModeGrey8)
	require.Error(t, err)
}

func TestRenderRGBColourWeights(t *testing.T) {
	img, err := aimage.New(4, 4, 2)
	require.NoError(t, err)
	p0, _ := img.Plane(0)
	p1, _ := img.Plane(1)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			p0.Set(x, y, 1)
			p1.Set(x, y, 0)
		}
	}

	params := []PlaneParams{DefaultPlaneParams(0, 1), DefaultPlaneParams(0, 1)}
	params[0].Colour = colorful.Color{R: 1, G: 0, B: 0}
	params[1].Colour = colorful.Color{R: 0, G: 0, B: 1}

	out, err := Render(img, params, ModeRGB)
	require.NoError(t, err)
	r, _, b, _ := out.At(2, 2).RGBA()
	assert.Greater(t, r, uint32(0xf000))
	assert.Less(t, b, uint32(0x1000))
}

func TestTransferFunctions(t *testing.T) {
	pp := DefaultPlaneParams(0, 1)

	pp.Transfer = TransferSqrt
	assert.InDelta(t, 0.5, pp.stretch(0.25), 1e-9)

	pp.Transfer = TransferGamma
	pp.Gamma = 2
	assert.InDelta(t, 0.5, pp.stretch(0.25), 1e-9)

	pp.Transfer = TransferLinear
	pp.Invert = true
	assert.InDelta(t, 0.75, pp.stretch(0.25), 1e-9)

	// Out-of-range samples clamp.
	pp.Invert = false
	assert.Equal(t, 0.0, pp.stretch(-4))
	assert.Equal(t, 1.0, pp.stretch(9))
}

func TestParseHelpers(t *testing.T) {
	tf, err := ParseTransfer("log")
	require.NoError(t, err)
	assert.Equal(t, TransferLog, tf)
	_, err = ParseTransfer("bogus")
	require.Error(t, err)

	m, err := ParseMode("rgb")
	require.NoError(t, err)
	assert.Equal(t, ModeRGB, m)
	_, err = ParseMode("bogus")
	require.Error(t, err)
}

func TestAnnotateAndScale(t *testing.T) {
	img := rampImage(t)
	out, err := Render(img, []PlaneParams{DefaultPlaneParams(0, 15)}, ModeRGB)
	require.NoError(t, err)

	marked := Annotate(out, []Mark{{Pos: amath.Pt(8, 8), Label: "star1"}})
	require.Equal(t, out.Bounds(), marked.Bounds())

	small, err := ScaledView(marked, 8, 8)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), small.Bounds())

	_, err = ScaledView(marked, 0, 8)
	require.Error(t, err)
}

func TestExportRadiance(t *testing.T) {
	img := rampImage(t)
	var buf bytes.Buffer
	err := ExportRadiance(&buf, img, []PlaneParams{DefaultPlaneParams(0, 15)})
	require.NoError(t, err)
	assert.Greater(t, buf.Len(), 0)
}
