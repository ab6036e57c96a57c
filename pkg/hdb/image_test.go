package hdb

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrokit/astrofile/pkg/acoord"
	"github.com/astrokit/astrofile/pkg/aerr"
	"github.com/astrokit/astrofile/pkg/amath"
	"github.com/astrokit/astrofile/pkg/keyword"
	"github.com/astrokit/astrofile/pkg/wcs"
)

func readInt(t *testing.T, b Block, name string) int64 {
	t.Helper()
	v, err := b.Keywords().Read(name)
	require.NoError(t, err)
	i, err := v.AsInt64()
	require.NoError(t, err)
	return i
}

func TestImageBlockShapeKeywords(t *testing.T) {
	b, err := NewImageBlock("light1", 64, 48, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(64), readInt(t, b, "NAXIS1"))
	assert.Equal(t, int64(48), readInt(t, b, "NAXIS2"))
	assert.Equal(t, int64(2), readInt(t, b, "NAXIS"))
	assert.False(t, b.Keywords().Exists("NAXIS3"))

	rgb, err := NewImageBlock("light2", 8, 8, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), readInt(t, rgb, "NAXIS"))
	assert.Equal(t, int64(3), readInt(t, rgb, "NAXIS3"))
}

func TestImageBlockRejectsShapeMismatch(t *testing.T) {
	b, err := NewImageBlock("light1", 64, 48, 1)
	require.NoError(t, err)

	// Writing a shape keyword that disagrees with the payload is an
	// inconsistency, not an update.
	err = b.KeywordWrite("NAXIS1", keyword.Int64(100), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, aerr.ErrInconsistentState))
	assert.Equal(t, int64(64), readInt(t, b, "NAXIS1"))

	err = b.KeywordWrite("NAXIS3", keyword.Int64(3), "")
	require.Error(t, err)

	// Matching values are accepted.
	require.NoError(t, b.KeywordWrite("NAXIS1", keyword.Int64(64), ""))
	require.NoError(t, b.KeywordWrite("NAXIS", keyword.Int64(2), ""))
}

func TestImageBlockBitPix(t *testing.T) {
	b, err := NewImageBlock("light1", 8, 8, 1)
	require.NoError(t, err)

	require.NoError(t, b.KeywordWrite("BITPIX", keyword.Int64(-32), ""))
	assert.Equal(t, -32, b.Image().BitPix())

	err = b.KeywordWrite("BITPIX", keyword.Int64(12), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, aerr.ErrInvalidArgument))
}

func TestImageBlockPrimaryHeader(t *testing.T) {
	b, err := NewImageBlock("primary", 8, 8, 1)
	require.NoError(t, err)
	assert.True(t, b.Keywords().Exists("XTENSION"))

	b.MarkPrimary()
	assert.True(t, b.IsPrimary())
	assert.False(t, b.Keywords().Exists("XTENSION"))
	v, err := b.Keywords().Read("SIMPLE")
	require.NoError(t, err)
	ok, _ := v.AsBool()
	assert.True(t, ok)
}

func solvedBlock(t *testing.T) *ImageBlock {
	t.Helper()
	b, err := NewImageBlock("light1", 100, 100, 1)
	require.NoError(t, err)

	scale := 1.0 / 3600 // 1 arcsec/pixel
	sol, err := wcs.NewLinear(amath.Pt(50, 50), acoord.New(120, 45),
		[4]float64{-scale, 0, 0, scale})
	require.NoError(t, err)
	require.NoError(t, b.SetSolution(sol))
	return b
}

func TestGeometrySyncsKeywordsAndSolution(t *testing.T) {
	b := solvedBlock(t)
	require.False(t, b.Solution().Stale())

	fwd, err := b.Rotate(90)
	require.NoError(t, err)

	// Shape keywords follow the payload.
	assert.Equal(t, int64(100), readInt(t, b, "NAXIS1"))
	assert.Equal(t, int64(100), readInt(t, b, "NAXIS2"))

	// The solution followed the same pixel mapping but is flagged for
	// refit rather than trusted.
	assert.True(t, b.Solution().Stale())
	moved := fwd.Apply(amath.Pt(10, 10))
	assert.InDelta(t, 90, moved.X, 1e-9)
	assert.InDelta(t, 10, moved.Y, 1e-9)

	// History records the operation.
	assert.Contains(t, b.HistoryGet(), "rotate")
}

func TestCropSyncsShape(t *testing.T) {
	b := solvedBlock(t)
	_, err := b.Crop(image.Pt(10, 10), image.Pt(40, 30))
	require.NoError(t, err)
	assert.Equal(t, int64(40), readInt(t, b, "NAXIS1"))
	assert.Equal(t, int64(30), readInt(t, b, "NAXIS2"))

	// A failed operation leaves everything alone.
	_, err = b.Crop(image.Pt(30, 0), image.Pt(40, 30))
	require.Error(t, err)
	assert.Equal(t, int64(40), readInt(t, b, "NAXIS1"))
}

func TestPixToSkyNeedsSolution(t *testing.T) {
	b, err := NewImageBlock("light1", 8, 8, 1)
	require.NoError(t, err)
	_, ok := b.PixToSky(amath.Pt(4, 4))
	assert.False(t, ok)

	s := solvedBlock(t)
	c, ok := s.PixToSky(amath.Pt(50, 50))
	require.True(t, ok)
	assert.InDelta(t, 120.0, c.RA, 1e-9)
	assert.InDelta(t, 45.0, c.Dec, 1e-9)

	p, ok := s.SkyToPix(c)
	require.True(t, ok)
	assert.InDelta(t, 50.0, p.X, 1e-6)
}

func TestSetImageInvalidatesSolution(t *testing.T) {
	b := solvedBlock(t)
	replacement, err := NewImageBlock("x", 10, 10, 1)
	require.NoError(t, err)

	b.SetImage(replacement.Image())
	assert.True(t, b.Solution().Stale())
	assert.Equal(t, int64(10), readInt(t, b, "NAXIS1"))
}

func TestImageBlockCopyIndependent(t *testing.T) {
	b := solvedBlock(t)
	require.NoError(t, b.KeywordWrite("OBJECT", keyword.String("M31"), ""))
	b.CommentWrite("first light")

	clone := b.Copy().(*ImageBlock)
	_, err := clone.Flip()
	require.NoError(t, err)
	require.NoError(t, clone.KeywordWrite("OBJECT", keyword.String("M32"), ""))

	v, err := b.Keywords().Read("OBJECT")
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Equal(t, "M31", s)
	assert.False(t, b.Solution().Stale())
	assert.Equal(t, "first light", b.CommentGet())
}
