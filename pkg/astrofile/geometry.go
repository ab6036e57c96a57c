package astrofile

import (
	"image"

	"github.com/astrokit/astrofile/pkg/amath"
	"github.com/astrokit/astrofile/pkg/hdb"
)

// Geometric facade operations. The block validates and applies the
// payload change, resyncs its shape keywords, and follows the pixel
// mapping through its coordinate solution; the facade then moves the
// observation lists through the same mapping when the target is the
// primary image they measure. A propagation failure after the payload
// has changed is an aggregate inconsistency and poisons the file.

func (f *File) geometric(block int, op func(*hdb.ImageBlock) (amath.Aff3, error)) error {
	if err := f.check(); err != nil {
		return err
	}
	ib, err := f.imageBlock(block)
	if err != nil {
		return err
	}
	fwd, err := op(ib)
	if err != nil {
		if IsPoisonError(err) {
			f.poison = err
		}
		return err
	}
	if block == 0 {
		if a, ok := f.Astrometry(); ok {
			a.ApplyPixelTransform(fwd)
		}
		if p, ok := f.Photometry(); ok {
			p.ApplyPixelTransform(fwd)
		}
	}
	f.dirty = true
	return nil
}

func (f *File) Crop(block int, origin, dims image.Point) error {
	return f.geometric(block, func(ib *hdb.ImageBlock) (amath.Aff3, error) {
		return ib.Crop(origin, dims)
	})
}

func (f *File) Flip(block int) error {
	return f.geometric(block, func(ib *hdb.ImageBlock) (amath.Aff3, error) {
		return ib.Flip()
	})
}

func (f *File) Flop(block int) error {
	return f.geometric(block, func(ib *hdb.ImageBlock) (amath.Aff3, error) {
		return ib.Flop()
	})
}

func (f *File) Rotate(block int, angleDeg float64) error {
	return f.geometric(block, func(ib *hdb.ImageBlock) (amath.Aff3, error) {
		return ib.Rotate(angleDeg)
	})
}

func (f *File) Resample(block, newW, newH int) error {
	return f.geometric(block, func(ib *hdb.ImageBlock) (amath.Aff3, error) {
		return ib.Resample(newW, newH)
	})
}

func (f *File) Bin(block, factor int) error {
	return f.geometric(block, func(ib *hdb.ImageBlock) (amath.Aff3, error) {
		return ib.Bin(factor)
	})
}

func (f *File) Float(block, newW, newH int, background float64) error {
	return f.geometric(block, func(ib *hdb.ImageBlock) (amath.Aff3, error) {
		return ib.Float(newW, newH, background)
	})
}

func (f *File) Transform(block int, center, offset amath.Point, angleDeg, scale float64, mask []bool) error {
	return f.geometric(block, func(ib *hdb.ImageBlock) (amath.Aff3, error) {
		return ib.Transform(center, offset, angleDeg, scale, mask)
	})
}
