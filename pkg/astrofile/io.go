package astrofile

import (
	"fmt"
	"io"

	"github.com/astrokit/astrofile/pkg/hdb"
)

// Decoder turns a byte stream into decoded block records. Concrete
// wire formats (FITS, SBIG, camera raws) live behind this interface;
// the aggregate never touches encoded bytes.
type Decoder interface {
	Decode(r io.Reader) ([]hdb.DecodedRecord, error)
}

// Encoder writes blocks back out in a concrete wire format.
type Encoder interface {
	Encode(w io.Writer, blocks []hdb.Block) error
}

// Load decodes a stream and builds the aggregate, resolving each
// record's block kind through the registry.
func Load(name string, r io.Reader, dec Decoder, reg *hdb.Registry) (*File, error) {
	recs, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode '%s': %v", name, err)
	}

	f := New(name)
	for i, rec := range recs {
		ctor, err := reg.Resolve(rec)
		if err != nil {
			return nil, fmt.Errorf("block %d of '%s': %w", i, name, err)
		}
		blk, err := ctor(rec)
		if err != nil {
			return nil, fmt.Errorf("block %d of '%s': %w", i, name, err)
		}
		if i == 0 {
			if ib, ok := blk.(*hdb.ImageBlock); ok {
				ib.MarkPrimary()
				f.hasData = true
			}
		}
		f.blocks = append(f.blocks, blk)
	}

	if len(f.blocks) > 0 {
		f.syncContextFrom(f.blocks[0].Keywords())
	}
	return f, nil
}

// Save writes the aggregate through the encoder and clears the dirty
// flag. A poisoned file refuses to save; its state is not trustworthy.
func (f *File) Save(w io.Writer, enc Encoder) error {
	if err := f.check(); err != nil {
		return err
	}
	if err := enc.Encode(w, f.blocks); err != nil {
		return fmt.Errorf("encode '%s': %v", f.name, err)
	}
	f.dirty = false
	return nil
}
