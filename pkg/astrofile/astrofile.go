// Package astrofile implements the file aggregate: an ordered list of
// header-and-data blocks behind a facade of index-routed operations.
// The facade owns cross-block consistency - geometric operations on an
// image propagate to the coordinate solution and the observation
// lists, linked keywords feed the observation context, and a failed
// propagation poisons the whole file until it is reloaded.
package astrofile

import (
	"errors"

	"github.com/google/uuid"

	"github.com/astrokit/astrofile/pkg/aerr"
	"github.com/astrokit/astrofile/pkg/hdb"
	"github.com/astrokit/astrofile/pkg/keyword"
)

// File is the aggregate. Block 0 is the primary image; astrometry and
// photometry blocks exist at most once each. Not safe for concurrent
// use; callers serialize.
type File struct {
	name    string
	blocks  []hdb.Block
	dirty   bool
	hasData bool
	poison  error

	ctx ObservationContext
}

func New(name string) *File {
	return &File{name: name}
}

func (f *File) Name() string        { return f.name }
func (f *File) SetName(name string) { f.name = name }

// Dirty reports unsaved changes. HasData reports whether the file has
// a primary image payload.
func (f *File) Dirty() bool   { return f.dirty }
func (f *File) HasData() bool { return f.hasData }

// Poisoned returns the error that broke the aggregate's invariants, or
// nil. Once poisoned, every mutating facade operation returns this
// error; the file must be reloaded.
func (f *File) Poisoned() error { return f.poison }

func (f *File) check() error { return f.poison }

func (f *File) BlockCount() int { return len(f.blocks) }

func (f *File) Block(i int) (hdb.Block, error) {
	if i < 0 || i >= len(f.blocks) {
		return nil, aerr.OutOfRangef("block %d of %d", i, len(f.blocks))
	}
	return f.blocks[i], nil
}

func (f *File) BlockByName(name string) (hdb.Block, error) {
	for _, b := range f.blocks {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, aerr.NotFound("no block named '%s'", name)
}

func (f *File) imageBlock(i int) (*hdb.ImageBlock, error) {
	b, err := f.Block(i)
	if err != nil {
		return nil, err
	}
	ib, ok := b.(*hdb.ImageBlock)
	if !ok {
		return nil, aerr.Unsupportedf("block %d is %s, not an image", i, b.Type())
	}
	return ib, nil
}

// CreatePrimaryImage creates block 0 with a fresh image payload and a
// UUID identifying this dataset across copies.
func (f *File) CreatePrimaryImage(w, h, planes int) (*hdb.ImageBlock, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	if len(f.blocks) > 0 {
		return nil, aerr.InvalidArgf("file '%s' already has a primary block", f.name)
	}
	ib, err := hdb.NewImageBlock("PRIMARY", w, h, planes)
	if err != nil {
		return nil, err
	}
	ib.MarkPrimary()
	ib.KeywordWrite(keyword.KwUUID, keyword.String(uuid.NewString()), "dataset identity")
	f.blocks = append(f.blocks, ib)
	f.hasData = true
	f.dirty = true
	return ib, nil
}

// AppendImageBlock adds an image extension after the existing blocks.
func (f *File) AppendImageBlock(name string, w, h, planes int) (*hdb.ImageBlock, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	if len(f.blocks) == 0 {
		return nil, aerr.InvalidArgf("file '%s' has no primary block yet", f.name)
	}
	ib, err := hdb.NewImageBlock(name, w, h, planes)
	if err != nil {
		return nil, err
	}
	f.blocks = append(f.blocks, ib)
	f.dirty = true
	return ib, nil
}

func (f *File) AppendAsciiTable(name string, columns []string) (*hdb.AsciiTableBlock, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	b := hdb.NewAsciiTableBlock(name, columns)
	f.blocks = append(f.blocks, b)
	f.dirty = true
	return b, nil
}

func (f *File) AppendBinTable(name string, columns []string) (*hdb.BinTableBlock, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	b := hdb.NewBinTableBlock(name, columns)
	f.blocks = append(f.blocks, b)
	f.dirty = true
	return b, nil
}

// Astrometry returns the astrometry block if the file has one.
func (f *File) Astrometry() (*hdb.AstrometryBlock, bool) {
	for _, b := range f.blocks {
		if a, ok := b.(*hdb.AstrometryBlock); ok {
			return a, true
		}
	}
	return nil, false
}

// CreateAstrometryBlock returns the existing astrometry block when one
// is present; a file carries at most one.
func (f *File) CreateAstrometryBlock() (*hdb.AstrometryBlock, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	if a, ok := f.Astrometry(); ok {
		return a, nil
	}
	a := hdb.NewAstrometryBlock("ASTROMETRY")
	f.blocks = append(f.blocks, a)
	f.dirty = true
	return a, nil
}

func (f *File) Photometry() (*hdb.PhotometryBlock, bool) {
	for _, b := range f.blocks {
		if p, ok := b.(*hdb.PhotometryBlock); ok {
			return p, true
		}
	}
	return nil, false
}

func (f *File) CreatePhotometryBlock() (*hdb.PhotometryBlock, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	if p, ok := f.Photometry(); ok {
		return p, nil
	}
	p := hdb.NewPhotometryBlock("PHOTOMETRY")
	f.blocks = append(f.blocks, p)
	f.dirty = true
	return p, nil
}

// Keyword facade. All writes route through the block's checked path;
// linked keywords additionally feed the observation context.

func (f *File) KeywordWrite(block int, name string, v keyword.Value, comment string) error {
	if err := f.check(); err != nil {
		return err
	}
	b, err := f.Block(block)
	if err != nil {
		return err
	}
	if err := b.KeywordWrite(name, v, comment); err != nil {
		return err
	}
	if keyword.IsLinked(keyword.Normalize(name)) {
		f.syncContextFrom(b.Keywords())
	}
	f.dirty = true
	return nil
}

func (f *File) KeywordRead(block int, name string) (keyword.Value, error) {
	b, err := f.Block(block)
	if err != nil {
		return keyword.Value{}, err
	}
	return b.Keywords().Read(name)
}

func (f *File) KeywordExists(block int, name string) bool {
	b, err := f.Block(block)
	return err == nil && b.Keywords().Exists(name)
}

func (f *File) KeywordDelete(block int, name string) (bool, error) {
	if err := f.check(); err != nil {
		return false, err
	}
	b, err := f.Block(block)
	if err != nil {
		return false, err
	}
	if keyword.IsShapeReserved(keyword.Normalize(name)) {
		return false, aerr.InvalidArgf("shape keyword %s cannot be deleted", keyword.Normalize(name))
	}
	deleted := b.Keywords().Delete(name)
	if deleted {
		f.dirty = true
	}
	return deleted, nil
}

func (f *File) KeywordCount(block int) (int, error) {
	b, err := f.Block(block)
	if err != nil {
		return 0, err
	}
	return b.Keywords().Count(), nil
}

func (f *File) CommentWrite(block int, s string) error {
	if err := f.check(); err != nil {
		return err
	}
	b, err := f.Block(block)
	if err != nil {
		return err
	}
	b.CommentWrite(s)
	f.dirty = true
	return nil
}

func (f *File) HistoryWrite(block int, s string) error {
	if err := f.check(); err != nil {
		return err
	}
	b, err := f.Block(block)
	if err != nil {
		return err
	}
	b.HistoryWrite(s)
	f.dirty = true
	return nil
}

// Copy returns a deep, independent copy. A poisoned file refuses; the
// copy would inherit the inconsistency.
func (f *File) Copy() (*File, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	out := &File{
		name:    f.name,
		dirty:   f.dirty,
		hasData: f.hasData,
		ctx:     f.ctx,
	}
	for _, b := range f.blocks {
		out.blocks = append(out.blocks, b.Copy())
	}
	return out, nil
}

// IsPoisonError reports whether err is the aggregate-inconsistency
// kind that poisons a file.
func IsPoisonError(err error) bool {
	return errors.Is(err, aerr.ErrInconsistentState)
}
