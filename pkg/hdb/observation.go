package hdb

import (
	"github.com/astrokit/astrofile/pkg/acoord"
	"github.com/astrokit/astrofile/pkg/amath"
)

// ObjectKind says whether an observed object is fixed on the sky or
// moving against it (comet, asteroid, satellite).
type ObjectKind int

const (
	ObjectFixed ObjectKind = iota
	ObjectMoving
)

// CoordSource records where an observation's sky coordinates came from.
type CoordSource int

const (
	CoordNone      CoordSource = iota
	CoordReference             // looked up in a catalogue
	CoordDerived               // computed from the plate solution
)

// AstrometryObservation is one measured object position. Names are
// unique within a block; Pix is the measured centroid on the payload
// pixel grid.
type AstrometryObservation struct {
	Name   string
	Pix    amath.Point
	Sky    acoord.Coordinates
	HasSky bool
	Kind   ObjectKind
	Source CoordSource
}

// PhotometryObservation is one measured object brightness.
type PhotometryObservation struct {
	Name      string
	Pix       amath.Point
	Sky       acoord.Coordinates
	HasSky    bool
	Flux      float64
	FluxErr   float64
	Magnitude float64
	FWHM      float64 // pixels
}

// AstrometryBlock holds the astrometry observation list for an image.
// It is a table block on disk; in memory the observations are the
// primary representation and the table is derived at save time.
//
// The iteration cursor (First/Next) is single and mutable, so a block
// supports one traversal at a time; callers serialize access.
type AstrometryBlock struct {
	blockBase
	observations []*AstrometryObservation
	cursor       int
	plateValid   bool
}

func NewAstrometryBlock(name string) *AstrometryBlock {
	return &AstrometryBlock{blockBase: newBlockBase(name)}
}

func (b *AstrometryBlock) Type() BlockType { return BlockAstrometry }

// Add appends an observation. Returns false, leaving the list
// untouched, if the name is already present.
func (b *AstrometryBlock) Add(obs AstrometryObservation) bool {
	for _, o := range b.observations {
		if o.Name == obs.Name {
			return false
		}
	}
	clone := obs
	b.observations = append(b.observations, &clone)
	b.plateValid = false
	return true
}

func (b *AstrometryBlock) Remove(name string) bool {
	for i, o := range b.observations {
		if o.Name == name {
			b.observations = append(b.observations[:i], b.observations[i+1:]...)
			if b.cursor > i {
				b.cursor--
			}
			b.plateValid = false
			return true
		}
	}
	return false
}

func (b *AstrometryBlock) RemoveAll() {
	b.observations = nil
	b.cursor = 0
	b.plateValid = false
}

func (b *AstrometryBlock) Count() int { return len(b.observations) }

func (b *AstrometryBlock) Find(name string) *AstrometryObservation {
	for _, o := range b.observations {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// First resets the cursor and returns the first observation, or nil if
// the list is empty.
func (b *AstrometryBlock) First() *AstrometryObservation {
	b.cursor = 0
	return b.Next()
}

// Next returns the observation under the cursor and advances it; nil
// past the end.
func (b *AstrometryBlock) Next() *AstrometryObservation {
	if b.cursor >= len(b.observations) {
		return nil
	}
	o := b.observations[b.cursor]
	b.cursor++
	return o
}

// ApplyPixelTransform moves every observation's pixel position through
// the forward mapping of a geometric operation on the companion image.
// Any fitted plate constants no longer describe the new grid.
func (b *AstrometryBlock) ApplyPixelTransform(fwd amath.Aff3) {
	for _, o := range b.observations {
		o.Pix = fwd.Apply(o.Pix)
	}
	b.plateValid = false
}

func (b *AstrometryBlock) PlateDataValid() bool     { return b.plateValid }
func (b *AstrometryBlock) SetPlateDataValid(v bool) { b.plateValid = v }

// ReadyToSolve reports whether enough catalogue-referenced observations
// exist to fit a plate solution.
func (b *AstrometryBlock) ReadyToSolve() bool {
	n := 0
	for _, o := range b.observations {
		if o.HasSky && o.Source == CoordReference {
			n++
		}
	}
	return n >= 3
}

func (b *AstrometryBlock) Copy() Block {
	out := &AstrometryBlock{blockBase: b.copyBase(), plateValid: b.plateValid}
	for _, o := range b.observations {
		clone := *o
		out.observations = append(out.observations, &clone)
	}
	return out
}

// PhotometryBlock holds the photometry observation list for an image.
// Iteration contract matches AstrometryBlock.
type PhotometryBlock struct {
	blockBase
	observations []*PhotometryObservation
	cursor       int
}

func NewPhotometryBlock(name string) *PhotometryBlock {
	return &PhotometryBlock{blockBase: newBlockBase(name)}
}

func (b *PhotometryBlock) Type() BlockType { return BlockPhotometry }

func (b *PhotometryBlock) Add(obs PhotometryObservation) bool {
	for _, o := range b.observations {
		if o.Name == obs.Name {
			return false
		}
	}
	clone := obs
	b.observations = append(b.observations, &clone)
	return true
}

func (b *PhotometryBlock) Remove(name string) bool {
	for i, o := range b.observations {
		if o.Name == name {
			b.observations = append(b.observations[:i], b.observations[i+1:]...)
			if b.cursor > i {
				b.cursor--
			}
			return true
		}
	}
	return false
}

func (b *PhotometryBlock) RemoveAll() {
	b.observations = nil
	b.cursor = 0
}

func (b *PhotometryBlock) Count() int { return len(b.observations) }

func (b *PhotometryBlock) Find(name string) *PhotometryObservation {
	for _, o := range b.observations {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func (b *PhotometryBlock) First() *PhotometryObservation {
	b.cursor = 0
	return b.Next()
}

func (b *PhotometryBlock) Next() *PhotometryObservation {
	if b.cursor >= len(b.observations) {
		return nil
	}
	o := b.observations[b.cursor]
	b.cursor++
	return o
}

func (b *PhotometryBlock) ApplyPixelTransform(fwd amath.Aff3) {
	for _, o := range b.observations {
		o.Pix = fwd.Apply(o.Pix)
	}
}

func (b *PhotometryBlock) Copy() Block {
	out := &PhotometryBlock{blockBase: b.copyBase()}
	for _, o := range b.observations {
		clone := *o
		out.observations = append(out.observations, &clone)
	}
	return out
}
