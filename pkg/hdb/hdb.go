// Package hdb implements the block hierarchy of an astronomical file:
// the polymorphic header-and-data blocks a file aggregate owns. The
// kind set is closed - image, ascii table, binary table, and the
// astrometry/photometry specializations - so dispatch is by kind tag
// plus type switch, not open subclassing.
package hdb

import (
	"fmt"
	"strings"

	"github.com/astrokit/astrofile/pkg/keyword"
)

// BlockType tags the payload kind of a block.
type BlockType int

const (
	BlockNone BlockType = iota
	BlockImage
	BlockAsciiTable
	BlockBinTable
	BlockAstrometry
	BlockPhotometry
)

func (bt BlockType) String() string {
	switch bt {
	case BlockImage:
		return "IMAGE"
	case BlockAsciiTable:
		return "TABLE"
	case BlockBinTable:
		return "BINTABLE"
	case BlockAstrometry:
		return "ASTROMETRY"
	case BlockPhotometry:
		return "PHOTOMETRY"
	default:
		return "NONE"
	}
}

// Block is the capability surface every block kind implements. Image
// and observation operations live on the concrete types; the file
// aggregate resolves those by type switch.
type Block interface {
	Type() BlockType
	Name() string
	Keywords() *keyword.Store

	// KeywordWrite is the checked write path: writes to reserved
	// shape keywords are validated against the payload.
	KeywordWrite(name string, v keyword.Value, comment string) error

	CommentWrite(string)
	CommentGet() string
	HistoryWrite(string)
	HistoryGet() string

	Copy() Block
}

// blockBase carries the state common to every block kind.
type blockBase struct {
	name     string
	keywords *keyword.Store
	comments []string
	history  []string
}

func newBlockBase(name string) blockBase {
	return blockBase{name: name, keywords: keyword.NewStore()}
}

func (b *blockBase) Name() string              { return b.name }
func (b *blockBase) Keywords() *keyword.Store  { return b.keywords }

// KeywordWrite on the base has no payload to guard; image blocks
// override it with the shape check.
func (b *blockBase) KeywordWrite(name string, v keyword.Value, comment string) error {
	return b.keywords.Write(name, v, comment)
}

func (b *blockBase) CommentWrite(s string) { b.comments = append(b.comments, s) }
func (b *blockBase) CommentGet() string    { return strings.Join(b.comments, "\n") }
func (b *blockBase) HistoryWrite(s string) { b.history = append(b.history, s) }
func (b *blockBase) HistoryGet() string    { return strings.Join(b.history, "\n") }

func (b *blockBase) copyBase() blockBase {
	out := blockBase{
		name:     b.name,
		keywords: b.keywords.Copy(),
		comments: append([]string(nil), b.comments...),
		history:  append([]string(nil), b.history...),
	}
	return out
}

func (b *blockBase) historyf(format string, args ...interface{}) {
	b.history = append(b.history, fmt.Sprintf(format, args...))
}
