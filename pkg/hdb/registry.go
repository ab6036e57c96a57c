package hdb

import (
	"strconv"

	"github.com/astrokit/astrofile/pkg/aerr"
	"github.com/astrokit/astrofile/pkg/keyword"
)

// DecodedRecord is one block as a codec decoded it off disk: header
// keywords in file order plus the raw payload bytes. The registry turns
// records into blocks.
type DecodedRecord struct {
	Signature string // kind tag from the header, e.g. "IMAGE"
	Name      string
	Keywords  []keyword.Entry
	Payload   []byte
}

// Store builds a keyword store from the record's header, preserving
// file order.
func (rec DecodedRecord) Store() (*keyword.Store, error) {
	st := keyword.NewStore()
	for _, e := range rec.Keywords {
		if err := st.Write(e.Name, e.Value, e.Comment); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Constructor builds a block from a decoded record.
type Constructor func(rec DecodedRecord) (Block, error)

type registration struct {
	signature string
	test      func(DecodedRecord) bool
	construct Constructor
}

// Registry maps decoded records to block constructors. It is
// append-only: a signature registers once and cannot be shadowed, so
// load behavior never depends on registration order beyond first-match.
// Callers pass the registry into the load path explicitly; there is no
// process-global instance to mutate.
type Registry struct {
	regs []registration
}

func NewRegistry() *Registry { return &Registry{} }

// Register adds a constructor under a signature. Registering a
// signature twice is an error.
func (r *Registry) Register(signature string, test func(DecodedRecord) bool, construct Constructor) error {
	for _, reg := range r.regs {
		if reg.signature == signature {
			return aerr.InvalidArgf("block signature '%s' already registered", signature)
		}
	}
	if test == nil || construct == nil {
		return aerr.InvalidArgf("block signature '%s' needs a test and a constructor", signature)
	}
	r.regs = append(r.regs, registration{signature, test, construct})
	return nil
}

// Resolve returns the constructor for the first registration whose test
// accepts the record.
func (r *Registry) Resolve(rec DecodedRecord) (Constructor, error) {
	for _, reg := range r.regs {
		if reg.test(rec) {
			return reg.construct, nil
		}
	}
	return nil, aerr.NotFound("no registered block kind accepts signature '%s'", rec.Signature)
}

func (r *Registry) Signatures() []string {
	out := make([]string, len(r.regs))
	for i, reg := range r.regs {
		out[i] = reg.signature
	}
	return out
}

func signatureIs(want string) func(DecodedRecord) bool {
	return func(rec DecodedRecord) bool { return rec.Signature == want }
}

// readAxis pulls NAXISn out of a decoded store, defaulting for absent
// higher axes.
func readAxis(st *keyword.Store, n int, dflt int64) (int64, error) {
	name := keyword.KwNAxis + strconv.Itoa(n)
	if !st.Exists(name) {
		return dflt, nil
	}
	v, err := st.Read(name)
	if err != nil {
		return 0, err
	}
	return v.AsInt64()
}

func newImageFromRecord(rec DecodedRecord) (Block, error) {
	st, err := rec.Store()
	if err != nil {
		return nil, err
	}
	w, err := readAxis(st, 1, 0)
	if err != nil {
		return nil, err
	}
	h, err := readAxis(st, 2, 0)
	if err != nil {
		return nil, err
	}
	planes, err := readAxis(st, 3, 1)
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 || planes <= 0 {
		return nil, aerr.InvalidArgf("image record '%s' has no usable NAXIS keywords", rec.Name)
	}

	b, err := NewImageBlock(rec.Name, int(w), int(h), int(planes))
	if err != nil {
		return nil, err
	}
	// Carry the decoded header across, skipping shape keywords the
	// block already derived from its payload.
	for _, e := range rec.Keywords {
		if keyword.IsShapeReserved(keyword.Normalize(e.Name)) {
			continue
		}
		if err := b.KeywordWrite(e.Name, e.Value, e.Comment); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func tableColumns(rec DecodedRecord) []string {
	var cols []string
	for n := 1; ; n++ {
		name := "TTYPE" + strconv.Itoa(n)
		found := false
		for _, e := range rec.Keywords {
			if keyword.Normalize(e.Name) == name {
				if s, err := e.Value.AsString(); err == nil {
					cols = append(cols, s)
					found = true
				}
				break
			}
		}
		if !found {
			break
		}
	}
	return cols
}

func carryKeywords(b Block, rec DecodedRecord) error {
	for _, e := range rec.Keywords {
		if err := b.KeywordWrite(e.Name, e.Value, e.Comment); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRegistry knows the standard block kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("IMAGE", signatureIs("IMAGE"), newImageFromRecord)
	r.Register("TABLE", signatureIs("TABLE"), func(rec DecodedRecord) (Block, error) {
		b := NewAsciiTableBlock(rec.Name, tableColumns(rec))
		return b, carryKeywords(b, rec)
	})
	r.Register("BINTABLE", signatureIs("BINTABLE"), func(rec DecodedRecord) (Block, error) {
		b := NewBinTableBlock(rec.Name, tableColumns(rec))
		return b, carryKeywords(b, rec)
	})
	r.Register("ASTROMETRY", signatureIs("ASTROMETRY"), func(rec DecodedRecord) (Block, error) {
		b := NewAstrometryBlock(rec.Name)
		return b, carryKeywords(b, rec)
	})
	r.Register("PHOTOMETRY", signatureIs("PHOTOMETRY"), func(rec DecodedRecord) (Block, error) {
		b := NewPhotometryBlock(rec.Name)
		return b, carryKeywords(b, rec)
	})
	return r
}
