// Package keyword implements the typed metadata store attached to every
// block of an astronomical file. Each entry is a (name, value, comment)
// triple; names are case-insensitive and unique within one store, and
// insertion order is preserved for round-tripping through a file codec.
package keyword

import (
	"strings"

	"github.com/astrokit/astrofile/pkg/aerr"
)

// Entry is one stored keyword.
type Entry struct {
	Name    string
	Value   Value
	Comment string
}

// Store is an insertion-ordered keyword map. Not safe for concurrent
// writers; the owning block serializes access.
type Store struct {
	entries []Entry
	index   map[string]int
}

func NewStore() *Store {
	return &Store{index: map[string]int{}}
}

// Normalize maps a keyword name to its canonical lookup form.
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Write inserts or overwrites an entry. A first-time name goes to the
// end of the store; overwriting keeps the original position.
func (st *Store) Write(name string, v Value, comment string) error {
	key := Normalize(name)
	if key == "" {
		return aerr.InvalidArgf("empty keyword name")
	}
	if v.Type() == TypeNone {
		return aerr.InvalidArgf("keyword %s: untyped value", key)
	}
	if i, ok := st.index[key]; ok {
		st.entries[i].Value = v
		st.entries[i].Comment = comment
		return nil
	}
	st.index[key] = len(st.entries)
	st.entries = append(st.entries, Entry{Name: key, Value: v, Comment: comment})
	return nil
}

func (st *Store) Read(name string) (Value, error) {
	if i, ok := st.index[Normalize(name)]; ok {
		return st.entries[i].Value, nil
	}
	return Value{}, aerr.NotFound("keyword %s", Normalize(name))
}

func (st *Store) Comment(name string) (string, error) {
	if i, ok := st.index[Normalize(name)]; ok {
		return st.entries[i].Comment, nil
	}
	return "", aerr.NotFound("keyword %s", Normalize(name))
}

func (st *Store) Exists(name string) bool {
	_, ok := st.index[Normalize(name)]
	return ok
}

// Delete removes an entry, reporting whether it was present.
func (st *Store) Delete(name string) bool {
	key := Normalize(name)
	i, ok := st.index[key]
	if !ok {
		return false
	}
	st.entries = append(st.entries[:i], st.entries[i+1:]...)
	delete(st.index, key)
	for j := i; j < len(st.entries); j++ {
		st.index[st.entries[j].Name] = j
	}
	return true
}

// Type returns the stored tag, or TypeNone when absent.
func (st *Store) Type(name string) Type {
	if i, ok := st.index[Normalize(name)]; ok {
		return st.entries[i].Value.Type()
	}
	return TypeNone
}

func (st *Store) Count() int { return len(st.entries) }

// Entries returns an ordered snapshot. Mutating the snapshot does not
// affect the store, so iteration needs no cursor discipline.
func (st *Store) Entries() []Entry {
	out := make([]Entry, len(st.entries))
	copy(out, st.entries)
	return out
}

func (st *Store) Copy() *Store {
	out := NewStore()
	out.entries = make([]Entry, len(st.entries))
	copy(out.entries, st.entries)
	for k, v := range st.index {
		out.index[k] = v
	}
	return out
}
