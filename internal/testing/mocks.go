package testing

import (
	"errors"
	"sync"

	"github.com/Alia5/cpp2d/internal/cxx"
)

// ErrNotDeclared is returned by Reparser for declarations missing from its table.
var ErrNotDeclared = errors.New("not a declaration")

// Reparser resolves variable declarations from a fixed table, keyed by the
// exact declaration text, e.g. "Foo :: Bar tmp;".
type Reparser map[string]cxx.Type

func (r Reparser) ParseVariableType(decl string) (cxx.Type, error) {
	if t, ok := r[decl]; ok {
		return t, nil
	}
	return nil, ErrNotDeclared
}

type DeclEntry struct {
	Kind string
	Name string
	Err  error
}

// DeclRecorder is a DeclLogger that keeps every call.
type DeclRecorder struct {
	mu      sync.Mutex
	entries []DeclEntry
}

func (d *DeclRecorder) Log(kind, name string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, DeclEntry{Kind: kind, Name: name, Err: err})
}

func (d *DeclRecorder) Entries() []DeclEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DeclEntry(nil), d.entries...)
}

// Failed returns the names of declarations logged with an error.
func (d *DeclRecorder) Failed() []string {
	var out []string
	for _, e := range d.Entries() {
		if e.Err != nil {
			out = append(out, e.Name)
		}
	}
	return out
}
