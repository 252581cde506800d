// Package meta holds the cross-class facts the emitter needs but cannot
// derive from a single class: which classes are pure interfaces and which
// ones are derived from. It is built in two passes before any output is
// produced and is read-only afterwards.
package meta

import (
	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/cxx"
)

// ClassMetadata is the record kept per top-level class.
type ClassMetadata struct {
	Class       *cxx.Class
	IsInterface bool
	HasChildren bool
}

// Metadata is the arena of class records, keyed by class name.
type Metadata struct {
	Classes map[string]*ClassMetadata
	order   []string
}

// Build registers every class, then computes IsInterface and HasChildren.
// Registration must see all classes first because a base may be declared
// after the class deriving from it.
func Build(classes []*cxx.Class) (*Metadata, error) {
	md := &Metadata{Classes: make(map[string]*ClassMetadata, len(classes))}

	for _, c := range classes {
		if c.IsAnonymous() {
			continue
		}
		name := c.ClassName()
		if _, dup := md.Classes[name]; dup {
			return nil, common.ErrDuplicateClass(name)
		}
		md.Classes[name] = &ClassMetadata{Class: c}
		md.order = append(md.order, name)
	}

	for _, name := range md.order {
		c := md.Classes[name].Class
		if len(c.Bases) > 1 {
			return nil, common.ErrUnsupported(name, "multiple inheritance")
		}
	}

	state := make(map[string]visit, len(md.order))
	for _, name := range md.order {
		ok, err := md.interfaceCandidate(md.Classes[name].Class, state)
		if err != nil {
			return nil, err
		}
		md.Classes[name].IsInterface = ok
	}

	for _, name := range md.order {
		if base := md.Base(md.Classes[name].Class); base != nil {
			md.Classes[base.ClassName()].HasChildren = true
		}
	}

	return md, nil
}

type visit int

const (
	unvisited visit = iota
	visiting
	done
)

// interfaceCandidate reports whether c has no fields, only constructors and
// virtual methods, and a base chain that satisfies the same.
func (md *Metadata) interfaceCandidate(c *cxx.Class, state map[string]visit) (bool, error) {
	if len(c.Fields) > 0 {
		return false, nil
	}
	for _, m := range c.Methods {
		if !m.Constructor && !m.IsVirtual() {
			return false, nil
		}
	}
	if len(c.Bases) == 0 {
		return true, nil
	}

	name := c.ClassName()
	if state[name] == visiting {
		return false, common.ErrInheritanceCycle(name)
	}
	state[name] = visiting
	defer func() { state[name] = done }()

	base := md.Base(c)
	if base == nil {
		// Bases declared outside this translation unit are opaque.
		return false, nil
	}
	return md.interfaceCandidate(base, state)
}

// Lookup returns the record registered for exactly this class. Nested classes
// are not registered, and a nested class that shares a top-level class's
// name does not alias its record.
func (md *Metadata) Lookup(c *cxx.Class) (*ClassMetadata, bool) {
	if md == nil || c.IsAnonymous() {
		return nil, false
	}
	cm, ok := md.Classes[c.ClassName()]
	if !ok || cm.Class != c {
		return nil, false
	}
	return cm, true
}

// Base returns the registered base class of c, or nil when c has no base or
// the base is not declared in this translation unit.
func (md *Metadata) Base(c *cxx.Class) *cxx.Class {
	if md == nil || len(c.Bases) == 0 {
		return nil
	}
	cm, ok := md.Classes[c.Bases[0].Name.Last()]
	if !ok {
		return nil
	}
	return cm.Class
}

// BaseMethods returns the methods of c's base that are named name.
func (md *Metadata) BaseMethods(c *cxx.Class, name string) []*cxx.Method {
	base := md.Base(c)
	if base == nil {
		return nil
	}
	var out []*cxx.Method
	for _, m := range base.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}
