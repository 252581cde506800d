package meta

import "github.com/Alia5/cpp2d/internal/cxx"

// Kind is the D representation chosen for a class-like declaration.
type Kind int

const (
	// ValueAggregate is a D struct (or union): no dispatch, copy semantics.
	ValueAggregate Kind = iota
	// ReferenceAggregate is a D class: inheritance and virtual dispatch.
	ReferenceAggregate
	// Interface is a D interface: no storage, dispatch-only methods.
	Interface
)

func (k Kind) String() string {
	switch k {
	case ReferenceAggregate:
		return "class"
	case Interface:
		return "interface"
	default:
		return "struct"
	}
}

// Classify decides the D representation of c.
//
// Registered classes use the precomputed flags. Nested classes are not
// registered; they are classified from their own structure and can never
// have children.
func (md *Metadata) Classify(c *cxx.Class) Kind {
	var isInterface, hasChildren bool
	if cm, ok := md.Lookup(c); ok {
		isInterface, hasChildren = cm.IsInterface, cm.HasChildren
	} else {
		// A cycle can only go through registered classes, which Build has
		// already vetted.
		isInterface, _ = md.interfaceCandidate(c, map[string]visit{})
	}

	if isInterface {
		return Interface
	}
	if hasChildren || len(c.Bases) > 0 || hasDispatchingMethod(c) {
		return ReferenceAggregate
	}
	return ValueAggregate
}

func hasDispatchingMethod(c *cxx.Class) bool {
	for _, m := range c.Methods {
		if m.IsDispatching() {
			return true
		}
	}
	return false
}
