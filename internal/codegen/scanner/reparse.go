package scanner

import (
	"context"
	"fmt"

	"github.com/Alia5/cpp2d/internal/cxx"
)

// Reparser parses single variable declarations such as "Foo<3> tmp;".
// The generators use it to decide whether a template argument that the
// front-end kept as raw tokens actually names a type.
type Reparser struct{}

// ParseVariableType returns the declared type of decl, which must be
// exactly one variable declaration with one declarator.
func (Reparser) ParseVariableType(decl string) (cxx.Type, error) {
	parser := newCppParser()
	defer parser.Close()

	src := []byte(decl)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(firstError(root), src)
	}
	if root.NamedChildCount() != 1 || root.NamedChild(0).Type() != "declaration" {
		return nil, fmt.Errorf("not a variable declaration: %q", decl)
	}

	d := root.NamedChild(0)
	w := &walker{src: src}
	base, err := w.baseType(d.ChildByFieldName("type"))
	if err != nil {
		return nil, err
	}
	applyQualifiers(w, d, base)

	decls := fieldChildren(d, "declarator")
	if len(decls) != 1 {
		return nil, fmt.Errorf("expected one declarator in %q, got %d", decl, len(decls))
	}
	_, t, fn, err := w.declarator(decls[0], base)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		return nil, fmt.Errorf("%q declares a function", decl)
	}
	return t, nil
}
