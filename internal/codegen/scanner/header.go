// Package scanner builds the C++ declaration tree that the generators
// consume, either by parsing header text with tree-sitter or by loading a
// serialized tree document.
package scanner

import (
	"context"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/Alia5/cpp2d/internal/cxx"
)

// HeaderParser turns C++ header text into a declaration tree. Only
// declarations are collected; function bodies, variables and free functions
// are ignored.
type HeaderParser struct {
	// Lenient skips regions tree-sitter could not parse (typically
	// unexpanded macros) instead of failing.
	Lenient bool
	Logger  *slog.Logger
}

// ParseHeader parses src with the default strict parser.
func ParseHeader(ctx context.Context, src []byte) (*cxx.Namespace, error) {
	return (&HeaderParser{}).Parse(ctx, src)
}

func newCppParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())
	return parser
}

// Parse parses one header.
func (p *HeaderParser) Parse(ctx context.Context, src []byte) (*cxx.Namespace, error) {
	parser := newCppParser()
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		if !p.Lenient {
			return nil, syntaxError(bad, src)
		}
		if p.Logger != nil {
			p.Logger.Warn("Skipping unparsable regions", "first", syntaxError(bad, src))
		}
	}

	w := &walker{src: src}
	ns := &cxx.Namespace{}
	if err := w.declarations(root, ns, cxx.AccessNone); err != nil {
		return nil, err
	}
	return ns, nil
}

func syntaxError(n *sitter.Node, src []byte) error {
	if n == nil {
		return fmt.Errorf("syntax error")
	}
	pos := n.StartPoint()
	text := n.Content(src)
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return fmt.Errorf("syntax error at %d:%d near %q", pos.Row+1, pos.Column+1, text)
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.HasError() || c.IsMissing() {
			if bad := firstError(c); bad != nil {
				return bad
			}
		}
	}
	return nil
}

// walker holds the state of one parse. Anonymous declarations are numbered
// from 1 in source order.
type walker struct {
	src  []byte
	anon int
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) nextAnonymous() cxx.TypeName {
	w.anon++
	return cxx.TypeName{Segments: []cxx.Segment{&cxx.AnonymousSegment{ID: w.anon}}}
}

func children(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// fieldChildren returns every child stored under field, in order.
func fieldChildren(n *sitter.Node, field string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == field {
			out = append(out, n.Child(i))
		}
	}
	return out
}

// declarations collects the namespace-scope declarations below n into ns.
func (w *walker) declarations(n *sitter.Node, ns *cxx.Namespace, access cxx.Access) error {
	for _, c := range children(n) {
		if err := w.declaration(c, ns, access); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) declaration(n *sitter.Node, ns *cxx.Namespace, access cxx.Access) error {
	addClass := func(c *cxx.Class) { ns.Classes = append(ns.Classes, c) }
	addEnum := func(e *cxx.Enum) { ns.Enums = append(ns.Enums, e) }
	switch n.Type() {
	case "namespace_definition":
		sub := &cxx.Namespace{Name: w.text(n.ChildByFieldName("name"))}
		if body := n.ChildByFieldName("body"); body != nil {
			if err := w.declarations(body, sub, access); err != nil {
				return err
			}
		}
		ns.Namespaces = append(ns.Namespaces, sub)

	case "linkage_specification":
		if body := n.ChildByFieldName("body"); body != nil {
			if body.Type() == "declaration_list" {
				return w.declarations(body, ns, access)
			}
			return w.declaration(body, ns, access)
		}

	case "preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif", "preproc_elifdef":
		return w.declarations(n, ns, access)

	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		_, err := w.typeSpecifier(n, nil, addClass, addEnum, access)
		return err

	case "declaration":
		if t := n.ChildByFieldName("type"); t != nil {
			_, err := w.typeSpecifier(t, nil, addClass, addEnum, access)
			return err
		}

	case "type_definition":
		tds, err := w.typedef(n, addClass, addEnum, access)
		if err != nil {
			return err
		}
		ns.Typedefs = append(ns.Typedefs, tds...)

	case "alias_declaration":
		a, err := w.alias(n, nil)
		if err != nil {
			return err
		}
		ns.Aliases = append(ns.Aliases, a)

	case "template_declaration":
		return w.templateDeclaration(n, ns, access)
	}
	return nil
}

func (w *walker) templateDeclaration(n *sitter.Node, ns *cxx.Namespace, access cxx.Access) error {
	params, err := w.templateParams(n.ChildByFieldName("parameters"))
	if err != nil {
		return err
	}
	for _, c := range children(n) {
		switch c.Type() {
		case "class_specifier", "struct_specifier", "union_specifier":
			cls, err := w.class(c, params, access)
			if err != nil {
				return err
			}
			if cls != nil {
				ns.Classes = append(ns.Classes, cls)
			}
			return nil
		case "declaration":
			t := c.ChildByFieldName("type")
			if t == nil || !isClassSpecifier(t) {
				return nil
			}
			cls, err := w.class(t, params, access)
			if err != nil {
				return err
			}
			if cls != nil {
				ns.Classes = append(ns.Classes, cls)
			}
			return nil
		case "alias_declaration":
			a, err := w.alias(c, params)
			if err != nil {
				return err
			}
			ns.Aliases = append(ns.Aliases, a)
			return nil
		}
	}
	return nil
}

func isClassSpecifier(n *sitter.Node) bool {
	switch n.Type() {
	case "class_specifier", "struct_specifier", "union_specifier":
		return true
	}
	return false
}

// typeSpecifier returns the type named by a type specifier node. Class and
// enum specifiers with a body are parsed and handed to addClass or addEnum;
// the returned type then refers to them by name or anonymous key.
func (w *walker) typeSpecifier(n *sitter.Node, tmpl *cxx.TemplateParams, addClass func(*cxx.Class), addEnum func(*cxx.Enum), access cxx.Access) (cxx.Type, error) {
	switch n.Type() {
	case "class_specifier", "struct_specifier", "union_specifier":
		if n.ChildByFieldName("body") == nil {
			return w.baseType(n)
		}
		cls, err := w.class(n, tmpl, access)
		if err != nil {
			return nil, err
		}
		addClass(cls)
		return &cxx.Named{Name: cls.Name}, nil
	case "enum_specifier":
		if n.ChildByFieldName("body") == nil {
			return w.baseType(n)
		}
		en, err := w.enum(n, access)
		if err != nil {
			return nil, err
		}
		addEnum(en)
		return &cxx.Named{Name: en.Name}, nil
	}
	return w.baseType(n)
}

func (w *walker) typedef(n *sitter.Node, addClass func(*cxx.Class), addEnum func(*cxx.Enum), access cxx.Access) ([]*cxx.Typedef, error) {
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return nil, nil
	}
	base, err := w.typeSpecifier(typeNode, nil, addClass, addEnum, access)
	if err != nil {
		return nil, err
	}
	applyQualifiers(w, n, base)

	var out []*cxx.Typedef
	for _, d := range fieldChildren(n, "declarator") {
		name, t, fn, err := w.declarator(d, base)
		if err != nil {
			return nil, err
		}
		if fn != nil {
			// typedef int F(int); declares a function type, not an object.
			t = fn.functionType()
			name = fn.name
		}
		out = append(out, &cxx.Typedef{Name: name, Type: t, Access: access})
	}
	return out, nil
}

func (w *walker) alias(n *sitter.Node, tmpl *cxx.TemplateParams) (*cxx.TypeAlias, error) {
	t, err := w.typeDescriptor(n.ChildByFieldName("type"))
	if err != nil {
		return nil, err
	}
	return &cxx.TypeAlias{Name: w.text(n.ChildByFieldName("name")), Type: t, Template: tmpl}, nil
}

func (w *walker) enum(n *sitter.Node, access cxx.Access) (*cxx.Enum, error) {
	en := &cxx.Enum{Access: access}
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name, err := w.typeName(nameNode)
		if err != nil {
			return nil, err
		}
		en.Name = name
	} else {
		en.Name = w.nextAnonymous()
	}
	for _, c := range children(n) {
		if t := c.Type(); t == "class" || t == "struct" {
			en.Scoped = true
		}
	}
	if baseNode := n.ChildByFieldName("base"); baseNode != nil {
		base, err := w.baseType(baseNode)
		if err != nil {
			return nil, err
		}
		if named, ok := base.(*cxx.Named); ok {
			en.Base = &named.Name
		}
	}
	body := n.ChildByFieldName("body")
	for _, c := range children(body) {
		if c.Type() != "enumerator" {
			continue
		}
		v := cxx.Enumerator{Name: w.text(c.ChildByFieldName("name"))}
		if val := c.ChildByFieldName("value"); val != nil {
			v.Value = cxx.Tokenize(w.text(val))
		}
		en.Values = append(en.Values, v)
	}
	return en, nil
}
