package scanner

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Alia5/cpp2d/internal/cxx"
)

// class parses a class, struct or union specifier. Forward declarations
// yield nil.
func (w *walker) class(n *sitter.Node, tmpl *cxx.TemplateParams, access cxx.Access) (*cxx.Class, error) {
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil, nil
	}

	cls := &cxx.Class{Key: classKey(n), Template: tmpl, Access: access}
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name, err := w.typeName(nameNode)
		if err != nil {
			return nil, err
		}
		cls.Name = name
		if seg, ok := name.Segments[len(name.Segments)-1].(*cxx.NameSegment); ok && seg.Args != nil {
			cls.ExplicitSpecialization = true
		}
	} else {
		cls.Name = w.nextAnonymous()
	}
	if tmpl != nil && len(tmpl.Params) == 0 {
		cls.ExplicitSpecialization = true
	}

	for _, c := range children(n) {
		switch c.Type() {
		case "virtual_specifier":
			if w.text(c) == "final" {
				cls.Final = true
			}
		case "base_class_clause":
			bases, err := w.bases(c, cls.Key)
			if err != nil {
				return nil, err
			}
			cls.Bases = bases
		}
	}

	if err := w.members(body, cls); err != nil {
		return nil, err
	}
	return cls, nil
}

func classKey(n *sitter.Node) cxx.ClassKey {
	switch n.Type() {
	case "class_specifier":
		return cxx.KeyClass
	case "union_specifier":
		return cxx.KeyUnion
	default:
		return cxx.KeyStruct
	}
}

// defaultAccess is the access of members and bases written without an
// access specifier.
func defaultAccess(key cxx.ClassKey) cxx.Access {
	if key == cxx.KeyClass {
		return cxx.AccessPrivate
	}
	return cxx.AccessPublic
}

func (w *walker) bases(n *sitter.Node, key cxx.ClassKey) ([]cxx.Base, error) {
	var (
		out     []cxx.Base
		access  = defaultAccess(key)
		virtual bool
	)
	for _, c := range children(n) {
		switch c.Type() {
		case ",":
			access, virtual = defaultAccess(key), false
		case "access_specifier", "public", "protected", "private":
			access = cxx.ParseAccess(strings.TrimSpace(w.text(c)))
		case "virtual":
			virtual = true
		case "...":
			if len(out) > 0 {
				out[len(out)-1].ParamPack = true
			}
		case "type_identifier", "qualified_type_identifier", "qualified_identifier", "template_type":
			name, err := w.typeName(c)
			if err != nil {
				return nil, err
			}
			out = append(out, cxx.Base{Name: name, Access: access, Virtual: virtual})
		}
	}
	return out, nil
}

func (w *walker) members(body *sitter.Node, cls *cxx.Class) error {
	access := defaultAccess(cls.Key)
	addClass := func(c *cxx.Class) { cls.Classes = append(cls.Classes, c) }
	addEnum := func(e *cxx.Enum) { cls.Enums = append(cls.Enums, e) }

	for _, c := range children(body) {
		switch c.Type() {
		case "access_specifier":
			access = cxx.ParseAccess(strings.TrimSpace(strings.TrimSuffix(w.text(c), ":")))

		case "field_declaration", "declaration", "function_definition":
			if err := w.member(c, cls, access, nil, addClass, addEnum); err != nil {
				return err
			}

		case "template_declaration":
			params, err := w.templateParams(c.ChildByFieldName("parameters"))
			if err != nil {
				return err
			}
			for _, inner := range children(c) {
				switch {
				case isClassSpecifier(inner):
					nested, err := w.class(inner, params, access)
					if err != nil {
						return err
					}
					if nested != nil {
						addClass(nested)
					}
				case inner.Type() == "field_declaration", inner.Type() == "declaration", inner.Type() == "function_definition":
					if err := w.member(inner, cls, access, params, addClass, addEnum); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// specifiers are the decl-specifiers written before a member's declarator.
type specifiers struct {
	static, virtual, explicit, constexpr, extern bool
	callConv                                     string
}

func (w *walker) specifiers(n *sitter.Node) specifiers {
	var s specifiers
	for _, c := range children(n) {
		switch c.Type() {
		case "storage_class_specifier":
			switch w.text(c) {
			case "static":
				s.static = true
			case "extern":
				s.extern = true
			}
		case "virtual", "virtual_function_specifier":
			s.virtual = true
		case "explicit_function_specifier":
			s.explicit = true
		case "type_qualifier":
			if w.text(c) == "constexpr" {
				s.constexpr = true
			}
		case "constexpr":
			s.constexpr = true
		case "ms_call_modifier":
			s.callConv = w.text(c)
		}
	}
	return s
}

// applyQualifiers marks t const or volatile for the type_qualifier children
// of n.
func applyQualifiers(w *walker, n *sitter.Node, t cxx.Type) {
	named, ok := t.(*cxx.Named)
	if !ok {
		return
	}
	for _, c := range children(n) {
		if c.Type() != "type_qualifier" {
			continue
		}
		switch w.text(c) {
		case "const":
			named.Const = true
		case "volatile":
			named.Volatile = true
		}
	}
}

func (w *walker) member(n *sitter.Node, cls *cxx.Class, access cxx.Access, tmpl *cxx.TemplateParams, addClass func(*cxx.Class), addEnum func(*cxx.Enum)) error {
	spec := w.specifiers(n)

	var base cxx.Type
	typeNode := n.ChildByFieldName("type")
	if typeNode != nil {
		var err error
		if base, err = w.typeSpecifier(typeNode, nil, addClass, addEnum, access); err != nil {
			return err
		}
		applyQualifiers(w, n, base)
	}

	decls := fieldChildren(n, "declarator")
	if len(decls) == 0 {
		// union { ... }; declares an unnamed member whose fields are
		// accessed as if they belonged to the enclosing class.
		if typeNode != nil && isClassSpecifier(typeNode) {
			if named, ok := base.(*cxx.Named); ok && named.Name.IsAnonymous() {
				cls.Fields = append(cls.Fields, &cxx.Field{Type: base, Access: access, Static: spec.static})
			}
		}
		return nil
	}

	for _, d := range decls {
		name, t, fn, err := w.declarator(d, base)
		if err != nil {
			return err
		}
		if fn != nil {
			cls.Methods = append(cls.Methods, w.method(n, fn, spec, cls, access, tmpl))
			continue
		}
		if tmpl != nil || n.Type() == "function_definition" {
			continue
		}
		f := &cxx.Field{Name: name, Type: t, Static: spec.static, Access: access}
		for _, c := range children(n) {
			if c.Type() == "bitfield_clause" && c.NamedChildCount() > 0 {
				f.Bits = cxx.Tokenize(w.text(c.NamedChild(0)))
			}
		}
		cls.Fields = append(cls.Fields, f)
	}
	return nil
}

func (w *walker) method(n *sitter.Node, fn *funcDecl, spec specifiers, cls *cxx.Class, access cxx.Access, tmpl *cxx.TemplateParams) *cxx.Method {
	m := &cxx.Method{
		Name:   fn.name,
		Params: fn.params,
		Return: fn.ret,
		Vararg: fn.vararg,
		Access: access,

		Virtual:   spec.virtual,
		Static:    spec.static,
		Explicit:  spec.explicit,
		Constexpr: spec.constexpr,
		Extern:    spec.extern,

		Const:          fn.constQ,
		Volatile:       fn.volatileQ,
		Noexcept:       fn.noexcept,
		Throws:         fn.throws,
		Override:       fn.override,
		Final:          fn.final,
		RefQualifier:   fn.refQ,
		TrailingReturn: fn.trailing,

		Template:          tmpl,
		CallingConvention: spec.callConv,
	}

	switch {
	case strings.HasPrefix(fn.name, "~"):
		m.Destructor = true
		m.Return = nil
	case fn.ret == nil && fn.name == cls.ClassName():
		m.Constructor = true
	case isOperatorName(fn.name):
		m.Operator = true
	}

	for _, c := range children(n) {
		switch c.Type() {
		case "default_method_clause":
			m.Default = true
		case "delete_method_clause":
			m.Deleted = true
		case "pure_virtual_clause":
			m.PureVirtual = true
		}
	}
	if dv := n.ChildByFieldName("default_value"); dv != nil && strings.TrimSpace(w.text(dv)) == "0" {
		m.PureVirtual = true
	}
	return m
}

func isOperatorName(name string) bool {
	rest, ok := strings.CutPrefix(name, "operator")
	if !ok {
		return false
	}
	if rest == "" {
		return true
	}
	c := rest[0]
	return !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'))
}
