package dlang

import (
	"strings"

	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/codegen/meta"
	"github.com/Alia5/cpp2d/internal/cxx"
)

// emitClass writes one class-like declaration named name; ident is its
// qualified C++ name used in errors. The caller has written the indentation
// of the first line. Nested declarations come before fields and
// fields before methods, which D requires for nested types used by fields.
func (e *emitter) emitClass(c *cxx.Class, name, ident string) error {
	if c.ExplicitSpecialization {
		return common.ErrUnsupported(ident, "explicit template specialization")
	}
	if len(c.Bases) > 1 {
		return common.ErrUnsupported(ident, "multiple inheritance")
	}

	kind := e.md.Classify(c)
	e.logger.Debug("Classified class", "class", ident, "kind", kind)

	var head strings.Builder
	if c.Key == cxx.KeyClass || c.Key == cxx.KeyStruct {
		head.WriteString("extern(C++, " + c.Key.String() + ") ")
	}
	if c.Final && kind != meta.Interface {
		head.WriteString("final ")
	}
	switch {
	case kind == meta.ValueAggregate && c.Key == cxx.KeyUnion:
		head.WriteString("union ")
	default:
		head.WriteString(kind.String() + " ")
	}
	head.WriteString(name)

	if c.Template != nil {
		params, err := e.templateParams(c.Template)
		if err != nil {
			return common.WithDecl(err, ident)
		}
		head.WriteString(params)
	}

	if len(c.Bases) == 1 {
		base := c.Bases[0]
		if base.Virtual {
			return common.ErrUnsupported(ident, "virtual inheritance")
		}
		if base.ParamPack {
			return common.ErrUnsupported(ident, "base class pack expansion")
		}
		b, err := e.types.MapTypeName(base.Name)
		if err != nil {
			return common.WithDecl(err, ident)
		}
		head.WriteString(" : " + b)
	}

	e.w.WriteString(head.String() + " {")
	e.w.Newline()
	e.w.Indent()

	if err := e.emitMembers(c, ident); err != nil {
		return err
	}
	if err := e.emitMethods(c, name, ident, kind); err != nil {
		return err
	}

	e.w.Dedent()
	e.w.Line("}")
	return nil
}

func (e *emitter) templateParams(tp *cxx.TemplateParams) (string, error) {
	parts := make([]string, 0, len(tp.Params))
	for _, p := range tp.Params {
		switch {
		case p.Pack:
			return "", common.ErrUnsupported("", "variadic template parameter "+p.Name)
		case len(p.Default) > 0:
			return "", common.ErrUnsupported("", "default template argument for "+p.Name)
		}
		switch p.Kind {
		case cxx.TemplateTypeParam:
			parts = append(parts, p.Name)
		case cxx.TemplateValueParam:
			t, err := e.types.Map(p.Type, TypeOptions{})
			if err != nil {
				return "", err
			}
			parts = append(parts, t+" "+p.Name)
		default:
			return "", common.ErrUnsupported("", "template template parameter "+p.Name)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

// anonymousAggregates holds the anonymous unions, structs and enums nested in
// one class, keyed by the parser's anonymous id.
type anonymousAggregates struct {
	classes map[int]*cxx.Class
	enums   map[int]*cxx.Enum
	used    map[int]bool
	// names of the D types declared for anonymous aggregates that a named
	// field refers to, e.g. `union { ... } u;`.
	names map[int]string
}

// emitMembers writes nested enums, nested classes and fields. Anonymous
// unions and structs are held back and written inline at the field that
// refers to them.
func (e *emitter) emitMembers(c *cxx.Class, name string) error {
	anon := anonymousAggregates{
		classes: make(map[int]*cxx.Class),
		enums:   make(map[int]*cxx.Enum),
		used:    make(map[int]bool),
		names:   make(map[int]string),
	}

	for _, en := range c.Enums {
		if id, ok := en.Name.AnonymousID(); ok {
			anon.enums[id] = en
		}
		if err := e.emitEnum(en, ""); err != nil {
			return common.WithDecl(err, name)
		}
	}

	for _, nested := range c.Classes {
		if id, ok := nested.Name.AnonymousID(); ok {
			if _, dup := anon.classes[id]; dup {
				return common.ErrMalformed(name, "anonymous aggregate key reused")
			}
			anon.classes[id] = nested
			continue
		}
		e.w.WriteIndent()
		if err := e.emitClass(nested, nested.ClassName(), name+"::"+nested.ClassName()); err != nil {
			return err
		}
	}

	for _, f := range c.Fields {
		if err := e.emitField(f, name, &anon); err != nil {
			return err
		}
	}

	for _, nested := range c.Classes {
		if id, ok := nested.Name.AnonymousID(); ok && !anon.used[id] {
			e.logger.Warn("Anonymous aggregate is not referenced by any field", "class", name, "key", id, "kind", nested.Key)
		}
	}
	return nil
}

func (e *emitter) emitField(f *cxx.Field, owner string, anon *anonymousAggregates) error {
	decl := owner + "::" + f.Name
	if len(f.Bits) > 0 {
		return common.ErrUnsupported(decl, "bit-field")
	}

	if n, ok := f.Type.(*cxx.Named); ok {
		if id, ok := n.Name.AnonymousID(); ok {
			if nested, ok := anon.classes[id]; ok {
				anon.used[id] = true
				if f.Name == "" {
					e.w.WriteIndent()
					return e.emitInlineAggregate(nested, "", decl)
				}
				return e.emitNamedAggregateField(f, nested, id, decl, anon)
			}
			if en, ok := anon.enums[id]; ok {
				return e.emitAnonymousEnumField(f, en, decl)
			}
			return common.ErrUnmatchedAnonymous(decl, id)
		}
	}

	if f.Name == "" {
		return common.ErrMalformed(decl, "unnamed field")
	}
	t, err := e.types.Map(f.Type, TypeOptions{RefsToPointers: true})
	if err != nil {
		return common.WithDecl(err, decl)
	}
	e.w.WriteIndent()
	if f.Static {
		e.w.WriteString("__gshared ")
	}
	e.w.Printf("%s %s;", t, common.SafeIdentifier(f.Name))
	e.w.Newline()
	return nil
}

// emitInlineAggregate writes `union { ... }` or `struct { ... }` in place of
// a field whose type is an anonymous aggregate. A non-empty typeName turns
// it into a named nested type.
func (e *emitter) emitInlineAggregate(c *cxx.Class, typeName, decl string) error {
	if len(c.Methods) > 0 {
		return common.ErrUnsupported(decl, "methods in an anonymous aggregate")
	}
	kw := "struct"
	if c.Key == cxx.KeyUnion {
		kw = "union"
	}
	if typeName != "" {
		kw += " " + typeName
	}
	e.w.WriteString(kw + " {")
	e.w.Newline()
	e.w.Indent()
	if err := e.emitMembers(c, decl); err != nil {
		return err
	}
	e.w.Dedent()
	e.w.Line("}")
	return nil
}

// emitNamedAggregateField declares `union { ... } u;` as a nested type named
// Anon_u followed by the field. Later fields of the same aggregate
// (`union { ... } a, b;`) reuse the type.
func (e *emitter) emitNamedAggregateField(f *cxx.Field, c *cxx.Class, id int, decl string, anon *anonymousAggregates) error {
	typeName, ok := anon.names[id]
	if !ok {
		typeName = "Anon_" + f.Name
		anon.names[id] = typeName
		e.w.WriteIndent()
		if err := e.emitInlineAggregate(c, typeName, decl); err != nil {
			return err
		}
	}
	e.w.WriteIndent()
	if f.Static {
		e.w.WriteString("__gshared ")
	}
	e.w.Printf("%s %s;", typeName, common.SafeIdentifier(f.Name))
	e.w.Newline()
	return nil
}

// A field typed by an anonymous enum has no nameable type in D; it is
// declared with the enum's underlying type.
func (e *emitter) emitAnonymousEnumField(f *cxx.Field, en *cxx.Enum, decl string) error {
	if f.Name == "" {
		return nil
	}
	t := "int"
	if en.Base != nil {
		var err error
		if t, err = e.types.MapTypeName(*en.Base); err != nil {
			return common.WithDecl(err, decl)
		}
	}
	e.w.WriteIndent()
	if f.Static {
		e.w.WriteString("__gshared ")
	}
	e.w.Printf("%s %s;", t, common.SafeIdentifier(f.Name))
	e.w.Newline()
	return nil
}

// emitEnum writes an enum at the current indentation. name overrides the
// declared name; anonymous enums without an override are written without a
// name token.
func (e *emitter) emitEnum(en *cxx.Enum, name string) error {
	if name == "" && !en.IsAnonymous() {
		var err error
		if name, err = e.types.MapTypeName(en.Name); err != nil {
			return err
		}
	}
	if len(en.Values) == 0 {
		return common.ErrMalformed(name, "enum without enumerators")
	}

	e.w.WriteIndent()
	e.w.WriteString("enum")
	if name != "" {
		e.w.WriteString(" " + name)
	}
	if en.Base != nil {
		base, err := e.types.MapTypeName(*en.Base)
		if err != nil {
			return common.WithDecl(err, name)
		}
		e.w.WriteString(" : " + base)
	}
	e.w.WriteString(" {")
	e.w.Newline()

	e.w.Indent()
	for i, v := range en.Values {
		e.w.WriteIndent()
		e.w.WriteString(common.SafeIdentifier(v.Name))
		if len(v.Value) > 0 {
			e.w.WriteString(" = " + Tokens(v.Value))
		}
		if i+1 < len(en.Values) {
			e.w.WriteString(",")
		}
		e.w.Newline()
	}
	e.w.Dedent()
	e.w.Line("}")
	return nil
}
