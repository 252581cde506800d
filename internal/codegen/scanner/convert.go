package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/cxx"
)

var plainName = regexp.MustCompile(`^(::)?[A-Za-z_]\w*(::[A-Za-z_]\w*)*$`)

// Namespace converts the document into a declaration tree.
func (d *NamespaceDoc) Namespace() (*cxx.Namespace, error) {
	ns := &cxx.Namespace{Name: d.Name}
	for _, a := range d.Aliases {
		t, err := a.Type.toType(a.Name)
		if err != nil {
			return nil, err
		}
		tp, err := templateParams(a.Template, a.Name)
		if err != nil {
			return nil, err
		}
		ns.Aliases = append(ns.Aliases, &cxx.TypeAlias{Name: a.Name, Type: t, Access: cxx.ParseAccess(a.Access), Template: tp})
	}
	for _, td := range d.Typedefs {
		t, err := td.Type.toType(td.Name)
		if err != nil {
			return nil, err
		}
		ns.Typedefs = append(ns.Typedefs, &cxx.Typedef{Name: td.Name, Type: t, Access: cxx.ParseAccess(td.Access)})
	}
	for i := range d.Enums {
		en, err := d.Enums[i].enum()
		if err != nil {
			return nil, err
		}
		ns.Enums = append(ns.Enums, en)
	}
	for i := range d.Classes {
		c, err := d.Classes[i].class()
		if err != nil {
			return nil, err
		}
		ns.Classes = append(ns.Classes, c)
	}
	for i := range d.Namespaces {
		sub, err := d.Namespaces[i].Namespace()
		if err != nil {
			return nil, err
		}
		ns.Namespaces = append(ns.Namespaces, sub)
	}
	return ns, nil
}

func declName(name string, anonymous int, what string) (cxx.TypeName, error) {
	switch {
	case anonymous > 0:
		return cxx.TypeName{Segments: []cxx.Segment{&cxx.AnonymousSegment{ID: anonymous}}}, nil
	case name != "":
		return namedTypeName(name), nil
	}
	return cxx.TypeName{}, common.ErrMalformed("", what+" without name or anonymous key")
}

func (d *EnumDoc) enum() (*cxx.Enum, error) {
	name, err := declName(d.Name, d.Anonymous, "enum")
	if err != nil {
		return nil, err
	}
	en := &cxx.Enum{Name: name, Scoped: d.Scoped, Access: cxx.ParseAccess(d.Access)}
	if d.Base != "" {
		base := namedTypeName(d.Base)
		en.Base = &base
	}
	for _, v := range d.Values {
		en.Values = append(en.Values, cxx.Enumerator{Name: v.Name, Value: cxx.Tokenize(v.Value)})
	}
	return en, nil
}

func (d *ClassDoc) class() (*cxx.Class, error) {
	name, err := declName(d.Name, d.Anonymous, "class")
	if err != nil {
		return nil, err
	}
	key, ok := cxx.ParseClassKey(d.Key)
	if !ok {
		return nil, common.ErrMalformed(name.String(), "unknown class key "+d.Key)
	}
	ident := name.String()
	c := &cxx.Class{
		Name:                   name,
		Key:                    key,
		Final:                  d.Final,
		ExplicitSpecialization: d.ExplicitSpecialization,
		Access:                 cxx.ParseAccess(d.Access),
	}
	if c.Template, err = templateParams(d.Template, ident); err != nil {
		return nil, err
	}
	for _, b := range d.Bases {
		c.Bases = append(c.Bases, cxx.Base{
			Name:      namedTypeName(b.Name),
			Access:    cxx.ParseAccess(b.Access),
			Virtual:   b.Virtual,
			ParamPack: b.Pack,
		})
	}
	for _, f := range d.Fields {
		t, err := f.Type.toType(ident + "::" + f.Name)
		if err != nil {
			return nil, err
		}
		c.Fields = append(c.Fields, &cxx.Field{
			Name:   f.Name,
			Type:   t,
			Static: f.Static,
			Access: cxx.ParseAccess(f.Access),
			Bits:   cxx.Tokenize(f.Bits),
		})
	}
	for i := range d.Methods {
		m, err := d.Methods[i].method(ident)
		if err != nil {
			return nil, err
		}
		c.Methods = append(c.Methods, m)
	}
	for i := range d.Enums {
		en, err := d.Enums[i].enum()
		if err != nil {
			return nil, err
		}
		c.Enums = append(c.Enums, en)
	}
	for i := range d.Classes {
		nested, err := d.Classes[i].class()
		if err != nil {
			return nil, err
		}
		c.Classes = append(c.Classes, nested)
	}
	return c, nil
}

func (d *MethodDoc) method(owner string) (*cxx.Method, error) {
	decl := owner + "::" + d.Name
	params, err := paramList(d.Params, decl)
	if err != nil {
		return nil, err
	}
	m := &cxx.Method{
		Name:   d.Name,
		Params: params,
		Vararg: d.Vararg,
		Access: cxx.ParseAccess(d.Access),

		Constructor: d.Constructor,
		Destructor:  d.Destructor,
		Operator:    d.Operator,

		Virtual:     d.Virtual,
		PureVirtual: d.PureVirtual,
		Override:    d.Override,
		Final:       d.Final,
		Static:      d.Static,
		Const:       d.Const,
		Volatile:    d.Volatile,
		Noexcept:    d.Noexcept,
		Deleted:     d.Deleted,
		Default:     d.Default,

		Extern:            d.Extern,
		TrailingReturn:    d.TrailingReturn,
		Constexpr:         d.Constexpr,
		Explicit:          d.Explicit,
		RefQualifier:      d.RefQualifier,
		CallingConvention: d.CallingConvention,
		Throws:            d.Throws,
	}
	if d.Return != nil {
		if m.Return, err = d.Return.toType(decl); err != nil {
			return nil, err
		}
	}
	if m.Template, err = templateParams(d.Template, decl); err != nil {
		return nil, err
	}
	return m, nil
}

func paramList(docs []ParamDoc, decl string) ([]cxx.Param, error) {
	var out []cxx.Param
	for _, p := range docs {
		t, err := p.Type.toType(decl)
		if err != nil {
			return nil, err
		}
		out = append(out, cxx.Param{Name: p.Name, Type: t, Default: cxx.Tokenize(p.Default)})
	}
	return out, nil
}

func templateParams(docs []TemplateParamDoc, decl string) (*cxx.TemplateParams, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	tp := &cxx.TemplateParams{}
	for _, p := range docs {
		param := cxx.TemplateParam{Name: p.Name, Default: cxx.Tokenize(p.Default), Pack: p.Pack}
		switch p.Kind {
		case "", "type":
			param.Kind = cxx.TemplateTypeParam
		case "value":
			param.Kind = cxx.TemplateValueParam
			t, err := p.Type.toType(decl)
			if err != nil {
				return nil, err
			}
			param.Type = t
		case "template":
			param.Kind = cxx.TemplateTemplateParam
		default:
			return nil, common.ErrMalformed(decl, "unknown template parameter kind "+p.Kind)
		}
		tp.Params = append(tp.Params, param)
	}
	return tp, nil
}

// namedTypeName reads a name written as text. Fundamental spellings become
// fundamental segments; anything with template arguments goes through the
// C++ parser.
func namedTypeName(s string) cxx.TypeName {
	s = strings.TrimSpace(s)
	if cxx.IsFundamental(s) {
		return cxx.Fundamental(strings.Join(strings.Fields(s), " "))
	}
	if !plainName.MatchString(s) {
		if t, err := (Reparser{}).ParseVariableType(s + " tmp;"); err == nil {
			if n, ok := t.(*cxx.Named); ok && !n.Const && !n.Volatile {
				return n.Name
			}
		}
	}
	return cxx.NewTypeName(strings.TrimPrefix(s, "::"))
}

func (t *TypeDoc) toType(decl string) (cxx.Type, error) {
	if t == nil {
		return nil, common.ErrMalformed(decl, "missing type")
	}
	switch t.Kind {
	case "", "named":
		if t.Anonymous == 0 && len(t.Segments) == 0 && t.Name != "" &&
			!cxx.IsFundamental(t.Name) && !plainName.MatchString(strings.TrimSpace(t.Name)) {
			// Shorthand: the whole type written as C++ text.
			parsed, err := (Reparser{}).ParseVariableType(t.Name + " tmp;")
			if err != nil {
				return nil, common.ErrMalformed(decl, fmt.Sprintf("type %q: %v", t.Name, err))
			}
			if n, ok := parsed.(*cxx.Named); ok {
				n.Const = n.Const || t.Const
				n.Volatile = n.Volatile || t.Volatile
			}
			return parsed, nil
		}
		name, err := t.typeName(decl)
		if err != nil {
			return nil, err
		}
		return &cxx.Named{Name: name, Const: t.Const, Volatile: t.Volatile}, nil

	case "pointer":
		to, err := t.To.toType(decl)
		if err != nil {
			return nil, err
		}
		return &cxx.Pointer{To: to, Const: t.Const}, nil

	case "reference":
		to, err := t.To.toType(decl)
		if err != nil {
			return nil, err
		}
		return &cxx.Reference{To: to}, nil

	case "rvalue_reference":
		to, err := t.To.toType(decl)
		if err != nil {
			return nil, err
		}
		return &cxx.RValueReference{To: to}, nil

	case "array":
		of, err := t.To.toType(decl)
		if err != nil {
			return nil, err
		}
		return &cxx.Array{Of: of, Size: cxx.Tokenize(t.Size)}, nil

	case "function":
		ret, err := t.Return.toType(decl)
		if err != nil {
			return nil, err
		}
		params, err := paramList(t.Params, decl)
		if err != nil {
			return nil, err
		}
		return &cxx.FunctionType{Return: ret, Params: params, Vararg: t.Vararg, Noexcept: t.Noexcept}, nil
	}
	return nil, common.ErrMalformed(decl, "unknown type kind "+t.Kind)
}

func (t *TypeDoc) typeName(decl string) (cxx.TypeName, error) {
	var name cxx.TypeName
	switch {
	case t.Anonymous > 0:
		name = cxx.TypeName{Segments: []cxx.Segment{&cxx.AnonymousSegment{ID: t.Anonymous}}}
	case len(t.Segments) > 0:
		for _, s := range t.Segments {
			seg, err := s.segment(decl)
			if err != nil {
				return cxx.TypeName{}, err
			}
			name.Segments = append(name.Segments, seg)
		}
	case t.Name != "":
		name = namedTypeName(t.Name)
	default:
		return cxx.TypeName{}, common.ErrMalformed(decl, "named type without a name")
	}
	name.Key = t.Key
	return name, nil
}

func (s *SegmentDoc) segment(decl string) (cxx.Segment, error) {
	switch {
	case s.Anonymous > 0:
		return &cxx.AnonymousSegment{ID: s.Anonymous}, nil
	case s.Fundamental:
		return &cxx.FundamentalSegment{Name: s.Name}, nil
	}
	seg := &cxx.NameSegment{Name: s.Name}
	if s.Specialized || len(s.Args) > 0 {
		seg.Args = []cxx.TemplateArg{}
	}
	for _, a := range s.Args {
		arg := cxx.TemplateArg{Value: cxx.Tokenize(a.Value), Pack: a.Pack}
		if a.Type != nil {
			t, err := a.Type.toType(decl)
			if err != nil {
				return nil, err
			}
			arg.Type, arg.Value = t, nil
		}
		seg.Args = append(seg.Args, arg)
	}
	return seg, nil
}

// NewNamespaceDoc converts a declaration tree into its document form.
func NewNamespaceDoc(ns *cxx.Namespace) (*NamespaceDoc, error) {
	d := &NamespaceDoc{Name: ns.Name}
	for _, a := range ns.Aliases {
		t, err := typeDoc(a.Type)
		if err != nil {
			return nil, err
		}
		tmpl, err := templateParamDocs(a.Template)
		if err != nil {
			return nil, err
		}
		d.Aliases = append(d.Aliases, AliasDoc{Name: a.Name, Type: t, Access: a.Access.String(), Template: tmpl})
	}
	for _, td := range ns.Typedefs {
		t, err := typeDoc(td.Type)
		if err != nil {
			return nil, err
		}
		d.Typedefs = append(d.Typedefs, AliasDoc{Name: td.Name, Type: t, Access: td.Access.String()})
	}
	for _, en := range ns.Enums {
		d.Enums = append(d.Enums, enumDoc(en))
	}
	for _, c := range ns.Classes {
		cd, err := classDoc(c)
		if err != nil {
			return nil, err
		}
		d.Classes = append(d.Classes, cd)
	}
	for _, sub := range ns.Namespaces {
		sd, err := NewNamespaceDoc(sub)
		if err != nil {
			return nil, err
		}
		d.Namespaces = append(d.Namespaces, *sd)
	}
	return d, nil
}

func enumDoc(en *cxx.Enum) EnumDoc {
	d := EnumDoc{Scoped: en.Scoped, Access: en.Access.String()}
	if id, ok := en.Name.AnonymousID(); ok {
		d.Anonymous = id
	} else {
		d.Name = en.Name.String()
	}
	if en.Base != nil {
		d.Base = en.Base.String()
	}
	for _, v := range en.Values {
		d.Values = append(d.Values, EnumeratorDoc{Name: v.Name, Value: v.Value.Text()})
	}
	return d
}

func classDoc(c *cxx.Class) (ClassDoc, error) {
	tmpl, err := templateParamDocs(c.Template)
	if err != nil {
		return ClassDoc{}, err
	}
	d := ClassDoc{
		Key:                    c.Key.String(),
		Template:               tmpl,
		Final:                  c.Final,
		ExplicitSpecialization: c.ExplicitSpecialization,
		Access:                 c.Access.String(),
	}
	if id, ok := c.Name.AnonymousID(); ok {
		d.Anonymous = id
	} else {
		d.Name = c.Name.String()
	}
	for _, b := range c.Bases {
		d.Bases = append(d.Bases, BaseDoc{Name: b.Name.String(), Access: b.Access.String(), Virtual: b.Virtual, Pack: b.ParamPack})
	}
	for _, f := range c.Fields {
		t, err := typeDoc(f.Type)
		if err != nil {
			return ClassDoc{}, err
		}
		d.Fields = append(d.Fields, FieldDoc{Name: f.Name, Type: t, Static: f.Static, Access: f.Access.String(), Bits: f.Bits.Text()})
	}
	for _, m := range c.Methods {
		md, err := methodDoc(m)
		if err != nil {
			return ClassDoc{}, err
		}
		d.Methods = append(d.Methods, md)
	}
	for _, en := range c.Enums {
		d.Enums = append(d.Enums, enumDoc(en))
	}
	for _, nested := range c.Classes {
		nd, err := classDoc(nested)
		if err != nil {
			return ClassDoc{}, err
		}
		d.Classes = append(d.Classes, nd)
	}
	return d, nil
}

func methodDoc(m *cxx.Method) (MethodDoc, error) {
	params, err := paramDocs(m.Params)
	if err != nil {
		return MethodDoc{}, err
	}
	tmpl, err := templateParamDocs(m.Template)
	if err != nil {
		return MethodDoc{}, err
	}
	d := MethodDoc{
		Name:   m.Name,
		Params: params,
		Vararg: m.Vararg,
		Access: m.Access.String(),

		Constructor: m.Constructor,
		Destructor:  m.Destructor,
		Operator:    m.Operator,

		Virtual:     m.Virtual,
		PureVirtual: m.PureVirtual,
		Override:    m.Override,
		Final:       m.Final,
		Static:      m.Static,
		Const:       m.Const,
		Volatile:    m.Volatile,
		Noexcept:    m.Noexcept,
		Deleted:     m.Deleted,
		Default:     m.Default,

		Extern:            m.Extern,
		TrailingReturn:    m.TrailingReturn,
		Constexpr:         m.Constexpr,
		Explicit:          m.Explicit,
		RefQualifier:      m.RefQualifier,
		Template:          tmpl,
		CallingConvention: m.CallingConvention,
		Throws:            m.Throws,
	}
	if m.Return != nil {
		if d.Return, err = typeDoc(m.Return); err != nil {
			return MethodDoc{}, err
		}
	}
	return d, nil
}

func paramDocs(params []cxx.Param) ([]ParamDoc, error) {
	var out []ParamDoc
	for _, p := range params {
		t, err := typeDoc(p.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, ParamDoc{Name: p.Name, Type: t, Default: p.Default.Text()})
	}
	return out, nil
}

func templateParamDocs(tp *cxx.TemplateParams) ([]TemplateParamDoc, error) {
	if tp == nil {
		return nil, nil
	}
	out := make([]TemplateParamDoc, 0, len(tp.Params))
	for _, p := range tp.Params {
		d := TemplateParamDoc{Name: p.Name, Default: p.Default.Text(), Pack: p.Pack}
		switch p.Kind {
		case cxx.TemplateValueParam:
			d.Kind = "value"
			t, err := typeDoc(p.Type)
			if err != nil {
				return nil, fmt.Errorf("template parameter %s: %w", p.Name, err)
			}
			d.Type = t
		case cxx.TemplateTemplateParam:
			d.Kind = "template"
		}
		out = append(out, d)
	}
	return out, nil
}

func typeDoc(t cxx.Type) (*TypeDoc, error) {
	switch t := t.(type) {
	case *cxx.Named:
		d := &TypeDoc{Key: t.Name.Key, Const: t.Const, Volatile: t.Volatile}
		if id, ok := t.Name.AnonymousID(); ok {
			d.Anonymous = id
			return d, nil
		}
		if plainSegments(t.Name) {
			d.Name = t.Name.String()
			return d, nil
		}
		for _, s := range t.Name.Segments {
			sd, err := segmentDoc(s)
			if err != nil {
				return nil, err
			}
			d.Segments = append(d.Segments, sd)
		}
		return d, nil
	case *cxx.Pointer:
		to, err := typeDoc(t.To)
		return &TypeDoc{Kind: "pointer", To: to, Const: t.Const}, err
	case *cxx.Reference:
		to, err := typeDoc(t.To)
		return &TypeDoc{Kind: "reference", To: to}, err
	case *cxx.RValueReference:
		to, err := typeDoc(t.To)
		return &TypeDoc{Kind: "rvalue_reference", To: to}, err
	case *cxx.Array:
		of, err := typeDoc(t.Of)
		return &TypeDoc{Kind: "array", To: of, Size: t.Size.Text()}, err
	case *cxx.FunctionType:
		ret, err := typeDoc(t.Return)
		if err != nil {
			return nil, err
		}
		params, err := paramDocs(t.Params)
		if err != nil {
			return nil, err
		}
		return &TypeDoc{Kind: "function", Return: ret, Params: params, Vararg: t.Vararg, Noexcept: t.Noexcept}, nil
	case nil:
		return nil, common.ErrMalformed("", "missing type")
	default:
		return nil, common.ErrMalformed("", fmt.Sprintf("unknown type variant %T", t))
	}
}

// plainSegments reports whether name round-trips through its "::" text:
// either one fundamental segment or only unspecialized name segments.
func plainSegments(name cxx.TypeName) bool {
	if len(name.Segments) == 1 {
		if _, ok := name.Segments[0].(*cxx.FundamentalSegment); ok {
			return true
		}
	}
	for _, s := range name.Segments {
		n, ok := s.(*cxx.NameSegment)
		if !ok || n.Args != nil {
			return false
		}
	}
	return len(name.Segments) > 0
}

func segmentDoc(s cxx.Segment) (SegmentDoc, error) {
	switch s := s.(type) {
	case *cxx.NameSegment:
		d := SegmentDoc{Name: s.Name, Specialized: s.Args != nil && len(s.Args) == 0}
		for _, a := range s.Args {
			ad := TemplateArgDoc{Value: a.Value.Text(), Pack: a.Pack}
			if a.Type != nil {
				t, err := typeDoc(a.Type)
				if err != nil {
					return SegmentDoc{}, err
				}
				ad.Type = t
			}
			d.Args = append(d.Args, ad)
		}
		return d, nil
	case *cxx.FundamentalSegment:
		return SegmentDoc{Name: s.Name, Fundamental: true}, nil
	case *cxx.AnonymousSegment:
		return SegmentDoc{Anonymous: s.ID}, nil
	default:
		return SegmentDoc{}, common.ErrMalformed("", fmt.Sprintf("unknown segment variant %T", s))
	}
}
