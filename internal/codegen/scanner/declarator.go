package scanner

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Alia5/cpp2d/internal/cxx"
)

// funcDecl is a function declarator applied directly to a name, i.e. a
// function or method declaration rather than a function pointer.
type funcDecl struct {
	name   string
	params []cxx.Param
	ret    cxx.Type
	vararg bool

	constQ, volatileQ bool
	noexcept, throws  bool
	override, final   bool
	trailing          bool
	refQ              string
}

func (f *funcDecl) functionType() *cxx.FunctionType {
	return &cxx.FunctionType{Return: f.ret, Params: f.params, Vararg: f.vararg, Noexcept: f.noexcept}
}

var declaratorNames = map[string]bool{
	"identifier":           true,
	"field_identifier":     true,
	"type_identifier":      true,
	"destructor_name":      true,
	"operator_name":        true,
	"qualified_identifier": true,
	"template_function":    true,
	"template_method":      true,
}

// declarator wraps base in the pointer, reference, array and function
// layers of n and returns the declared name. C declarators read inside out,
// so the outermost node is applied to base first. fn is set when the
// declarator declares a function.
func (w *walker) declarator(n *sitter.Node, base cxx.Type) (name string, t cxx.Type, fn *funcDecl, err error) {
	if n == nil {
		return "", base, nil, nil
	}
	switch typ := n.Type(); {
	case declaratorNames[typ]:
		return w.declName(n), base, nil, nil

	case typ == "init_declarator", typ == "attributed_declarator":
		inner := n.ChildByFieldName("declarator")
		if inner == nil && n.NamedChildCount() > 0 {
			inner = n.NamedChild(0)
		}
		return w.declarator(inner, base)

	case typ == "parenthesized_declarator", typ == "abstract_parenthesized_declarator":
		return w.declarator(firstNamed(n), base)

	case typ == "variadic_declarator":
		return w.text(firstNamed(n)), base, nil, nil

	case typ == "pointer_declarator", typ == "abstract_pointer_declarator":
		p := &cxx.Pointer{To: base}
		for _, c := range children(n) {
			if c.Type() == "type_qualifier" && w.text(c) == "const" {
				p.Const = true
			}
		}
		return w.declarator(n.ChildByFieldName("declarator"), p)

	case typ == "reference_declarator", typ == "abstract_reference_declarator":
		var ref cxx.Type = &cxx.Reference{To: base}
		if n.ChildCount() > 0 && n.Child(0).Type() == "&&" {
			ref = &cxx.RValueReference{To: base}
		}
		return w.declarator(firstNamed(n), ref)

	case typ == "array_declarator", typ == "abstract_array_declarator":
		arr := &cxx.Array{Of: base}
		if size := n.ChildByFieldName("size"); size != nil {
			arr.Size = cxx.Tokenize(w.text(size))
		}
		return w.declarator(n.ChildByFieldName("declarator"), arr)

	case typ == "function_declarator", typ == "abstract_function_declarator":
		f, err := w.function(n, base)
		if err != nil {
			return "", nil, nil, err
		}
		inner := n.ChildByFieldName("declarator")
		if inner != nil && declaratorNames[inner.Type()] {
			f.name = w.declName(inner)
			return f.name, nil, f, nil
		}
		return w.declarator(inner, f.functionType())

	case typ == "operator_cast":
		target, err := w.typeDescriptor(n.ChildByFieldName("type"))
		if err != nil {
			return "", nil, nil, err
		}
		f := &funcDecl{ret: target}
		if fnNode := findDescendant(n, "abstract_function_declarator"); fnNode != nil {
			if f, err = w.function(fnNode, target); err != nil {
				return "", nil, nil, err
			}
		}
		f.name = "operator " + strings.Join(strings.Fields(w.text(n.ChildByFieldName("type"))), " ")
		return f.name, nil, f, nil
	}
	return "", nil, nil, fmt.Errorf("unsupported declarator %s: %q", n.Type(), w.text(n))
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

func findDescendant(n *sitter.Node, typ string) *sitter.Node {
	for _, c := range children(n) {
		if c.Type() == typ {
			return c
		}
		if d := findDescendant(c, typ); d != nil {
			return d
		}
	}
	return nil
}

// declName normalizes operator and destructor spellings: "operator []"
// becomes "operator[]" and "~ Foo" becomes "~Foo".
func (w *walker) declName(n *sitter.Node) string {
	text := w.text(n)
	switch n.Type() {
	case "destructor_name":
		return strings.Join(strings.Fields(text), "")
	case "operator_name":
		rest := strings.TrimSpace(strings.TrimPrefix(text, "operator"))
		if rest != "" && (rest[0] == '_' || (rest[0] >= 'a' && rest[0] <= 'z')) {
			return "operator " + strings.Join(strings.Fields(rest), " ")
		}
		return "operator" + strings.Join(strings.Fields(rest), "")
	}
	return text
}

func (w *walker) function(n *sitter.Node, ret cxx.Type) (*funcDecl, error) {
	f := &funcDecl{ret: ret}
	params, vararg, err := w.params(n.ChildByFieldName("parameters"))
	if err != nil {
		return nil, err
	}
	f.params, f.vararg = params, vararg

	for _, c := range children(n) {
		switch c.Type() {
		case "type_qualifier":
			switch w.text(c) {
			case "const":
				f.constQ = true
			case "volatile":
				f.volatileQ = true
			}
		case "ref_qualifier":
			f.refQ = w.text(c)
		case "virtual_specifier":
			switch w.text(c) {
			case "override":
				f.override = true
			case "final":
				f.final = true
			}
		case "noexcept":
			f.noexcept = !strings.Contains(w.text(c), "false")
		case "throw_specifier":
			f.throws = true
		case "trailing_return_type":
			f.trailing = true
			rt, err := w.typeDescriptor(firstNamed(c))
			if err != nil {
				return nil, err
			}
			f.ret = rt
		}
	}
	return f, nil
}

func (w *walker) params(n *sitter.Node) ([]cxx.Param, bool, error) {
	if n == nil {
		return nil, false, nil
	}
	var (
		out    []cxx.Param
		vararg bool
	)
	for _, c := range children(n) {
		switch c.Type() {
		case "parameter_declaration", "optional_parameter_declaration":
			base, err := w.baseType(c.ChildByFieldName("type"))
			if err != nil {
				return nil, false, err
			}
			applyQualifiers(w, c, base)
			name, t, fn, err := w.declarator(c.ChildByFieldName("declarator"), base)
			if err != nil {
				return nil, false, err
			}
			if fn != nil {
				// A parameter of function type is adjusted to a pointer.
				name, t = fn.name, &cxx.Pointer{To: fn.functionType()}
			}
			p := cxx.Param{Name: name, Type: t}
			if dv := c.ChildByFieldName("default_value"); dv != nil {
				p.Default = cxx.Tokenize(w.text(dv))
			}
			out = append(out, p)
		case "...", "variadic_parameter", "variadic_parameter_declaration":
			vararg = true
		}
	}

	// (void) is an empty parameter list.
	if len(out) == 1 && out[0].Name == "" {
		if named, ok := out[0].Type.(*cxx.Named); ok && !named.Const && named.Name.String() == "void" {
			out = nil
		}
	}
	return out, vararg, nil
}

// baseType converts a type specifier node without declarators.
func (w *walker) baseType(n *sitter.Node) (cxx.Type, error) {
	if n == nil {
		return nil, fmt.Errorf("missing type specifier")
	}
	switch n.Type() {
	case "primitive_type", "sized_type_specifier":
		return cxx.FundamentalType(strings.Join(strings.Fields(w.text(n)), " ")), nil

	case "type_identifier", "qualified_type_identifier", "qualified_identifier",
		"template_type", "namespace_identifier", "identifier":
		name, err := w.typeName(n)
		if err != nil {
			return nil, err
		}
		return &cxx.Named{Name: name}, nil

	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return nil, fmt.Errorf("unnamed %s without a body", n.Type())
		}
		name, err := w.typeName(nameNode)
		if err != nil {
			return nil, err
		}
		name.Key = elaboratedKey(n)
		return &cxx.Named{Name: name}, nil

	case "dependent_type":
		t, err := w.baseType(firstNamed(n))
		if err != nil {
			return nil, err
		}
		if named, ok := t.(*cxx.Named); ok {
			named.Name.Key = "typename"
		}
		return t, nil

	case "type_descriptor":
		return w.typeDescriptor(n)
	}
	return nil, fmt.Errorf("unsupported type specifier %s: %q", n.Type(), w.text(n))
}

func elaboratedKey(n *sitter.Node) string {
	switch n.Type() {
	case "class_specifier":
		return "class"
	case "union_specifier":
		return "union"
	case "enum_specifier":
		for _, c := range children(n) {
			if t := c.Type(); t == "class" || t == "struct" {
				return "enum class"
			}
		}
		return "enum"
	default:
		return "struct"
	}
}

func (w *walker) typeName(n *sitter.Node) (cxx.TypeName, error) {
	switch n.Type() {
	case "qualified_type_identifier", "qualified_identifier":
		var segs []cxx.Segment
		if scope := n.ChildByFieldName("scope"); scope != nil {
			s, err := w.typeName(scope)
			if err != nil {
				return cxx.TypeName{}, err
			}
			segs = append(segs, s.Segments...)
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return cxx.TypeName{}, fmt.Errorf("qualified name without a name: %q", w.text(n))
		}
		rest, err := w.typeName(nameNode)
		if err != nil {
			return cxx.TypeName{}, err
		}
		return cxx.TypeName{Segments: append(segs, rest.Segments...)}, nil

	case "template_type", "template_function", "template_method":
		args, err := w.templateArgs(n.ChildByFieldName("arguments"))
		if err != nil {
			return cxx.TypeName{}, err
		}
		if args == nil {
			args = []cxx.TemplateArg{}
		}
		seg := &cxx.NameSegment{Name: w.text(n.ChildByFieldName("name")), Args: args}
		return cxx.TypeName{Segments: []cxx.Segment{seg}}, nil

	case "primitive_type", "sized_type_specifier":
		return cxx.Fundamental(strings.Join(strings.Fields(w.text(n)), " ")), nil
	}
	return cxx.TypeName{Segments: []cxx.Segment{&cxx.NameSegment{Name: w.text(n)}}}, nil
}

func (w *walker) templateArgs(n *sitter.Node) ([]cxx.TemplateArg, error) {
	if n == nil {
		return nil, nil
	}
	var out []cxx.TemplateArg
	for _, c := range children(n) {
		switch {
		case c.Type() == "...":
			if len(out) > 0 {
				out[len(out)-1].Pack = true
			}
		case c.Type() == "type_descriptor":
			t, err := w.typeDescriptor(c)
			if err != nil {
				return nil, err
			}
			out = append(out, cxx.TemplateArg{Type: t})
		case c.IsNamed() && c.Type() != "comment":
			out = append(out, cxx.TemplateArg{Value: cxx.Tokenize(w.text(c))})
		}
	}
	return out, nil
}

func (w *walker) typeDescriptor(n *sitter.Node) (cxx.Type, error) {
	if n == nil {
		return nil, fmt.Errorf("missing type")
	}
	if n.Type() != "type_descriptor" {
		return w.baseType(n)
	}
	base, err := w.baseType(n.ChildByFieldName("type"))
	if err != nil {
		return nil, err
	}
	applyQualifiers(w, n, base)
	_, t, fn, err := w.declarator(n.ChildByFieldName("declarator"), base)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		return fn.functionType(), nil
	}
	return t, nil
}

func (w *walker) templateParams(n *sitter.Node) (*cxx.TemplateParams, error) {
	tp := &cxx.TemplateParams{}
	if n == nil {
		return tp, nil
	}
	for _, c := range children(n) {
		var p cxx.TemplateParam
		switch c.Type() {
		case "type_parameter_declaration", "variadic_type_parameter_declaration":
			p = cxx.TemplateParam{
				Name: w.text(lastOfType(c, "type_identifier")),
				Kind: cxx.TemplateTypeParam,
				Pack: c.Type() == "variadic_type_parameter_declaration",
			}
		case "optional_type_parameter_declaration":
			p = cxx.TemplateParam{Name: w.text(c.ChildByFieldName("name")), Kind: cxx.TemplateTypeParam}
			if d := c.ChildByFieldName("default_type"); d != nil {
				p.Default = cxx.Tokenize(w.text(d))
			}
		case "template_template_parameter_declaration":
			p = cxx.TemplateParam{Kind: cxx.TemplateTemplateParam}
			for _, inner := range children(c) {
				if strings.HasSuffix(inner.Type(), "type_parameter_declaration") {
					p.Name = w.text(lastOfType(inner, "type_identifier"))
					if d := inner.ChildByFieldName("name"); d != nil {
						p.Name = w.text(d)
					}
				}
			}
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
			base, err := w.baseType(c.ChildByFieldName("type"))
			if err != nil {
				return nil, err
			}
			applyQualifiers(w, c, base)
			name, t, _, err := w.declarator(c.ChildByFieldName("declarator"), base)
			if err != nil {
				return nil, err
			}
			p = cxx.TemplateParam{
				Name: name,
				Kind: cxx.TemplateValueParam,
				Type: t,
				Pack: c.Type() == "variadic_parameter_declaration",
			}
			if dv := c.ChildByFieldName("default_value"); dv != nil {
				p.Default = cxx.Tokenize(w.text(dv))
			}
		default:
			continue
		}
		tp.Params = append(tp.Params, p)
	}
	return tp, nil
}

func lastOfType(n *sitter.Node, typ string) *sitter.Node {
	var last *sitter.Node
	for _, c := range children(n) {
		if c.Type() == typ {
			last = c
		}
	}
	return last
}
