package dlang

import (
	"fmt"
	"strings"

	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/cxx"
)

// Reparser recovers the type of a template value argument the front-end
// could not resolve. It parses a variable declaration such as
// "std::array<int, 4> tmp;" and returns the variable's type.
type Reparser interface {
	ParseVariableType(decl string) (cxx.Type, error)
}

// TypeOptions control the two decays applied to type expressions.
type TypeOptions struct {
	// ArraysToPointers decays T[N] to T*, as C++ does for parameters.
	ArraysToPointers bool
	// RefsToPointers turns T& into T*, used for fields.
	RefsToPointers bool
}

// TypeMapper rewrites C++ type expressions into D.
type TypeMapper struct {
	Reparser Reparser
}

// Map returns the D spelling of t. Errors carry no declaration identity;
// callers attach it with common.WithDecl.
func (m *TypeMapper) Map(t cxx.Type, o TypeOptions) (string, error) {
	switch t := t.(type) {
	case *cxx.Pointer:
		if fn, ok := t.To.(*cxx.FunctionType); ok {
			return m.mapFunctionPointer(fn)
		}
		to, err := m.Map(t.To, TypeOptions{})
		if err != nil {
			return "", err
		}
		return to + "*", nil
	case *cxx.Reference:
		to, err := m.Map(t.To, TypeOptions{})
		if err != nil {
			return "", err
		}
		if o.RefsToPointers {
			return to + "*", nil
		}
		return "ref " + to, nil
	case *cxx.RValueReference:
		return "", common.ErrUnsupported("", "rvalue reference "+cxx.TypeString(t))
	case *cxx.Array:
		of, err := m.Map(t.Of, TypeOptions{})
		if err != nil {
			return "", err
		}
		if o.ArraysToPointers {
			return of + "*", nil
		}
		size := Tokens(t.Size)
		if size == "" {
			size = "0"
		}
		return of + "[" + size + "]", nil
	case *cxx.Named:
		return m.mapNamed(t)
	case *cxx.FunctionType:
		return "", common.ErrUnsupported("", "function type outside a pointer "+cxx.TypeString(t))
	case nil:
		return "", common.ErrMalformed("", "missing type")
	default:
		return "", common.ErrMalformed("", fmt.Sprintf("unknown type node %T", t))
	}
}

func (m *TypeMapper) mapFunctionPointer(fn *cxx.FunctionType) (string, error) {
	ret, err := m.Map(fn.Return, TypeOptions{})
	if err != nil {
		return "", err
	}
	params, err := m.MapParams(fn.Params, fn.Vararg)
	if err != nil {
		return "", err
	}
	s := ret + " function(" + params + ")"
	if fn.Noexcept {
		s += " nothrow"
	}
	return s, nil
}

// MapParam renders one parameter. Arrays decay to pointers.
func (m *TypeMapper) MapParam(p cxx.Param) (string, error) {
	s, err := m.Map(p.Type, TypeOptions{ArraysToPointers: true})
	if err != nil {
		return "", err
	}
	if p.Name != "" {
		s += " " + common.SafeIdentifier(p.Name)
	}
	return s, nil
}

// MapParams renders a comma separated parameter list, with a trailing
// ", ..." for C varargs.
func (m *TypeMapper) MapParams(params []cxx.Param, vararg bool) (string, error) {
	parts := make([]string, 0, len(params)+1)
	for _, p := range params {
		s, err := m.MapParam(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if vararg {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", "), nil
}

var allowedTypeKeys = map[string]bool{
	"": true, "class": true, "struct": true, "union": true,
	"enum": true, "enum class": true, "typename": true,
}

// D has no volatile; the qualifier is dropped.
func (m *TypeMapper) mapNamed(t *cxx.Named) (string, error) {
	if !allowedTypeKeys[t.Name.Key] {
		return "", common.ErrMalformed("", "unexpected type key "+t.Name.Key)
	}
	name, err := m.MapTypeName(t.Name)
	if err != nil {
		return "", err
	}
	if t.Const {
		return "const(" + name + ")", nil
	}
	return name, nil
}

// MapTypeName maps every segment through the name mapper and joins them
// with D's member access separator.
func (m *TypeMapper) MapTypeName(n cxx.TypeName) (string, error) {
	if len(n.Segments) == 0 {
		return "", common.ErrMalformed("", "empty type name")
	}
	parts := make([]string, 0, len(n.Segments))
	for _, seg := range n.Segments {
		s, err := m.mapSegment(seg)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "."), nil
}

func (m *TypeMapper) mapSegment(seg cxx.Segment) (string, error) {
	switch s := seg.(type) {
	case *cxx.NameSegment:
		name := common.MapSegmentName(s.Name)
		if s.Args == nil {
			return name, nil
		}
		args := make([]string, 0, len(s.Args))
		for _, a := range s.Args {
			arg, err := m.mapTemplateArg(a)
			if err != nil {
				return "", err
			}
			args = append(args, arg)
		}
		return name + "!(" + strings.Join(args, ", ") + ")", nil
	case *cxx.FundamentalSegment:
		return common.MapSegmentName(s.Name), nil
	case *cxx.AnonymousSegment:
		return "", common.ErrUnsupported("", "reference to an anonymous type")
	default:
		return "", common.ErrMalformed("", fmt.Sprintf("unknown name segment %T", seg))
	}
}

func (m *TypeMapper) mapTemplateArg(a cxx.TemplateArg) (string, error) {
	if a.Pack {
		return "", common.ErrUnsupported("", "template parameter pack expansion")
	}
	if a.Type != nil {
		return m.Map(a.Type, TypeOptions{})
	}
	if len(a.Value) == 0 {
		return "", common.ErrMalformed("", "empty template argument")
	}

	// The front-end gives up on anything but simple argument expressions and
	// hands over the raw tokens. Declaring a variable of that spelling and
	// reading its type back recovers most of them.
	decl := a.Value.Spaced() + " tmp;"
	var reparseErr error
	if m.Reparser != nil {
		t, err := m.Reparser.ParseVariableType(decl)
		if err == nil {
			return m.Map(t, TypeOptions{})
		}
		reparseErr = err
	} else {
		reparseErr = fmt.Errorf("no parser available")
	}
	if isLiteral(a.Value) {
		return Tokens(a.Value), nil
	}
	return "", common.ErrTemplateArgument("", a.Value.Spaced(), reparseErr)
}

// isLiteral accepts a single, optionally negated, number, character,
// string or boolean literal.
func isLiteral(toks cxx.Tokens) bool {
	if len(toks) == 2 && toks[0] == "-" {
		toks = toks[1:]
	}
	if len(toks) != 1 {
		return false
	}
	tok := toks[0]
	switch {
	case tok == "true" || tok == "false":
		return true
	case tok[0] >= '0' && tok[0] <= '9':
		return true
	case tok[0] == '\'' || tok[0] == '"':
		return true
	}
	return false
}

// Tokens renders C++ expression tokens as D, rewriting "::" to ".".
func Tokens(toks cxx.Tokens) string {
	out := make(cxx.Tokens, len(toks))
	for i, t := range toks {
		if t == "::" {
			t = "."
		}
		out[i] = t
	}
	return out.Text()
}
