package cxx

import "strings"

// Type is a C++ type expression. The set of variants is closed:
// *Named, *Pointer, *Reference, *RValueReference, *Array and *FunctionType.
type Type interface {
	isType()
}

// Named is a (possibly qualified, possibly const) named or fundamental type.
type Named struct {
	Name     TypeName
	Const    bool
	Volatile bool
}

// Pointer is `To*`. A pointer to a *FunctionType is a function pointer.
type Pointer struct {
	To    Type
	Const bool
}

// Reference is `To&`.
type Reference struct {
	To Type
}

// RValueReference is `To&&`.
type RValueReference struct {
	To Type
}

// Array is `Of[Size]`. Size holds the size expression tokens as written.
type Array struct {
	Of   Type
	Size Tokens
}

// FunctionType is the pointee of a function pointer.
type FunctionType struct {
	Return   Type
	Params   []Param
	Vararg   bool
	Noexcept bool
}

func (*Named) isType()           {}
func (*Pointer) isType()         {}
func (*Reference) isType()       {}
func (*RValueReference) isType() {}
func (*Array) isType()           {}
func (*FunctionType) isType()    {}

// NamedType is a shorthand for a plain named type.
func NamedType(qualified string) *Named {
	return &Named{Name: NewTypeName(qualified)}
}

// FundamentalType is a shorthand for a builtin type.
func FundamentalType(name string) *Named {
	return &Named{Name: Fundamental(name)}
}

// TypeString renders t as C++ source text. Used for diagnostics and for
// re-parsing; it is not the emitted target syntax.
func TypeString(t Type) string {
	var b strings.Builder
	writeType(&b, t, "")
	return b.String()
}

func writeType(b *strings.Builder, t Type, inner string) {
	switch t := t.(type) {
	case *Named:
		if t.Const {
			b.WriteString("const ")
		}
		if t.Volatile {
			b.WriteString("volatile ")
		}
		b.WriteString(t.Name.String())
		if inner != "" {
			b.WriteString(" " + inner)
		}
	case *Pointer:
		s := "*" + inner
		if t.Const {
			s = "* const" + prefixSpace(inner)
		}
		if _, ok := t.To.(*FunctionType); ok {
			s = "(" + s + ")"
		}
		writeType(b, t.To, s)
	case *Reference:
		writeType(b, t.To, "&"+inner)
	case *RValueReference:
		writeType(b, t.To, "&&"+inner)
	case *Array:
		writeType(b, t.Of, inner+"["+t.Size.Text()+"]")
	case *FunctionType:
		params := make([]string, 0, len(t.Params)+1)
		for _, p := range t.Params {
			s := TypeString(p.Type)
			if p.Name != "" {
				s += " " + p.Name
			}
			params = append(params, s)
		}
		if t.Vararg {
			params = append(params, "...")
		}
		writeType(b, t.Return, inner+"("+strings.Join(params, ", ")+")")
	case nil:
		b.WriteString("<nil>")
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
