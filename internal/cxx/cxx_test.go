package cxx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want Tokens
	}{
		{in: "1 << 2", want: Tokens{"1", "<<", "2"}},
		{in: "x<<=1", want: Tokens{"x", "<<=", "1"}},
		{in: "ns::Value", want: Tokens{"ns", "::", "Value"}},
		{in: "1.5e-3f", want: Tokens{"1.5e-3f"}},
		{in: `'a' + "b c"`, want: Tokens{"'a'", "+", `"b c"`}},
		{in: "sizeof(int) * 4", want: Tokens{"sizeof", "(", "int", ")", "*", "4"}},
		{in: "   ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestTokensText(t *testing.T) {
	assert.Equal(t, "sizeof(int)*4", Tokenize("sizeof ( int ) * 4").Text())
	assert.Equal(t, "unsigned long", Tokens{"unsigned", "long"}.Text())
	assert.Equal(t, "ns::Value", Tokens{"ns", "::", "Value"}.Text())
	assert.Equal(t, "1 << 2", Tokens{"1", "<<", "2"}.Spaced())
}

func TestIsFundamental(t *testing.T) {
	assert.True(t, IsFundamental("int"))
	assert.True(t, IsFundamental("unsigned  long long"))
	assert.False(t, IsFundamental(""))
	assert.False(t, IsFundamental("size_t"))
	assert.False(t, IsFundamental("int foo"))
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{name: "named", typ: NamedType("ns::Foo"), want: "ns::Foo"},
		{name: "pointer to const", typ: &Pointer{To: &Named{Name: Fundamental("char"), Const: true}}, want: "const char *"},
		{name: "const pointer", typ: &Pointer{To: FundamentalType("int"), Const: true}, want: "int * const"},
		{name: "reference", typ: &Reference{To: FundamentalType("int")}, want: "int &"},
		{name: "array", typ: &Array{Of: FundamentalType("int"), Size: Tokens{"4"}}, want: "int [4]"},
		{
			name: "function pointer",
			typ: &Pointer{To: &FunctionType{
				Return: FundamentalType("void"),
				Params: []Param{{Type: FundamentalType("int")}},
				Vararg: true,
			}},
			want: "void (*)(int, ...)",
		},
		{
			name: "template",
			typ: &Named{Name: TypeName{Segments: []Segment{
				&NameSegment{Name: "std"},
				&NameSegment{Name: "array", Args: []TemplateArg{
					{Type: FundamentalType("int")},
					{Value: Tokens{"4"}},
				}},
			}}},
			want: "std::array<int, 4>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeString(tt.typ))
		})
	}
}

func TestTypeName(t *testing.T) {
	n := NewTypeName("outer::Inner")
	assert.Equal(t, "Inner", n.Last())
	assert.Equal(t, "outer::Inner", n.String())
	assert.False(t, n.IsAnonymous())

	anon := TypeName{Segments: []Segment{&AnonymousSegment{ID: 7}}}
	id, ok := anon.AnonymousID()
	assert.True(t, ok)
	assert.Equal(t, 7, id)
	assert.Equal(t, "", anon.Last())
}

func TestMethodPredicates(t *testing.T) {
	m := &Method{Name: "Move", Params: []Param{{Type: &RValueReference{To: NamedType("Foo")}}}}
	assert.True(t, m.HasRValueParam())
	assert.False(t, m.IsDispatching())

	m = &Method{Name: "Area", Override: true}
	assert.False(t, m.IsVirtual())
	assert.True(t, m.IsDispatching())
}

func TestParseClassKey(t *testing.T) {
	k, ok := ParseClassKey("union")
	assert.True(t, ok)
	assert.Equal(t, KeyUnion, k)
	_, ok = ParseClassKey("record")
	assert.False(t, ok)
	assert.Equal(t, AccessProtected, ParseAccess("protected"))
	assert.Equal(t, AccessNone, ParseAccess("friend"))
}
