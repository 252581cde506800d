package dlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/cxx"
	htesting "github.com/Alia5/cpp2d/internal/testing"
)

func specialized(args ...cxx.TemplateArg) *cxx.Named {
	return &cxx.Named{Name: cxx.TypeName{Segments: []cxx.Segment{
		&cxx.NameSegment{Name: "std"},
		&cxx.NameSegment{Name: "array", Args: args},
	}}}
}

func TestTypeMapperMap(t *testing.T) {
	constChar := &cxx.Named{Name: cxx.Fundamental("char"), Const: true}

	tests := []struct {
		name string
		typ  cxx.Type
		opts TypeOptions
		want string
	}{
		{name: "fundamental", typ: cxx.FundamentalType("unsigned long long"), want: "ulong"},
		{name: "qualified", typ: cxx.NamedType("std::string"), want: "std_.string"},
		{name: "pointer to const", typ: &cxx.Pointer{To: constChar}, want: "const(char)*"},
		{name: "reference", typ: &cxx.Reference{To: cxx.FundamentalType("int")}, want: "ref int"},
		{name: "reference as field", typ: &cxx.Reference{To: cxx.FundamentalType("int")}, opts: TypeOptions{RefsToPointers: true}, want: "int*"},
		{name: "array", typ: &cxx.Array{Of: cxx.FundamentalType("int"), Size: cxx.Tokens{"4"}}, want: "int[4]"},
		{name: "array without size", typ: &cxx.Array{Of: cxx.FundamentalType("int")}, want: "int[0]"},
		{name: "array as parameter", typ: &cxx.Array{Of: cxx.FundamentalType("int"), Size: cxx.Tokens{"4"}}, opts: TypeOptions{ArraysToPointers: true}, want: "int*"},
		{name: "scoped array size", typ: &cxx.Array{Of: cxx.FundamentalType("int"), Size: cxx.Tokens{"Limits", "::", "Max"}}, want: "int[Limits.Max]"},
		{
			name: "function pointer",
			typ: &cxx.Pointer{To: &cxx.FunctionType{
				Return:   cxx.FundamentalType("int"),
				Params:   []cxx.Param{{Name: "fmt", Type: &cxx.Pointer{To: constChar}}},
				Vararg:   true,
				Noexcept: true,
			}},
			want: "int function(const(char)* fmt, ...) nothrow",
		},
		{
			name: "template arguments",
			typ:  specialized(cxx.TemplateArg{Type: cxx.FundamentalType("int")}, cxx.TemplateArg{Value: cxx.Tokens{"4"}}),
			want: "std_.array!(int, 4)",
		},
		{
			name: "reparsed template argument",
			typ:  specialized(cxx.TemplateArg{Value: cxx.Tokens{"Foo", "::", "Bar"}}),
			want: "std_.array!(Foo.Bar)",
		},
		{
			name: "empty specialization",
			typ:  &cxx.Named{Name: cxx.TypeName{Segments: []cxx.Segment{&cxx.NameSegment{Name: "Tag", Args: []cxx.TemplateArg{}}}}},
			want: "Tag!()",
		},
	}

	m := &TypeMapper{Reparser: htesting.Reparser{
		"Foo :: Bar tmp;": cxx.NamedType("Foo::Bar"),
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Map(tt.typ, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeMapperErrors(t *testing.T) {
	tests := []struct {
		name string
		typ  cxx.Type
		kind error
	}{
		{name: "rvalue reference", typ: &cxx.RValueReference{To: cxx.FundamentalType("int")}, kind: common.ErrKindUnsupported},
		{name: "bare function type", typ: &cxx.FunctionType{Return: cxx.FundamentalType("void")}, kind: common.ErrKindUnsupported},
		{name: "missing type", typ: nil, kind: common.ErrKindMalformed},
		{name: "anonymous reference", typ: &cxx.Named{Name: anonName(3)}, kind: common.ErrKindUnsupported},
		{name: "bad key", typ: &cxx.Named{Name: cxx.TypeName{Segments: []cxx.Segment{&cxx.NameSegment{Name: "A"}}, Key: "record"}}, kind: common.ErrKindMalformed},
		{name: "pack expansion", typ: specialized(cxx.TemplateArg{Type: cxx.NamedType("Ts"), Pack: true}), kind: common.ErrKindUnsupported},
		{name: "unresolved expression", typ: specialized(cxx.TemplateArg{Value: cxx.Tokens{"N", "+", "1"}}), kind: common.ErrKindTemplateArgument},
	}

	m := &TypeMapper{Reparser: htesting.Reparser{}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Map(tt.typ, TypeOptions{})
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestTypeMapperWithoutReparser(t *testing.T) {
	m := &TypeMapper{}
	got, err := m.Map(specialized(cxx.TemplateArg{Value: cxx.Tokens{"-", "1"}}, cxx.TemplateArg{Value: cxx.Tokens{"true"}}), TypeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "std_.array!(-1, true)", got)

	_, err = m.Map(specialized(cxx.TemplateArg{Value: cxx.Tokens{"Size"}}), TypeOptions{})
	assert.ErrorIs(t, err, common.ErrKindTemplateArgument)
}

func TestMapParams(t *testing.T) {
	m := &TypeMapper{}
	got, err := m.MapParams([]cxx.Param{
		{Name: "out", Type: &cxx.Array{Of: cxx.FundamentalType("char"), Size: cxx.Tokens{"16"}}},
		{Name: "len", Type: cxx.NamedType("size_t")},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "char* out_, size_t len, ...", got)
}
