package dlang

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/cxx"
	"github.com/Alia5/cpp2d/internal/log"
)

func translate(t *testing.T, ns *cxx.Namespace, opts Options) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := New(log.Discard(), nil, nil, opts).Translate(ns, &out)
	return out.String(), err
}

func mustTranslate(t *testing.T, ns *cxx.Namespace, opts Options) string {
	t.Helper()
	out, err := translate(t, ns, opts)
	require.NoError(t, err)
	return out
}

func intField(name string) *cxx.Field {
	return &cxx.Field{Name: name, Type: cxx.FundamentalType("int"), Access: cxx.AccessPublic}
}

func anonName(id int) cxx.TypeName {
	return cxx.TypeName{Segments: []cxx.Segment{&cxx.AnonymousSegment{ID: id}}}
}

func constRef(name string) *cxx.Reference {
	return &cxx.Reference{To: &cxx.Named{Name: cxx.NewTypeName(name), Const: true}}
}

func pointClass() *cxx.Class {
	return &cxx.Class{
		Name:   cxx.NewTypeName("Point"),
		Key:    cxx.KeyStruct,
		Fields: []*cxx.Field{intField("x"), intField("y")},
	}
}

func shapeClasses() []*cxx.Class {
	shape := &cxx.Class{
		Name: cxx.NewTypeName("Shape"),
		Key:  cxx.KeyClass,
		Methods: []*cxx.Method{
			{Name: "~Shape", Destructor: true, Virtual: true, Access: cxx.AccessPublic},
			{Name: "Area", PureVirtual: true, Const: true, Return: cxx.FundamentalType("double"), Access: cxx.AccessPublic},
		},
	}
	circle := &cxx.Class{
		Name:  cxx.NewTypeName("Circle"),
		Key:   cxx.KeyClass,
		Bases: []cxx.Base{{Name: cxx.NewTypeName("Shape"), Access: cxx.AccessPublic}},
		Fields: []*cxx.Field{
			{Name: "radius", Type: cxx.FundamentalType("double"), Access: cxx.AccessPrivate},
		},
		Methods: []*cxx.Method{
			{
				Name:        "Circle",
				Constructor: true,
				Params:      []cxx.Param{{Name: "r", Type: cxx.FundamentalType("double")}},
				Access:      cxx.AccessPublic,
			},
			{Name: "Area", Override: true, Const: true, Return: cxx.FundamentalType("double"), Access: cxx.AccessPublic},
			{Name: "Grow", Return: cxx.FundamentalType("void"), Access: cxx.AccessPrivate},
		},
	}
	return []*cxx.Class{shape, circle}
}

func TestTranslateValueStruct(t *testing.T) {
	out := mustTranslate(t, &cxx.Namespace{Classes: []*cxx.Class{pointClass()}}, Options{})
	assert.Equal(t, "extern(C++, struct) struct Point {\n  int x;\n  int y;\n}\n", out)
}

func TestTranslateInterfaceAndDerivedClass(t *testing.T) {
	out := mustTranslate(t, &cxx.Namespace{Classes: shapeClasses()}, Options{})

	want := `extern(C++, class) interface Shape {
  abstract double Area() const;
}

extern(C++, class) class Circle : Shape {
  double radius;
  this(double r);
  override double Area() const;
}
`
	assert.Equal(t, want, out)
}

func TestTranslateLayoutOnly(t *testing.T) {
	out := mustTranslate(t, &cxx.Namespace{Classes: shapeClasses()}, Options{LayoutOnly: true})
	assert.NotContains(t, out, "this(")
	assert.NotContains(t, out, "Area")
	assert.Contains(t, out, "extern(C++, class) class Circle : Shape {\n  double radius;\n}\n")
}

func shadowingClasses() []*cxx.Class {
	base := &cxx.Class{
		Name: cxx.NewTypeName("Base"),
		Key:  cxx.KeyClass,
		Methods: []*cxx.Method{
			{Name: "Run", Virtual: true, Return: cxx.FundamentalType("void"), Access: cxx.AccessPublic},
			{Name: "Reset", Return: cxx.FundamentalType("void"), Access: cxx.AccessPublic},
		},
	}
	derived := &cxx.Class{
		Name:  cxx.NewTypeName("Derived"),
		Key:   cxx.KeyClass,
		Bases: []cxx.Base{{Name: cxx.NewTypeName("Base"), Access: cxx.AccessPublic}},
		Methods: []*cxx.Method{
			{Name: "Reset", Return: cxx.FundamentalType("void"), Access: cxx.AccessPublic},
		},
	}
	return []*cxx.Class{base, derived}
}

func TestTranslateShadowedMethod(t *testing.T) {
	out := mustTranslate(t, &cxx.Namespace{Classes: shadowingClasses()}, Options{})

	want := `extern(C++, class) class Base {
  void Run();
  final void Reset();
}

extern(C++, class) class Derived : Base {
  pragma(mangle, fixMangle!(Reset__Derived, "Reset"))
  final void Reset__Derived();
  alias Reset = Reset__Derived;
}
`
	assert.Equal(t, want, out)
}

func TestTranslateMangleHelperOption(t *testing.T) {
	out := mustTranslate(t, &cxx.Namespace{Classes: shadowingClasses()}, Options{MangleHelper: "cppMangleOf"})
	assert.Contains(t, out, `pragma(mangle, cppMangleOf!(Reset__Derived, "Reset"))`)
}

func TestTranslateOperators(t *testing.T) {
	vec := &cxx.Class{
		Name:   cxx.NewTypeName("Vec"),
		Key:    cxx.KeyStruct,
		Fields: []*cxx.Field{{Name: "x", Type: cxx.FundamentalType("float"), Access: cxx.AccessPublic}},
		Methods: []*cxx.Method{
			{
				Name:     "operator+=",
				Operator: true,
				Params:   []cxx.Param{{Name: "o", Type: constRef("Vec")}},
				Return:   &cxx.Reference{To: cxx.NamedType("Vec")},
				Access:   cxx.AccessPublic,
			},
			{
				Name:     "operator==",
				Operator: true,
				Const:    true,
				Params:   []cxx.Param{{Name: "o", Type: constRef("Vec")}},
				Return:   cxx.FundamentalType("bool"),
				Access:   cxx.AccessPublic,
			},
			{
				Name:     "operator!=",
				Operator: true,
				Const:    true,
				Params:   []cxx.Param{{Name: "o", Type: constRef("Vec")}},
				Return:   cxx.FundamentalType("bool"),
				Access:   cxx.AccessPublic,
			},
			{
				Name:     "operator-",
				Operator: true,
				Const:    true,
				Return:   cxx.NamedType("Vec"),
				Access:   cxx.AccessPublic,
			},
			{
				Name:     "operator[]",
				Operator: true,
				Params:   []cxx.Param{{Name: "i", Type: cxx.FundamentalType("int")}},
				Return:   &cxx.Reference{To: cxx.FundamentalType("float")},
				Access:   cxx.AccessPublic,
			},
			{
				Name:     "operator bool",
				Operator: true,
				Const:    true,
				Return:   cxx.FundamentalType("bool"),
				Access:   cxx.AccessPublic,
			},
		},
	}
	out := mustTranslate(t, &cxx.Namespace{Classes: []*cxx.Class{vec}}, Options{})

	want := `extern(C++, struct) struct Vec {
  float x;
  final ref Vec opOpAssign(string op : "+")(ref const(Vec) o);
  final bool opEquals(ref const(Vec) o) const;
  final Vec opUnary(string op : "-")() const;
  final ref float opIndex(int i);
}
`
	assert.Equal(t, want, out)
}

func TestMapOperator(t *testing.T) {
	tests := []struct {
		name     string
		params   int
		want     string
		wantSkip bool
		wantErr  bool
	}{
		{name: "operator()", want: "opCall"},
		{name: "operator <<=", params: 1, want: `opOpAssign(string op : "<<")`},
		{name: "operator*", params: 1, want: `opBinary(string op : "*")`},
		{name: "operator*", want: `opUnary(string op : "*")`},
		{name: "operator=", params: 1, wantSkip: true},
		{name: "operator++", wantSkip: true},
		{name: "operator--", wantSkip: true},
		{name: "operator!=", params: 1, wantSkip: true},
		{name: "operator<", params: 1, wantSkip: true},
		{name: "operator<=", params: 1, wantSkip: true},
		{name: "operator>", params: 1, wantSkip: true},
		{name: "operator>=", params: 1, wantSkip: true},
		{name: "operator int", wantSkip: true},
		{name: "operator&&", params: 1, wantErr: true},
		{name: "operator new", params: 1, wantErr: true},
		{name: "Area", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &cxx.Method{Name: tt.name, Operator: true}
			for i := 0; i < tt.params; i++ {
				m.Params = append(m.Params, cxx.Param{Type: cxx.FundamentalType("int")})
			}
			got, skip, err := MapOperator(m)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantSkip {
				assert.NotEmpty(t, skip)
				return
			}
			assert.Empty(t, skip)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateNamespaceScope(t *testing.T) {
	ns := &cxx.Namespace{
		Aliases: []*cxx.TypeAlias{
			{Name: "Callback", Type: &cxx.Pointer{To: &cxx.FunctionType{
				Return: cxx.FundamentalType("void"),
				Params: []cxx.Param{{Type: cxx.FundamentalType("int")}},
			}}},
		},
		Typedefs: []*cxx.Typedef{
			{Name: "uint_t", Type: cxx.FundamentalType("unsigned int")},
		},
		Enums: []*cxx.Enum{
			{
				Name:   cxx.NewTypeName("Color"),
				Base:   &cxx.TypeName{Segments: []cxx.Segment{&cxx.NameSegment{Name: "uint8_t"}}},
				Values: []cxx.Enumerator{{Name: "Red"}, {Name: "debug"}, {Name: "Blue", Value: cxx.Tokens{"1", "<<", "2"}}},
			},
		},
	}
	out := mustTranslate(t, ns, Options{})

	want := `alias Callback = void function(int);
alias uint_t = uint;

enum Color : ubyte {
  Red,
  debug_,
  Blue = 1<<2
}
`
	assert.Equal(t, want, out)
}

func TestTranslateTypedefNamesAnonymousStruct(t *testing.T) {
	ns := &cxx.Namespace{
		Typedefs: []*cxx.Typedef{{Name: "Pair", Type: &cxx.Named{Name: anonName(1)}}},
		Classes: []*cxx.Class{
			{Name: anonName(1), Key: cxx.KeyStruct, Fields: []*cxx.Field{intField("a"), intField("b")}},
			{Name: anonName(2), Key: cxx.KeyStruct, Fields: []*cxx.Field{intField("c")}},
		},
	}
	out := mustTranslate(t, ns, Options{})
	assert.Equal(t, "extern(C++, struct) struct Pair {\n  int a;\n  int b;\n}\n", out)
}

func TestTranslateAnonymousUnionField(t *testing.T) {
	value := &cxx.Class{
		Name: cxx.NewTypeName("Value"),
		Key:  cxx.KeyStruct,
		Fields: []*cxx.Field{
			intField("kind"),
			{Type: &cxx.Named{Name: anonName(1)}, Access: cxx.AccessPublic},
		},
		Classes: []*cxx.Class{
			{
				Name: anonName(1),
				Key:  cxx.KeyUnion,
				Fields: []*cxx.Field{
					intField("i"),
					{Name: "f", Type: cxx.FundamentalType("float"), Access: cxx.AccessPublic},
				},
			},
		},
	}
	out := mustTranslate(t, &cxx.Namespace{Classes: []*cxx.Class{value}}, Options{})

	want := `extern(C++, struct) struct Value {
  int kind;
  union {
    int i;
    float f;
  }
}
`
	assert.Equal(t, want, out)
}

func TestTranslateNestedClassAndFieldNames(t *testing.T) {
	outer := &cxx.Class{
		Name: cxx.NewTypeName("Outer"),
		Key:  cxx.KeyStruct,
		Classes: []*cxx.Class{
			{Name: cxx.NewTypeName("Inner"), Key: cxx.KeyStruct, Fields: []*cxx.Field{intField("a")}},
		},
		Fields: []*cxx.Field{
			{Name: "in", Type: cxx.NamedType("Inner"), Access: cxx.AccessPublic},
			{Name: "count", Type: cxx.FundamentalType("int"), Static: true, Access: cxx.AccessPublic},
			{Name: "owner", Type: &cxx.Reference{To: cxx.NamedType("Outer")}, Access: cxx.AccessPublic},
			{Name: "buf", Type: &cxx.Array{Of: cxx.FundamentalType("char"), Size: cxx.Tokens{"16"}}, Access: cxx.AccessPublic},
		},
	}
	out := mustTranslate(t, &cxx.Namespace{Classes: []*cxx.Class{outer}}, Options{})

	want := `extern(C++, struct) struct Outer {
  extern(C++, struct) struct Inner {
    int a;
  }
  Inner in_;
  __gshared int count;
  Outer* owner;
  char[16] buf;
}
`
	assert.Equal(t, want, out)
}

func TestTranslateTemplateClass(t *testing.T) {
	buffer := &cxx.Class{
		Name: cxx.NewTypeName("Buffer"),
		Key:  cxx.KeyStruct,
		Template: &cxx.TemplateParams{Params: []cxx.TemplateParam{
			{Name: "T", Kind: cxx.TemplateTypeParam},
			{Name: "N", Kind: cxx.TemplateValueParam, Type: cxx.FundamentalType("int")},
		}},
		Fields: []*cxx.Field{
			{Name: "data", Type: &cxx.Array{Of: cxx.NamedType("T"), Size: cxx.Tokens{"N"}}, Access: cxx.AccessPublic},
		},
	}
	out := mustTranslate(t, &cxx.Namespace{Classes: []*cxx.Class{buffer}}, Options{})
	assert.Equal(t, "extern(C++, struct) struct Buffer(T, int N) {\n  T[N] data;\n}\n", out)
}

func TestTranslateHardErrors(t *testing.T) {
	bitfield := &cxx.Class{
		Name:   cxx.NewTypeName("Flags"),
		Key:    cxx.KeyStruct,
		Fields: []*cxx.Field{{Name: "b", Type: cxx.FundamentalType("int"), Bits: cxx.Tokens{"3"}}},
	}
	unmatched := &cxx.Class{
		Name:   cxx.NewTypeName("Holder"),
		Key:    cxx.KeyStruct,
		Fields: []*cxx.Field{{Type: &cxx.Named{Name: anonName(5)}}},
	}
	specialization := &cxx.Class{
		Name:                   cxx.NewTypeName("Box"),
		Key:                    cxx.KeyStruct,
		ExplicitSpecialization: true,
	}
	rvalueField := &cxx.Class{
		Name:   cxx.NewTypeName("Moved"),
		Key:    cxx.KeyStruct,
		Fields: []*cxx.Field{{Name: "r", Type: &cxx.RValueReference{To: cxx.FundamentalType("int")}}},
	}
	volatileMethod := &cxx.Class{
		Name: cxx.NewTypeName("Port"),
		Key:  cxx.KeyStruct,
		Methods: []*cxx.Method{
			{Name: "Read", Volatile: true, Return: cxx.FundamentalType("int"), Access: cxx.AccessPublic},
		},
	}

	tests := []struct {
		name string
		c    *cxx.Class
		kind error
		decl string
	}{
		{name: "bit-field", c: bitfield, kind: common.ErrKindUnsupported, decl: "Flags::b"},
		{name: "unmatched anonymous", c: unmatched, kind: common.ErrKindUnmatchedAnonymous, decl: "Holder::"},
		{name: "explicit specialization", c: specialization, kind: common.ErrKindUnsupported, decl: "Box"},
		{name: "rvalue reference field", c: rvalueField, kind: common.ErrKindUnsupported, decl: "Moved::r"},
		{name: "volatile method", c: volatileMethod, kind: common.ErrKindUnsupported, decl: "Port::Read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := translate(t, &cxx.Namespace{Classes: []*cxx.Class{tt.c}}, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			var te *common.TranslateError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.decl, te.Decl)
			assert.Empty(t, out, "a failed declaration must not reach the output")
		})
	}
}

func TestTranslateKeepGoing(t *testing.T) {
	bitfield := &cxx.Class{
		Name:   cxx.NewTypeName("Flags"),
		Key:    cxx.KeyStruct,
		Fields: []*cxx.Field{{Name: "b", Type: cxx.FundamentalType("int"), Bits: cxx.Tokens{"3"}}},
	}
	ns := &cxx.Namespace{Classes: []*cxx.Class{bitfield, pointClass()}}

	var decls bytes.Buffer
	var out bytes.Buffer
	err := New(log.Discard(), log.NewDecl(&decls), nil, Options{KeepGoing: true}).Translate(ns, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrKindUnsupported)
	assert.Equal(t, "extern(C++, struct) struct Point {\n  int x;\n  int y;\n}\n", out.String())

	lines := strings.Split(strings.TrimSpace(decls.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "class Flags error: unsupported construct in Flags::b: bit-field")
	assert.True(t, strings.HasSuffix(lines[1], "class Point ok"))

	_, err = translate(t, ns, Options{})
	assert.ErrorIs(t, err, common.ErrKindUnsupported)
}

func TestTranslateRejectsMultipleInheritance(t *testing.T) {
	c := &cxx.Class{
		Name: cxx.NewTypeName("Both"),
		Key:  cxx.KeyClass,
		Bases: []cxx.Base{
			{Name: cxx.NewTypeName("A")},
			{Name: cxx.NewTypeName("B")},
		},
	}
	_, err := translate(t, &cxx.Namespace{Classes: []*cxx.Class{c}}, Options{KeepGoing: true})
	assert.ErrorIs(t, err, common.ErrKindUnsupported)
}

func TestTranslateSkipsNestedNamespaces(t *testing.T) {
	ns := &cxx.Namespace{Namespaces: []*cxx.Namespace{{Name: "detail", Classes: []*cxx.Class{pointClass()}}}}
	assert.Empty(t, mustTranslate(t, ns, Options{}))
}

func TestTranslateValueStructConstructors(t *testing.T) {
	point := pointClass()
	point.Methods = []*cxx.Method{
		{Name: "Point", Constructor: true, Access: cxx.AccessPublic},
		{
			Name:        "Point",
			Constructor: true,
			Params:      []cxx.Param{{Name: "x", Type: cxx.FundamentalType("int")}, {Name: "y", Type: cxx.FundamentalType("int")}},
			Access:      cxx.AccessPublic,
		},
	}
	out := mustTranslate(t, &cxx.Namespace{Classes: []*cxx.Class{point}}, Options{})
	assert.Equal(t, "extern(C++, struct) struct Point {\n  int x;\n  int y;\n  this(int x, int y);\n}\n", out)
}

func TestTranslateSkippedMethods(t *testing.T) {
	rvalue := []cxx.Param{{Name: "v", Type: &cxx.RValueReference{To: cxx.FundamentalType("int")}}}
	other := []cxx.Param{{Name: "o", Type: constRef("Widget")}}
	widget := &cxx.Class{
		Name:   cxx.NewTypeName("Widget"),
		Key:    cxx.KeyStruct,
		Fields: []*cxx.Field{intField("x")},
		Methods: []*cxx.Method{
			{Name: "Widget", Constructor: true, Params: rvalue, Access: cxx.AccessPublic},
			{Name: "Widget", Constructor: true, Params: []cxx.Param{{Name: "v", Type: cxx.FundamentalType("int")}}, Access: cxx.AccessPublic},
			{Name: "~Widget", Destructor: true, Access: cxx.AccessPublic},
			{Name: "Take", Params: rvalue, Return: cxx.FundamentalType("void"), Access: cxx.AccessPublic},
			{Name: "operator==", Operator: true, Default: true, Const: true, Params: other, Return: cxx.FundamentalType("bool"), Access: cxx.AccessPublic},
			{Name: "operator=", Operator: true, Deleted: true, Params: other, Return: &cxx.Reference{To: cxx.NamedType("Widget")}, Access: cxx.AccessPublic},
			{Name: "operator<", Operator: true, Const: true, Params: other, Return: cxx.FundamentalType("bool"), Access: cxx.AccessPublic},
			{Name: "Hidden", Return: cxx.FundamentalType("void"), Access: cxx.AccessProtected},
			{Name: "Size", Const: true, Return: cxx.FundamentalType("int"), Access: cxx.AccessPublic},
		},
	}
	out := mustTranslate(t, &cxx.Namespace{Classes: []*cxx.Class{widget}}, Options{})

	want := `extern(C++, struct) struct Widget {
  int x;
  this(int v);
  final int Size() const;
}
`
	assert.Equal(t, want, out)
}

func TestTranslateUnsupportedMethodModifiers(t *testing.T) {
	method := func(mod func(m *cxx.Method)) *cxx.Method {
		m := &cxx.Method{Name: "Read", Return: cxx.FundamentalType("int"), Access: cxx.AccessPublic}
		mod(m)
		return m
	}

	tests := []struct {
		name      string
		m         *cxx.Method
		construct string
	}{
		{name: "extern", m: method(func(m *cxx.Method) { m.Extern = true }), construct: "extern linkage"},
		{name: "trailing return", m: method(func(m *cxx.Method) { m.TrailingReturn = true }), construct: "trailing return type"},
		{name: "defaulted", m: method(func(m *cxx.Method) { m.Default = true }), construct: "defaulted function"},
		{name: "final", m: method(func(m *cxx.Method) { m.Virtual, m.Final = true, true }), construct: "final method"},
		{name: "ref-qualifier", m: method(func(m *cxx.Method) { m.RefQualifier = "&" }), construct: "ref-qualifier &"},
		{
			name: "method template",
			m: method(func(m *cxx.Method) {
				m.Template = &cxx.TemplateParams{Params: []cxx.TemplateParam{{Name: "T", Kind: cxx.TemplateTypeParam}}}
			}),
			construct: "method template",
		},
		{name: "constexpr", m: method(func(m *cxx.Method) { m.Constexpr = true }), construct: "constexpr"},
		{
			name: "explicit constructor",
			m: &cxx.Method{
				Name:        "Read",
				Constructor: true,
				Explicit:    true,
				Params:      []cxx.Param{{Name: "fd", Type: cxx.FundamentalType("int")}},
				Access:      cxx.AccessPublic,
			},
			construct: "explicit constructor",
		},
		{name: "calling convention", m: method(func(m *cxx.Method) { m.CallingConvention = "__stdcall" }), construct: "calling convention __stdcall"},
		{name: "exception specification", m: method(func(m *cxx.Method) { m.Throws = true }), construct: "exception specification"},
		{name: "volatile", m: method(func(m *cxx.Method) { m.Volatile = true }), construct: "volatile method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cxx.Class{
				Name:    cxx.NewTypeName("Port"),
				Key:     cxx.KeyStruct,
				Fields:  []*cxx.Field{intField("fd")},
				Methods: []*cxx.Method{tt.m},
			}
			out, err := translate(t, &cxx.Namespace{Classes: []*cxx.Class{c}}, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrKindUnsupported)
			var te *common.TranslateError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, "Port::Read", te.Decl)
			assert.Equal(t, tt.construct, te.Detail)
			assert.Empty(t, out)
		})
	}
}

func TestTranslateTemplateArgumentFailureDropsOnlyItsDeclaration(t *testing.T) {
	arr := &cxx.Named{Name: cxx.TypeName{Segments: []cxx.Segment{&cxx.NameSegment{
		Name: "Arr",
		Args: []cxx.TemplateArg{{Value: cxx.Tokens{"N", "+", "1"}}},
	}}}}
	holder := &cxx.Class{
		Name:   cxx.NewTypeName("Holder"),
		Key:    cxx.KeyStruct,
		Fields: []*cxx.Field{{Name: "a", Type: arr, Access: cxx.AccessPublic}},
	}
	ns := &cxx.Namespace{Classes: []*cxx.Class{holder, pointClass()}}

	var decls bytes.Buffer
	var out bytes.Buffer
	err := New(log.Discard(), log.NewDecl(&decls), nil, Options{}).Translate(ns, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrKindTemplateArgument)
	assert.Equal(t, "extern(C++, struct) struct Point {\n  int x;\n  int y;\n}\n", out.String())

	lines := strings.Split(strings.TrimSpace(decls.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "class Holder error:")
	assert.True(t, strings.HasSuffix(lines[1], "class Point ok"))
}

func TestTranslateKeywordMethodNames(t *testing.T) {
	config := &cxx.Class{
		Name:   cxx.NewTypeName("Config"),
		Key:    cxx.KeyStruct,
		Fields: []*cxx.Field{intField("level")},
		Methods: []*cxx.Method{
			{
				Name:   "version",
				Const:  true,
				Params: []cxx.Param{{Name: "ref", Type: cxx.FundamentalType("int")}},
				Return: cxx.FundamentalType("int"),
				Access: cxx.AccessPublic,
			},
		},
	}
	out := mustTranslate(t, &cxx.Namespace{Classes: []*cxx.Class{config}}, Options{})

	want := `extern(C++, struct) struct Config {
  int level;
  pragma(mangle, fixMangle!(version_, "version"))
  final int version_(int ref_) const;
}
`
	assert.Equal(t, want, out)
}

func TestTranslateShadowedKeywordMethod(t *testing.T) {
	classes := shadowingClasses()
	for _, c := range classes {
		for _, m := range c.Methods {
			if m.Name == "Reset" {
				m.Name = "debug"
			}
		}
	}
	out := mustTranslate(t, &cxx.Namespace{Classes: classes}, Options{})

	assert.Contains(t, out, "  pragma(mangle, fixMangle!(debug_, \"debug\"))\n  final void debug_();\n")
	assert.Contains(t, out, `extern(C++, class) class Derived : Base {
  pragma(mangle, fixMangle!(debug___Derived, "debug"))
  final void debug___Derived();
  alias debug_ = debug___Derived;
}
`)
}

func TestTranslateNamedAnonymousUnionField(t *testing.T) {
	value := &cxx.Class{
		Name: cxx.NewTypeName("Value"),
		Key:  cxx.KeyStruct,
		Fields: []*cxx.Field{
			intField("kind"),
			{Name: "u", Type: &cxx.Named{Name: anonName(1)}, Access: cxx.AccessPublic},
			{Name: "prev", Type: &cxx.Named{Name: anonName(1)}, Access: cxx.AccessPublic},
		},
		Classes: []*cxx.Class{
			{
				Name: anonName(1),
				Key:  cxx.KeyUnion,
				Fields: []*cxx.Field{
					intField("i"),
					{Name: "f", Type: cxx.FundamentalType("float"), Access: cxx.AccessPublic},
				},
			},
		},
	}
	out := mustTranslate(t, &cxx.Namespace{Classes: []*cxx.Class{value}}, Options{})

	want := `extern(C++, struct) struct Value {
  int kind;
  union Anon_u {
    int i;
    float f;
  }
  Anon_u u;
  Anon_u prev;
}
`
	assert.Equal(t, want, out)
}

func TestTranslateWarnsUnreferencedAnonymousAggregatesInOrder(t *testing.T) {
	holder := &cxx.Class{
		Name:   cxx.NewTypeName("Holder"),
		Key:    cxx.KeyStruct,
		Fields: []*cxx.Field{intField("x")},
	}
	for _, id := range []int{3, 1, 2} {
		holder.Classes = append(holder.Classes, &cxx.Class{Name: anonName(id), Key: cxx.KeyUnion, Fields: []*cxx.Field{intField("v")}})
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	var out bytes.Buffer
	require.NoError(t, New(logger, nil, nil, Options{}).Translate(&cxx.Namespace{Classes: []*cxx.Class{holder}}, &out))

	var keys []string
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		for _, f := range strings.Fields(line) {
			if strings.HasPrefix(f, "key=") {
				keys = append(keys, f)
			}
		}
	}
	assert.Equal(t, []string{"key=3", "key=1", "key=2"}, keys)
}
