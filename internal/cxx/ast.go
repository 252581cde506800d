// Package cxx models a parsed C++ header as an immutable declaration tree.
//
// The tree is produced once by a front-end (see codegen/scanner) and is only
// read afterwards. Type expressions and name segments are closed sum types:
// every variant implements an unexported marker method, so no package outside
// cxx can add a variant that consumers would fail to handle.
package cxx

import "strings"

// Access is the C++ member access level. AccessNone is used for declarations
// at namespace scope.
type Access int

const (
	AccessNone Access = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return ""
	}
}

// ParseAccess maps "public", "protected" and "private" to an Access.
// Anything else yields AccessNone.
func ParseAccess(s string) Access {
	switch s {
	case "public":
		return AccessPublic
	case "protected":
		return AccessProtected
	case "private":
		return AccessPrivate
	default:
		return AccessNone
	}
}

// ClassKey is the keyword a class-like declaration was introduced with.
type ClassKey int

const (
	KeyStruct ClassKey = iota
	KeyClass
	KeyUnion
)

func (k ClassKey) String() string {
	switch k {
	case KeyClass:
		return "class"
	case KeyUnion:
		return "union"
	default:
		return "struct"
	}
}

// ParseClassKey maps "class", "struct" and "union" to a ClassKey.
func ParseClassKey(s string) (ClassKey, bool) {
	switch s {
	case "struct", "":
		return KeyStruct, true
	case "class":
		return KeyClass, true
	case "union":
		return KeyUnion, true
	default:
		return KeyStruct, false
	}
}

// Namespace owns the ordered declarations of one C++ namespace.
type Namespace struct {
	Name       string
	Aliases    []*TypeAlias
	Typedefs   []*Typedef
	Enums      []*Enum
	Classes    []*Class
	Namespaces []*Namespace
}

// TypeAlias is `using Name = Type;`.
type TypeAlias struct {
	Name     string
	Type     Type
	Access   Access
	Template *TemplateParams
}

// Typedef is `typedef Type Name;`.
type Typedef struct {
	Name   string
	Type   Type
	Access Access
}

// Enum is an enum or enum class declaration. Anonymous enums carry an
// AnonymousSegment as their only name segment.
type Enum struct {
	Name   TypeName
	Scoped bool
	Base   *TypeName
	Values []Enumerator
	Access Access
}

// IsAnonymous reports whether the enum was declared without a name.
func (e *Enum) IsAnonymous() bool { return e.Name.IsAnonymous() }

type Enumerator struct {
	Name  string
	Value Tokens
}

// Class is a class, struct or union declaration.
type Class struct {
	Name     TypeName
	Key      ClassKey
	Bases    []Base
	Template *TemplateParams
	Final    bool
	// ExplicitSpecialization is set for `template<> class Foo<int>`.
	ExplicitSpecialization bool

	Fields  []*Field
	Methods []*Method
	Enums   []*Enum
	Classes []*Class
	Access  Access
}

// ClassName is the unqualified name the class is known by.
func (c *Class) ClassName() string { return c.Name.Last() }

// IsAnonymous reports whether the class was declared without a name.
func (c *Class) IsAnonymous() bool { return c.Name.IsAnonymous() }

// IsAnonymousUnion reports whether c is a `union { ... }` without a name.
func (c *Class) IsAnonymousUnion() bool { return c.Key == KeyUnion && c.IsAnonymous() }

type Base struct {
	Name      TypeName
	Access    Access
	Virtual   bool
	ParamPack bool
}

type TemplateParamKind int

const (
	// TemplateTypeParam is `class T` or `typename T`.
	TemplateTypeParam TemplateParamKind = iota
	// TemplateValueParam is a non-type parameter such as `int N`.
	TemplateValueParam
	// TemplateTemplateParam is `template<class> class T`.
	TemplateTemplateParam
)

type TemplateParams struct {
	Params []TemplateParam
}

type TemplateParam struct {
	Name    string
	Kind    TemplateParamKind
	Type    Type // TemplateValueParam only
	Default Tokens
	Pack    bool
}

type Field struct {
	Name   string
	Type   Type
	Static bool
	Access Access
	Bits   Tokens
}

type Param struct {
	Name    string
	Type    Type
	Default Tokens
}

// Method is a member function declaration.
type Method struct {
	// Name is the joined name segments, e.g. "Area", "operator==" or "~Shape".
	Name   string
	Params []Param
	Return Type // nil for constructors and destructors
	Vararg bool
	Access Access

	Constructor bool
	Destructor  bool
	Operator    bool

	Virtual     bool
	PureVirtual bool
	Override    bool
	Final       bool
	Static      bool
	Const       bool
	Volatile    bool
	Noexcept    bool
	Deleted     bool
	Default     bool

	Extern            bool
	TrailingReturn    bool
	Constexpr         bool
	Explicit          bool
	RefQualifier      string
	Template          *TemplateParams
	CallingConvention string
	Throws            bool
}

// IsVirtual reports virtual or pure-virtual declarations.
func (m *Method) IsVirtual() bool { return m.Virtual || m.PureVirtual }

// IsDispatching reports virtual, pure-virtual or override declarations.
func (m *Method) IsDispatching() bool { return m.IsVirtual() || m.Override }

// HasRValueParam reports whether any parameter is an rvalue reference.
func (m *Method) HasRValueParam() bool {
	for _, p := range m.Params {
		if _, ok := p.Type.(*RValueReference); ok {
			return true
		}
	}
	return false
}

// TypeName is a possibly qualified, possibly specialized type name.
type TypeName struct {
	Segments []Segment
	// Key is the elaborated type specifier, if written: "class", "struct",
	// "union", "enum", "enum class" or "typename".
	Key string
}

// NewTypeName splits a "::"-qualified name into plain name segments.
func NewTypeName(qualified string) TypeName {
	parts := strings.Split(qualified, "::")
	segs := make([]Segment, 0, len(parts))
	for _, p := range parts {
		segs = append(segs, &NameSegment{Name: strings.TrimSpace(p)})
	}
	return TypeName{Segments: segs}
}

// Fundamental returns a TypeName naming a builtin type such as "unsigned int".
func Fundamental(name string) TypeName {
	return TypeName{Segments: []Segment{&FundamentalSegment{Name: name}}}
}

// Last returns the name of the last segment, or "" when it is anonymous.
func (n TypeName) Last() string {
	if len(n.Segments) == 0 {
		return ""
	}
	switch s := n.Segments[len(n.Segments)-1].(type) {
	case *NameSegment:
		return s.Name
	case *FundamentalSegment:
		return s.Name
	default:
		return ""
	}
}

// IsAnonymous reports a single anonymous segment.
func (n TypeName) IsAnonymous() bool {
	_, ok := n.AnonymousID()
	return ok
}

// AnonymousID returns the parser-assigned key of an anonymous name.
func (n TypeName) AnonymousID() (int, bool) {
	if len(n.Segments) != 1 {
		return 0, false
	}
	a, ok := n.Segments[0].(*AnonymousSegment)
	if !ok {
		return 0, false
	}
	return a.ID, true
}

func (n TypeName) String() string {
	parts := make([]string, 0, len(n.Segments))
	for _, s := range n.Segments {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "::")
}

// Segment is one "::"-separated component of a TypeName.
type Segment interface {
	isSegment()
	String() string
}

type NameSegment struct {
	Name string
	// Args is nil unless the segment is a template specialization.
	Args []TemplateArg
}

type FundamentalSegment struct {
	Name string
}

type AnonymousSegment struct {
	ID int
}

func (*NameSegment) isSegment()        {}
func (*FundamentalSegment) isSegment() {}
func (*AnonymousSegment) isSegment()   {}

func (s *NameSegment) String() string {
	if s.Args == nil {
		return s.Name
	}
	args := make([]string, 0, len(s.Args))
	for _, a := range s.Args {
		args = append(args, a.String())
	}
	return s.Name + "<" + strings.Join(args, ", ") + ">"
}

func (s *FundamentalSegment) String() string { return s.Name }
func (s *AnonymousSegment) String() string   { return "(anonymous)" }

// TemplateArg is either a type or an unresolved value expression.
type TemplateArg struct {
	Type  Type
	Value Tokens
	Pack  bool
}

func (a TemplateArg) String() string {
	if a.Type != nil {
		return TypeString(a.Type)
	}
	return a.Value.Spaced()
}
