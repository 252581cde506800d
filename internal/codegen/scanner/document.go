package scanner

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/cpp2d/internal/cxx"
)

// Input formats accepted by LoadDocument. FormatHeader is C++ source.
const (
	FormatHeader = "header"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatTOML   = "toml"
)

// FormatFromPath picks an input format from a file extension. Unknown
// extensions are treated as C++ headers.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatHeader
	}
}

// NamespaceDoc is the serialized form of a declaration tree. Anonymous
// declarations carry a positive `anonymous` key instead of a name.
type NamespaceDoc struct {
	Name       string         `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Aliases    []AliasDoc     `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	Typedefs   []AliasDoc     `json:"typedefs,omitempty" yaml:"typedefs,omitempty" toml:"typedefs,omitempty"`
	Enums      []EnumDoc      `json:"enums,omitempty" yaml:"enums,omitempty" toml:"enums,omitempty"`
	Classes    []ClassDoc     `json:"classes,omitempty" yaml:"classes,omitempty" toml:"classes,omitempty"`
	Namespaces []NamespaceDoc `json:"namespaces,omitempty" yaml:"namespaces,omitempty" toml:"namespaces,omitempty"`
}

// AliasDoc serializes both `using` aliases and typedefs.
type AliasDoc struct {
	Name     string             `json:"name" yaml:"name" toml:"name"`
	Type     *TypeDoc           `json:"type" yaml:"type" toml:"type"`
	Access   string             `json:"access,omitempty" yaml:"access,omitempty" toml:"access,omitempty"`
	Template []TemplateParamDoc `json:"template,omitempty" yaml:"template,omitempty" toml:"template,omitempty"`
}

type EnumDoc struct {
	Name      string          `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Anonymous int             `json:"anonymous,omitempty" yaml:"anonymous,omitempty" toml:"anonymous,omitempty"`
	Scoped    bool            `json:"scoped,omitempty" yaml:"scoped,omitempty" toml:"scoped,omitempty"`
	Base      string          `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`
	Values    []EnumeratorDoc `json:"values" yaml:"values" toml:"values"`
	Access    string          `json:"access,omitempty" yaml:"access,omitempty" toml:"access,omitempty"`
}

type EnumeratorDoc struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

type ClassDoc struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Anonymous int    `json:"anonymous,omitempty" yaml:"anonymous,omitempty" toml:"anonymous,omitempty"`
	// Key is "class", "struct" (default) or "union".
	Key                    string             `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Bases                  []BaseDoc          `json:"bases,omitempty" yaml:"bases,omitempty" toml:"bases,omitempty"`
	Template               []TemplateParamDoc `json:"template,omitempty" yaml:"template,omitempty" toml:"template,omitempty"`
	Final                  bool               `json:"final,omitempty" yaml:"final,omitempty" toml:"final,omitempty"`
	ExplicitSpecialization bool               `json:"explicit_specialization,omitempty" yaml:"explicit_specialization,omitempty" toml:"explicit_specialization,omitempty"`
	Fields                 []FieldDoc         `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
	Methods                []MethodDoc        `json:"methods,omitempty" yaml:"methods,omitempty" toml:"methods,omitempty"`
	Enums                  []EnumDoc          `json:"enums,omitempty" yaml:"enums,omitempty" toml:"enums,omitempty"`
	Classes                []ClassDoc         `json:"classes,omitempty" yaml:"classes,omitempty" toml:"classes,omitempty"`
	Access                 string             `json:"access,omitempty" yaml:"access,omitempty" toml:"access,omitempty"`
}

type BaseDoc struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Access  string `json:"access,omitempty" yaml:"access,omitempty" toml:"access,omitempty"`
	Virtual bool   `json:"virtual,omitempty" yaml:"virtual,omitempty" toml:"virtual,omitempty"`
	Pack    bool   `json:"pack,omitempty" yaml:"pack,omitempty" toml:"pack,omitempty"`
}

type TemplateParamDoc struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	// Kind is "type" (default), "value" or "template".
	Kind    string   `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Type    *TypeDoc `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Default string   `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	Pack    bool     `json:"pack,omitempty" yaml:"pack,omitempty" toml:"pack,omitempty"`
}

type FieldDoc struct {
	Name   string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Type   *TypeDoc `json:"type" yaml:"type" toml:"type"`
	Static bool     `json:"static,omitempty" yaml:"static,omitempty" toml:"static,omitempty"`
	Access string   `json:"access,omitempty" yaml:"access,omitempty" toml:"access,omitempty"`
	Bits   string   `json:"bits,omitempty" yaml:"bits,omitempty" toml:"bits,omitempty"`
}

type ParamDoc struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Type    *TypeDoc `json:"type" yaml:"type" toml:"type"`
	Default string   `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
}

type MethodDoc struct {
	Name   string     `json:"name" yaml:"name" toml:"name"`
	Params []ParamDoc `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
	Return *TypeDoc   `json:"return,omitempty" yaml:"return,omitempty" toml:"return,omitempty"`
	Vararg bool       `json:"vararg,omitempty" yaml:"vararg,omitempty" toml:"vararg,omitempty"`
	Access string     `json:"access,omitempty" yaml:"access,omitempty" toml:"access,omitempty"`

	Constructor bool `json:"constructor,omitempty" yaml:"constructor,omitempty" toml:"constructor,omitempty"`
	Destructor  bool `json:"destructor,omitempty" yaml:"destructor,omitempty" toml:"destructor,omitempty"`
	Operator    bool `json:"operator,omitempty" yaml:"operator,omitempty" toml:"operator,omitempty"`

	Virtual     bool `json:"virtual,omitempty" yaml:"virtual,omitempty" toml:"virtual,omitempty"`
	PureVirtual bool `json:"pure_virtual,omitempty" yaml:"pure_virtual,omitempty" toml:"pure_virtual,omitempty"`
	Override    bool `json:"override,omitempty" yaml:"override,omitempty" toml:"override,omitempty"`
	Final       bool `json:"final,omitempty" yaml:"final,omitempty" toml:"final,omitempty"`
	Static      bool `json:"static,omitempty" yaml:"static,omitempty" toml:"static,omitempty"`
	Const       bool `json:"const,omitempty" yaml:"const,omitempty" toml:"const,omitempty"`
	Volatile    bool `json:"volatile,omitempty" yaml:"volatile,omitempty" toml:"volatile,omitempty"`
	Noexcept    bool `json:"noexcept,omitempty" yaml:"noexcept,omitempty" toml:"noexcept,omitempty"`
	Deleted     bool `json:"deleted,omitempty" yaml:"deleted,omitempty" toml:"deleted,omitempty"`
	Default     bool `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`

	Extern            bool               `json:"extern,omitempty" yaml:"extern,omitempty" toml:"extern,omitempty"`
	TrailingReturn    bool               `json:"trailing_return,omitempty" yaml:"trailing_return,omitempty" toml:"trailing_return,omitempty"`
	Constexpr         bool               `json:"constexpr,omitempty" yaml:"constexpr,omitempty" toml:"constexpr,omitempty"`
	Explicit          bool               `json:"explicit,omitempty" yaml:"explicit,omitempty" toml:"explicit,omitempty"`
	RefQualifier      string             `json:"ref_qualifier,omitempty" yaml:"ref_qualifier,omitempty" toml:"ref_qualifier,omitempty"`
	Template          []TemplateParamDoc `json:"template,omitempty" yaml:"template,omitempty" toml:"template,omitempty"`
	CallingConvention string             `json:"calling_convention,omitempty" yaml:"calling_convention,omitempty" toml:"calling_convention,omitempty"`
	Throws            bool               `json:"throws,omitempty" yaml:"throws,omitempty" toml:"throws,omitempty"`
}

// TypeDoc is a type expression. Kind selects the variant: "named" (the
// default), "pointer", "reference", "rvalue_reference", "array" or
// "function". A named type is given either as a "::"-qualified Name or,
// when segments carry template arguments, as Segments.
type TypeDoc struct {
	Kind      string       `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Name      string       `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Anonymous int          `json:"anonymous,omitempty" yaml:"anonymous,omitempty" toml:"anonymous,omitempty"`
	Segments  []SegmentDoc `json:"segments,omitempty" yaml:"segments,omitempty" toml:"segments,omitempty"`
	Key       string       `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Const     bool         `json:"const,omitempty" yaml:"const,omitempty" toml:"const,omitempty"`
	Volatile  bool         `json:"volatile,omitempty" yaml:"volatile,omitempty" toml:"volatile,omitempty"`

	To   *TypeDoc `json:"to,omitempty" yaml:"to,omitempty" toml:"to,omitempty"`
	Size string   `json:"size,omitempty" yaml:"size,omitempty" toml:"size,omitempty"`

	Return   *TypeDoc   `json:"return,omitempty" yaml:"return,omitempty" toml:"return,omitempty"`
	Params   []ParamDoc `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
	Vararg   bool       `json:"vararg,omitempty" yaml:"vararg,omitempty" toml:"vararg,omitempty"`
	Noexcept bool       `json:"noexcept,omitempty" yaml:"noexcept,omitempty" toml:"noexcept,omitempty"`
}

type SegmentDoc struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Fundamental bool   `json:"fundamental,omitempty" yaml:"fundamental,omitempty" toml:"fundamental,omitempty"`
	Anonymous   int    `json:"anonymous,omitempty" yaml:"anonymous,omitempty" toml:"anonymous,omitempty"`
	// Specialized marks an empty template argument list, e.g. Foo<>.
	Specialized bool             `json:"specialized,omitempty" yaml:"specialized,omitempty" toml:"specialized,omitempty"`
	Args        []TemplateArgDoc `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
}

type TemplateArgDoc struct {
	Type  *TypeDoc `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Value string   `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Pack  bool     `json:"pack,omitempty" yaml:"pack,omitempty" toml:"pack,omitempty"`
}

// LoadDocument decodes a serialized declaration tree.
func LoadDocument(data []byte, format string) (*cxx.Namespace, error) {
	var doc NamespaceDoc
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s document: %w", format, err)
	}
	return doc.Namespace()
}

// EncodeDocument serializes ns in the given document format.
func EncodeDocument(ns *cxx.Namespace, format string) ([]byte, error) {
	doc, err := NewNamespaceDoc(ns)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatTOML:
		return toml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
}
