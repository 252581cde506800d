package common

import "strings"

// segmentNames maps C++ namespace and fundamental type names to D names.
// No value is also a key, so mapping an already mapped name is a no-op.
var segmentNames = map[string]string{
	"std":                    "std_",
	"int8_t":                 "byte",
	"signed char":            "byte",
	"int16_t":                "short",
	"short int":              "short",
	"signed short":           "short",
	"signed short int":       "short",
	"int32_t":                "int",
	"signed":                 "int",
	"signed int":             "int",
	"int64_t":                "long",
	"long long":              "long",
	"long long int":          "long",
	"signed long long":       "long",
	"signed long long int":   "long",
	"long int":               "c_long",
	"signed long":            "c_long",
	"signed long int":        "c_long",
	"unsigned char":          "ubyte",
	"uint8_t":                "ubyte",
	"unsigned int":           "uint",
	"unsigned":               "uint",
	"uint32_t":               "uint",
	"unsigned short":         "ushort",
	"unsigned short int":     "ushort",
	"uint16_t":               "ushort",
	"unsigned long":          "c_ulong",
	"unsigned long int":      "c_ulong",
	"unsigned long long":     "ulong",
	"unsigned long long int": "ulong",
	"uint64_t":               "ulong",
	"long double":            "c_long_double",
	"char16_t":               "wchar",
	"char32_t":               "dchar",
}

// MapSegmentName rewrites one name segment of a C++ type into D.
func MapSegmentName(name string) string {
	if mapped, ok := segmentNames[normalizeSpaces(name)]; ok {
		return mapped
	}
	return name
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// dKeywords are D reserved words. Most of them are legal C++ identifiers.
var dKeywords = map[string]bool{
	"abstract": true, "alias": true, "align": true, "asm": true, "assert": true,
	"auto": true, "body": true, "bool": true, "break": true, "byte": true,
	"case": true, "cast": true, "catch": true, "cdouble": true, "cent": true,
	"cfloat": true, "char": true, "class": true, "const": true, "continue": true,
	"creal": true, "dchar": true, "debug": true, "default": true, "delegate": true,
	"delete": true, "deprecated": true, "do": true, "double": true, "else": true,
	"enum": true, "export": true, "extern": true, "false": true, "final": true,
	"finally": true, "float": true, "for": true, "foreach": true,
	"foreach_reverse": true, "function": true, "goto": true, "idouble": true,
	"if": true, "ifloat": true, "immutable": true, "import": true, "in": true,
	"inout": true, "int": true, "interface": true, "invariant": true, "ireal": true,
	"is": true, "lazy": true, "long": true, "macro": true, "mixin": true,
	"module": true, "new": true, "nothrow": true, "null": true, "out": true,
	"override": true, "package": true, "pragma": true, "private": true,
	"protected": true, "public": true, "pure": true, "real": true, "ref": true,
	"return": true, "scope": true, "shared": true, "short": true, "static": true,
	"struct": true, "super": true, "switch": true, "synchronized": true,
	"template": true, "this": true, "throw": true, "true": true, "try": true,
	"typeid": true, "typeof": true, "ubyte": true, "ucent": true, "uint": true,
	"ulong": true, "union": true, "unittest": true, "ushort": true, "version": true,
	"void": true, "wchar": true, "while": true, "with": true,
	"__gshared": true, "__traits": true, "__vector": true, "__parameters": true,
}

// IsKeyword reports whether name is reserved in D.
func IsKeyword(name string) bool { return dKeywords[name] }

// SafeIdentifier appends an underscore to names that collide with D keywords,
// e.g. "ref" -> "ref_" and "version" -> "version_".
func SafeIdentifier(name string) string {
	if dKeywords[name] {
		return name + "_"
	}
	return name
}
