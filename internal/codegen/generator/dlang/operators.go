package dlang

import (
	"strings"

	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/cxx"
)

// operatorSkips lists operators that are deliberately not translated, with
// the reason logged when one is dropped.
var operatorSkips = map[string]string{
	// Identity assignment overloads are illegal on D classes.
	"=":  "assignment operator",
	"!=": "inequality is derived from opEquals",
	"<":  "relational operator",
	"<=": "relational operator",
	">":  "relational operator",
	">=": "relational operator",
	"++": "increment operator",
	"--": "decrement operator",
}

var compoundAssign = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"|=": true, "&=": true, "^=": true, "<<=": true, ">>=": true,
}

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"|": true, "&": true, "^": true, "<<": true, ">>": true,
}

var unaryOps = map[string]bool{"+": true, "-": true, "*": true, "~": true}

// MapOperator returns the D name for a C++ operator overload. skip is
// non-empty when the operator is intentionally not translated.
func MapOperator(m *cxx.Method) (name string, skip string, err error) {
	sym, ok := operatorSymbol(m.Name)
	if !ok {
		return "", "", common.ErrMalformed("", "not an operator name: "+m.Name)
	}
	if sym == "" {
		return "", "cast operator", nil
	}
	if reason, ok := operatorSkips[sym]; ok {
		return "", reason, nil
	}

	switch {
	case sym == "==":
		return "opEquals", "", nil
	case sym == "[]":
		return "opIndex", "", nil
	case sym == "()":
		return "opCall", "", nil
	case compoundAssign[sym]:
		return `opOpAssign(string op : "` + strings.TrimSuffix(sym, "=") + `")`, "", nil
	case len(m.Params) == 0 && unaryOps[sym]:
		return `opUnary(string op : "` + sym + `")`, "", nil
	case binaryOps[sym]:
		return `opBinary(string op : "` + sym + `")`, "", nil
	}
	return "", "", common.ErrUnsupported("", "operator "+sym)
}

// operatorSymbol extracts the symbol from "operator+=" or "operator []".
// Conversion operators ("operator int", "operator") yield "".
func operatorSymbol(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, "operator")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", true
	}
	if c := rest[0]; c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		switch {
		case strings.HasPrefix(rest, "new"), strings.HasPrefix(rest, "delete"):
			return strings.Join(strings.Fields(rest), " "), true
		}
		return "", true
	}
	return strings.Join(strings.Fields(rest), ""), true
}
