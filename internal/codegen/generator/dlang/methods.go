package dlang

import (
	"strings"

	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/codegen/meta"
	"github.com/Alia5/cpp2d/internal/cxx"
)

func (e *emitter) emitMethods(c *cxx.Class, name, ident string, kind meta.Kind) error {
	if e.opts.LayoutOnly {
		return nil
	}
	for _, m := range c.Methods {
		decl := ident + "::" + m.Name
		var (
			skip string
			err  error
		)
		switch {
		case m.Destructor:
			skip = "destructor"
		case m.Constructor:
			skip, err = e.emitConstructor(m, kind)
		default:
			skip, err = e.emitMethod(c, m, name)
		}
		if err != nil {
			return common.WithDecl(err, decl)
		}
		if skip != "" {
			e.logger.Debug("Skipping method", "method", decl, "reason", skip)
		}
	}
	return nil
}

// accessSkip reports why a member is not part of the public API.
func accessSkip(m *cxx.Method) string {
	if m.Access == cxx.AccessPrivate || m.Access == cxx.AccessProtected {
		return m.Access.String() + " member"
	}
	return ""
}

func (e *emitter) emitConstructor(m *cxx.Method, kind meta.Kind) (string, error) {
	switch {
	case m.HasRValueParam():
		return "rvalue reference parameter", nil
	case m.Deleted:
		return "deleted constructor", nil
	case accessSkip(m) != "":
		return accessSkip(m), nil
	case len(m.Params) == 0 && !m.Vararg && kind == meta.ValueAggregate:
		return "default constructor of a value aggregate", nil
	case kind == meta.Interface:
		return "constructor of an interface", nil
	}
	if err := validateMethod(m); err != nil {
		return "", err
	}

	params, err := e.types.MapParams(m.Params, m.Vararg)
	if err != nil {
		return "", err
	}
	e.w.Line("this(%s);", params)
	return "", nil
}

// emitMethod translates one ordinary member function or operator.
func (e *emitter) emitMethod(c *cxx.Class, m *cxx.Method, className string) (string, error) {
	if m.HasRValueParam() {
		return "rvalue reference parameter", nil
	}

	name := m.Name
	if m.Operator {
		if m.Default {
			return "defaulted operator", nil
		}
		if m.Deleted {
			return "deleted operator", nil
		}
		opName, skip, err := MapOperator(m)
		if err != nil || skip != "" {
			return skip, err
		}
		name = opName
	}
	if m.Deleted {
		return "deleted function", nil
	}
	if skip := accessSkip(m); skip != "" {
		return skip, nil
	}
	if err := validateMethod(m); err != nil {
		return "", err
	}

	// A non-virtual method named like a base method hides it in C++. In a D
	// class both would be virtual and the derived one would override, so the
	// method is declared under a class-specific name that is mangled as the
	// original and aliased back to it. Names that are D keywords are declared
	// with a trailing underscore and mangled as the original too.
	shadows := !m.IsDispatching() && !m.Operator && len(e.md.BaseMethods(c, m.Name)) > 0
	cxxName := name
	if !m.Operator {
		name = common.SafeIdentifier(name)
	}
	dName := name
	if shadows {
		name = dName + "__" + className
	}
	if name != cxxName {
		e.w.Line("pragma(mangle, %s!(%s, %q))", e.opts.MangleHelper, name, cxxName)
	}

	ret, err := e.types.Map(m.Return, TypeOptions{})
	if err != nil {
		return "", err
	}
	params, err := e.types.MapParams(m.Params, m.Vararg)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(dispatchQualifier(m, shadows))
	b.WriteString(ret + " " + name + "(" + params + ")")
	if m.Const {
		b.WriteString(" const")
	}
	if m.Noexcept {
		b.WriteString(" nothrow")
	}
	b.WriteString(";")
	e.w.Line("%s", b.String())

	if shadows {
		e.w.Line("alias %s = %s;", dName, name)
	}
	return "", nil
}

// dispatchQualifier returns the D attribute that reproduces the C++
// dispatch behavior. Virtual methods need none: they only occur in D
// classes and interfaces, where methods are virtual by default.
func dispatchQualifier(m *cxx.Method, shadows bool) string {
	switch {
	case m.PureVirtual:
		return "abstract "
	case m.Override && !shadows:
		return "override "
	case m.Static:
		return "static "
	case m.Virtual:
		return ""
	default:
		return "final "
	}
}

// validateMethod rejects modifiers that have no defined translation.
func validateMethod(m *cxx.Method) error {
	var construct string
	switch {
	case m.Extern:
		construct = "extern linkage"
	case m.TrailingReturn:
		construct = "trailing return type"
	case m.Default:
		construct = "defaulted function"
	case m.Final:
		construct = "final method"
	case m.RefQualifier != "":
		construct = "ref-qualifier " + m.RefQualifier
	case m.Template != nil:
		construct = "method template"
	case m.Constexpr:
		construct = "constexpr"
	case m.Explicit:
		construct = "explicit constructor"
	case m.CallingConvention != "":
		construct = "calling convention " + m.CallingConvention
	case m.Throws:
		construct = "exception specification"
	case m.Volatile:
		construct = "volatile method"
	default:
		return nil
	}
	return common.ErrUnsupported("", construct)
}
