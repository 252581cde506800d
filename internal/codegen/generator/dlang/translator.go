// Package dlang translates a C++ declaration tree into D declarations that
// link against the original C++ object code.
package dlang

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/codegen/meta"
	"github.com/Alia5/cpp2d/internal/cxx"
	"github.com/Alia5/cpp2d/internal/log"
)

// DefaultMangleHelper is the D template used in the pragma(mangle) lines
// that bind renamed methods back to their C++ symbols.
const DefaultMangleHelper = "fixMangle"

type Options struct {
	// LayoutOnly omits constructors and methods, keeping only the data
	// layout of every aggregate.
	LayoutOnly bool
	// MangleHelper names the D template used to rebuild mangled names.
	MangleHelper string
	// KeepGoing drops a top-level declaration that hits a hard error and
	// continues with the next one instead of aborting the run.
	KeepGoing bool
}

// Translator turns a namespace into a D declaration stream. It holds no
// per-run state and can be reused.
type Translator struct {
	logger  *slog.Logger
	declLog log.DeclLogger
	types   *TypeMapper
	opts    Options
}

func New(logger *slog.Logger, declLog log.DeclLogger, reparser Reparser, opts Options) *Translator {
	if opts.MangleHelper == "" {
		opts.MangleHelper = DefaultMangleHelper
	}
	if declLog == nil {
		declLog = log.NewDecl(nil)
	}
	return &Translator{
		logger:  logger,
		declLog: declLog,
		types:   &TypeMapper{Reparser: reparser},
		opts:    opts,
	}
}

// emitter is the state of one Translate call.
type emitter struct {
	*Translator
	md *meta.Metadata
	w  *common.Writer
	// typedefNames names anonymous top-level classes and enums after the
	// typedef that introduces them (typedef struct { ... } Name;).
	typedefNames map[int]string
	wrote        bool
	lastOneLine  bool
	errs         []error
}

// Translate writes the D translation of ns to sink: type aliases, typedefs,
// enums and classes, each group in declaration order. Each top-level
// declaration reaches the sink only once it is complete.
func (t *Translator) Translate(ns *cxx.Namespace, sink io.Writer) error {
	md, err := meta.Build(ns.Classes)
	if err != nil {
		return err
	}
	t.logger.Debug("Built class metadata", "classes", len(md.Classes))

	e := &emitter{
		Translator:   t,
		md:           md,
		w:            common.NewWriter(sink),
		typedefNames: make(map[int]string),
	}
	for _, td := range ns.Typedefs {
		if n, ok := td.Type.(*cxx.Named); ok && !n.Const {
			if id, ok := n.Name.AnonymousID(); ok {
				e.typedefNames[id] = td.Name
			}
		}
	}

	for _, a := range ns.Aliases {
		if err := e.topLevel("alias", a.Name, true, func() error { return e.emitAlias(a) }); err != nil {
			return err
		}
	}
	for _, td := range ns.Typedefs {
		if e.namesAnonymous(td) {
			continue
		}
		if err := e.topLevel("typedef", td.Name, true, func() error { return e.emitTypedef(td) }); err != nil {
			return err
		}
	}
	for _, en := range ns.Enums {
		name := e.enumName(en)
		if err := e.topLevel("enum", name, false, func() error { return e.emitEnum(en, name) }); err != nil {
			return err
		}
	}
	for _, c := range ns.Classes {
		name := c.ClassName()
		if id, ok := c.Name.AnonymousID(); ok {
			td, named := e.typedefNames[id]
			if !named {
				e.logger.Warn("Skipping anonymous top-level class without typedef name", "key", id)
				continue
			}
			name = td
		}
		if err := e.topLevel("class", name, false, func() error { return e.emitClass(c, name, name) }); err != nil {
			return err
		}
	}
	for _, sub := range ns.Namespaces {
		e.logger.Warn("Skipping nested namespace", "namespace", sub.Name)
	}

	return errors.Join(e.errs...)
}

// topLevel emits one top-level declaration. One-line declarations are
// grouped; everything else is separated by a blank line.
func (e *emitter) topLevel(kind, name string, oneLine bool, emit func() error) error {
	if e.wrote && !(oneLine && e.lastOneLine) {
		e.w.Newline()
	}
	e.logger.Log(context.Background(), log.LevelTrace, "Translating declaration", "kind", kind, "name", name)

	if err := emit(); err != nil {
		err = common.WithDecl(err, name)
		e.w.Discard()
		e.declLog.Log(kind, name, err)
		// An unresolved template argument only costs its own declaration.
		if !e.opts.KeepGoing && !errors.Is(err, common.ErrKindTemplateArgument) {
			return err
		}
		e.logger.Error("Dropping declaration", "kind", kind, "name", name, "error", err)
		e.errs = append(e.errs, err)
		return nil
	}

	e.declLog.Log(kind, name, nil)
	e.wrote = true
	e.lastOneLine = oneLine
	return e.w.Flush()
}

func (e *emitter) namesAnonymous(td *cxx.Typedef) bool {
	n, ok := td.Type.(*cxx.Named)
	if !ok || n.Const {
		return false
	}
	id, ok := n.Name.AnonymousID()
	return ok && e.typedefNames[id] == td.Name
}

func (e *emitter) enumName(en *cxx.Enum) string {
	if id, ok := en.Name.AnonymousID(); ok {
		return e.typedefNames[id]
	}
	return ""
}

func (e *emitter) emitAlias(a *cxx.TypeAlias) error {
	if a.Template != nil {
		return common.ErrUnsupported(a.Name, "alias template")
	}
	if a.Access != cxx.AccessNone {
		return common.ErrMalformed(a.Name, "access specifier on a namespace-scope alias")
	}
	t, err := e.types.Map(a.Type, TypeOptions{})
	if err != nil {
		return err
	}
	e.w.Line("alias %s = %s;", a.Name, t)
	return nil
}

func (e *emitter) emitTypedef(td *cxx.Typedef) error {
	if td.Access != cxx.AccessNone {
		return common.ErrMalformed(td.Name, "access specifier on a namespace-scope typedef")
	}
	t, err := e.types.Map(td.Type, TypeOptions{})
	if err != nil {
		return err
	}
	e.w.Line("alias %s = %s;", td.Name, t)
	return nil
}
