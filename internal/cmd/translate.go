package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alia5/cpp2d/internal/codegen/generator"
	"github.com/Alia5/cpp2d/internal/codegen/generator/dlang"
	"github.com/Alia5/cpp2d/internal/log"
)

// Source selects the translator input and every option that shapes the
// generated text. Translate and Check share it so that both compute the
// same digest.
type Source struct {
	Input        string   `arg:"" help:"C++ header or declaration tree document (.json, .yaml, .toml); - reads stdin"`
	InputFormat  string   `help:"Input format; auto picks by file extension" enum:"auto,header,json,yaml,toml" default:"auto" env:"CPP2D_INPUT_FORMAT"`
	Module       string   `help:"D module name written at the top of the output" env:"CPP2D_MODULE"`
	Imports      []string `name:"import" help:"D modules to import in the output" env:"CPP2D_IMPORTS"`
	MangleHelper string   `help:"D template used to rebuild mangled names of renamed methods" default:"fixMangle" env:"CPP2D_MANGLE_HELPER"`
	LayoutOnly   bool     `help:"Emit only data layout: no constructors or methods" env:"CPP2D_LAYOUT_ONLY"`
	Lenient      bool     `help:"Skip header regions the C++ parser cannot read instead of failing" env:"CPP2D_LENIENT"`
}

func (s *Source) options() generator.Options {
	opts := generator.Options{
		Input:   s.Input,
		Module:  s.Module,
		Imports: s.Imports,
		Lenient: s.Lenient,
		Translate: dlang.Options{
			LayoutOnly:   s.LayoutOnly,
			MangleHelper: s.MangleHelper,
		},
	}
	if s.InputFormat != "auto" {
		opts.InputFormat = s.InputFormat
	}
	return opts
}

type Translate struct {
	Source    `embed:""`
	Output    string `short:"o" help:"Output D file; - writes stdout" default:"-" env:"CPP2D_OUTPUT"`
	KeepGoing bool   `help:"Drop declarations that fail to translate and continue" env:"CPP2D_KEEP_GOING"`
}

// Run is called by Kong when the translate command is executed.
func (t *Translate) Run(logger *slog.Logger, declLog log.DeclLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := t.options()
	opts.Output = t.Output
	opts.Translate.KeepGoing = t.KeepGoing

	logger.Info("Translating", "input", t.Input, "output", t.Output)
	return generator.New(logger, declLog).Generate(ctx, opts)
}
