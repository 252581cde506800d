// Package generator drives one translation: it loads the input, runs the D
// translator and writes the result behind the generated-file prelude.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/codegen/generator/dlang"
	"github.com/Alia5/cpp2d/internal/codegen/scanner"
	"github.com/Alia5/cpp2d/internal/cxx"
	"github.com/Alia5/cpp2d/internal/log"
)

var _ dlang.Reparser = scanner.Reparser{}

// ErrStale is returned by Check when the output does not match its input.
var ErrStale = errors.New("generated output is stale")

// StdStream names stdin or stdout in Input and Output.
const StdStream = "-"

type Options struct {
	Input string
	// InputFormat overrides detection by extension: header, json, yaml or toml.
	InputFormat string
	Output      string
	Module      string
	Imports     []string
	// Lenient skips header regions the C++ parser cannot read.
	Lenient   bool
	Translate dlang.Options
}

type Generator struct {
	logger  *slog.Logger
	declLog log.DeclLogger
	stdin   io.Reader
	stdout  io.Writer
}

func New(logger *slog.Logger, declLog log.DeclLogger) *Generator {
	return &Generator{
		logger:  logger,
		declLog: declLog,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}
}

func (o Options) format() string {
	if o.InputFormat != "" {
		return o.InputFormat
	}
	return scanner.FormatFromPath(o.Input)
}

// digestOptions lists every option that changes the generated text.
func (o Options) digestOptions() []string {
	return []string{
		"format=" + o.format(),
		"module=" + o.Module,
		"imports=" + strings.Join(o.Imports, ","),
		"layout-only=" + strconv.FormatBool(o.Translate.LayoutOnly),
		"mangle-helper=" + o.Translate.MangleHelper,
		"lenient=" + strconv.FormatBool(o.Lenient),
	}
}

func (g *Generator) readInput(path string) ([]byte, error) {
	if path == StdStream {
		return io.ReadAll(g.stdin)
	}
	return os.ReadFile(path)
}

// Load reads and parses the input named by opts.
func (g *Generator) Load(ctx context.Context, opts Options) (*cxx.Namespace, []byte, error) {
	data, err := g.readInput(opts.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}

	format := opts.format()
	g.logger.Debug("Loading input", "input", opts.Input, "format", format, "bytes", len(data))

	var ns *cxx.Namespace
	switch format {
	case scanner.FormatHeader:
		p := &scanner.HeaderParser{Lenient: opts.Lenient, Logger: g.logger}
		ns, err = p.Parse(ctx, data)
	default:
		ns, err = scanner.LoadDocument(data, format)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", opts.Input, err)
	}
	g.logger.Info("Loaded declarations",
		"aliases", len(ns.Aliases),
		"typedefs", len(ns.Typedefs),
		"enums", len(ns.Enums),
		"classes", len(ns.Classes))
	return ns, data, nil
}

// Generate translates the input and writes the D module. A file output is
// only written once translation finishes; with KeepGoing it is written even
// when declarations were dropped, and the joined errors are returned.
func (g *Generator) Generate(ctx context.Context, opts Options) error {
	ns, data, err := g.Load(ctx, opts)
	if err != nil {
		return err
	}

	version, err := common.GetVersion()
	if err != nil {
		return err
	}
	source := filepath.Base(opts.Input)
	if opts.Input == StdStream {
		source = "stdin"
	}

	var sink io.Writer = g.stdout
	var buf bytes.Buffer
	if opts.Output != StdStream {
		sink = &buf
	}

	if err := common.WritePrelude(sink, common.Prelude{
		Version: version,
		Source:  source,
		Digest:  common.Digest(data, opts.digestOptions()...),
		Module:  opts.Module,
		Imports: opts.Imports,
	}); err != nil {
		return err
	}
	if _, err := io.WriteString(sink, "\n"); err != nil {
		return err
	}

	tr := dlang.New(g.logger, g.declLog, scanner.Reparser{}, opts.Translate)
	trErr := tr.Translate(ns, sink)
	if trErr != nil && !opts.Translate.KeepGoing {
		return fmt.Errorf("translate %s: %w", opts.Input, trErr)
	}

	if opts.Output != StdStream {
		if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		g.logger.Info("Wrote D module", "output", opts.Output, "bytes", buf.Len())
	}
	if trErr != nil {
		return fmt.Errorf("translate %s: %w", opts.Input, trErr)
	}
	return nil
}

// Check reports ErrStale when opts.Output was not generated from the
// current input with the current options.
func (g *Generator) Check(opts Options) error {
	if opts.Output == StdStream {
		return errors.New("check needs an output file")
	}
	data, err := g.readInput(opts.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	want := common.Digest(data, opts.digestOptions()...)

	f, err := os.Open(opts.Output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer f.Close()

	got, ok, err := common.ReadDigest(f)
	if err != nil {
		return fmt.Errorf("read output: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s has no digest line", ErrStale, opts.Output)
	}
	if got != want {
		g.logger.Debug("Digest mismatch", "recorded", got, "current", want)
		return fmt.Errorf("%w: %s", ErrStale, opts.Output)
	}
	g.logger.Info("Output is up to date", "output", opts.Output)
	return nil
}
