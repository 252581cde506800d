package common

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// TabWidth is the number of spaces per nesting level in emitted code.
const TabWidth = 2

// Writer is the emission context threaded through the emitter. It buffers
// the declaration being built and only hands it to the sink on Flush, so a
// hard error in the middle of a declaration never reaches the output.
type Writer struct {
	sink  io.Writer
	buf   bytes.Buffer
	depth int
}

func NewWriter(sink io.Writer) *Writer {
	return &Writer{sink: sink}
}

func (w *Writer) Indent() { w.depth++ }

func (w *Writer) Dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

// Depth returns the current nesting level.
func (w *Writer) Depth() int { return w.depth }

// WriteIndent writes the leading spaces for the current level.
func (w *Writer) WriteIndent() {
	w.buf.WriteString(strings.Repeat(" ", w.depth*TabWidth))
}

func (w *Writer) WriteString(s string) {
	w.buf.WriteString(s)
}

func (w *Writer) Printf(format string, args ...any) {
	fmt.Fprintf(&w.buf, format, args...)
}

func (w *Writer) Newline() {
	w.buf.WriteByte('\n')
}

// Line writes one indented line.
func (w *Writer) Line(format string, args ...any) {
	w.WriteIndent()
	w.Printf(format, args...)
	w.Newline()
}

// Pending returns the buffered, not yet flushed text.
func (w *Writer) Pending() string { return w.buf.String() }

// Discard drops the buffered text and resets the nesting level.
func (w *Writer) Discard() {
	w.buf.Reset()
	w.depth = 0
}

// Flush appends the buffered text to the sink.
func (w *Writer) Flush() error {
	if w.buf.Len() == 0 {
		return nil
	}
	_, err := w.sink.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}
