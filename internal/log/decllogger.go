package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DeclLogger records every top-level declaration the translator handled,
// one line each, for auditing large headers.
type DeclLogger interface {
	Log(kind, name string, err error)
}

// declLogger implements DeclLogger with thread-safe log.
type declLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewDecl creates a new DeclLogger. If writer is nil, returns a no-op logger.
func NewDecl(w io.Writer) DeclLogger {
	return &declLogger{w: w}
}

// Log emits a single line with timestamp, declaration kind, name and outcome.
func (d *declLogger) Log(kind, name string, err error) {
	if d.w == nil {
		return
	}
	if name == "" {
		name = "<anonymous>"
	}
	status := "ok"
	if err != nil {
		status = "error: " + err.Error()
	}

	line := fmt.Sprintf("%s %s %s %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		kind,
		name,
		status)

	d.mu.Lock()
	_, _ = d.w.Write([]byte(line))
	d.mu.Unlock()
}
