// Package file writes batch reports to a local NDJSON file.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/stresscheck/internal/output"
)

const defaultBufSize = 64 * 1024

// Option configures a file Output.
type Option func(*Output)

// WithAppend appends to an existing file instead of truncating it.
func WithAppend() Option {
	return func(o *Output) { o.flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND }
}

// WithPretty indents each report. The file is then no longer one report
// per line.
func WithPretty() Option {
	return func(o *Output) { o.pretty = true }
}

// Output buffers reports and writes them to path.
type Output struct {
	mu        sync.Mutex
	f         *os.File
	w         *bufio.Writer
	enc       *json.Encoder
	path      string
	verbosity output.Verbosity
	flags     int
	pretty    bool
	written   int
}

// New creates or truncates path.
func New(path string, verbosity output.Verbosity, opts ...Option) (*Output, error) {
	o := &Output{
		path:      path,
		verbosity: verbosity,
		flags:     os.O_CREATE | os.O_WRONLY | os.O_TRUNC,
	}
	for _, opt := range opts {
		opt(o)
	}

	f, err := os.OpenFile(path, o.flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file output: open %s: %w", path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, defaultBufSize)
	o.enc = json.NewEncoder(o.w)
	if o.pretty {
		o.enc.SetIndent("", "  ")
	}
	return o, nil
}

func (o *Output) Write(_ context.Context, r output.Report) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.enc.Encode(output.FormatReport(r, o.verbosity)); err != nil {
		return fmt.Errorf("file output: write %s: %w", o.path, err)
	}
	o.written++
	return nil
}

// Written returns the number of reports written so far.
func (o *Output) Written() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.written
}

// Close flushes buffered reports and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.f.Close()
}
