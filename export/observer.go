// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"fmt"
	"io"
	"time"
)

// Observer receives Degradation-kind diagnostics as the writer falls
// back to an approximation and continues. It is never called for
// Skip (silent) or fatal kinds, which are reported through Write's
// error return instead.
type Observer interface {
	Warn(kind Kind, format string, args ...any)
}

// consoleObserver writes one line per warning to an io.Writer,
// timestamped, in the spirit of a small logger writer rather than a
// full structured-logging pipeline.
type consoleObserver struct {
	w io.Writer
}

// NewConsoleObserver returns an Observer that writes each warning as
// a single line to w.
func NewConsoleObserver(w io.Writer) Observer { return &consoleObserver{w: w} }

func (c *consoleObserver) Warn(kind Kind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(c.w, "%s export: %s: %s\n", time.Now().UTC().Format("15:04:05.000"), kind, msg)
}

// discardObserver drops every warning; it is the default when
// Options.Observer is left nil.
type discardObserver struct{}

func (discardObserver) Warn(Kind, string, ...any) {}

// defaultObserver is the writer's fallback Observer when
// Options.Observer is left nil. Callers that want console output
// pass export.NewConsoleObserver(os.Stderr) explicitly.
var defaultObserver Observer = discardObserver{}
