// Package utils provides small shared helpers.
package utils

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DeferredWriter buffers log output while a full-screen TUI owns the
// terminal, so log lines can be replayed after it exits instead of
// corrupting the display.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p.
func (w *DeferredWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// Flush replays the buffered output to dst and resets the buffer. Each
// line is written separately so writers that parse one event per call,
// like zerolog's ConsoleWriter, keep working.
func (w *DeferredWriter) Flush(dst io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, line := range bytes.SplitAfter(w.buf.Bytes(), []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if _, err := dst.Write(line); err != nil {
			return fmt.Errorf("flush deferred logs: %w", err)
		}
	}
	w.buf.Reset()
	return nil
}
