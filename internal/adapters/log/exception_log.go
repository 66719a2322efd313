// Package log implements the host exception log on an io.Writer.
package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ExceptionLog implements host.ExceptionLog by appending one line per entry.
type ExceptionLog struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
	n   int
}

// NewExceptionLog creates a log writing to w.
func NewExceptionLog(w io.Writer) *ExceptionLog {
	return &ExceptionLog{w: w, now: time.Now}
}

// WriteExceptionLog writes "<time> <message>: <err>".
func (l *ExceptionLog) WriteExceptionLog(err error, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.n++
	ts := l.now().Format("2006-01-02 15:04:05")
	if err == nil {
		fmt.Fprintf(l.w, "%s %s\n", ts, message)
		return
	}
	fmt.Fprintf(l.w, "%s %s: %v\n", ts, message, err)
}

// Count returns the number of entries written.
func (l *ExceptionLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}
