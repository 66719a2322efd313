package log

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotice is passed to the host log for warnings that carry no error.
var ErrNotice = errors.New("notice")

// ExceptionWriter is the host application's exception log.
type ExceptionWriter interface {
	WriteExceptionLog(err error, message string)
}

// HostAdapter implements Logger on top of the host exception log.
// Debug and Info entries are dropped; the host log is for failures and notices.
type HostAdapter struct {
	sink ExceptionWriter
	tag  string
}

// NewHostAdapter creates an adapter that writes "<tag> <msg>" entries to sink.
func NewHostAdapter(sink ExceptionWriter, tag string) *HostAdapter {
	return &HostAdapter{sink: sink, tag: tag}
}

func (h *HostAdapter) Debug(msg string, fields ...Field) {}
func (h *HostAdapter) Info(msg string, fields ...Field)  {}

// Warn writes the message to the host log.
func (h *HostAdapter) Warn(msg string, fields ...Field) {
	h.write(msg, fields)
}

// Error writes the message to the host log.
func (h *HostAdapter) Error(msg string, fields ...Field) {
	h.write(msg, fields)
}

func (h *HostAdapter) write(msg string, fields []Field) {
	if h.sink == nil {
		return
	}
	err := errorOf(fields)
	if err == nil {
		err = ErrNotice
	}
	h.sink.WriteExceptionLog(err, h.format(msg, fields))
}

// format renders the tag, message and non-error fields as one line.
func (h *HostAdapter) format(msg string, fields []Field) string {
	var b strings.Builder
	if h.tag != "" {
		b.WriteString(h.tag)
		b.WriteByte(' ')
	}
	b.WriteString(msg)

	extra := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := f.Value.(error); ok {
			continue
		}
		extra = append(extra, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	sort.Strings(extra)
	if len(extra) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(extra, ", "))
		b.WriteByte(')')
	}
	return b.String()
}
