package log

type teeLogger []Logger

// Tee returns a Logger that writes every entry to each non-nil logger in order.
func Tee(loggers ...Logger) Logger {
	out := make(teeLogger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (t teeLogger) Debug(msg string, fields ...Field) {
	for _, l := range t {
		l.Debug(msg, fields...)
	}
}

func (t teeLogger) Info(msg string, fields ...Field) {
	for _, l := range t {
		l.Info(msg, fields...)
	}
}

func (t teeLogger) Warn(msg string, fields ...Field) {
	for _, l := range t {
		l.Warn(msg, fields...)
	}
}

func (t teeLogger) Error(msg string, fields ...Field) {
	for _, l := range t {
		l.Error(msg, fields...)
	}
}
