package plugin

import (
	"time"

	"github.com/anoyetta/specialspelltimer/pkg/lifecycle"
	"github.com/anoyetta/specialspelltimer/pkg/log"
)

const (
	// DefaultUpdateInterval is the minimum time between update checks.
	DefaultUpdateInterval = 6 * time.Hour

	// DefaultToggleOffset is the toggle's distance from the main window's right edge.
	DefaultToggleOffset = 533
)

// Option configures optional behavior of a Plugin.
type Option func(*options)

// options holds the optional configuration for a Plugin.
type options struct {
	logger         log.Logger
	now            func() time.Time
	updateInterval time.Duration
	toggleOffset   int
	emitter        lifecycle.EventEmitter
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger:         log.NewNoopLogger(),
		now:            time.Now,
		updateInterval: DefaultUpdateInterval,
		toggleOffset:   DefaultToggleOffset,
	}
}

// WithLogger sets the logger. Errors logged here should reach the host
// exception log; see log.NewHostAdapter.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithUpdateInterval sets the minimum time between update checks.
func WithUpdateInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.updateInterval = d
		}
	}
}

// WithToggleOffset sets the toggle's distance from the main window's right edge.
func WithToggleOffset(offset int) Option {
	return func(o *options) {
		o.toggleOffset = offset
	}
}

// WithEventHandler receives every phase change.
func WithEventHandler(emitter lifecycle.EventEmitter) Option {
	return func(o *options) {
		o.emitter = emitter
	}
}
