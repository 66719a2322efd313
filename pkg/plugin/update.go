package plugin

import (
	"fmt"
	"strings"
	"time"

	"github.com/anoyetta/specialspelltimer/pkg/host"
	"github.com/anoyetta/specialspelltimer/pkg/log"
)

// CheckTimeStore persists the last update-check time.
type CheckTimeStore interface {
	LastUpdate() time.Time
	SetLastUpdate(t time.Time)
	Save() error
}

// UpdateGate rate-limits the remote update query using the stored check time.
type UpdateGate struct {
	store    CheckTimeStore
	checker  host.UpdateChecker
	logger   log.Logger
	now      func() time.Time
	interval time.Duration
}

// NewUpdateGate creates a gate. A nil checker still advances the stored time.
func NewUpdateGate(store CheckTimeStore, checker host.UpdateChecker, logger log.Logger, now func() time.Time, interval time.Duration) *UpdateGate {
	return &UpdateGate{
		store:    store,
		checker:  checker,
		logger:   logger,
		now:      now,
		interval: interval,
	}
}

// Due reports whether the interval has elapsed since the last check.
// A store that never recorded a check is always due.
func (g *UpdateGate) Due() bool {
	return g.now().Sub(g.store.LastUpdate()) >= g.interval
}

// Run performs the check when due. A non-empty message is written to the
// log as a notice. The stored check time is set to now and the store saved
// whether or not there was a message; a query error is returned untouched
// by either.
func (g *UpdateGate) Run() (checked bool, err error) {
	if !g.Due() {
		g.logger.Debug("update check skipped",
			log.Time("last_check", g.store.LastUpdate()),
			log.Duration("interval", g.interval))
		return false, nil
	}

	if g.checker != nil {
		msg, err := g.checker.CheckForUpdate()
		if err != nil {
			return true, fmt.Errorf("check for update: %w", err)
		}
		if msg = strings.TrimSpace(msg); msg != "" {
			g.logger.Warn(msg)
		}
	}

	g.store.SetLastUpdate(g.now())
	if err := g.store.Save(); err != nil {
		return true, fmt.Errorf("save update check time: %w", err)
	}
	return true, nil
}
