package plugin

import (
	"errors"
	"fmt"

	"github.com/anoyetta/specialspelltimer/pkg/host"
	"github.com/anoyetta/specialspelltimer/pkg/lifecycle"
	"github.com/anoyetta/specialspelltimer/pkg/log"
)

// Host-visible text.
const (
	TabTitle = "SpecialSpellTimer(スペスペ)"

	StatusInitializing = "Plugin Initializing"
	StatusStarted      = "Plugin Started"
	StatusInitError    = "Plugin Initialize Error"
	StatusExited       = "Plugin Exited"
	StatusExitError    = "Plugin Exited Error"
)

// Store is the part of the settings store the plugin uses.
// *settings.Store satisfies it.
type Store interface {
	VisibilityStore
	CheckTimeStore

	// LoadErr reports a failed load of the backing document. Init refuses
	// to start on such a store.
	LoadErr() error
}

// Collaborators are the external services the plugin drives.
// Window, Overlay and Panels are required; the rest may be nil.
type Collaborators struct {
	Window  host.MainWindow
	Overlay host.Overlay
	Telops  host.TelopActivator
	Views   host.ViewRefresher
	Updates host.UpdateChecker
	Panels  host.PanelFactory
}

func (c Collaborators) validate() error {
	switch {
	case c.Window == nil:
		return fmt.Errorf("%w: main window", ErrMissingCollaborator)
	case c.Overlay == nil:
		return fmt.Errorf("%w: overlay", ErrMissingCollaborator)
	case c.Panels == nil:
		return fmt.Errorf("%w: panel factory", ErrMissingCollaborator)
	}
	return nil
}

// Result is the outcome of Init or Deinit.
type Result struct {
	Phase  lifecycle.Phase
	Status string
	Err    error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Plugin is the lifecycle controller for one plugin instance.
type Plugin struct {
	store   Store
	c       Collaborators
	opts    options
	machine *lifecycle.Machine
	logger  log.Logger
	gate    *UpdateGate
	toggle  *Toggle

	status      host.StatusLabel
	panel       host.Panel
	affordance  host.Toggle
	unsubscribe func()
}

// New creates a plugin in PhaseUninitialized. The store is shared with the
// caller; the plugin never replaces it.
func New(store Store, c Collaborators, opts ...Option) (*Plugin, error) {
	if store == nil {
		return nil, errors.New("plugin: nil settings store")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Plugin{
		store:   store,
		c:       c,
		opts:    o,
		machine: lifecycle.NewMachine(o.logger, o.emitter),
		logger:  o.logger,
		gate:    NewUpdateGate(store, c.Updates, o.logger, o.now, o.updateInterval),
		toggle:  NewToggle(store, c.Overlay, c.Telops, c.Views),
	}, nil
}

// Phase returns the current lifecycle phase.
func (p *Plugin) Phase() lifecycle.Phase {
	return p.machine.Phase()
}

// Store returns the settings store the plugin reads and writes.
func (p *Plugin) Store() Store {
	return p.store
}

// Toggle returns the visibility command handler.
func (p *Plugin) Toggle() *Toggle {
	return p.toggle
}

// HasToggle reports whether the toggle affordance is currently registered.
func (p *Plugin) HasToggle() bool {
	return p.affordance != nil
}

// InitPlugin is the host's init entry point. It never panics.
func (p *Plugin) InitPlugin(screen host.ScreenSpace, status host.StatusLabel) {
	defer p.contain("InitPlugin")
	p.Init(screen, status)
}

// DeInitPlugin is the host's deinit entry point. It never panics.
func (p *Plugin) DeInitPlugin() {
	defer p.contain("DeInitPlugin")
	p.Deinit()
}

// Init runs the initialization sequence once. On failure the plugin stays
// loaded in PhaseFailedInit; it is not retried.
func (p *Plugin) Init(screen host.ScreenSpace, status host.StatusLabel) Result {
	if !p.machine.CanInit() {
		return p.reject("init ignored", ErrAlreadyInitialized)
	}
	if err := p.machine.TransitionTo(lifecycle.PhaseInitializing, "InitPlugin called"); err != nil {
		return p.reject("init ignored", fmt.Errorf("%w: %w", ErrAlreadyInitialized, err))
	}

	p.status = status
	p.setStatus(StatusInitializing)

	if err := p.initialize(screen); err != nil {
		p.logger.Error("plugin initialization failed", log.Err(err))
		p.setStatus(StatusInitError)
		_ = p.machine.TransitionTo(lifecycle.PhaseFailedInit, err.Error())
		return Result{Phase: p.machine.Phase(), Status: StatusInitError, Err: err}
	}

	p.setStatus(StatusStarted)
	_ = p.machine.TransitionTo(lifecycle.PhaseRunning, "initialized")
	return Result{Phase: p.machine.Phase(), Status: StatusStarted}
}

// initialize runs the init steps in order, stopping at the first failure.
func (p *Plugin) initialize(screen host.ScreenSpace) (err error) {
	defer recoverInto(&err)

	if screen == nil {
		return errors.New("no screen space")
	}
	screen.SetTitle(TabTitle)

	if err := p.store.LoadErr(); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if _, err := p.gate.Run(); err != nil {
		return err
	}

	panel, err := p.c.Panels.NewConfigPanel()
	if err != nil {
		return fmt.Errorf("create config panel: %w", err)
	}
	if err := screen.Add(panel); err != nil {
		return fmt.Errorf("attach config panel: %w", err)
	}
	panel.Resize(screen.Size())
	p.panel = panel

	if err := p.c.Overlay.Begin(); err != nil {
		return fmt.Errorf("start overlay: %w", err)
	}

	if err := p.attachToggle(); err != nil {
		return fmt.Errorf("register toggle: %w", err)
	}
	return nil
}

// Deinit stops the overlay and removes the toggle. Every step runs even if
// an earlier one fails; the combined error is reported.
func (p *Plugin) Deinit() Result {
	if !p.machine.CanDeinit() {
		return p.reject("deinit ignored", ErrNotRunning)
	}
	if err := p.machine.TransitionTo(lifecycle.PhaseDeinitializing, "DeInitPlugin called"); err != nil {
		return p.reject("deinit ignored", fmt.Errorf("%w: %w", ErrNotRunning, err))
	}

	var errs []error
	if err := safeCall(p.c.Overlay.End); err != nil {
		errs = append(errs, fmt.Errorf("stop overlay: %w", err))
	}
	if err := safeCall(p.detachToggle); err != nil {
		errs = append(errs, fmt.Errorf("remove toggle: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		p.logger.Error("plugin deinitialization failed", log.Err(err))
		p.setStatus(StatusExitError)
		_ = p.machine.TransitionTo(lifecycle.PhaseFailedDeinit, err.Error())
		return Result{Phase: p.machine.Phase(), Status: StatusExitError, Err: err}
	}

	p.setStatus(StatusExited)
	_ = p.machine.TransitionTo(lifecycle.PhaseStopped, "deinitialized")
	return Result{Phase: p.machine.Phase(), Status: StatusExited}
}

// reject logs a host call that arrived in the wrong phase. The phase is unchanged.
func (p *Plugin) reject(msg string, err error) Result {
	phase := p.machine.Phase()
	p.logger.Warn(msg,
		log.String("phase", phase.String()),
		log.Bool("unloaded", phase.Terminal()),
		log.Err(err))
	return Result{Phase: phase, Err: err}
}

func (p *Plugin) attachToggle() error {
	w := p.c.Window
	spec := NewToggleSpec(w.Width(), p.opts.toggleOffset, p.toggle.Visible())

	t, err := w.AddToggle(spec, p.onToggleClick)
	if err != nil {
		return err
	}
	p.affordance = t
	p.unsubscribe = w.OnResize(p.relocateToggle)
	p.relocateToggle()
	return nil
}

func (p *Plugin) detachToggle() error {
	if p.affordance == nil {
		return nil
	}
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	if err := p.c.Window.RemoveToggle(p.affordance); err != nil {
		return err
	}
	p.affordance = nil
	return nil
}

// relocateToggle keeps the toggle anchored to the window's right edge.
func (p *Plugin) relocateToggle() {
	if p.affordance == nil {
		return
	}
	p.affordance.Move(ToggleLocation(p.c.Window.Width(), p.opts.toggleOffset))
}

// onToggleClick runs on the host UI thread for every toggle click.
func (p *Plugin) onToggleClick() {
	var m Mutation
	err := safeCall(func() error {
		var clickErr error
		m, clickErr = p.toggle.Click()
		return clickErr
	})
	if errors.Is(err, ErrPanic) {
		visible := p.store.OverlayVisible()
		m = Mutation{Visible: visible, Style: StyleFor(visible)}
	}

	if p.affordance != nil {
		if styleErr := safeCall(func() error {
			p.affordance.SetStyle(m.Style)
			return nil
		}); styleErr != nil {
			err = errors.Join(err, styleErr)
		}
	}

	if err != nil {
		p.logger.Error("overlay toggle failed",
			log.Bool("visible", m.Visible),
			log.Err(err))
		return
	}
	p.logger.Info("overlay toggled", log.Bool("visible", m.Visible))
}

func (p *Plugin) setStatus(text string) {
	if p.status == nil {
		return
	}
	err := safeCall(func() error {
		p.status.SetText(text)
		return nil
	})
	if err != nil {
		p.logger.Warn("status update failed", log.String("status", text), log.Err(err))
	}
}

// contain keeps panics raised outside the guarded steps (for example by the
// status label or the logger) from reaching the host.
func (p *Plugin) contain(entry string) {
	if v := recover(); v != nil {
		defer func() { _ = recover() }()
		p.logger.Error("host entry point panicked",
			log.String("entry", entry),
			log.Err(fmt.Errorf("%w: %v", ErrPanic, v)))
	}
}
