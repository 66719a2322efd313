package headless

import (
	"fmt"
	"io"

	"github.com/anoyetta/specialspelltimer/pkg/host"
)

// Overlay implements host.Overlay by printing each call.
type Overlay struct {
	w       io.Writer
	running bool
}

// NewOverlay creates an overlay echoing to w.
func NewOverlay(w io.Writer) *Overlay {
	return &Overlay{w: w}
}

func (o *Overlay) Begin() error {
	o.running = true
	fmt.Fprintln(o.w, "overlay: begin")
	return nil
}

func (o *Overlay) End() error {
	o.running = false
	fmt.Fprintln(o.w, "overlay: end")
	return nil
}

func (o *Overlay) ActivatePanels() error {
	fmt.Fprintln(o.w, "overlay: panels activated")
	return nil
}

// Running reports whether Begin was called without a matching End.
func (o *Overlay) Running() bool {
	return o.running
}

// Telops implements host.TelopActivator.
type Telops struct{ w io.Writer }

// NewTelops creates a telop activator echoing to w.
func NewTelops(w io.Writer) *Telops { return &Telops{w: w} }

func (t *Telops) ActivateTelops() error {
	fmt.Fprintln(t.w, "telops: activated")
	return nil
}

// Views implements host.ViewRefresher.
type Views struct{ w io.Writer }

// NewViews creates a view refresher echoing to w.
func NewViews(w io.Writer) *Views { return &Views{w: w} }

func (v *Views) RefreshPlayer() error {
	fmt.Fprintln(v.w, "views: player refreshed")
	return nil
}

func (v *Views) RefreshPartyList() error {
	fmt.Fprintln(v.w, "views: party list refreshed")
	return nil
}

// StaticUpdates implements host.UpdateChecker with a fixed answer.
type StaticUpdates struct {
	Message string
	Err     error
}

func (s StaticUpdates) CheckForUpdate() (string, error) {
	return s.Message, s.Err
}

// Panels implements host.PanelFactory.
type Panels struct{}

func (Panels) NewConfigPanel() (host.Panel, error) {
	return &Panel{}, nil
}
