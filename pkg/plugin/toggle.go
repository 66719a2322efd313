package plugin

import (
	"errors"
	"fmt"

	"github.com/anoyetta/specialspelltimer/pkg/host"
)

// Toggle presentation constants.
const (
	ToggleName   = "SpecialSpellTimerSwitchVisibleButton"
	ToggleText   = "スペスペ"
	ToggleWidth  = 90
	ToggleHeight = 24
)

var (
	// ActiveStyle renders the toggle while the overlay is visible.
	ActiveStyle = host.Style{Back: "OrangeRed", Fore: "WhiteSmoke"}

	// InactiveStyle renders the toggle while the overlay is hidden.
	InactiveStyle = host.Style{Back: "Control", Fore: "Black"}
)

// StyleFor returns the toggle style for the given visibility.
func StyleFor(visible bool) host.Style {
	if visible {
		return ActiveStyle
	}
	return InactiveStyle
}

// ToggleLocation anchors the toggle offset pixels left of the window's right edge.
func ToggleLocation(windowWidth, offset int) host.Point {
	return host.Point{X: windowWidth - offset, Y: 0}
}

// NewToggleSpec describes the toggle for the current window width and visibility.
func NewToggleSpec(windowWidth, offset int, visible bool) host.ToggleSpec {
	return host.ToggleSpec{
		Name:     ToggleName,
		Text:     ToggleText,
		Size:     host.Size{Width: ToggleWidth, Height: ToggleHeight},
		Location: ToggleLocation(windowWidth, offset),
		Style:    StyleFor(visible),
	}
}

// VisibilityStore persists the overlay visibility flag.
type VisibilityStore interface {
	OverlayVisible() bool
	SetOverlayVisible(visible bool)
	Save() error
}

// Mutation is the state change produced by one click.
type Mutation struct {
	Visible bool
	Style   host.Style
}

// Toggle is the command handler behind the visibility button.
type Toggle struct {
	store   VisibilityStore
	overlay host.Overlay
	telops  host.TelopActivator
	views   host.ViewRefresher
}

// NewToggle creates the command handler. Nil telops and views are skipped.
func NewToggle(store VisibilityStore, overlay host.Overlay, telops host.TelopActivator, views host.ViewRefresher) *Toggle {
	return &Toggle{
		store:   store,
		overlay: overlay,
		telops:  telops,
		views:   views,
	}
}

// Visible returns the persisted overlay visibility.
func (t *Toggle) Visible() bool {
	return t.store.OverlayVisible()
}

// Click flips and saves the overlay flag, refreshes the combat caches and,
// when the overlay becomes visible, reactivates panels and telops.
// The returned Mutation is valid even when err is non-nil.
func (t *Toggle) Click() (Mutation, error) {
	visible := !t.store.OverlayVisible()
	t.store.SetOverlayVisible(visible)
	m := Mutation{Visible: visible, Style: StyleFor(visible)}

	var errs []error
	if err := t.store.Save(); err != nil {
		errs = append(errs, fmt.Errorf("save overlay visibility: %w", err))
	}

	if t.views != nil {
		if err := safeCall(t.views.RefreshPlayer); err != nil {
			errs = append(errs, fmt.Errorf("refresh player: %w", err))
		}
		if err := safeCall(t.views.RefreshPartyList); err != nil {
			errs = append(errs, fmt.Errorf("refresh party list: %w", err))
		}
	}

	if visible {
		if err := safeCall(t.overlay.ActivatePanels); err != nil {
			errs = append(errs, fmt.Errorf("activate panels: %w", err))
		}
		if t.telops != nil {
			if err := safeCall(t.telops.ActivateTelops); err != nil {
				errs = append(errs, fmt.Errorf("activate telops: %w", err))
			}
		}
	}

	return m, errors.Join(errs...)
}
