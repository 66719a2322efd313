package host

// Overlay is the spell timer engine.
type Overlay interface {
	Begin() error
	End() error
	ActivatePanels() error
}

// TelopActivator shows the one-point telop windows.
type TelopActivator interface {
	ActivateTelops() error
}

// ViewRefresher refreshes the combat-state caches the overlay reads.
type ViewRefresher interface {
	RefreshPlayer() error
	RefreshPartyList() error
}

// UpdateChecker queries for a newer plugin release.
// An empty message means there is nothing to report.
type UpdateChecker interface {
	CheckForUpdate() (message string, err error)
}

// PanelFactory builds the configuration panel shown in the plugin tab.
type PanelFactory interface {
	NewConfigPanel() (Panel, error)
}
