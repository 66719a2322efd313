// Package plugin implements the host-facing lifecycle controller.
//
// A Plugin sequences initialization, the periodic update check, the overlay
// engine start, and the main-window visibility toggle, then tears them down
// again when the host unloads it. Host entry points never return errors or
// panic: failures are written to the host exception log and shown in the
// plugin's status label.
//
// # Usage
//
//	p, err := plugin.New(store, plugin.Collaborators{
//	    Window:  mainWindow,
//	    Overlay: engine,
//	    Telops:  telops,
//	    Views:   caches,
//	    Updates: updater,
//	    Panels:  panels,
//	}, plugin.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//
//	p.InitPlugin(tab, statusLabel) // host init call
//	...
//	p.DeInitPlugin()              // host deinit call
//
// Init and Deinit are the same operations returning a [Result], for callers
// that want the outcome.
//
// # Update Check
//
// [UpdateGate] runs once per initialization. When at least the configured
// interval (six hours by default) has passed since the stored check time it
// queries for a new release, writes any message to the host log, and stores
// the current time.
//
// # Visibility Toggle
//
// [Toggle] is the command behind the main-window button. Each click flips
// the persisted overlay flag, saves the store once, refreshes the combat
// caches and, when the overlay becomes visible, reactivates panels and
// telops. The returned [Mutation] tells the presentation layer how to
// render the button.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package plugin
