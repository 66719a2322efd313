// Package settings provides the panel settings store.
//
// A Store holds an ordered table of panel rows plus named values in memory
// and mirrors them to a single XML document on disk. The document is read
// by Load and replaced wholesale by Save; there are no partial writes.
//
// # Usage
//
// Thread one explicitly constructed store through the components that need it:
//
//	store := settings.New(settings.DefaultPath())
//	if err := store.Load(); err != nil {
//	    return err
//	}
//
//	store.Upsert(settings.Row{PanelName: "General", Left: 10, Top: 20})
//	store.SetOverlayVisible(false)
//	if err := store.Save(); err != nil {
//	    return err
//	}
//
// Default returns the lazily loaded process-wide store backed by DefaultPath.
//
// # Threading
//
// The host drives the plugin from its UI thread. Store performs no locking;
// callers must not share it across goroutines.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package settings
