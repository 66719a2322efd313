// Package resolver locates supporting libraries the host's loader could not
// find on its own.
//
// The plugin ships its dependencies next to its own file, but the host may
// load the plugin from anywhere. A Resolver registered with the host's
// [host.Loader] answers failed lookups by searching, in order:
//
//  1. the directory the host loaded the plugin file from
//  2. the host's shared plugin directory (<app-data>/Advanced Combat Tracker/Plugins)
//
// and returning the first existing <name>.dll.
//
// # Usage
//
//	r := resolver.New(registry, resolver.WithLogger(logger))
//	if err := resolver.Register(loader, r); err != nil {
//	    return err
//	}
//
// Search is the pure strategy underneath and can be used without a loader.
//
// # Failure Handling
//
// Resolution never fails loudly. Registry errors and panics are logged and
// reported as unresolved so the host's own loader reports the final error.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package resolver
