// Package log provides the logging abstraction used by the plugin packages.
//
// Components depend only on the Logger interface. Three sinks are provided:
// a zerolog adapter for diagnostic output, a host adapter that forwards
// warnings and errors into the host application's exception log, and a
// no-op logger for tests. Tee combines several sinks into one.
//
// # Usage
//
// Log diagnostics to stderr and surface failures in the host:
//
//	diag, err := log.NewZerologAdapter(os.Stderr, "info")
//	if err != nil {
//	    return err
//	}
//	logger := log.Tee(diag, log.NewHostAdapter(hostLog, log.ModuleTag))
//
//	logger.Error("plugin initialization failed", log.Err(err))
//
// # Host Exception Log
//
// The host accepts an error value and free text. HostAdapter prefixes the
// text with the module tag and passes the entry's error field through; Warn
// entries without an error field are written with ErrNotice.
//
// # Version
//
// Current version: 1.1.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package log
