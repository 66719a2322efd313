// Package host defines the contracts between the plugin and the application
// that loads it, plus the external collaborators the plugin drives.
//
// Nothing here has behavior: the host bridge implements these interfaces and
// the plugin packages depend only on them.
//
// # Host Contracts
//
//   - [StatusLabel], [ScreenSpace], [MainWindow], [Toggle]: UI handles the host owns
//   - [ExceptionLog]: the host's error log
//   - [Registry]: the host's list of loaded plugin files
//   - [Loader]: the host's dependency loader extension point
//
// # Collaborators
//
//   - [Overlay], [TelopActivator], [ViewRefresher]: the timer engine and caches
//   - [UpdateChecker]: the remote update query
//   - [PanelFactory]: builds the configuration panel
//
// Every collaborator call returns an error; a non-nil error is treated the
// same as a raised failure by the lifecycle controller.
package host
