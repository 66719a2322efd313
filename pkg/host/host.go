package host

// Size is a width/height pair in host pixels.
type Size struct {
	Width  int
	Height int
}

// Point is a location in host pixels.
type Point struct {
	X int
	Y int
}

// StatusLabel is the host's per-plugin status text.
type StatusLabel interface {
	SetText(text string)
}

// Panel is a UI element the plugin places in its screen space.
type Panel interface {
	// Resize sets the panel size. The panel stays anchored to all four edges.
	Resize(size Size)
}

// ScreenSpace is the host tab reserved for the plugin.
type ScreenSpace interface {
	SetTitle(title string)
	Size() Size
	Add(panel Panel) error
}

// Style is the visual state of a toggle.
type Style struct {
	Back string
	Fore string
}

// ToggleSpec describes a toggle control to create on the main window.
type ToggleSpec struct {
	Name     string
	Text     string
	Size     Size
	Location Point
	Style    Style
}

// Toggle is a host-owned toggle control.
type Toggle interface {
	SetStyle(style Style)
	Move(location Point)
}

// MainWindow is the host's main form.
type MainWindow interface {
	Width() int

	// AddToggle creates a control from spec; onClick runs on the UI thread.
	AddToggle(spec ToggleSpec, onClick func()) (Toggle, error)

	// RemoveToggle removes a control created by AddToggle.
	RemoveToggle(t Toggle) error

	// OnResize subscribes fn to main window resizes and returns an unsubscribe func.
	OnResize(fn func()) (cancel func())
}

// ExceptionLog is the host's error log.
type ExceptionLog interface {
	WriteExceptionLog(err error, message string)
}

// PluginFile is one entry of the host's loaded plugin list.
type PluginFile struct {
	// Path is the absolute path of the plugin file.
	Path string
}

// Registry lists the plugin files the host has loaded.
type Registry interface {
	Plugins() ([]PluginFile, error)
}

// ResolveFunc maps an unresolved dependency name to a file path.
type ResolveFunc func(name string) (path string, ok bool)

// Loader is the host's dependency-loading extension point.
type Loader interface {
	AddResolveHandler(fn ResolveFunc)
}
