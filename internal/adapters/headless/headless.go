// Package headless is an in-memory host for running the plugin lifecycle
// outside the host application. Every UI call is echoed to a writer.
package headless

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/anoyetta/specialspelltimer/pkg/host"
)

// ErrUnknownToggle is returned when removing a toggle the window does not own.
var ErrUnknownToggle = errors.New("headless: unknown toggle")

// Status implements host.StatusLabel.
type Status struct {
	w    io.Writer
	text string
}

// NewStatus creates a status label echoing to w.
func NewStatus(w io.Writer) *Status {
	return &Status{w: w}
}

// SetText records and prints text.
func (s *Status) SetText(text string) {
	s.text = text
	fmt.Fprintf(s.w, "status: %s\n", text)
}

// Text returns the last text set.
func (s *Status) Text() string {
	return s.text
}

// Panel implements host.Panel.
type Panel struct {
	Size host.Size
}

// Resize sets the panel size.
func (p *Panel) Resize(size host.Size) {
	p.Size = size
}

// Screen implements host.ScreenSpace.
type Screen struct {
	w      io.Writer
	title  string
	size   host.Size
	panels []host.Panel
}

// NewScreen creates a screen space of the given size.
func NewScreen(w io.Writer, size host.Size) *Screen {
	return &Screen{w: w, size: size}
}

func (s *Screen) SetTitle(title string) {
	s.title = title
	fmt.Fprintf(s.w, "tab: %s\n", title)
}

func (s *Screen) Size() host.Size { return s.size }

func (s *Screen) Add(panel host.Panel) error {
	s.panels = append(s.panels, panel)
	return nil
}

// Title returns the tab title.
func (s *Screen) Title() string {
	return s.title
}

// Panels returns the number of attached panels.
func (s *Screen) Panels() int {
	return len(s.panels)
}

// Toggle implements host.Toggle.
type Toggle struct {
	w        io.Writer
	spec     host.ToggleSpec
	onClick  func()
	style    host.Style
	location host.Point
}

func (t *Toggle) SetStyle(style host.Style) {
	t.style = style
	fmt.Fprintf(t.w, "toggle %s: style %s/%s\n", t.spec.Name, style.Back, style.Fore)
}

func (t *Toggle) Move(location host.Point) {
	t.location = location
	fmt.Fprintf(t.w, "toggle %s: at (%d,%d)\n", t.spec.Name, location.X, location.Y)
}

// Style returns the current style.
func (t *Toggle) Style() host.Style { return t.style }

// Location returns the current location.
func (t *Toggle) Location() host.Point { return t.location }

// Window implements host.MainWindow.
type Window struct {
	w       io.Writer
	width   int
	toggles map[string]*Toggle
	subs    map[int]func()
	nextSub int
}

// NewWindow creates a main window of the given width.
func NewWindow(w io.Writer, width int) *Window {
	return &Window{
		w:       w,
		width:   width,
		toggles: make(map[string]*Toggle),
		subs:    make(map[int]func()),
	}
}

func (m *Window) Width() int { return m.width }

func (m *Window) AddToggle(spec host.ToggleSpec, onClick func()) (host.Toggle, error) {
	if _, ok := m.toggles[spec.Name]; ok {
		return nil, fmt.Errorf("headless: toggle %q already exists", spec.Name)
	}
	t := &Toggle{w: m.w, spec: spec, onClick: onClick, style: spec.Style, location: spec.Location}
	m.toggles[spec.Name] = t
	fmt.Fprintf(m.w, "toggle %s: added %q at (%d,%d)\n", spec.Name, spec.Text, spec.Location.X, spec.Location.Y)
	return t, nil
}

func (m *Window) RemoveToggle(t host.Toggle) error {
	ht, ok := t.(*Toggle)
	if !ok || m.toggles[ht.spec.Name] != ht {
		return ErrUnknownToggle
	}
	delete(m.toggles, ht.spec.Name)
	fmt.Fprintf(m.w, "toggle %s: removed\n", ht.spec.Name)
	return nil
}

func (m *Window) OnResize(fn func()) func() {
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() { delete(m.subs, id) }
}

// Resize changes the width and notifies subscribers in subscription order.
func (m *Window) Resize(width int) {
	m.width = width
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		m.subs[id]()
	}
}

// Toggle returns the toggle with the given name.
func (m *Window) Toggle(name string) (*Toggle, bool) {
	t, ok := m.toggles[name]
	return t, ok
}

// Click invokes the click handler of the named toggle.
func (m *Window) Click(name string) error {
	t, ok := m.toggles[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownToggle, name)
	}
	t.onClick()
	return nil
}

// Subscribers returns the number of active resize subscriptions.
func (m *Window) Subscribers() int {
	return len(m.subs)
}
