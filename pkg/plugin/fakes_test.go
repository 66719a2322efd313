package plugin

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/anoyetta/specialspelltimer/pkg/host"
	"github.com/anoyetta/specialspelltimer/pkg/lifecycle"
	"github.com/anoyetta/specialspelltimer/pkg/log"
	"github.com/anoyetta/specialspelltimer/pkg/settings"
)

// countingStore counts Save calls on a real store.
type countingStore struct {
	*settings.Store
	saves   int
	saveErr error
}

func (c *countingStore) Save() error {
	c.saves++
	if c.saveErr != nil {
		return c.saveErr
	}
	return c.Store.Save()
}

type fakeStatus struct {
	texts []string
	panic bool
}

func (f *fakeStatus) SetText(text string) {
	if f.panic {
		panic("label disposed")
	}
	f.texts = append(f.texts, text)
}

func (f *fakeStatus) Last() string {
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type fakePanel struct {
	size host.Size
}

func (f *fakePanel) Resize(size host.Size) { f.size = size }

type fakeScreen struct {
	title  string
	size   host.Size
	panels []host.Panel
	addErr error
}

func (f *fakeScreen) SetTitle(title string) { f.title = title }
func (f *fakeScreen) Size() host.Size       { return f.size }
func (f *fakeScreen) Add(panel host.Panel) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.panels = append(f.panels, panel)
	return nil
}

type fakeToggle struct {
	style    host.Style
	location host.Point
}

func (f *fakeToggle) SetStyle(style host.Style) { f.style = style }
func (f *fakeToggle) Move(location host.Point)  { f.location = location }

type fakeWindow struct {
	width     int
	specs     []host.ToggleSpec
	toggles   []*fakeToggle
	onClick   func()
	subs      map[int]func()
	nextSub   int
	removed   int
	addErr    error
	removeErr error
}

func newFakeWindow(width int) *fakeWindow {
	return &fakeWindow{width: width, subs: map[int]func(){}}
}

func (f *fakeWindow) Width() int { return f.width }

func (f *fakeWindow) AddToggle(spec host.ToggleSpec, onClick func()) (host.Toggle, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	t := &fakeToggle{style: spec.Style, location: spec.Location}
	f.specs = append(f.specs, spec)
	f.toggles = append(f.toggles, t)
	f.onClick = onClick
	return t, nil
}

func (f *fakeWindow) RemoveToggle(t host.Toggle) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed++
	return nil
}

func (f *fakeWindow) OnResize(fn func()) func() {
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	return func() { delete(f.subs, id) }
}

func (f *fakeWindow) Resize(width int) {
	f.width = width
	for _, fn := range f.subs {
		fn()
	}
}

func (f *fakeWindow) Click() { f.onClick() }

type fakeOverlay struct {
	begins      int
	ends        int
	activations int
	beginErr    error
	beginPanic  bool
	endErr      error
}

func (f *fakeOverlay) Begin() error {
	f.begins++
	if f.beginPanic {
		panic("overlay window handle is invalid")
	}
	return f.beginErr
}

func (f *fakeOverlay) End() error {
	f.ends++
	return f.endErr
}

func (f *fakeOverlay) ActivatePanels() error {
	f.activations++
	return nil
}

type fakeTelops struct {
	activations int
}

func (f *fakeTelops) ActivateTelops() error {
	f.activations++
	return nil
}

type fakeViews struct {
	players int
	parties int
}

func (f *fakeViews) RefreshPlayer() error {
	f.players++
	return nil
}

func (f *fakeViews) RefreshPartyList() error {
	f.parties++
	return nil
}

type fakeUpdates struct {
	calls int
	msg   string
	err   error
}

func (f *fakeUpdates) CheckForUpdate() (string, error) {
	f.calls++
	return f.msg, f.err
}

type fakePanels struct {
	panel *fakePanel
	err   error
}

func (f *fakePanels) NewConfigPanel() (host.Panel, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.panel, nil
}

type hostEntry struct {
	err error
	msg string
}

type recordingLog struct {
	entries []hostEntry
}

func (r *recordingLog) WriteExceptionLog(err error, message string) {
	r.entries = append(r.entries, hostEntry{err: err, msg: message})
}

type phaseRecorder struct {
	phases []lifecycle.Phase
}

func (r *phaseRecorder) OnPhaseChange(previous, current lifecycle.Phase, reason string) {
	r.phases = append(r.phases, current)
}

// harness wires a plugin to fakes with a fixed clock.
type harness struct {
	now     time.Time
	store   *countingStore
	window  *fakeWindow
	screen  *fakeScreen
	status  *fakeStatus
	overlay *fakeOverlay
	telops  *fakeTelops
	views   *fakeViews
	updates *fakeUpdates
	panels  *fakePanels
	hostLog *recordingLog
	events  *phaseRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anoyetta", "ACT", "ACT.SpecialSpellTimer.Panels.xml")
	return &harness{
		now:     time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		store:   &countingStore{Store: settings.New(path)},
		window:  newFakeWindow(1600),
		screen:  &fakeScreen{size: host.Size{Width: 800, Height: 600}},
		status:  &fakeStatus{},
		overlay: &fakeOverlay{},
		telops:  &fakeTelops{},
		views:   &fakeViews{},
		updates: &fakeUpdates{},
		panels:  &fakePanels{panel: &fakePanel{}},
		hostLog: &recordingLog{},
		events:  &phaseRecorder{},
	}
}

func (h *harness) plugin(t *testing.T, opts ...Option) *Plugin {
	t.Helper()
	base := []Option{
		WithLogger(log.NewHostAdapter(h.hostLog, log.ModuleTag)),
		WithClock(func() time.Time { return h.now }),
		WithEventHandler(h.events),
	}
	p, err := New(h.store, Collaborators{
		Window:  h.window,
		Overlay: h.overlay,
		Telops:  h.telops,
		Views:   h.views,
		Updates: h.updates,
		Panels:  h.panels,
	}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

// checkedRecently stores a check time inside the update interval.
func (h *harness) checkedRecently() {
	h.store.SetLastUpdate(h.now.Add(-time.Hour))
}
