package specialspelltimer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anoyetta/specialspelltimer/internal/adapters/fs"
	"github.com/anoyetta/specialspelltimer/internal/adapters/headless"
	hostlog "github.com/anoyetta/specialspelltimer/internal/adapters/log"
	"github.com/anoyetta/specialspelltimer/pkg/host"
	"github.com/anoyetta/specialspelltimer/pkg/lifecycle"
	"github.com/anoyetta/specialspelltimer/pkg/plugin"
	"github.com/anoyetta/specialspelltimer/pkg/resolver"
	"github.com/anoyetta/specialspelltimer/pkg/settings"
)

type testHost struct {
	out     *bytes.Buffer
	loader  *fs.Loader
	log     *hostlog.ExceptionLog
	window  *headless.Window
	overlay *headless.Overlay
	host    Host
}

func newTestHost(t *testing.T, moduleDir string) *testHost {
	t.Helper()
	out := &bytes.Buffer{}
	th := &testHost{
		out:     out,
		loader:  fs.NewLoader(),
		log:     hostlog.NewExceptionLog(out),
		window:  headless.NewWindow(out, 1280),
		overlay: headless.NewOverlay(out),
	}
	th.host = Host{
		Loader:   th.loader,
		Registry: fs.NewPluginRegistry(resolver.BinaryExt, moduleDir),
		Log:      th.log,
		Collaborators: plugin.Collaborators{
			Window:  th.window,
			Overlay: th.overlay,
			Telops:  headless.NewTelops(out),
			Views:   headless.NewViews(out),
			Updates: headless.StaticUpdates{},
			Panels:  headless.Panels{},
		},
	}
	return th
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

type phases []lifecycle.Phase

func (p *phases) OnPhaseChange(previous, current lifecycle.Phase, reason string) {
	*p = append(*p, current)
}

func TestNew_EndToEnd(t *testing.T) {
	root := t.TempDir()
	moduleDir := filepath.Join(root, "module")
	sharedDir := filepath.Join(root, "shared")
	writeFile(t, filepath.Join(moduleDir, resolver.ModuleFileName))
	writeFile(t, filepath.Join(moduleDir, "FFXIV.Framework.dll"))
	writeFile(t, filepath.Join(sharedDir, "FFXIV.Framework.dll"))
	writeFile(t, filepath.Join(sharedDir, "Shared.Only.dll"))

	th := newTestHost(t, moduleDir)
	store := settings.New(filepath.Join(root, "settings", "panels.xml"))
	var seen phases

	inst, err := New(th.host,
		WithStore(store),
		WithConfig(DefaultConfig()),
		WithPluginDir(sharedDir),
		WithClock(func() time.Time { return time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC) }),
		WithEventHandler(&seen),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if th.loader.Handlers() != 1 {
		t.Fatalf("resolve handlers = %d, want 1", th.loader.Handlers())
	}
	if got, ok := th.loader.Resolve("FFXIV.Framework, Version=1.0.0.0"); !ok || got != filepath.Join(moduleDir, "FFXIV.Framework.dll") {
		t.Errorf("Resolve(module+shared) = %q, %v", got, ok)
	}
	if got, ok := th.loader.Resolve("Shared.Only"); !ok || got != filepath.Join(sharedDir, "Shared.Only.dll") {
		t.Errorf("Resolve(shared) = %q, %v", got, ok)
	}
	if _, ok := th.loader.Resolve("Missing.Assembly"); ok {
		t.Error("Resolve(missing) resolved")
	}

	screen := headless.NewScreen(th.out, host.Size{Width: 640, Height: 480})
	status := headless.NewStatus(th.out)

	inst.InitPlugin(screen, status)

	if inst.Phase() != lifecycle.PhaseRunning {
		t.Fatalf("phase = %v, want Running\n%s", inst.Phase(), th.out.String())
	}
	if status.Text() != plugin.StatusStarted || !th.overlay.Running() {
		t.Errorf("status = %q, overlay running = %v", status.Text(), th.overlay.Running())
	}
	if store.LastUpdate().IsZero() {
		t.Error("update check time not recorded")
	}

	if err := th.window.Click(plugin.ToggleName); err != nil {
		t.Fatal(err)
	}
	if store.OverlayVisible() {
		t.Error("click did not hide the overlay")
	}

	inst.DeInitPlugin()

	if inst.Phase() != lifecycle.PhaseStopped || status.Text() != plugin.StatusExited {
		t.Errorf("after deinit phase = %v, status = %q", inst.Phase(), status.Text())
	}
	if _, ok := th.window.Toggle(plugin.ToggleName); ok {
		t.Error("toggle still on the main window")
	}
	if th.log.Count() != 0 {
		t.Errorf("host log entries = %d, want 0\n%s", th.log.Count(), th.out.String())
	}
	if len(seen) != 4 {
		t.Errorf("phase changes = %v, want 4", seen)
	}
}

func TestNew_NoLoader(t *testing.T) {
	th := newTestHost(t, t.TempDir())
	th.host.Loader = nil

	_, err := New(th.host, WithStore(settings.New(filepath.Join(t.TempDir(), "s.xml"))))
	if !errors.Is(err, resolver.ErrNoLoader) {
		t.Errorf("New() error = %v, want ErrNoLoader", err)
	}
}

func TestNew_InvalidConfigFallsBackToDefaults(t *testing.T) {
	th := newTestHost(t, t.TempDir())
	cfg := DefaultConfig()
	cfg.UpdateInterval = -time.Hour

	inst, err := New(th.host,
		WithStore(settings.New(filepath.Join(t.TempDir(), "s.xml"))),
		WithConfig(cfg),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if inst.Config() != DefaultConfig() {
		t.Errorf("Config() = %+v, want defaults", inst.Config())
	}
	if th.log.Count() != 1 {
		t.Errorf("host log entries = %d, want 1", th.log.Count())
	}
}

func TestNew_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACT.SpecialSpellTimer.toml")
	content := "log_level = \"debug\"\nupdate_interval = \"2h\"\ntoggle_offset = 400\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	th := newTestHost(t, t.TempDir())
	var diag bytes.Buffer

	inst, err := New(th.host,
		WithStore(settings.New(filepath.Join(t.TempDir(), "s.xml"))),
		WithConfigPath(path),
		WithDiagnostics(&diag),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cfg := inst.Config()
	if cfg.LogLevel != "debug" || cfg.UpdateInterval != 2*time.Hour || cfg.ToggleOffset != 400 {
		t.Errorf("Config() = %+v", cfg)
	}
	if diag.Len() == 0 {
		t.Error("debug diagnostics not written")
	}
}

func TestValidateModuleVersions(t *testing.T) {
	if err := validateModuleVersions(); err != nil {
		t.Errorf("validateModuleVersions() error = %v", err)
	}
}

func TestIsVersionCompatible(t *testing.T) {
	tests := []struct {
		version, min string
		want         bool
	}{
		{"1.0.0", "1.0.0", true},
		{"1.2.0", "1.1.9", true},
		{"2.0.0", "1.9.9", true},
		{"1.0.0", "1.0.1", false},
		{"1.9.9", "2.0.0", false},
	}

	for _, tt := range tests {
		if got := isVersionCompatible(tt.version, tt.min); got != tt.want {
			t.Errorf("isVersionCompatible(%q, %q) = %v, want %v", tt.version, tt.min, got, tt.want)
		}
	}
}

func TestNew_MalformedSettingsFailInitAndKeepFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)
	t.Setenv("HOME", dir)

	path := settings.DefaultPath()
	original := []byte("<DocumentElement><PanelSettings><PanelName>Keep")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, original, 0o644); err != nil {
		t.Fatal(err)
	}

	th := newTestHost(t, t.TempDir())
	inst, err := New(th.host, WithConfig(DefaultConfig()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	status := headless.NewStatus(th.out)
	inst.InitPlugin(headless.NewScreen(th.out, host.Size{Width: 640, Height: 480}), status)

	if inst.Phase() != lifecycle.PhaseFailedInit {
		t.Errorf("phase = %v, want FailedInit", inst.Phase())
	}
	if status.Text() != plugin.StatusInitError {
		t.Errorf("status = %q, want %q", status.Text(), plugin.StatusInitError)
	}
	if th.log.Count() != 1 {
		t.Errorf("host log entries = %d, want 1\n%s", th.log.Count(), th.out.String())
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, original) {
		t.Errorf("settings document rewritten: %q", got)
	}
}
