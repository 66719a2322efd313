package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anoyetta/specialspelltimer/internal/appdata"
	"github.com/anoyetta/specialspelltimer/pkg/host"
	"github.com/anoyetta/specialspelltimer/pkg/log"
)

const (
	// ModuleFileName is the plugin's own file name as listed by the host.
	ModuleFileName = "ACT.SpecialSpellTimer.dll"

	// BinaryExt is the extension of loadable dependency files.
	BinaryExt = ".dll"
)

var (
	// ErrAlreadyRegistered is returned when a resolver is registered twice.
	ErrAlreadyRegistered = errors.New("resolver: already registered")

	// ErrNoLoader is returned when Register is called without a loader.
	ErrNoLoader = errors.New("resolver: no loader")

	// ErrPanic wraps a panic recovered during resolution.
	ErrPanic = errors.New("resolver: panic during resolution")
)

// Record describes one resolution attempt.
type Record struct {
	Name       string
	SimpleName string
	Candidates []string
	Path       string
	Resolved   bool
	Err        error
}

// Resolver answers the host loader's failed dependency lookups.
type Resolver struct {
	registry   host.Registry
	pluginDir  string
	moduleFile string
	logger     log.Logger
	registered bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for resolution failures.
func WithLogger(logger log.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithPluginDir overrides the shared plugin directory.
func WithPluginDir(dir string) Option {
	return func(r *Resolver) {
		r.pluginDir = dir
	}
}

// WithModuleFile overrides the file name used to find the plugin in the registry.
func WithModuleFile(name string) Option {
	return func(r *Resolver) {
		r.moduleFile = name
	}
}

// New creates a resolver that finds the plugin's own directory through registry.
func New(registry host.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry:   registry,
		moduleFile: ModuleFileName,
		logger:     log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.pluginDir == "" {
		r.pluginDir = appdata.PluginDir(appdata.Root())
	}
	return r
}

// Register installs r as loader's resolve handler. A resolver can be
// registered only once; the handler stays active for the process lifetime.
func Register(loader host.Loader, r *Resolver) error {
	if loader == nil {
		return ErrNoLoader
	}
	if r.registered {
		return ErrAlreadyRegistered
	}
	loader.AddResolveHandler(r.Resolve)
	r.registered = true
	return nil
}

// Resolve returns the path of the first candidate file for name.
func (r *Resolver) Resolve(name string) (string, bool) {
	rec := r.Lookup(name)
	return rec.Path, rec.Resolved
}

// Lookup resolves name and returns the full record.
// When the host registry does not list the plugin file, the module
// directory is skipped and only the shared plugin directory is searched;
// that case is not an error.
func (r *Resolver) Lookup(name string) (rec Record) {
	rec = Record{Name: name, SimpleName: SimpleName(name)}

	defer func() {
		if v := recover(); v != nil {
			rec.Path = ""
			rec.Resolved = false
			rec.Err = fmt.Errorf("%w: %v", ErrPanic, v)
			r.logger.Error("dependency resolution failed",
				log.String("dependency", name),
				log.Err(rec.Err))
		}
	}()

	if rec.SimpleName == "" {
		return rec
	}

	moduleDir, err := r.ModuleDir()
	if err != nil {
		rec.Err = err
		r.logger.Error("dependency resolution failed",
			log.String("dependency", name),
			log.Err(err))
		return rec
	}

	rec.Candidates = r.candidates(moduleDir)
	rec.Path, rec.Resolved = Search(rec.SimpleName, rec.Candidates)

	if rec.Resolved {
		r.logger.Debug("dependency resolved",
			log.String("dependency", rec.SimpleName),
			log.String("path", rec.Path))
	} else {
		r.logger.Debug("dependency unresolved",
			log.String("dependency", rec.SimpleName),
			log.Strings("searched", rec.Candidates))
	}
	return rec
}

// ModuleDir returns the directory the host loaded the plugin from, or ""
// when the plugin is not in the host's list.
func (r *Resolver) ModuleDir() (string, error) {
	if r.registry == nil {
		return "", nil
	}
	files, err := r.registry.Plugins()
	if err != nil {
		return "", fmt.Errorf("resolver: query plugin registry: %w", err)
	}
	for _, f := range files {
		if strings.EqualFold(filepath.Base(f.Path), r.moduleFile) {
			return filepath.Dir(f.Path), nil
		}
	}
	return "", nil
}

// PluginDir returns the shared plugin directory searched second.
func (r *Resolver) PluginDir() string {
	return r.pluginDir
}

func (r *Resolver) candidates(moduleDir string) []string {
	dirs := make([]string, 0, 2)
	if moduleDir != "" {
		dirs = append(dirs, moduleDir)
	}
	return append(dirs, r.pluginDir)
}

// Search returns the first dirs[i]/<SimpleName(name)>.dll that exists as a file.
func Search(name string, dirs []string) (string, bool) {
	simple := SimpleName(name)
	if simple == "" {
		return "", false
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, simple+BinaryExt)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path, true
		}
	}
	return "", false
}

// SimpleName strips version, culture and key qualifiers from a display name:
// "Foo.Bar, Version=1.0.0.0, Culture=neutral" becomes "Foo.Bar".
func SimpleName(name string) string {
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
