// Package specialspelltimer is the host-facing entry point of the
// SpecialSpellTimer plugin.
//
// Example usage from the host bridge:
//
//	inst, err := specialspelltimer.New(specialspelltimer.Host{
//	    Loader:        loader,
//	    Registry:      registry,
//	    Log:           exceptionLog,
//	    Collaborators: collaborators,
//	})
//	if err != nil {
//	    return err
//	}
//	inst.InitPlugin(screen, status)
//	// ... host runs ...
//	inst.DeInitPlugin()
package specialspelltimer

import (
	"fmt"
	"io"
	"time"

	"github.com/anoyetta/specialspelltimer/internal/config"
	"github.com/anoyetta/specialspelltimer/pkg/host"
	"github.com/anoyetta/specialspelltimer/pkg/lifecycle"
	"github.com/anoyetta/specialspelltimer/pkg/log"
	"github.com/anoyetta/specialspelltimer/pkg/plugin"
	"github.com/anoyetta/specialspelltimer/pkg/resolver"
	"github.com/anoyetta/specialspelltimer/pkg/settings"
)

// Config holds the tunable plugin settings.
// Use DefaultConfig() to get a Config with default values.
type Config = config.Config

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// Host groups the services the host application hands to the plugin.
type Host struct {
	Loader        host.Loader
	Registry      host.Registry
	Log           host.ExceptionLog
	Collaborators plugin.Collaborators
}

// Instance is one loaded plugin. The embedded Plugin provides the
// InitPlugin and DeInitPlugin entry points.
type Instance struct {
	*plugin.Plugin

	resolver *resolver.Resolver
	config   Config
	logger   log.Logger
}

// Resolver returns the dependency resolver registered with the host loader.
func (i *Instance) Resolver() *resolver.Resolver {
	return i.resolver
}

// Config returns the configuration the instance was built with.
func (i *Instance) Config() Config {
	return i.config
}

// Logger returns the combined diagnostic and host logger.
func (i *Instance) Logger() log.Logger {
	return i.logger
}

// Option configures New.
type Option func(*options)

type options struct {
	store       plugin.Store
	cfg         *Config
	configPath  string
	diagnostics io.Writer
	pluginDir   string
	now         func() time.Time
	emitter     lifecycle.EventEmitter
}

// WithStore uses store instead of the process-wide settings.Default().
func WithStore(store plugin.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithConfig uses cfg as-is instead of loading the config file.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = &cfg
	}
}

// WithConfigPath overrides the config file location.
func WithConfigPath(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithDiagnostics writes leveled console logs to w in addition to the host log.
func WithDiagnostics(w io.Writer) Option {
	return func(o *options) {
		o.diagnostics = w
	}
}

// WithPluginDir overrides the shared plugin directory searched by the resolver.
func WithPluginDir(dir string) Option {
	return func(o *options) {
		o.pluginDir = dir
	}
}

// WithClock replaces time.Now for the update-check gate.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithEventHandler receives every lifecycle phase change.
func WithEventHandler(emitter lifecycle.EventEmitter) Option {
	return func(o *options) {
		o.emitter = emitter
	}
}

// New builds a plugin instance. The dependency resolver is registered with
// the host loader before any other work so later loads can use it.
func New(h Host, opts ...Option) (*Instance, error) {
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	hostLogger := log.NewHostAdapter(h.Log, log.ModuleTag)

	var resolverOpts []resolver.Option
	resolverOpts = append(resolverOpts, resolver.WithLogger(hostLogger))
	if o.pluginDir != "" {
		resolverOpts = append(resolverOpts, resolver.WithPluginDir(o.pluginDir))
	}
	res := resolver.New(h.Registry, resolverOpts...)
	if err := resolver.Register(h.Loader, res); err != nil {
		return nil, fmt.Errorf("register resolver: %w", err)
	}

	cfg, cfgErr := loadConfig(o)

	logger := log.Logger(hostLogger)
	if o.diagnostics != nil {
		diag, err := log.NewZerologAdapter(o.diagnostics, cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("create diagnostic logger: %w", err)
		}
		logger = log.Tee(diag, hostLogger)
	}
	if cfgErr != nil {
		logger.Warn("config ignored, using defaults", log.Err(cfgErr))
	}

	// A failed load is reported by Init, which then stops before anything
	// could save over the document.
	store := o.store
	if store == nil {
		store = settings.Default()
	}

	p, err := plugin.New(store, h.Collaborators,
		plugin.WithLogger(logger),
		plugin.WithClock(o.now),
		plugin.WithUpdateInterval(cfg.UpdateInterval),
		plugin.WithToggleOffset(cfg.ToggleOffset),
		plugin.WithEventHandler(o.emitter),
	)
	if err != nil {
		return nil, fmt.Errorf("create plugin: %w", err)
	}

	logger.Debug("plugin created",
		log.String("config", o.configPath),
		log.Duration("update_interval", cfg.UpdateInterval),
		log.Int("toggle_offset", cfg.ToggleOffset))

	return &Instance{
		Plugin:   p,
		resolver: res,
		config:   cfg,
		logger:   logger,
	}, nil
}

// loadConfig returns the configured values, or the defaults together with
// the error when the file or environment is invalid.
func loadConfig(o options) (Config, error) {
	if o.cfg != nil {
		if err := o.cfg.Validate(); err != nil {
			return config.DefaultConfig(), err
		}
		return *o.cfg, nil
	}
	path := o.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path, nil)
	if err != nil {
		return config.DefaultConfig(), err
	}
	return cfg, nil
}

// validateModuleVersions checks that all module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"log":       {log.Version, log.MinCompatibleVersion},
		"settings":  {settings.Version, settings.MinCompatibleVersion},
		"resolver":  {resolver.Version, resolver.MinCompatibleVersion},
		"lifecycle": {lifecycle.Version, lifecycle.MinCompatibleVersion},
		"plugin":    {plugin.Version, plugin.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}

	return nil
}

// isVersionCompatible checks if version >= minVersion using semantic versioning.
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
