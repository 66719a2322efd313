package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/anoyetta/specialspelltimer/internal/appdata"
	"github.com/anoyetta/specialspelltimer/internal/config"
	"github.com/anoyetta/specialspelltimer/pkg/log"
)

const helpDescription = `
Diagnostics for the SpecialSpellTimer host plugin.

Inspect and edit the panel settings document, check how plugin dependencies
resolve, and run the plugin lifecycle against a headless host.
`

var exampleUsage = strings.TrimSpace(`
  spespectl paths
  spespectl settings show
  spespectl resolve "FFXIV.Framework, Version=1.0.0.0" --module-dir ./bin
  spespectl simulate --clicks 2 --resize 1024
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return strings.TrimPrefix(info.Main.Version, "v")
	}
	return "dev"
}

// cli carries state shared by all commands.
type cli struct {
	cfg     config.Config
	cfgPath string
	logger  log.Logger
}

// load applies the config file and environment under the flags the user set,
// then validates. Flags bound to c.cfg already hold their values.
func (c *cli) load(cmd *cobra.Command) error {
	path := c.cfgPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if path != "" && config.FileExists(path) {
		fc, err := config.LoadFileConfig(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := config.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := config.ApplyEnvConfig(&c.cfg, os.LookupEnv, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	logger, err := log.NewZerologAdapter(os.Stderr, c.cfg.LogLevel)
	if err != nil {
		return err
	}
	c.logger = logger
	c.logger.Debug("configuration",
		log.String("config", path),
		log.String("log_level", c.cfg.LogLevel),
		log.Duration("update_interval", c.cfg.UpdateInterval),
		log.Int("toggle_offset", c.cfg.ToggleOffset))
	return nil
}

func newRootCommand() *cobra.Command {
	c := &cli{cfg: config.DefaultConfig(), logger: log.NewNoopLogger()}

	root := &cobra.Command{
		Use:           "spespectl",
		Short:         "Diagnostics for the SpecialSpellTimer host plugin",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.cfgPath, "config", "",
		fmt.Sprintf("path to config file (default: %s)", appdata.ConfigPath(appdata.Root())))
	root.PersistentFlags().StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "diagnostic log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&c.cfg.UpdateInterval, "update-interval", c.cfg.UpdateInterval, "minimum time between update checks")
	root.PersistentFlags().IntVar(&c.cfg.ToggleOffset, "toggle-offset", c.cfg.ToggleOffset, "toggle distance from the main window's right edge")

	root.AddCommand(
		newPathsCommand(),
		newConfigCommand(c),
		newSettingsCommand(c),
		newResolveCommand(c),
		newSimulateCommand(c),
	)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "spespectl: %v\n", err)
		os.Exit(1)
	}
}
