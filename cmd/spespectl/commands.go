package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	specialspelltimer "github.com/anoyetta/specialspelltimer"
	"github.com/anoyetta/specialspelltimer/internal/adapters/fs"
	"github.com/anoyetta/specialspelltimer/internal/adapters/headless"
	updatehttp "github.com/anoyetta/specialspelltimer/internal/adapters/http"
	hostlog "github.com/anoyetta/specialspelltimer/internal/adapters/log"
	"github.com/anoyetta/specialspelltimer/internal/appdata"
	"github.com/anoyetta/specialspelltimer/internal/config"
	"github.com/anoyetta/specialspelltimer/pkg/host"
	"github.com/anoyetta/specialspelltimer/pkg/lifecycle"
	"github.com/anoyetta/specialspelltimer/pkg/log"
	"github.com/anoyetta/specialspelltimer/pkg/plugin"
	"github.com/anoyetta/specialspelltimer/pkg/resolver"
	"github.com/anoyetta/specialspelltimer/pkg/settings"
)

func newPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the settings file, config file and shared plugin directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := appdata.Root()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "settings: %s\n", appdata.SettingsPath(root))
			fmt.Fprintf(out, "config:   %s\n", appdata.ConfigPath(root))
			fmt.Fprintf(out, "plugins:  %s\n", appdata.PluginDir(root))
			return nil
		},
	}
}

func newConfigCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective plugin configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := config.EncodeFileConfig(c.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	})
	return cmd
}

func newSettingsCommand(c *cli) *cobra.Command {
	var file string

	open := func() (*settings.Store, error) {
		path := file
		if path == "" {
			path = settings.DefaultPath()
		}
		s := settings.New(path)
		if err := s.Load(); err != nil {
			return nil, err
		}
		return s, nil
	}

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or edit the panel settings document",
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "settings document (default: the per-user settings file)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print panel rows and named values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), s)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Flip the overlay visibility flag and save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			t := plugin.NewToggle(s, headless.NewOverlay(io.Discard), headless.NewTelops(io.Discard), headless.NewViews(io.Discard))
			m, err := t.Click()
			if err != nil {
				return err
			}
			c.logger.Info("overlay toggled", log.Bool("visible", m.Visible), log.String("path", s.Path()))
			fmt.Fprintf(out, "%s = %t\n", settings.KeyOverlayVisible, m.Visible)
			return nil
		},
	})
	return cmd
}

func printSettings(w io.Writer, s *settings.Store) {
	fmt.Fprintf(w, "file: %s\n", s.Path())
	fmt.Fprintf(w, "panels (%d):\n", s.Len())
	for _, r := range s.Rows() {
		fmt.Fprintf(w, "  %-24s left=%g top=%g\n", r.PanelName, r.Left, r.Top)
	}
	values := s.Values()
	fmt.Fprintf(w, "values (%d):\n", len(values))
	for _, v := range values {
		fmt.Fprintf(w, "  %-24s %s\n", v.Name, v.Value)
	}
}

func newResolveCommand(c *cli) *cobra.Command {
	var moduleDir, pluginDir string

	cmd := &cobra.Command{
		Use:   "resolve NAME",
		Short: "Show where a dependency would be loaded from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var registry host.Registry
			if moduleDir != "" {
				registry = fs.NewPluginRegistry(resolver.BinaryExt, moduleDir)
			}
			opts := []resolver.Option{resolver.WithLogger(c.logger)}
			if pluginDir != "" {
				opts = append(opts, resolver.WithPluginDir(pluginDir))
			}

			rec := resolver.New(registry, opts...).Lookup(args[0])

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:       %s\n", rec.Name)
			fmt.Fprintf(out, "simple:     %s\n", rec.SimpleName)
			fmt.Fprintf(out, "searched:   %s\n", strings.Join(rec.Candidates, string(filepath.ListSeparator)))
			if rec.Err != nil {
				fmt.Fprintf(out, "error:      %v\n", rec.Err)
			}
			if !rec.Resolved {
				fmt.Fprintln(out, "resolved:   no")
				return nil
			}
			fmt.Fprintf(out, "resolved:   %s\n", rec.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&moduleDir, "module-dir", "", "directory holding "+resolver.ModuleFileName)
	cmd.Flags().StringVar(&pluginDir, "plugin-dir", "", "shared plugin directory (default: the per-user plugin directory)")
	return cmd
}

// phasePrinter echoes phase changes.
type phasePrinter struct{ w io.Writer }

func (p phasePrinter) OnPhaseChange(previous, current lifecycle.Phase, reason string) {
	fmt.Fprintf(p.w, "phase: %s -> %s (%s)\n", previous, current, reason)
}

func newSimulateCommand(c *cli) *cobra.Command {
	var (
		file         string
		width        int
		resize       int
		clicks       int
		checkUpdates bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run init, clicks and deinit against a headless host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			path := file
			if path == "" {
				dir, err := os.MkdirTemp("", "spespectl-")
				if err != nil {
					return err
				}
				defer os.RemoveAll(dir)
				path = filepath.Join(dir, appdata.SettingsFileName)
			}
			store := settings.New(path)
			if err := store.Load(); err != nil {
				return err
			}

			var updates host.UpdateChecker = headless.StaticUpdates{}
			if checkUpdates {
				updates = updatehttp.NewUpdateChecker(nil, "", getVersion())
			}

			window := headless.NewWindow(out, width)
			exceptions := hostlog.NewExceptionLog(out)

			inst, err := specialspelltimer.New(specialspelltimer.Host{
				Loader:   fs.NewLoader(),
				Registry: fs.NewPluginRegistry(resolver.BinaryExt),
				Log:      exceptions,
				Collaborators: plugin.Collaborators{
					Window:  window,
					Overlay: headless.NewOverlay(out),
					Telops:  headless.NewTelops(out),
					Views:   headless.NewViews(out),
					Updates: updates,
					Panels:  headless.Panels{},
				},
			},
				specialspelltimer.WithStore(store),
				specialspelltimer.WithConfig(c.cfg),
				specialspelltimer.WithDiagnostics(os.Stderr),
				specialspelltimer.WithEventHandler(phasePrinter{w: out}),
			)
			if err != nil {
				return err
			}

			inst.InitPlugin(headless.NewScreen(out, host.Size{Width: 800, Height: 600}), headless.NewStatus(out))
			if inst.Phase() == lifecycle.PhaseRunning {
				if resize > 0 {
					window.Resize(resize)
				}
				for i := 0; i < clicks; i++ {
					if err := window.Click(plugin.ToggleName); err != nil {
						return err
					}
				}
			}
			inst.DeInitPlugin()

			fmt.Fprintf(out, "final phase: %s, host log entries: %d\n", inst.Phase(), exceptions.Count())
			if inst.Phase() != lifecycle.PhaseStopped {
				return fmt.Errorf("simulation ended in %s", inst.Phase())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "settings", "", "settings document to use (default: a temporary file)")
	cmd.Flags().IntVar(&width, "width", 1280, "initial main window width")
	cmd.Flags().IntVar(&resize, "resize", 0, "resize the main window to this width after init")
	cmd.Flags().IntVar(&clicks, "clicks", 1, "number of toggle clicks")
	cmd.Flags().BoolVar(&checkUpdates, "check-updates", false, "query the public release feed instead of a static answer")
	return cmd
}
