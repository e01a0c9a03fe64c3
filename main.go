// devconsole - An in-game developer console for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/devconsole/internal/cli"
	"github.com/jeranaias/devconsole/internal/config"
	"github.com/jeranaias/devconsole/internal/console"
	"github.com/jeranaias/devconsole/internal/history"
	"github.com/jeranaias/devconsole/internal/logsource"
	"github.com/jeranaias/devconsole/internal/scene"
	"github.com/jeranaias/devconsole/internal/ui/consoleview"
	"github.com/jeranaias/devconsole/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// eventBuffer is the room between the engine log sources and the UI loop.
const eventBuffer = 256

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the flags shared by the commands.
type app struct {
	configPath string
	tailPath   string
	plain      bool

	// logger reports process-level problems on stderr
	logger *log.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "devconsole"}),
	}

	rootCmd := &cobra.Command{
		Use:   "devconsole",
		Short: "In-game developer console",
		Long: `devconsole runs a developer console against a demo scene. Commands are
typed as /name<Target> args, engine log lines are shown as they arrive and
clicking an error line jumps to its source.`,
		SilenceUsage: true,
		RunE:         a.run,
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.devconsole/config.toml)")
	a.addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the console",
		Long: `Start the console. The full-screen view is used when stdin and stdout are
terminals; otherwise, or with --plain, the console runs in line mode.`,
		Args: cobra.NoArgs,
		RunE: a.run,
	}
	a.addRunFlags(runCmd)

	rootCmd.AddCommand(runCmd, a.commandsCommand(), a.historyCommand(), a.configCommand(), versionCommand())
	return rootCmd
}

func (a *app) addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&a.plain, "plain", false, "Use line mode even on a terminal")
	cmd.Flags().StringVar(&a.tailPath, "tail", "", "Engine log file to follow")
}

func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	a.logger.SetLevel(cfg.LogLevel())
	return cfg, nil
}

// newConsole builds the console with the demo scene discovered.
func (a *app) newConsole(opts console.Options) (*console.Console, *scene.Scene) {
	c := console.New(opts)
	sc := scene.New(c.Logger(), c)
	// Rejections are already in the console log.
	c.Discover(sc.Providers()...)
	return c, sc
}

// openHistory opens the history store. A store that cannot be opened only
// costs persistence, so it is reported and the console runs without it.
func (a *app) openHistory(ctx context.Context, cfg *config.Config) (*history.Store, []string) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		a.logger.Warn("history disabled", "err", err)
		return nil, nil
	}
	store, err := history.Open(path, cfg.History.MaxEntries)
	if err != nil {
		a.logger.Warn("history disabled", "path", path, "err", err)
		return nil, nil
	}
	lines, err := store.Lines(ctx, cfg.History.MaxEntries)
	if err != nil {
		a.logger.Warn("history not loaded", "err", err)
	}
	return store, lines
}

// =============================================================================
// RUN
// =============================================================================

func (a *app) run(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		a.logger.Error("loading config failed", "err", err)
		return err
	}
	if a.tailPath != "" {
		cfg.Source.TailPath = a.tailPath
	}
	interactive := !a.plain && cli.Interactive()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := console.OptionsFromConfig(cfg)
	store, lines := a.openHistory(ctx, cfg)
	if store != nil {
		defer store.Close()
		opts.History = store
		opts.RecallLines = lines
	}
	c, _ := a.newConsole(opts)

	recv := logsource.NewReceiver()
	if cfg.Source.TailPath != "" {
		tailer, err := logsource.NewTailer(cfg.Source.TailPath, recv, logsource.TailerOptions{
			MaxEventsPerSec: cfg.Source.MaxEventsPerSec,
			Burst:           cfg.Source.Burst,
			FromStart:       cfg.Source.FromStart,
			Logger:          a.logger,
		})
		if err != nil {
			return err
		}
		if err := tailer.Watch(); err != nil {
			return err
		}
		defer tailer.Close()
		c.Logger().Info("following engine log", "path", tailer.Path())
	}

	events := consoleview.Forward(recv, eventBuffer)
	// Runs before the tailer closes, so its last entries are queued instead
	// of blocking on a channel nobody reads.
	defer recv.Detach()

	if !interactive {
		reader := cli.NewLinerReader(lines, cli.Completer(c.Registry(), c.Prefix()))
		defer reader.Close()
		printer := cli.NewPrinter(os.Stdout, cli.GetColorProfile())
		return cli.NewREPL(c, printer, reader, events).Run(ctx)
	}

	// The alternate screen owns the terminal until the program exits.
	a.logger.SetOutput(io.Discard)
	defer a.logger.SetOutput(os.Stderr)

	return consoleview.Run(c, styles.NewTheme(), consoleview.Options{
		Events:      events,
		ShowCounter: cfg.UI.ShowCounter,
		Mouse:       cfg.UI.Mouse,
	})
}

// =============================================================================
// COMMANDS
// =============================================================================

func (a *app) commandsCommand() *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the console commands of the demo scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			opts := console.OptionsFromConfig(cfg)
			opts.Clipboard = nil
			c, _ := a.newConsole(opts)

			styled := !markdown && cli.IsStdoutTTY()
			width, _ := cli.GetTerminalSize()
			fmt.Fprint(cmd.OutOrStdout(), cli.CommandList(c.Registry(), c.Prefix(), width, styled))
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print raw markdown")
	return cmd
}

func (a *app) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently submitted lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			path, err := cfg.HistoryPath()
			if err != nil {
				return err
			}
			store, err := history.Open(path, cfg.History.MaxEntries)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) > 0 {
				fmt.Fprintln(out, cli.RenderConditional(cli.TitleStyle, fmt.Sprintf("Last %d submitted lines", len(entries))))
			}
			for _, e := range entries {
				mark := cli.RenderConditional(cli.SuccessStyle, "ok  ")
				if !e.OK {
					mark = cli.RenderConditional(cli.ErrorStyle, "fail")
				}
				stamp := cli.RenderConditional(cli.DimStyle, e.At.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "%s %s %s\n", stamp, mark, e.Line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of lines to show")
	return cmd
}

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				p, err := config.ConfigPathTOML()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.SaveTOML(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderConditional(cli.SuccessStyle, "Wrote "+path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(showCmd, initCmd)
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "devconsole %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
