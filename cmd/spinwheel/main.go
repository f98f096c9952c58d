package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"spinwheel/internal/bootstrap"
	rosterdto "spinwheel/internal/modules/roster/dto"
	wheeloutadapter "spinwheel/internal/modules/wheel/adapter/out"
	"spinwheel/internal/platform/config"
	"spinwheel/internal/platform/frame"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataPath string

	root := &cobra.Command{
		Use:           "spinwheel",
		Short:         "Spinning wheel name picker for live events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataPath, "data", ".", "data directory holding roster.yaml and spinwheel.yaml")

	root.AddCommand(newTUICmd(&dataPath))
	root.AddCommand(newServeCmd(&dataPath))
	root.AddCommand(newSpinCmd(&dataPath))
	root.AddCommand(newRosterCmd(&dataPath))
	root.AddCommand(newHistoryCmd(&dataPath))
	root.AddCommand(newCueCmd(&dataPath))
	root.AddCommand(newConfigCmd(&dataPath))
	return root
}

func loadApp(dataPath string) (*bootstrap.App, error) {
	cfg, err := config.New(dataPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, bootstrap.Options{})
}

func newTUICmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the wheel in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(*dataPath)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(cmd.Context(), cfg, "")
		},
	}
}

func newServeCmd(dataPath *string) *cobra.Command {
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the wheel with the remote control and metrics server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(*dataPath)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Remote.Addr
			}
			if addr == "" {
				return fmt.Errorf("--addr or remote.addr is required")
			}
			return bootstrap.RunTUI(cmd.Context(), cfg, addr)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address, e.g. 127.0.0.1:8787")
	return serve
}

func newSpinCmd(dataPath *string) *cobra.Command {
	var duration time.Duration
	var theme, prize string
	spin := &cobra.Command{
		Use:   "spin",
		Short: "Draw one winner without the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(*dataPath)
			if err != nil {
				return err
			}
			if duration < 0 {
				return fmt.Errorf("--duration must not be negative")
			}
			presenter := wheeloutadapter.NewWriterPresenter(cmd.OutOrStdout())
			app, err := bootstrap.New(cfg, bootstrap.Options{Presenter: presenter, Interactive: true})
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if err := app.WheelCLI.RebuildIdle(ctx); err != nil {
				return err
			}
			if err := app.WheelCLI.Spin(ctx, duration, theme, prize); err != nil {
				return err
			}

			total := max(duration, cfg.Spin.Duration) + cfg.Spin.PreRoll + cfg.Spin.RevealDelay + 10*time.Second
			runCtx, cancel := context.WithTimeout(ctx, total)
			defer cancel()
			err = frame.Run(runCtx, app.Loop, cfg.FrameInterval(), func() bool {
				return !app.WheelCLI.Snapshot().Busy
			})
			if err != nil {
				return fmt.Errorf("spin: %w", err)
			}
			if _, ok := presenter.Revealed(); !ok {
				return errors.New("spin did not finish")
			}
			return nil
		},
	}
	spin.Flags().DurationVar(&duration, "duration", 0, "landing duration (default from config)")
	spin.Flags().StringVar(&theme, "theme", "", "easing theme: standard|suspenseful|dramatic|playful|funny")
	spin.Flags().StringVar(&prize, "prize", "", "prize recorded with the winner")
	return spin
}

func newRosterCmd(dataPath *string) *cobra.Command {
	roster := &cobra.Command{Use: "roster", Short: "Manage participants"}

	var sorted bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List participants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			items, err := app.RosterCLI.List(cmd.Context())
			if sorted {
				items, err = app.RosterCLI.ListSorted(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no participants")
				return nil
			}
			for _, p := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tweight=%g", p.ID, p.Name, p.Weight)
				if p.Tag != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\ttag=%s", p.Tag)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	list.Flags().BoolVar(&sorted, "sorted", false, "sort by name")

	var add rosterdto.AddInput
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			add.Name = args[0]
			p, err := app.RosterCLI.AddFull(cmd.Context(), add)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) weight=%g\n", p.Name, p.ID, p.Weight)
			return nil
		},
	}
	addCmd.Flags().StringVar(&add.Tag, "tag", "", "team or department")
	addCmd.Flags().StringVar(&add.ExternalID, "external-id", "", "id from the source spreadsheet")
	addCmd.Flags().StringVar(&add.Shift, "shift", "", "shift")
	addCmd.Flags().StringVar(&add.Supervisor, "supervisor", "", "supervisor")
	addCmd.Flags().Float64Var(&add.Weight, "weight", 1, "number of entries in weighted mode")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.RosterCLI.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}

	weightCmd := &cobra.Command{
		Use:   "weight <id> <weight>",
		Short: "Set a participant's weight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var weight float64
			if _, err := fmt.Sscanf(args[1], "%g", &weight); err != nil {
				return fmt.Errorf("invalid weight %q", args[1])
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			p, err := app.RosterCLI.SetWeight(cmd.Context(), args[0], weight)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s weight=%g\n", p.Name, p.Weight)
			return nil
		},
	}

	var replace bool
	importCmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import name[,weight[,tag[,shift[,supervisor]]]] rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.RosterCLI.Import(cmd.Context(), string(raw), replace)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported added=%d coerced=%d skipped=%d\n", out.Added, out.Coerced, out.Skipped)
			return nil
		},
	}
	importCmd.Flags().BoolVar(&replace, "replace", false, "replace the roster instead of appending")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every participant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.RosterCLI.Clear(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "roster cleared")
			return nil
		},
	}

	roster.AddCommand(list, addCmd, removeCmd, weightCmd, importCmd, clearCmd)
	return roster
}

func newHistoryCmd(dataPath *string) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Winners history"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List winners, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			entries, err := app.HistoryCLI.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no winners yet")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s", e.At.Local().Format("2006-01-02 15:04:05"), e.WinnerName)
				if e.Prize != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\tprize=%q", e.Prize)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "max entries (0 for all)")

	var path, title string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the winners list as markdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			if title == "" {
				title = app.Config.EventName
			}
			out, err := app.HistoryCLI.Export(cmd.Context(), path, title, time.Now())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d winners to %s\n", out.Count, out.Path)
			return nil
		},
	}
	export.Flags().StringVar(&path, "path", "", "output file (default <data>/exports/<event>-<date>.md)")
	export.Flags().StringVar(&title, "title", "", "heading (default event name)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the winners list as markdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			md, err := app.HistoryCLI.Markdown(cmd.Context(), app.Config.EventName)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every history entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.HistoryCLI.Clear(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	}

	history.AddCommand(list, export, show, clearCmd)
	return history
}

func newCueCmd(dataPath *string) *cobra.Command {
	cue := &cobra.Command{Use: "cue", Short: "Audio cue plugins"}
	cue.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cue plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			plugins, err := app.CueCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(plugins) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no cue plugins configured")
				return nil
			}
			for _, p := range plugins {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t cues=%s binary=%s\n", p.Name, p.Version, p.Enabled, strings.Join(p.Cues, ","), p.Binary)
			}
			return nil
		},
	})

	cue.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataPath)
			if err != nil {
				return err
			}
			defer app.Close()
			results, err := app.CueCLI.Doctor(cmd.Context())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no cue plugins configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})

	var winner string
	test := &cobra.Command{
		Use:   "test",
		Short: "Play each cue through the configured sink",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(*dataPath)
			if err != nil {
				return err
			}
			app, err := bootstrap.New(cfg, bootstrap.Options{Interactive: true, LogToStderr: true})
			if err != nil {
				return err
			}
			app.CueCLI.Test(winner)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "played cues through %s sink\n", cfg.Cues.Sink)
			return app.Close()
		},
	}
	test.Flags().StringVar(&winner, "winner", "Test Winner", "name passed with the win cue")
	cue.AddCommand(test)
	return cue
}

func newConfigCmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(*dataPath)
			if err != nil {
				return err
			}
			raw, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# data: %s\n%s", cfg.DataDir, raw)
			return nil
		},
	}
}
