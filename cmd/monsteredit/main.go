package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udisondev/monsteredit/internal/config"
	"github.com/udisondev/monsteredit/internal/validate"
	"github.com/udisondev/monsteredit/internal/workspace"
)

const DefaultConfigPath = "config/monsteredit.yaml"

// cli holds the global flags and the state built from them.
type cli struct {
	dir        string
	configPath string
	verbose    bool

	cfg    config.Editor
	stderr io.Writer
	opts   []workspace.Option
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newRootCmd(stderr io.Writer, opts ...workspace.Option) *cobra.Command {
	c := &cli{stderr: stderr, opts: opts}

	root := &cobra.Command{
		Use:   "monsteredit",
		Short: "Edit MU Online Monster.txt, MonsterList.xml and MonsterSpawn.xml",
		Long: `monsteredit edits a MU Online monster folder.

Monster.txt is patch-saved: only changed record lines are rewritten.
MonsterList.xml is regenerated from the records.
MonsterSpawn.xml is edited as a tree and re-indented on save.
Every overwrite leaves a <file>.bak_<YYYYMMDD_HHMMSS> copy behind.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().StringVarP(&c.dir, "dir", "d", ".", "monster folder")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (env MONSTEREDIT_CONFIG)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		c.validateCmd(),
		c.statusCmd(),
		c.saveCmd(),
		c.monsterCmd(),
		c.listCmd(),
		c.mapsCmd(),
		c.spotCmd(),
		c.spawnCmd(),
		c.setbaseCmd(),
	)
	return root
}

// setup loads the config first, since it decides the log level.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	path := DefaultConfigPath
	if p := os.Getenv("MONSTEREDIT_CONFIG"); p != "" {
		path = p
	}
	if c.configPath != "" {
		path = c.configPath
	}

	cfg, err := config.LoadEditor(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	c.cfg = cfg

	level := parseLogLevel(cfg.LogLevel)
	if c.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{
		Level: level,
	})))
	slog.Debug("config loaded", "path", path, "dir", c.dir)
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *cli) open() (*workspace.Workspace, error) {
	return workspace.Open(c.dir, c.cfg, c.opts...)
}

// report prints validation warnings; they never stop a save.
func report(w io.Writer, ws *workspace.Workspace) {
	warnings := ws.Validate()
	for _, msg := range validate.Messages(warnings) {
		fmt.Fprintln(w, "warning:", msg)
	}
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report duplicate, out-of-range and dangling monster indices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			warnings := ws.Validate()
			if len(warnings) == 0 {
				fmt.Fprintln(out, "no warnings")
				return nil
			}
			for _, msg := range validate.Messages(warnings) {
				fmt.Fprintln(out, msg)
			}
			return nil
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the folder contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			st := ws.Status()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "folder:   %s\n", st.Dir)
			fmt.Fprintf(out, "monsters: %d (%s)\n", st.Monsters, st.Encoding)
			fmt.Fprintf(out, "maps:     %d\n", st.Maps)
			fmt.Fprintf(out, "spots:    %d\n", st.Spots)
			fmt.Fprintf(out, "spawns:   %d\n", st.Spawns)
			fmt.Fprintf(out, "warnings: %d\n", st.Warnings)
			return nil
		},
	}
}

func (c *cli) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Rewrite all three files (patch Monster.txt, regenerate MonsterList.xml, re-indent MonsterSpawn.xml)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			report(cmd.OutOrStdout(), ws)
			if err := ws.SaveAll(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all files saved")
			return nil
		},
	}
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n, nil
}

// parsePosition turns a 1-based position from the command line into a 0-based one.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q: expected 1 or more", s)
	}
	return n - 1, nil
}

// parseAssignments splits key=value arguments.
func parseAssignments(args []string) ([][2]string, error) {
	out := make([][2]string, 0, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("expected key=value, got %q", a)
		}
		out = append(out, [2]string{strings.TrimSpace(k), v})
	}
	return out, nil
}
