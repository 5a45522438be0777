package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/udisondev/monsteredit/internal/setbase"
	"github.com/udisondev/monsteredit/internal/workspace"
)

func (c *cli) setbaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setbase",
		Short: "Find monsters that no MonsterSetBase file places",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "check",
			Short: "Report unreferenced monster indices per file",
			Args:  cobra.NoArgs,
			RunE: c.withSetBase(func(cmd *cobra.Command, ws *workspace.Workspace, reports []setbase.Report) error {
				return nil
			}),
		},
		&cobra.Command{
			Use:   "suggest",
			Short: "Write " + setbase.SuggestionsName + " listing the unreferenced indices",
			Args:  cobra.NoArgs,
			RunE: c.withSetBase(func(cmd *cobra.Command, ws *workspace.Workspace, reports []setbase.Report) error {
				path, err := ws.WriteSetBaseSuggestions(reports)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "suggestions written to", path)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "append",
			Short: "Append commented placeholders to each file (backups are made)",
			Args:  cobra.NoArgs,
			RunE: c.withSetBase(func(cmd *cobra.Command, ws *workspace.Workspace, reports []setbase.Report) error {
				backups, err := ws.AppendSetBasePlaceholders(reports)
				if err != nil {
					return err
				}
				for _, b := range backups {
					fmt.Fprintln(cmd.OutOrStdout(), "backup:", b)
				}
				return nil
			}),
		},
	)
	return cmd
}

func (c *cli) withSetBase(next func(*cobra.Command, *workspace.Workspace, []setbase.Report) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ws, err := c.open()
		if err != nil {
			return err
		}
		reports, err := ws.ScanSetBase()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, rep := range reports {
			name := filepath.Base(rep.Path)
			if rep.Missing {
				fmt.Fprintf(out, "%s: (file missing)\n", name)
				continue
			}
			fmt.Fprintf(out, "%s: %d unreferenced %v\n", name, len(rep.Unreferenced), rep.Unreferenced)
		}
		return next(cmd, ws, reports)
	}
}
