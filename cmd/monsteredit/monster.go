package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/udisondev/monsteredit/internal/monster"
	"github.com/udisondev/monsteredit/internal/workspace"
)

func (c *cli) monsterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monster",
		Short: "List and edit Monster.txt records",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List records sorted by index",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := c.open()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Index\tLevel\tLife\tName")
				for _, r := range ws.Monsters.Records {
					fmt.Fprintf(out, "%d\t%d\t%d\t%s\n", r.Index, r.Level, r.Life, r.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <index>",
			Short: "Show every field of a record",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				idx, err := parseIndex(args[0])
				if err != nil {
					return err
				}
				ws, err := c.open()
				if err != nil {
					return err
				}
				rec, ok := ws.Monsters.Find(idx)
				if !ok {
					return fmt.Errorf("monster %d: %w", idx, monster.ErrRecordNotFound)
				}
				printRecord(cmd.OutOrStdout(), rec)
				return nil
			},
		},
		&cobra.Command{
			Use:   "new",
			Short: "Add a record at the next free index",
			Args:  cobra.NoArgs,
			RunE: c.editMonsters(func(ws *workspace.Workspace, args []string) (string, error) {
				rec := ws.Monsters.NewRecord()
				return fmt.Sprintf("created monster %d", rec.Index), nil
			}),
		},
		&cobra.Command{
			Use:   "dup <index>",
			Short: "Copy a record to the next free index",
			Args:  cobra.ExactArgs(1),
			RunE: c.editMonsters(func(ws *workspace.Workspace, args []string) (string, error) {
				idx, err := parseIndex(args[0])
				if err != nil {
					return "", err
				}
				rec, err := ws.Monsters.Duplicate(idx)
				if err != nil {
					return "", fmt.Errorf("monster %d: %w", idx, err)
				}
				return fmt.Sprintf("duplicated monster %d as %d", idx, rec.Index), nil
			}),
		},
		&cobra.Command{
			Use:   "delete <index>",
			Short: "Delete every record with the index",
			Args:  cobra.ExactArgs(1),
			RunE: c.editMonsters(func(ws *workspace.Workspace, args []string) (string, error) {
				idx, err := parseIndex(args[0])
				if err != nil {
					return "", err
				}
				n, err := ws.Monsters.Delete(idx)
				if err != nil {
					return "", fmt.Errorf("monster %d: %w", idx, err)
				}
				return fmt.Sprintf("deleted %d record(s) with index %d", n, idx), nil
			}),
		},
		&cobra.Command{
			Use:   "set <index> <field=value>...",
			Short: "Change fields of a record",
			Args:  cobra.MinimumNArgs(2),
			RunE: c.editMonsters(func(ws *workspace.Workspace, args []string) (string, error) {
				idx, err := parseIndex(args[0])
				if err != nil {
					return "", err
				}
				assignments, err := parseAssignments(args[1:])
				if err != nil {
					return "", err
				}
				rec, ok := ws.Monsters.Find(idx)
				if !ok {
					return "", fmt.Errorf("monster %d: %w", idx, monster.ErrRecordNotFound)
				}
				for _, kv := range assignments {
					if err := rec.Set(kv[0], kv[1]); err != nil {
						return "", err
					}
				}
				if err := ws.Monsters.Update(idx, rec); err != nil {
					return "", fmt.Errorf("monster %d: %w", idx, err)
				}
				return fmt.Sprintf("updated monster %d", rec.Index), nil
			}),
		},
	)
	return cmd
}

// editMonsters wraps a record edit with load, validation and patch-save.
func (c *cli) editMonsters(edit func(ws *workspace.Workspace, args []string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ws, err := c.open()
		if err != nil {
			return err
		}
		msg, err := edit(ws, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		report(out, ws)
		p, err := ws.SaveMonsters()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		fmt.Fprintf(out, "Monster.txt saved: %d replaced, %d appended, %d orphaned\n", p.Replaced, p.Appended, p.Orphaned)
		if kept := p.Orphaned - p.Dropped; kept > 0 {
			fmt.Fprintf(out, "note: %d old record line(s) kept in Monster.txt and loaded again next time; "+
				"set patch.drop_orphaned_lines: true to remove them\n", kept)
		}
		return nil
	}
}

func printRecord(w io.Writer, r monster.Record) {
	values := r.Values()
	for i, f := range monster.Schema {
		fmt.Fprintf(w, "%-13s %s\n", f.Name+":", values[i])
	}
}
