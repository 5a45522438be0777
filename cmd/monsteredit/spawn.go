package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/udisondev/monsteredit/internal/spawnxml"
	"github.com/udisondev/monsteredit/internal/workspace"
)

func (c *cli) mapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maps",
		Short: "List spawn maps sorted by number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			if ws.Spawns == nil {
				return workspace.ErrNoSpawnDocument
			}
			out := cmd.OutOrStdout()
			for _, m := range ws.Maps() {
				fmt.Fprintf(out, "%s\t%s\t%d spot(s)\n",
					m.SelectAttrValue("Number", "?"), m.SelectAttrValue("Name", ""), len(spawnxml.ListSpots(m)))
			}
			return nil
		},
	}
}

// spawnTarget resolves "<map> [spot#] [spawn#]" positional arguments.
type spawnTarget struct {
	m     *etree.Element
	spot  *etree.Element
	spawn *etree.Element
}

func resolve(ws *workspace.Workspace, args []string) (spawnTarget, error) {
	var t spawnTarget
	number, err := parseIndex(args[0])
	if err != nil {
		return t, err
	}
	if t.m, err = ws.FindMap(number); err != nil {
		return t, err
	}
	if len(args) < 2 {
		return t, nil
	}

	pos, err := parsePosition(args[1])
	if err != nil {
		return t, err
	}
	var ok bool
	if t.spot, ok = spawnxml.SpotAt(t.m, pos); !ok {
		return t, fmt.Errorf("map %d has no spot %s", number, args[1])
	}
	if len(args) < 3 {
		return t, nil
	}

	if pos, err = parsePosition(args[2]); err != nil {
		return t, err
	}
	if t.spawn, ok = spawnxml.SpawnAt(t.spot, pos); !ok {
		return t, fmt.Errorf("spot %s has no spawn %s", args[1], args[2])
	}
	return t, nil
}

// editSpawns wraps a tree edit with load, validation and save.
func (c *cli) editSpawns(edit func(ws *workspace.Workspace, args []string) (string, error)) func(*cobra.Command, []string) error {
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
		if err := ws.SaveSpawns(); err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		return nil
	}
}

func (c *cli) spotCmd() *cobra.Command {
	var typ, desc string

	add := &cobra.Command{
		Use:   "add <map>",
		Short: "Append a spot to a map",
		Args:  cobra.ExactArgs(1),
		RunE: c.editSpawns(func(ws *workspace.Workspace, args []string) (string, error) {
			t, err := resolve(ws, args)
			if err != nil {
				return "", err
			}
			spawnxml.AddSpot(t.m, typ, desc)
			return fmt.Sprintf("added spot %d to map %s", len(spawnxml.ListSpots(t.m)), args[0]), nil
		}),
	}
	add.Flags().StringVar(&typ, "type", spawnxml.DefaultSpotType, "spot type")
	add.Flags().StringVar(&desc, "desc", spawnxml.DefaultSpotDescription, "spot description")

	cmd := &cobra.Command{
		Use:   "spot",
		Short: "List and edit spots of a map",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <map>",
			Short: "List spots of a map",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := c.open()
				if err != nil {
					return err
				}
				t, err := resolve(ws, args)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for i, sp := range spawnxml.ListSpots(t.m) {
					fmt.Fprintf(out, "%d\ttype=%s\t%s\t%d spawn(s)\n", i+1,
						sp.SelectAttrValue("Type", ""), sp.SelectAttrValue("Description", ""), len(spawnxml.ListSpawns(sp)))
				}
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:   "remove <map> <spot#>",
			Short: "Remove a spot and all of its spawns",
			Args:  cobra.ExactArgs(2),
			RunE: c.editSpawns(func(ws *workspace.Workspace, args []string) (string, error) {
				t, err := resolve(ws, args)
				if err != nil {
					return "", err
				}
				n := len(spawnxml.ListSpawns(t.spot))
				if err := spawnxml.RemoveSpot(t.m, t.spot); err != nil {
					return "", err
				}
				return fmt.Sprintf("removed spot %s with %d spawn(s)", args[1], n), nil
			}),
		},
	)
	return cmd
}

func (c *cli) spawnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spawn",
		Short: "List and edit spawns of a spot",
		Long: `Spawn attributes are given as key=value pairs. Known keys are
` + strings.Join(spawnxml.SpawnAttrOrder, ", ") + `.
update replaces the whole attribute set: keys not given are dropped.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <map> <spot#>",
			Short: "List spawns of a spot",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := c.open()
				if err != nil {
					return err
				}
				t, err := resolve(ws, args)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for i, sp := range spawnxml.ListSpawns(t.spot) {
					fmt.Fprintf(out, "%d\t", i+1)
					printAttrs(out, sp)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <map> <spot#> <key=value>...",
			Short: "Append a spawn to a spot",
			Args:  cobra.MinimumNArgs(3),
			RunE: c.editSpawns(func(ws *workspace.Workspace, args []string) (string, error) {
				t, err := resolve(ws, args[:2])
				if err != nil {
					return "", err
				}
				attrs, err := spawnAttrs(args[2:])
				if err != nil {
					return "", err
				}
				if _, err := spawnxml.AddSpawn(t.spot, attrs); err != nil {
					return "", err
				}
				return fmt.Sprintf("added spawn %d to spot %s", len(spawnxml.ListSpawns(t.spot)), args[1]), nil
			}),
		},
		&cobra.Command{
			Use:   "update <map> <spot#> <spawn#> <key=value>...",
			Short: "Replace the attributes of a spawn",
			Args:  cobra.MinimumNArgs(4),
			RunE: c.editSpawns(func(ws *workspace.Workspace, args []string) (string, error) {
				t, err := resolve(ws, args[:3])
				if err != nil {
					return "", err
				}
				attrs, err := spawnAttrs(args[3:])
				if err != nil {
					return "", err
				}
				if err := spawnxml.UpdateSpawn(t.spawn, attrs); err != nil {
					return "", err
				}
				return fmt.Sprintf("updated spawn %s of spot %s", args[2], args[1]), nil
			}),
		},
		&cobra.Command{
			Use:   "remove <map> <spot#> <spawn#>",
			Short: "Remove a spawn",
			Args:  cobra.ExactArgs(3),
			RunE: c.editSpawns(func(ws *workspace.Workspace, args []string) (string, error) {
				t, err := resolve(ws, args)
				if err != nil {
					return "", err
				}
				if err := spawnxml.RemoveSpawn(t.spot, t.spawn); err != nil {
					return "", err
				}
				return fmt.Sprintf("removed spawn %s of spot %s", args[2], args[1]), nil
			}),
		},
	)
	return cmd
}

func spawnAttrs(args []string) (spawnxml.SpawnAttrs, error) {
	assignments, err := parseAssignments(args)
	if err != nil {
		return nil, err
	}
	attrs := make(spawnxml.SpawnAttrs, len(assignments))
	for _, kv := range assignments {
		attrs[kv[0]] = kv[1]
	}
	return attrs, nil
}

func printAttrs(w io.Writer, e *etree.Element) {
	attrs := spawnxml.AttrList(e)
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.Name + "=" + a.Value
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}
