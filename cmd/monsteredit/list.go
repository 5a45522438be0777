package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Regenerate MonsterList.xml from Monster.txt",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "preview",
			Short: "Show how regeneration would change MonsterList.xml",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := c.open()
				if err != nil {
					return err
				}
				diff, err := ws.PreviewList()
				if err != nil {
					return err
				}
				if diff == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "MonsterList.xml is up to date")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), diff)
				return nil
			},
		},
		&cobra.Command{
			Use:   "regen",
			Short: "Overwrite MonsterList.xml with the generated version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := c.open()
				if err != nil {
					return err
				}
				report(cmd.OutOrStdout(), ws)
				if err := ws.RegenerateList(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "MonsterList.xml regenerated with %d monster(s)\n", len(ws.Monsters.Records))
				return nil
			},
		},
	)
	return cmd
}
