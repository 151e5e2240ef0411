package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (c *cli) newModuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Mark modules complete or incomplete",
	}
	cmd.AddCommand(
		c.newMarkCmd("complete", "Mark a module complete", true),
		c.newMarkCmd("incomplete", "Mark a module not complete", false),
	)
	return cmd
}

func (c *cli) newMarkCmd(use, short string, done bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <year> <index>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, index, err := parseModuleArgs(args)
			if err != nil {
				return err
			}
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			m, err := e.lib.RequireModule(year, index)
			if err != nil {
				return err
			}
			if done {
				err = e.tracker.MarkModuleComplete(year, index)
			} else {
				err = e.tracker.MarkModuleIncomplete(year, index)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d-%d (%s) %s\n", year, index, m.Name, use)
			return nil
		},
	}
}

// parseModuleArgs reads "<year> <index>" positional arguments.
func parseModuleArgs(args []string) (year, index int, err error) {
	year, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q: %w", args[0], err)
	}
	index, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid index %q: %w", args[1], err)
	}
	return year, index, nil
}
