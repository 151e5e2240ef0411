package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all stored progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				fmt.Fprint(out, "This deletes all module and quiz progress. Type 'yes' to continue: ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(line) != "yes" {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			e.tracker.Reset()
			fmt.Fprintln(out, "Progress cleared.")
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	return cmd
}
