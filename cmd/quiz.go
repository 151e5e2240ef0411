package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Inspect stored quiz results",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "score <year> <index>",
		Short: "Print the stored quiz result for a module",
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

			out := cmd.OutOrStdout()
			qr, ok := e.tracker.QuizScore(year, index)
			if !ok {
				fmt.Fprintf(out, "No quiz result for %d-%d\n", year, index)
				return nil
			}
			status := "not passed"
			if e.tracker.Passed(qr.Percentage()) {
				status = "passed"
			}
			fmt.Fprintf(out, "%d-%d: %d/%d (%d%%) %s, taken %s\n", year, index,
				qr.Score, qr.TotalQuestions, qr.Percentage(), status,
				qr.Timestamp.Local().Format("2006-01-02 15:04"))
			return nil
		},
	})
	return cmd
}
