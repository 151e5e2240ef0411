package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			s := e.tracker.Summary(e.lib.Catalog.ModuleCounts())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Modules completed:  %d of %d (%.0f%%)\n", s.CompletedModules, s.TotalModules, s.CatalogCompletion)
			fmt.Fprintf(out, "Recorded progress:  %.0f%% of %d recorded modules\n", s.RecordedProgress, s.RecordedModules)
			fmt.Fprintf(out, "Quizzes taken:      %d\n", s.QuizzesTaken)
			fmt.Fprintf(out, "Quizzes passed:     %d\n", s.QuizzesPassed)
			if s.QuizzesTaken > 0 {
				fmt.Fprintf(out, "Average quiz score: %.0f%%\n", s.AverageQuizScore)
			}
			return nil
		},
	}
}
