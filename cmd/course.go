package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/academy/internal/content"
)

func (c *cli) newCourseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "List years and modules with completion marks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			years := e.lib.Catalog.Years
			if n, _ := cmd.Flags().GetInt("year"); n != 0 {
				y, ok := e.lib.Year(n)
				if !ok {
					return fmt.Errorf("year %d: %w", n, content.ErrNotFound)
				}
				years = []content.Year{*y}
			}

			out := cmd.OutOrStdout()
			for i, y := range years {
				if i > 0 {
					fmt.Fprintln(out)
				}
				done := 0
				for j := range y.Modules {
					if e.tracker.IsModuleComplete(y.Number, j) {
						done++
					}
				}
				fmt.Fprintf(out, "Year %d: %s  (%d/%d, %.0f%%)\n", y.Number, y.Title, done, len(y.Modules),
					e.tracker.YearCompletion(y.Number, len(y.Modules)))
				fmt.Fprintln(out, strings.Repeat("─", 60))

				for j, m := range y.Modules {
					mark := "[ ]"
					if e.tracker.IsModuleComplete(y.Number, j) {
						mark = "[x]"
					}
					quiz := ""
					if _, ok := e.lib.Quiz(y.Number, j); ok {
						quiz = "quiz"
						if qr, ok := e.tracker.QuizScore(y.Number, j); ok {
							quiz = fmt.Sprintf("quiz %d/%d (%d%%)", qr.Score, qr.TotalQuestions, qr.Percentage())
						}
					}
					name := m.Name
					if len(name) > 40 {
						name = name[:37] + "..."
					}
					fmt.Fprintf(out, "%s %d-%d  %-40s  %s\n", mark, y.Number, j, name, quiz)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("year", 0, "Show only this year")
	return cmd
}
