package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/academy/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func (c *cli) runApp(cmd *cobra.Command) error {
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	// The TUI owns the terminal; logs go to the file instead.
	setupLogging(logFile, c.cfg.Level())

	e, err := c.openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	slog.Info("starting tui", "modules", e.lib.Catalog.TotalModules(), "quizzes", len(e.lib.Quizzes))
	if err := app.Run(app.Options{
		Library: e.lib,
		Tracker: e.tracker,
	}); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
