package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/academy/internal/config"
	"github.com/abhisek/academy/internal/store"
)

// cli carries state shared by the commands of one invocation.
type cli struct {
	v         *viper.Viper
	cfg       *config.Config
	ephemeral bool
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:   "academy",
		Short: "Finance curriculum viewer with progress tracking and quizzes",
		Long: "Academy is a terminal curriculum viewer. Browse years and modules,\n" +
			"mark modules complete and take module quizzes. Progress is kept in a\n" +
			"local SQLite database.",
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApp(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides ACADEMY_DB env var)")
	flags.String("content", "", "Directory holding curriculum and quizzes files (default: built-in sample)")
	flags.String("config", "", "Path to config file (default: academy.yaml in the user config dir or .)")
	flags.BoolVar(&c.ephemeral, "ephemeral", false, "Keep progress in memory only; nothing is read from or written to the database")
	// Lookup never returns nil for flags defined above.
	_ = c.v.BindPFlag(config.KeyDB, flags.Lookup("db"))
	_ = c.v.BindPFlag(config.KeyContentDir, flags.Lookup("content"))

	root.AddCommand(
		c.newCourseCmd(),
		c.newModuleCmd(),
		c.newQuizCmd(),
		c.newStatsCmd(),
		c.newResetCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig merges flags, env and config file, then sets up CLI logging.
func (c *cli) loadConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(c.v, path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	setupLogging(os.Stderr, cfg.Level())
	return nil
}

// resolveDBPath returns the database path using --db flag or config
// (highest priority), then ACADEMY_DB env var, then the default XDG path.
func (c *cli) resolveDBPath() (string, error) {
	if p := c.cfg.DB; p != "" {
		if err := store.EnsureDir(p); err != nil {
			return "", fmt.Errorf("create db dir: %w", err)
		}
		return p, nil
	}
	return store.DefaultDBPath()
}
