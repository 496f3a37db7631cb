package cmd

import (
	"github.com/spf13/cobra"

	"github.com/eduquest/eduquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "eduquest",
	Short:        "Gamified language lessons in your terminal",
	Long:         "EduQuest: bite-sized lessons with XP, streaks, hearts, daily quests and achievements.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to eduquest.yaml")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EDUQUEST_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "Learner id (overrides user.id from config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(refillCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db.path from config, then EDUQUEST_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
