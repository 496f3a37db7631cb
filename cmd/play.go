package cmd

import (
	"github.com/spf13/cobra"
)

// playCmd is what the bare root command runs, under an explicit name.
var playCmd = &cobra.Command{
	Use:     "play",
	Aliases: []string{"learn"},
	Short:   "Open the lesson player",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	playCmd.Flags().Bool("offline", false, "Keep QuestBot off even when an LLM provider is configured")
}
