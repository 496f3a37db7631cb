package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long:  "Delete XP, streak, completions, answers, quests, achievements and activity. The profile and the catalog are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Printf("Reset all progress of %s? [y/N] ", rt.userID)
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := rt.store.ProgressRepo().ResetUser(cmd.Context(), rt.userID); err != nil {
			return err
		}
		fmt.Printf("Progress of %s reset.\n", rt.userID)
		return nil
	},
}

var refillCmd = &cobra.Command{
	Use:   "refill",
	Short: "Refill hearts",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		st, err := rt.service.Refill(cmd.Context(), rt.userID)
		if err != nil {
			return err
		}
		fmt.Printf("Hearts refilled: %d\n", st.Hearts)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
