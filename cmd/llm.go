package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eduquest/eduquest/internal/llm"
	"github.com/eduquest/eduquest/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect QuestBot and course generation requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		q := store.LLMEventQuery{}
		q.Limit, _ = cmd.Flags().GetInt("limit")
		q.Purpose, _ = cmd.Flags().GetString("purpose")
		q.UserID, _ = cmd.Flags().GetString("learner")
		if mine, _ := cmd.Flags().GetBool("mine"); mine {
			q.UserID = rt.userID
		}

		list, err := rt.store.EventRepo().QueryLLMEvents(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIME\tPURPOSE\tLEARNER\tMODEL\tIN\tOUT\tMS\tOK")
		for _, e := range list {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			learner := e.UserID
			if learner == "" {
				learner = "-"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				e.ID, e.Timestamp.Local().Format("2006-01-02 15:04"), e.Purpose, learner,
				truncate(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
		}
		return tw.Flush()
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}

		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		e, err := rt.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fmt.Printf("Event %d  %s\n", e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  %s / %s for %s", e.Provider, e.Model, e.Purpose)
		if e.UserID != "" {
			fmt.Printf(" (learner %s)", e.UserID)
		}
		fmt.Println()
		fmt.Printf("  %d in, %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
		if !e.Success {
			fmt.Printf("  failed: %s\n", e.ErrorMessage)
		}
		section("REQUEST", e.RequestBody)
		section("RESPONSE", e.ResponseBody)
		return nil
	},
}

func section(title, body string) {
	fmt.Println()
	fmt.Printf("── %s %s\n", title, strings.Repeat("─", 56-len(title)))
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()
		ctx := cmd.Context()
		events := rt.store.EventRepo()

		byPurpose, err := events.LLMUsageByPurpose(ctx)
		if err != nil {
			return err
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "PURPOSE\tCALLS\tINPUT\tOUTPUT\tAVG MS\t")
		var calls, in, out int
		for _, st := range byPurpose {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t\n", st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
			calls += st.Calls
			in += st.InputTokens
			out += st.OutputTokens
		}
		fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%d\t\t\n", calls, in, out)
		if err := tw.Flush(); err != nil {
			return err
		}

		byModel, err := events.LLMUsageByModel(ctx)
		if err != nil {
			return err
		}
		fmt.Println()
		tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "MODEL\tCALLS\tCOST (USD)\t")
		var (
			total    float64
			unpriced []string
		)
		for _, mu := range byModel {
			cost := "?"
			if price := llm.LookupCost(mu.Model); price != nil {
				usd := price.Cost(mu.InputTokens, mu.OutputTokens)
				total += usd
				cost = formatCost(usd)
			} else {
				unpriced = append(unpriced, mu.Model)
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t\n", truncate(mu.Model, 32), mu.Calls, cost)
		}
		fmt.Fprintf(tw, "TOTAL\t\t%s\t\n", formatCost(total))
		if err := tw.Flush(); err != nil {
			return err
		}
		if len(unpriced) > 0 {
			fmt.Printf("\nNo pricing for %s; the total leaves them out.\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only this purpose (tutor, course-gen)")
	llmListCmd.Flags().String("learner", "", "Only requests made for this learner")
	llmListCmd.Flags().Bool("mine", false, "Only requests made for the current learner")
	llmListCmd.MarkFlagsMutuallyExclusive("learner", "mine")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
