package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/report"
	"github.com/eduquest/eduquest/internal/scoring"
	"github.com/eduquest/eduquest/internal/store"
	"github.com/eduquest/eduquest/internal/ui/components"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()
		ctx := cmd.Context()

		p, err := rt.service.Load(ctx, rt.userID)
		if err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("export"); path != "" {
			return exportStats(ctx, rt, p, path)
		}

		days, _ := cmd.Flags().GetInt("days")
		heat, err := rt.service.Heatmap(ctx, rt.userID, days)
		if err != nil {
			return err
		}
		printStats(p, heat)
		return nil
	},
}

func printStats(p *progression.Progression, heat []progression.HeatmapDay) {
	sep := strings.Repeat("─", 48)
	name := p.User.Name
	if name == "" {
		name = p.User.ID
	}

	fmt.Println(name)
	fmt.Println(sep)
	fmt.Printf("Level:     %d (%d/%d XP to next)\n", p.Level.Level, p.Level.XPInLevel, p.Level.XPForNextLevel)
	fmt.Printf("XP:        %d\n", p.Stats.XP)
	fmt.Printf("Streak:    %d days", p.Stats.Streak)
	if m, ok := p.Milestone(); ok {
		fmt.Printf("  %s %s (x%.1f)", m.Badge, m.Title, m.Multiplier())
	}
	if next, ok := scoring.NextMilestone(p.Stats.Streak); ok {
		fmt.Printf("  next: %s in %d days", next.Title, next.Days-p.Stats.Streak)
	}
	fmt.Println()
	fmt.Printf("Hearts:    %d/%d\n", p.Stats.Hearts, store.MaxHearts)
	fmt.Printf("Lessons:   %d completed, %d perfect\n", len(p.Completed), p.Stats.PerfectScores)

	fmt.Println()
	fmt.Printf("Daily quests (%d%%)\n", quests.CompletionPercentage(p.Quests))
	fmt.Println(sep)
	for _, q := range p.Quests {
		mark := "○"
		if q.Completed {
			mark = "✓"
		}
		fmt.Printf("%s %-28s %3d/%-3d  +%d XP\n", mark, truncate(q.Title, 28), q.Progress, q.Target, q.Reward)
	}

	fmt.Println()
	fmt.Printf("Achievements (%d unlocked)\n", len(p.Unlocked))
	fmt.Println(sep)
	for _, u := range p.Unlocked {
		fmt.Printf("%s %-24s %s\n", u.Icon, u.Title, u.UnlockedAt.Local().Format("2006-01-02"))
	}
	for _, a := range p.Locked() {
		fmt.Printf("🔒 %-24s %s\n", a.Title, a.Description)
	}

	fmt.Println()
	fmt.Println("Activity")
	fmt.Println(sep)
	fmt.Println(components.Heatmap(heat))
}

func exportStats(ctx context.Context, rt *runtime, p *progression.Progression, path string) error {
	titles := make(map[string]string)
	list, err := rt.store.CourseRepo().ListCourses(ctx)
	if err != nil {
		return err
	}
	for _, cs := range list {
		c, err := rt.store.CourseRepo().GetCourse(ctx, cs.ID)
		if err != nil {
			return err
		}
		for _, l := range c.Lessons {
			titles[l.ID] = l.Title
		}
	}

	activity, err := rt.store.ProgressRepo().QueryActivity(ctx, rt.userID, store.QueryOpts{})
	if err != nil {
		return err
	}

	err = report.SaveXLSX(path, report.ProgressReport{
		GeneratedAt:  time.Now(),
		Progress:     p,
		LessonTitles: titles,
		Activity:     activity,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d completed lessons and %d activity entries to %s\n", len(p.Completed), len(activity), path)
	return nil
}

func init() {
	statsCmd.Flags().String("export", "", "Write a spreadsheet report to this .xlsx file")
	statsCmd.Flags().Int("days", 12*7, "Days of activity to show")
}
