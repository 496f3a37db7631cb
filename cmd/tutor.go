package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/llm"
	"github.com/eduquest/eduquest/internal/tutor"
)

const tutorTimeout = 60 * time.Second

var tutorCmd = &cobra.Command{
	Use:   "tutor [question...]",
	Short: "Ask QuestBot a question, or chat when no question is given",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()
		ctx := cmd.Context()

		provider, err := rt.provider(ctx)
		if err != nil {
			return err
		}

		var lesson *course.Lesson
		courseID, _ := cmd.Flags().GetString("course")
		lessonID, _ := cmd.Flags().GetString("lesson")
		if lessonID != "" {
			c, err := rt.store.CourseRepo().GetCourse(ctx, courseID)
			if err != nil {
				return err
			}
			l, ok := c.Lesson(lessonID)
			if !ok {
				return fmt.Errorf("lesson %s not in course %s", lessonID, courseID)
			}
			lesson = l
		}
		bot := tutor.New(provider, tutor.Options{Lesson: lesson, Learner: rt.userID})

		if len(args) > 0 {
			reply, err := ask(ctx, bot, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(reply)
			return nil
		}
		return chat(ctx, bot, os.Stdin, os.Stdout)
	},
}

func ask(ctx context.Context, bot *tutor.Bot, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, tutorTimeout)
	defer cancel()
	return bot.Ask(ctx, text)
}

// chat runs a line-based conversation until EOF or "/quit".
func chat(ctx context.Context, bot *tutor.Bot, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "QuestBot:", bot.Greeting())
	fmt.Fprintln(out, "(type /reset to start over, /quit to leave)")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			bot.Reset()
			fmt.Fprintln(out, "QuestBot:", bot.Greeting())
			continue
		}

		reply, err := ask(ctx, bot, line)
		switch {
		case err != nil && llm.Transient(err):
			fmt.Fprintln(out, "QuestBot is busy right now. Try again in a moment.")
		case err != nil:
			fmt.Fprintln(out, "QuestBot could not answer:", err)
		default:
			fmt.Fprintln(out, "QuestBot:", reply)
		}
	}
}

func init() {
	tutorCmd.Flags().String("course", course.SeedCourseID, "Course of --lesson")
	tutorCmd.Flags().String("lesson", "", "Lesson to talk about")
}
