package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/store"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Manage the course catalog",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		list, err := rt.store.CourseRepo().ListCourses(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No courses found.")
			return nil
		}
		fmt.Printf("%-44s  %-32s  %7s\n", "ID", "Title", "Lessons")
		fmt.Println(strings.Repeat("─", 88))
		for _, c := range list {
			fmt.Printf("%-44s  %-32s  %7d\n", c.ID, truncate(c.Title, 32), c.LessonCount)
		}
		return nil
	},
}

var coursesShowCmd = &cobra.Command{
	Use:   "show <course-id>",
	Short: "Show a course's lessons and your progress in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()
		ctx := cmd.Context()

		c, err := rt.store.CourseRepo().GetCourse(ctx, args[0])
		if err != nil {
			return err
		}
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			return course.EncodeYAML(os.Stdout, c)
		}

		p, err := rt.service.Load(ctx, rt.userID)
		if err != nil {
			return err
		}
		done := p.CompletedSet()

		fmt.Println(c.Title)
		if c.Description != "" {
			fmt.Println(c.Description)
		}
		fmt.Println()
		for i, l := range c.Lessons {
			mark := "○"
			if done[l.ID] {
				mark = "✓"
			}
			kind := string(l.Type)
			if course.IsReviewLesson(&l) {
				kind = "REVIEW"
			}
			fmt.Printf("%s %2d. %-36s %-8s %2d questions  (%s)\n", mark, i+1, truncate(l.Title, 36), kind, len(l.Questions), l.ID)
		}
		return nil
	},
}

var coursesImportCmd = &cobra.Command{
	Use:   "import <file.yaml|file.json|file.xlsx>",
	Short: "Validate a course file and add it to the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var (
			c   *course.Course
			err error
		)
		if strings.EqualFold(filepath.Ext(path), ".xlsx") {
			c, err = importWorkbook(cmd, path)
		} else {
			c, err = course.LoadFile(path)
		}
		if err != nil {
			return err
		}

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			fmt.Printf("%s is valid: %q with %d lessons\n", path, c.Title, len(c.Lessons))
			return nil
		}

		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.store.CourseRepo().CreateCourse(cmd.Context(), c); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fmt.Errorf("course %s is already in the catalog", c.ID)
			}
			return err
		}
		fmt.Printf("Imported %q (%s) with %d lessons\n", c.Title, c.ID, len(c.Lessons))
		return nil
	},
}

func importWorkbook(cmd *cobra.Command, path string) (*course.Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var opts course.XLSXOptions
	opts.Sheet, _ = cmd.Flags().GetString("sheet")
	opts.CourseID, _ = cmd.Flags().GetString("id")
	opts.Title, _ = cmd.Flags().GetString("title")
	return course.ImportXLSX(f, opts)
}

var coursesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the built-in Spanish course if it is missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		// openRuntime seeds on every start.
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()
		fmt.Printf("Course %s is in the catalog.\n", course.SeedCourseID)
		return nil
	},
}

var coursesReviewCmd = &cobra.Command{
	Use:   "review <course-id>",
	Short: "Add a review lesson built from your wrong answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		l, ok, err := rt.service.ReviewLesson(cmd.Context(), rt.userID, args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Nothing to review. Every answer is correct!")
			return nil
		}
		fmt.Printf("Added %q (%s) with %d questions\n", l.Title, l.ID, len(l.Questions))
		return nil
	},
}

var coursesDeleteCmd = &cobra.Command{
	Use:   "delete <course-id>",
	Short: "Remove a course from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.store.CourseRepo().DeleteCourse(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted course %s\n", args[0])
		return nil
	},
}

func init() {
	coursesShowCmd.Flags().Bool("yaml", false, "Print the course as a catalog document")

	coursesImportCmd.Flags().Bool("dry-run", false, "Only validate the file")
	coursesImportCmd.Flags().String("sheet", "", "Workbook sheet to read (xlsx only)")
	coursesImportCmd.Flags().String("id", "", "Course id to assign (xlsx only)")
	coursesImportCmd.Flags().String("title", "", "Course title (xlsx only)")

	coursesCmd.AddCommand(coursesListCmd)
	coursesCmd.AddCommand(coursesShowCmd)
	coursesCmd.AddCommand(coursesImportCmd)
	coursesCmd.AddCommand(coursesSeedCmd)
	coursesCmd.AddCommand(coursesReviewCmd)
	coursesCmd.AddCommand(coursesDeleteCmd)
}
