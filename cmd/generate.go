package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/coursegen"
	"github.com/eduquest/eduquest/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz course from text or a PDF with an LLM",
	RunE: func(cmd *cobra.Command, args []string) error {
		textPath, _ := cmd.Flags().GetString("text")
		pdfPath, _ := cmd.Flags().GetString("pdf")
		if (textPath == "") == (pdfPath == "") {
			return errors.New("pass exactly one of --text or --pdf")
		}

		rt, err := openRuntime(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()
		ctx := cmd.Context()

		llmCfg, ok := rt.cfg.LLMProviderConfig()
		if !ok {
			return llm.ErrNotConfigured
		}
		provider, err := llm.NewProviderFromConfig(ctx, coursegen.ProviderConfig(llmCfg), rt.store.EventRepo(), rt.log.Named("llm"))
		if err != nil {
			return err
		}
		gen := coursegen.New(provider, coursegen.DefaultConfig())

		fmt.Fprintln(os.Stderr, "Generating course, this can take a minute...")
		var c *course.Course
		if textPath != "" {
			data, err := os.ReadFile(textPath)
			if err != nil {
				return fmt.Errorf("read text: %w", err)
			}
			c, err = gen.FromText(ctx, string(data))
			if err != nil {
				return err
			}
		} else {
			data, err := os.ReadFile(pdfPath)
			if err != nil {
				return fmt.Errorf("read pdf: %w", err)
			}
			c, err = gen.FromPDF(ctx, data)
			if err != nil {
				return err
			}
		}
		rt.log.Info("course generated", zap.String("course", c.ID), zap.Int("lessons", len(c.Lessons)))

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			if err := course.EncodeYAML(f, c); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
		} else {
			if err := course.EncodeYAML(os.Stdout, c); err != nil {
				return err
			}
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := rt.store.CourseRepo().CreateCourse(ctx, c); err != nil {
				return fmt.Errorf("save course: %w", err)
			}
			questions := 0
			for _, l := range c.Lessons {
				questions += len(l.Questions)
			}
			fmt.Fprintf(os.Stderr, "Saved %q (%s): %d lessons, %d questions\n",
				c.Title, c.ID, len(c.Lessons), questions)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().String("text", "", "Plain text file to build the course from")
	generateCmd.Flags().String("pdf", "", "PDF file to build the course from")
	generateCmd.Flags().StringP("out", "o", "", "Write the course document here instead of stdout")
	generateCmd.Flags().Bool("save", false, "Add the generated course to the catalog")
	generateCmd.MarkFlagsMutuallyExclusive("text", "pdf")
}
