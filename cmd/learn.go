package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/josephgoksu/atomize/internal/learn"
	"github.com/josephgoksu/atomize/internal/ui"
)

var (
	learnName          string
	learnMinFrequency  float64
	learnMinConfidence int
	learnOutput        string
)

var learnCmd = &cobra.Command{
	Use:   "learn <storyID> [storyID...]",
	Short: "Infer a template from stories that were broken down by hand",
	Long: `Learn analyzes historical stories and their child tasks, detects the
tasks that recur across them and assembles a template, together with a
confidence score describing how trustworthy the inference is.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := buildLogger()

		source, err := buildSource()
		if err != nil {
			return err
		}

		res, err := learn.NewLearner(source, log).Learn(cmd.Context(), args, learn.Options{
			TemplateName: learnName,
			MinFrequency: learnMinFrequency,
		})
		if err != nil {
			return err
		}

		for _, msg := range res.StoryErrors {
			fmt.Fprintln(os.Stderr, ui.StyleWarning.Render("⚠ "+msg))
		}
		fmt.Println(ui.RenderConfidence(res.Confidence))
		if res.Confidence.Overall < learnMinConfidence {
			return fmt.Errorf("confidence %d is below the required minimum %d",
				res.Confidence.Overall, learnMinConfidence)
		}

		out, err := yaml.Marshal(res.Template)
		if err != nil {
			return fmt.Errorf("encode learned template: %w", err)
		}
		if learnOutput == "" {
			fmt.Println(string(out))
			return nil
		}
		if err := os.WriteFile(learnOutput, out, 0o644); err != nil {
			return fmt.Errorf("write learned template: %w", err)
		}
		fmt.Println(ui.StyleSuccess.Render("wrote " + learnOutput))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(learnCmd)
	learnCmd.Flags().StringVar(&learnName, "name", "", "name for the learned template")
	learnCmd.Flags().Float64Var(&learnMinFrequency, "min-frequency", 0, "minimum recurrence ratio for a task to be kept (default 0.5)")
	learnCmd.Flags().IntVar(&learnMinConfidence, "min-confidence", 0, "fail when the confidence score is below this threshold")
	learnCmd.Flags().StringVarP(&learnOutput, "out", "o", "", "write the learned template to this file instead of stdout")
}
