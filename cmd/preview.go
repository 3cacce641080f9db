package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/atomize/internal/atomizer"
	"github.com/josephgoksu/atomize/internal/ui"
)

var (
	previewTemplate string
	previewProject  string
)

var previewCmd = &cobra.Command{
	Use:   "preview -t template.yaml",
	Short: "Show the tasks a run would create, without creating anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := buildLogger()

		tmpl, err := loadTemplate(previewTemplate, log)
		if err != nil {
			return err
		}
		source, err := buildSource()
		if err != nil {
			return err
		}

		report, err := atomizer.New(source, log).Preview(cmd.Context(),
			*tmpl, atomizer.Options{ContinueOnError: true, Project: previewProject})
		if err != nil {
			return err
		}

		for _, res := range report.Results {
			title := res.StoryTitle
			if title == "" {
				title = res.StoryID
			}
			fmt.Println(ui.StyleSectionTitle.Render(title))
			if res.Error != "" {
				fmt.Println(ui.StyleError.Render(res.Error))
				continue
			}
			fmt.Print(ui.RenderPreviewTasks(res.Tasks))
			for _, s := range res.Skipped {
				fmt.Println(ui.StyleSubtle.Render(fmt.Sprintf("skipped %s: %s", s.Title, s.Reason)))
			}
			for _, w := range res.Warnings {
				fmt.Println(ui.StyleWarning.Render("⚠ " + w))
			}
			fmt.Println()
		}
		fmt.Printf("%d stories match\n", report.StoriesProcessed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&previewTemplate, "template", "t", "", "template file to apply")
	_ = previewCmd.MarkFlagRequired("template")
	previewCmd.Flags().StringVar(&previewProject, "project", "", "project passed through to the platform query")
}
