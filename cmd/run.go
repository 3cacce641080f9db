package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/atomize/internal/atomizer"
	"github.com/josephgoksu/atomize/internal/ui"
)

var (
	runTemplate        string
	runDryRun          bool
	runContinueOnError bool
	runProject         string
)

var runCmd = &cobra.Command{
	Use:   "run -t template.yaml",
	Short: "Atomize every story matching the template's filter",
	Long: `Run applies the template to every matching story: conditions are
evaluated, estimations calculated, dependencies ordered and child tasks
created. With --dry-run nothing is created and the report shows what would
have been.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := buildLogger()

		tmpl, err := loadTemplate(runTemplate, log)
		if err != nil {
			return err
		}
		source, err := buildSource()
		if err != nil {
			return err
		}

		opts := atomizer.Options{
			DryRun:          runDryRun,
			ContinueOnError: runContinueOnError || GetConfig().Defaults.ContinueOnError,
			Project:         runProject,
		}
		report, err := atomizer.New(source, log).Atomize(cmd.Context(), *tmpl, opts)
		if err != nil {
			return err
		}

		fmt.Print(ui.RenderReport(report))
		if report.StoriesFailed > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runTemplate, "template", "t", "", "template file to apply")
	_ = runCmd.MarkFlagRequired("template")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "calculate everything, create nothing")
	runCmd.Flags().BoolVar(&runContinueOnError, "continue-on-error", false, "keep processing after a story fails")
	runCmd.Flags().StringVar(&runProject, "project", "", "project passed through to the platform query")
}
