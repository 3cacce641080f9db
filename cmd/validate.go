package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/atomize/internal/deps"
	"github.com/josephgoksu/atomize/internal/filter"
	"github.com/josephgoksu/atomize/internal/ui"
	"github.com/josephgoksu/atomize/template"
)

var validateTemplate string

var validateCmd = &cobra.Command{
	Use:   "validate -t template.yaml",
	Short: "Check a template file without touching any work items",
	Long: `Validate parses the template, checks its structure and verifies that
the dependency graph is acyclic. It exits non-zero when the template could
not be used by run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := buildLogger()

		tmpl, warnings, err := template.NewOsLoader().Load(validateTemplate)
		if err != nil {
			return err
		}
		if v := filter.Validate(tmpl.Filter); !v.Valid {
			return fmt.Errorf("invalid filter: %v", v.Errors)
		}
		if _, err := deps.New(log).ResolveOrder(tmpl.Tasks); err != nil {
			return err
		}

		for _, w := range warnings {
			fmt.Println(ui.StyleWarning.Render("⚠ " + w))
		}
		fmt.Println(ui.StyleSuccess.Render(fmt.Sprintf("✓ %s: %d tasks, dependency graph is acyclic", tmpl.Name, len(tmpl.Tasks))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateTemplate, "template", "t", "", "template file to check")
	_ = validateCmd.MarkFlagRequired("template")
}
