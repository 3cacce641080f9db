package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/atomize/internal/atomizer"
)

var (
	countTemplate string
	countProject  string
)

var countCmd = &cobra.Command{
	Use:   "count -t template.yaml",
	Short: "Count the stories the template's filter currently matches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := buildLogger()

		tmpl, err := loadTemplate(countTemplate, log)
		if err != nil {
			return err
		}
		source, err := buildSource()
		if err != nil {
			return err
		}

		n, err := atomizer.New(source, log).CountMatchingStories(cmd.Context(),
			*tmpl, atomizer.Options{Project: countProject})
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().StringVarP(&countTemplate, "template", "t", "", "template file to apply")
	_ = countCmd.MarkFlagRequired("template")
	countCmd.Flags().StringVar(&countProject, "project", "", "project passed through to the platform query")
}
