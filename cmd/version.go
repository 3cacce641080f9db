package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the atomize version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("atomize " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
