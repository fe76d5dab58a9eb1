package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interrogate",
	Short: "Compile and evaluate JSON Schema documents",
	Long: `interrogate is a small command-line front end over the interrogator
engine: it compiles JSON Schema documents (any of drafts 04, 07, 2019-09 or
2020-12) into the schema graph and evaluates instances against them,
printing the result in one of the four JSON Schema output shapes.`,
}

// Execute runs the root command, returning any error for main to report.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(evaluateCmd)
}
