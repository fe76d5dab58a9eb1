package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compileConfigPath string

var compileCmd = &cobra.Command{
	Use:   "compile <uri>...",
	Short: "Compile one or more schema documents and report success",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileConfigPath, "config", "", "optional YAML config file")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadYAMLConfig(compileConfigPath)
	if err != nil {
		return err
	}
	it := newInterrogator().
		WithAssertFormat(cfg.AssertFormat).
		WithMetaschemaValidation(cfg.MetaschemaValidate)

	handles, err := it.CompileAll(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	for i, uri := range args {
		fmt.Printf("compiled %s -> handle %d\n", uri, handles[i])
	}
	return nil
}
