package cmd

import (
	"fmt"
	"os"

	"github.com/go-json-experiment/json"
	"github.com/spf13/cobra"

	"github.com/altair-labs/interrogator/output"
)

var (
	evaluateStructure  string
	evaluateConfigPath string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <uri> <instance-file>",
	Short: "Evaluate a JSON instance document against a compiled schema",
	Args:  cobra.ExactArgs(2),
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateStructure, "structure", "basic", "output shape: flag|basic|detailed|verbose")
	evaluateCmd.Flags().StringVar(&evaluateConfigPath, "config", "", "optional YAML config file")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	schemaURI, instancePath := args[0], args[1]

	cfg, err := loadYAMLConfig(evaluateConfigPath)
	if err != nil {
		return err
	}
	it := newInterrogator().
		WithAssertFormat(cfg.AssertFormat).
		WithMetaschemaValidation(cfg.MetaschemaValidate)

	h, err := it.Compile(cmd.Context(), schemaURI)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	raw, err := os.ReadFile(instancePath)
	if err != nil {
		return fmt.Errorf("reading instance file: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("parsing instance file: %w", err)
	}

	structure := output.ParseStructure(evaluateStructure)
	node, err := it.Evaluate(h, instance, structure)
	if err != nil {
		return fmt.Errorf("evaluate failed: %w", err)
	}

	out, err := node.CollectIndent()
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))
	if node != nil && !node.Valid {
		os.Exit(1)
	}
	return nil
}
