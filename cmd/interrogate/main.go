// Command interrogate is a thin CLI front-end over the jsonschema package,
// exposing "interrogate compile <uri>..." and "interrogate evaluate <uri>
// <instance file> --structure=detailed", built on github.com/spf13/cobra.
package main

import (
	"fmt"
	"os"

	"github.com/altair-labs/interrogator/cmd/interrogate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
