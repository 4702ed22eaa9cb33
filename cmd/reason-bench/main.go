// Command reason-bench is a thin CLI wrapper around the driver/evaluation
// packages: it builds a classifier, a stream and an evaluator from a YAML
// config and runs a prequential evaluation, printing the final accuracy
// and kappa and optionally exporting the learning curve.
package main

import (
	"fmt"
	"io"
	"os"
)

// cliOut/cliErr are package vars rather than hardcoded os.Stdout/os.Stderr
// so tests can redirect them.
var (
	cliOut io.Writer = os.Stdout
	cliErr io.Writer = os.Stderr
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
