package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reason-bench",
		Short: "Run prequential evaluations of online classifiers from a YAML config",
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newBenchCmd())
	root.AddCommand(newInspectCmd())
	return root
}

func warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(cliErr, format, args...)
}

func infof(format string, args ...any) {
	color.New(color.FgCyan).Fprintf(cliOut, format, args...)
}

func successf(format string, args ...any) {
	color.New(color.FgGreen, color.Bold).Fprintf(cliOut, format, args...)
}
