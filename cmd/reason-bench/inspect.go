package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gustavo-munhoz/reason/classifiers/hoeffding"
)

func newInspectCmd() *cobra.Command {
	var treePath string
	var graph bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print structure and stats for a dumped Hoeffding tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(treePath)
			if err != nil {
				return err
			}
			defer f.Close()

			tree, err := hoeffding.Load(f, nil)
			if err != nil {
				return fmt.Errorf("loading tree: %w", err)
			}

			info := tree.Info()
			successf(
				"nodes=%d active_leaves=%d inactive_leaves=%d max_depth=%d\n",
				info.NumNodes, info.NumActiveLeaves, info.NumInactiveLeaves, info.MaxDepth,
			)

			if graph {
				return tree.WriteGraph(cliOut)
			}
			return tree.WriteText(cliOut)
		},
	}

	cmd.Flags().StringVar(&treePath, "tree", "", "path to a msgpack-dumped tree (Tree.DumpTo)")
	cmd.Flags().BoolVar(&graph, "graph", false, "print dot-notation graph instead of text")
	cmd.MarkFlagRequired("tree")
	return cmd
}
