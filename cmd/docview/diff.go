package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/docview/pkg/fixture"
)

var diffJSON bool

var diffCmd = &cobra.Command{
	Use:   "diff <scenario.yaml>",
	Short: "Print the ordered change list between two results",
	Long: `Reads a scenario file holding a query and two results of it (old and new)
and prints the snapshot the second result produces: removals first, then
additions and modifications in result order, with the positions a list UI
would apply them at.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		scenario, err := fixture.LoadScenarioFile(args[0])
		if err != nil {
			fatal("Failed to read scenario", err)
		}

		snap, err := scenario.Snapshot()
		if err != nil {
			fatal("Invalid scenario", err)
		}

		if err := printSnapshot(os.Stdout, snap, diffJSON); err != nil {
			fatal("Failed to write output", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output in JSON format")
}
