package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/docview"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of docview",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docview version %s\n", strings.TrimSpace(docview.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
