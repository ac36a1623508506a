package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/walker"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of walker",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "walker version %s\n", strings.TrimSpace(walker.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
