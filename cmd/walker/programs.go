package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List the available agent programs",
	Long:  `Lists the built-in programs followed by the external ones from the programs file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := env.Programs()
		if err != nil {
			return err
		}
		for _, name := range reg.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(programsCmd)
}
