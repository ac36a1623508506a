package main

import (
	"fmt"

	"github.com/aretw0/walker/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <world>",
	Short: "Render a world",
	Long:  `Renders a world file, or a world from the configured store, with the agent drawn as an arrow.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")

		eng, err := env.NewEngine()
		if err != nil {
			return err
		}
		if err := env.OpenWorld(cmd.Context(), eng, args[0]); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, tui.RenderGrid(outputProfile(plain), eng.World()))
		fmt.Fprintln(out, tui.Status(eng.World()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("plain", false, "Disable colors")
}
