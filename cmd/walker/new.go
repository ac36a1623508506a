package main

import (
	"fmt"

	"github.com/aretw0/walker/internal/presentation/tui"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create an empty world",
	Long: `Creates an empty walled world with the agent at the given interior position.
With --output the world is written to a file, with a name it is saved to the configured store,
otherwise it is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wc := env.Config.World
		width, height, x, y, dir := wc.Width, wc.Height, wc.X, wc.Y, wc.Dir
		if cmd.Flags().Changed("width") {
			width, _ = cmd.Flags().GetInt("width")
		}
		if cmd.Flags().Changed("height") {
			height, _ = cmd.Flags().GetInt("height")
		}
		if cmd.Flags().Changed("x") {
			x, _ = cmd.Flags().GetInt("x")
		}
		if cmd.Flags().Changed("y") {
			y, _ = cmd.Flags().GetInt("y")
		}
		if cmd.Flags().Changed("dir") {
			dir, _ = cmd.Flags().GetString("dir")
		}
		output, _ := cmd.Flags().GetString("output")

		facing, err := domain.ParseDirection(dir)
		if err != nil {
			return err
		}
		eng, err := env.NewEngine()
		if err != nil {
			return err
		}
		if err := eng.NewWorld(width, height, domain.Pt(x, y), facing); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case output != "":
			if err := eng.SaveFile(output); err != nil {
				return err
			}
			fmt.Fprintf(out, "World written to %s\n", output)
		case len(args) == 1:
			store, err := env.Store()
			if err != nil {
				return err
			}
			if err := store.Save(cmd.Context(), args[0], eng.Text()); err != nil {
				return err
			}
			fmt.Fprintf(out, "World %q saved to the %s store\n", args[0], env.Config.Store.Kind)
		default:
			fmt.Fprint(out, eng.Text())
			return nil
		}
		fmt.Fprintln(out, tui.Status(eng.World()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().Int("width", 0, "Interior width (default from config)")
	newCmd.Flags().Int("height", 0, "Interior height (default from config)")
	newCmd.Flags().Int("x", 0, "Agent column inside the walls")
	newCmd.Flags().Int("y", 0, "Agent row inside the walls")
	newCmd.Flags().String("dir", "", "Agent direction: north, east, south or west")
	newCmd.Flags().StringP("output", "o", "", "Write the world to this file")
}
