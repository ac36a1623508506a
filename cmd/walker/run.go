package main

import (
	"github.com/aretw0/walker/internal/cli"
	"github.com/aretw0/walker/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <program>",
	Short: "Run a built-in program on a world",
	Long: `Loads a world and runs one of the built-in programs on it.
With --animate every move is drawn as it happens, paced by --delay.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		world, _ := cmd.Flags().GetString("world")
		animate, _ := cmd.Flags().GetBool("animate")
		save, _ := cmd.Flags().GetString("save")
		showTrace, _ := cmd.Flags().GetBool("trace")
		plain, _ := cmd.Flags().GetBool("plain")
		delay := env.Config.Run.Delay
		if cmd.Flags().Changed("delay") {
			delay, _ = cmd.Flags().GetDuration("delay")
		}

		reg, err := env.Programs()
		if err != nil {
			return err
		}
		sc := cli.OnInterrupt(cmd.Context())
		defer sc.Stop()

		opts := cli.RunOptions{
			World:    world,
			Program:  args[0],
			Animate:  animate,
			Delay:    delay,
			Save:     save,
			Trace:    showTrace,
			Profile:  outputProfile(plain),
			Programs: reg,
		}
		if showTrace && !plain {
			opts.Render = tui.NewRenderer(0)
		}
		err = cli.RunProgram(sc, env, cmd.OutOrStdout(), opts)
		if sig := sc.Caught(); sig != nil {
			env.Logger.Info("run interrupted", "signal", sig)
		}
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("world", "w", "", "World file or stored world name (default: empty world)")
	runCmd.Flags().BoolP("animate", "a", false, "Draw every move")
	runCmd.Flags().Duration("delay", 0, "Pause between animated moves (default from config)")
	runCmd.Flags().String("save", "", "Write the final world to this file")
	runCmd.Flags().Bool("trace", false, "Print the trace after the run")
	runCmd.Flags().Bool("plain", false, "Disable colors and markdown rendering")
}
