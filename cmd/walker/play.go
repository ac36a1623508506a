package main

import (
	"os"

	"github.com/aretw0/walker"
	"github.com/aretw0/walker/internal/cli"
	"github.com/aretw0/walker/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [world]",
	Short: "Drive the agent interactively",
	Long: `Starts an interactive session. Type commands to move the agent, query its sensors,
run programs and scrub through the trace. Type 'help' for the list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")

		reg, err := env.Programs()
		if err != nil {
			return err
		}
		eng, err := env.NewEngine()
		if err != nil {
			return err
		}
		sc := cli.OnInterrupt(cmd.Context())
		defer sc.Stop()

		if len(args) == 1 {
			if err := env.OpenWorld(sc, eng, args[0]); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		prompt := interactive()
		profile := outputProfile(plain)
		opts := cli.PlayOptions{Profile: profile, Prompt: prompt, Programs: reg}
		if !plain {
			opts.Render = tui.NewRenderer(0)
		}
		if prompt {
			tui.PrintBanner(out, walker.Version)
		}
		return cli.HandleExecutionError(cli.Play(sc, eng, os.Stdin, out, opts))
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Bool("plain", false, "Disable colors and markdown rendering")
}
