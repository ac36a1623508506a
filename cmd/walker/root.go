package main

import (
	"fmt"
	"os"

	"github.com/aretw0/walker/internal/cli"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// env is built once per invocation by the root command.
var env *cli.Env

var rootCmd = &cobra.Command{
	Use:   "walker",
	Short: "Walker drives a single agent around a walled grid",
	Long: `Walker simulates one agent on a bounded grid of walls and markers.
Every action is recorded in a reversible trace that can be scrubbed back and forth.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")

		e, err := cli.NewEnv(cli.EnvOptions{
			ConfigPath: configPath,
			Debug:      debug,
			Getenv:     os.Getenv,
		})
		if err != nil {
			return err
		}
		env = e
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env == nil {
			return nil
		}
		return env.Close()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default walker.yaml if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// outputProfile picks the color profile for stdout, or plain text when piped.
func outputProfile(plain bool) termenv.Profile {
	if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// interactive reports whether stdin is attached to a terminal.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
