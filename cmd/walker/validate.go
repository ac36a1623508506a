package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/walker/internal/presentation/tui"
	"github.com/aretw0/walker/pkg/codec"
	"github.com/spf13/cobra"
)

var errInvalidWorlds = errors.New("invalid worlds found")

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check world files for format errors",
	Long:  `Decodes each world file and reports the first problem with its line and column.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			g, err := codec.DecodeFile(env.Fs, path)
			if err != nil {
				failed++
				fmt.Fprintf(out, "✗ %v\n", err)
				continue
			}
			fmt.Fprintf(out, "✓ %s: %s\n", path, tui.Status(g))
		}
		if failed > 0 {
			return fmt.Errorf("%w: %d of %d", errInvalidWorlds, failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
