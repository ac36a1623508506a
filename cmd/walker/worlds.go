package main

import (
	"fmt"

	"github.com/aretw0/walker/pkg/codec"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var worldsCmd = &cobra.Command{
	Use:   "worlds",
	Short: "Manage worlds in the configured store",
}

var worldsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored worlds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := env.Store()
		if err != nil {
			return err
		}
		names, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var worldsPutCmd = &cobra.Command{
	Use:   "put <name> <file>",
	Short: "Store a world file under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := afero.ReadFile(env.Fs, args[1])
		if err != nil {
			return err
		}
		if _, err := codec.Decode(string(data)); err != nil {
			return fmt.Errorf("%s: %w", args[1], err)
		}
		store, err := env.Store()
		if err != nil {
			return err
		}
		if err := store.Save(cmd.Context(), args[0], string(data)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "World %q stored\n", args[0])
		return nil
	},
}

var worldsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a stored world",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := env.Store()
		if err != nil {
			return err
		}
		text, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

var worldsRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Remove a stored world",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := env.Store()
		if err != nil {
			return err
		}
		return store.Delete(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(worldsCmd)
	worldsCmd.AddCommand(worldsListCmd, worldsPutCmd, worldsGetCmd, worldsRmCmd)
}
