package main

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <interface>",
	Aliases: []string{"del"},
	Short:   "Delete a WireGuard interface. Deleting a missing interface succeeds.",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	m, closer, err := newManager()
	if err != nil {
		return err
	}
	defer closer()
	return m.Delete(args[0])
}
