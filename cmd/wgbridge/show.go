package main

import (
	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show [interface]",
	Short: "Show the configuration and statistics of WireGuard interfaces",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", outputJSON, "output format: json or yaml")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := validateOutput(showOutput); err != nil {
		return err
	}
	m, closer, err := newManager()
	if err != nil {
		return err
	}
	defer closer()

	if len(args) == 0 {
		all, err := m.All()
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), showOutput, all)
	}
	iface, err := m.Get(args[0])
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), showOutput, iface)
}
