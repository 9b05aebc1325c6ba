package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestBindPersistentFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.PersistentFlags().String("bind-test-flag", "", "")

	require.NoError(t, bindPersistentFlags(cmd, "bind-test-flag"))

	err := bindPersistentFlags(cmd, "bind-test-flag", "bind-test-typo")
	require.Error(t, err)
	require.Contains(t, err.Error(), "binding --bind-test-typo")
}

func TestRootFlagsBound(t *testing.T) {
	for _, name := range []string{"debug", "driver", "boringtun-path", "boringtun-extra-args", "wireguard-go-path", "wireguard-go-extra-args"} {
		require.NotNilf(t, rootCmd.PersistentFlags().Lookup(name), "--%s", name)
	}
}
