package main

import (
	"github.com/spf13/cobra"

	"github.com/jcodybaker/wgbridge/pkg/manager"
	"github.com/jcodybaker/wgbridge/pkg/wireguard"
)

var createConfigPath, createOutput string
var noRollback bool

var createCmd = &cobra.Command{
	Use:   "create <interface>",
	Short: "Create a WireGuard interface",
	Long: `Create a WireGuard interface and apply a starting configuration.

The config file is YAML or JSON, for example:

  privateKey: <base64 key>
  portListen: 51820
  Address: ["10.0.0.1/24"]
  peers:
    <peer public key>:
      endpoint: 192.0.2.1:51820
      allowedIPs: ["10.0.0.2/32"]
      keepInterval: 25

Without a privateKey one is generated.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createConfigPath, "config", "c", "", "path to the interface config (yaml or json)")
	createCmd.Flags().StringVarP(&createOutput, "output", "o", outputJSON, "output format: json or yaml")
	createCmd.Flags().BoolVar(&noRollback, "no-rollback", false, "leave the device in place if configuring it fails")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := validateOutput(createOutput); err != nil {
		return err
	}
	name := args[0]
	if err := manager.ValidateInterfaceName("create", name); err != nil {
		return err
	}
	cfg := &wireguard.Interface{}
	if createConfigPath != "" {
		var err error
		cfg, err = readInterfaceConfig(createConfigPath)
		if err != nil {
			return err
		}
	}

	m, closer, err := newManager(manager.WithRollback(!noRollback))
	if err != nil {
		return err
	}
	defer closer()

	iface, err := m.Create(name, cfg)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), createOutput, iface)
}
