package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jcodybaker/wgbridge/pkg/interfaces"
	wglog "github.com/jcodybaker/wgbridge/pkg/log"
	"github.com/jcodybaker/wgbridge/pkg/manager"
)

var ctx context.Context
var ll log.FieldLogger

var rootCmd = &cobra.Command{
	Use:   "wgbridge",
	Short: "Manage WireGuard interfaces",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("debug") {
			log.SetLevel(log.DebugLevel)
		}
		if isatty.IsTerminal(os.Stderr.Fd()) {
			log.SetFormatter(&log.TextFormatter{})
		}
	},
	SilenceUsage: true,
}

func init() {
	viper.SetEnvPrefix("wgbridge")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)

	ctx = signalContext(context.Background())
	ll = log.WithContext(ctx)
	ctx = wglog.WithLogger(ctx, ll)

	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "debug logging")
	flags.String("driver", string(interfaces.AutoSelect),
		fmt.Sprintf("wireguard driver used to create interfaces. Valid: %s", strings.Join(interfaces.GetValidWireGuardDrivers(), ",")))
	flags.String("boringtun-path", "", "path to boringtun userspace driver")
	flags.String("boringtun-extra-args", "", "extra arguments to pass to boringtun")
	flags.String("wireguard-go-path", "", "path to wireguard-go userspace driver")
	flags.String("wireguard-go-extra-args", "", "extra arguments to pass to the wireguard-go userspace driver")
	err := bindPersistentFlags(rootCmd, "debug", "driver", "boringtun-path", "boringtun-extra-args", "wireguard-go-path", "wireguard-go-extra-args")
	if err != nil {
		ll.WithError(err).Fatalln("binding flags")
	}
}

// bindPersistentFlags makes each named persistent flag of cmd readable through
// viper, so it can also be set from the environment.
func bindPersistentFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if err := viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newManager builds a Manager on top of the host's WireGuard control surface.
// The returned func releases the control surface.
func newManager(opts ...manager.OptionFunc) (*manager.Manager, func(), error) {
	driver, err := interfaces.WireGuardDriverFromString(viper.GetString("driver"))
	if err != nil {
		return nil, nil, fmt.Errorf("--driver: %w", err)
	}
	c, err := interfaces.NewControl(ctx, &interfaces.ControlOptions{
		Driver:               driver,
		BoringTunPath:        viper.GetString("boringtun-path"),
		BoringTunExtraArgs:   viper.GetString("boringtun-extra-args"),
		WireGuardGoPath:      viper.GetString("wireguard-go-path"),
		WireGuardGoExtraArgs: viper.GetString("wireguard-go-extra-args"),
	})
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := c.Close(); err != nil {
			ll.WithError(err).Warnln("closing wireguard client")
		}
	}
	opts = append([]manager.OptionFunc{manager.WithLogger(ll)}, opts...)
	return manager.New(c, opts...), closer, nil
}

func signalContext(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1) // exit hard for the impatient
	}()

	return ctx
}
