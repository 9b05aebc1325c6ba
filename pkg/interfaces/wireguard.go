package interfaces

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/kballard/go-shellquote"
)

// WireGuardDriver describes how the WireGuard interface should be created.
type WireGuardDriver string

const (
	// AutoSelect will try to find a working driver, first trying the kernel
	// driver, then boringtun, then wireguard-go.
	AutoSelect WireGuardDriver = "auto"
	// KernelDriver attempts to create an interface using the WireGuard kernel module.
	// Kernel support is only available in Linux, and the module may not be loaded.
	KernelDriver WireGuardDriver = "kernel"
	// BoringTunDriver attempts to create a WireGuard interface using the BoringTun
	// userspace driver. The daemon detaches and outlives this process.
	BoringTunDriver WireGuardDriver = "boringtun"
	// WireGuardGoDriver attempts to create a WireGuard interface using the wireguard-go
	// userspace driver. The daemon detaches and outlives this process.
	WireGuardGoDriver WireGuardDriver = "wireguard-go"

	defaultWireGuardGoPath = "wireguard-go"
	defaultBoringTunPath   = "boringtun"

	// interfaceTimeout is the period we'll wait for a userspace driver to create the interface.
	interfaceTimeout = 10 * time.Second
)

// ControlOptions configures how a Control creates devices.
type ControlOptions struct {
	Driver               WireGuardDriver
	WireGuardGoPath      string
	WireGuardGoExtraArgs string
	BoringTunPath        string
	BoringTunExtraArgs   string
}

func createWGLinkWithName(
	ctx context.Context,
	name string,
	options *ControlOptions,
) (Link, error) {
	driver := options.Driver
	if driver == "" {
		driver = AutoSelect
	}

	if driver == KernelDriver || driver == AutoSelect {
		link, err := createWGKernelLink(name)
		if err == nil {
			return link, nil
		}
		if driver == KernelDriver || (!errors.Is(err, errDriverNotFound) && !errors.Is(err, errUnimplemented)) {
			return nil, err
		}
	}

	if driver == BoringTunDriver || driver == AutoSelect {
		link, err := createWGUserspaceLink(ctx, name, BoringTunDriver, options.BoringTunPath, options.BoringTunExtraArgs)
		if err == nil {
			return link, nil
		}
		if driver == BoringTunDriver || !errors.Is(err, errDriverNotFound) {
			return nil, err
		}
	}

	if driver == WireGuardGoDriver || driver == AutoSelect {
		link, err := createWGUserspaceLink(ctx, name, WireGuardGoDriver, options.WireGuardGoPath, options.WireGuardGoExtraArgs)
		if err == nil {
			return link, nil
		}
		if driver == WireGuardGoDriver || !errors.Is(err, errDriverNotFound) {
			return nil, err
		}
	}
	return nil, errors.New("no wireguard drivers succeeded")
}

func createWGUserspaceLink(
	ctx context.Context,
	name string,
	driver WireGuardDriver,
	path, extraArgs string,
) (Link, error) {
	cmd, err := userspaceCommand(driver, path, extraArgs, name)
	if err != nil {
		return nil, err
	}
	return startWGUserspaceLink(ctx, name, cmd)
}

// userspaceCommand builds the command which launches a userspace driver for
// the interface name.
func userspaceCommand(driver WireGuardDriver, path, extraArgs, name string) (*exec.Cmd, error) {
	if path == "" {
		switch driver {
		case BoringTunDriver:
			path = defaultBoringTunPath
		case WireGuardGoDriver:
			path = defaultWireGuardGoPath
		default:
			return nil, fmt.Errorf("WireGuard driver %q is not a userspace driver", driver)
		}
	}
	qualifiedPath, err := exec.LookPath(path)
	switch {
	case err == nil: // SUCCESS - fall past switch
	case errors.Is(err, exec.ErrNotFound):
		return nil, fmt.Errorf("finding %s binary %q: %w", driver, path, errDriverNotFound)
	default:
		return nil, fmt.Errorf("finding %s binary %q: %w", driver, path, err)
	}

	var args []string
	if extraArgs != "" {
		a, err := shellquote.Split(extraArgs)
		if err != nil {
			return nil, fmt.Errorf("parsing %s extra args: %w", driver, err)
		}
		args = append(args, a...)
	}
	args = append(args, name)
	return exec.Command(qualifiedPath, args...), nil
}

func cmdExit(cmd *exec.Cmd) <-chan error {
	quit := make(chan error, 1)
	go func() {
		defer close(quit)
		quit <- cmd.Wait()
	}()
	return quit
}

// GetValidWireGuardDrivers returns a list of available WireGuardDrivers for the current platform.
func GetValidWireGuardDrivers() []string {
	out := []string{
		string(AutoSelect),
		string(BoringTunDriver),
		string(WireGuardGoDriver),
	}
	if runtime.GOOS == "linux" {
		out = append(out, string(KernelDriver))
	}
	return out
}

// WireGuardDriverFromString returns a valid WireGuardDriver, or a descriptive error if the
// specified driver is invalid.
func WireGuardDriverFromString(driver string) (WireGuardDriver, error) {
	switch WireGuardDriver(driver) {
	case AutoSelect:
		return AutoSelect, nil
	case BoringTunDriver:
		return BoringTunDriver, nil
	case WireGuardGoDriver:
		return WireGuardGoDriver, nil
	case KernelDriver:
		if runtime.GOOS == "linux" {
			return KernelDriver, nil
		}
		return "", fmt.Errorf("WireGuard driver %q: %w", KernelDriver, errUnimplemented)
	default:
		return "", fmt.Errorf("unknown WireGuard driver %q", driver)
	}
}
