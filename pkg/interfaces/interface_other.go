// +build !linux

package interfaces

import (
	"context"
	"fmt"
	"os/exec"
)

// Link management needs netlink, which is only available on Linux.
type unsupportedProvider struct{}

func newLinkProvider() linkProvider {
	return unsupportedProvider{}
}

func (unsupportedProvider) LinkByName(name string) (Link, error) {
	return nil, fmt.Errorf("interfaces.LinkByName: %w", errUnimplemented)
}

func (unsupportedProvider) AddLink(ctx context.Context, name string, options *ControlOptions) (Link, error) {
	return nil, fmt.Errorf("interfaces.AddLink: %w", errUnimplemented)
}

func createWGKernelLink(name string) (Link, error) {
	return nil, fmt.Errorf("createWGKernelLink: %w", errUnimplemented)
}

func startWGUserspaceLink(ctx context.Context, name string, cmd *exec.Cmd) (Link, error) {
	return nil, fmt.Errorf("startWGUserspaceLink: %w", errUnimplemented)
}
