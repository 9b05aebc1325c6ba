// +build linux

package interfaces

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

func createWGKernelLink(name string) (Link, error) {
	link := &wgLink{name: name}
	err := netlink.LinkAdd(link)
	switch {
	case err == nil:
	case errors.Is(err, unix.EOPNOTSUPP):
		// The wireguard module isn't loaded, or can't be.
		return nil, fmt.Errorf("adding net link %q: %w", name, errDriverNotFound)
	default:
		return nil, fmt.Errorf("adding net link %q: %w", name, err)
	}
	nl, err := netlink.LinkByName(name)
	if err != nil {
		return nil, fmt.Errorf("loading new net link %q: %w", name, err)
	}
	return &linuxLink{name: name, link: nl}, nil
}

func startWGUserspaceLink(ctx context.Context, name string, cmd *exec.Cmd) (Link, error) {
	err := cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("starting userspace: %w", err)
	}
	exit := cmdExit(cmd)
	link, err := waitForLink(ctx, exit, name)
	if err != nil {
		return nil, fmt.Errorf("waiting for interface %q to be created: %w", name, err)
	}
	return link, nil
}

type wgLink struct {
	name string
}

// Type implements netlink.Link interface
func (w *wgLink) Type() string {
	return "wireguard"
}

// Attrs implements netlink.Link interface
func (w *wgLink) Attrs() *netlink.LinkAttrs {
	attr := netlink.NewLinkAttrs()
	attr.Name = w.name
	return &attr
}
