package interfaces

import (
	"context"
)

// Link describes actions which can be performed against a network interface.
type Link interface {
	// Delete removes the interface. Userspace drivers exit once their link is gone.
	Delete() error

	// EnsureAddrs adds each CIDR to the interface unless it is already assigned.
	EnsureAddrs(cidrs []string) error

	// EnsureUp sets an interface into the UP state if it is not already UP. This begins
	// communication over the WireGuard protocol w/ any listed peers.
	EnsureUp() error

	// Name returns the name used to identify the interface.
	Name() string

	// Addrs returns the CIDRs assigned to the interface.
	Addrs() ([]string, error)
}

// linkProvider finds and creates links on the host.
type linkProvider interface {
	LinkByName(name string) (Link, error)
	AddLink(ctx context.Context, name string, options *ControlOptions) (Link, error)
}
