package interfaces

import (
	"fmt"
	"os"

	"github.com/vishvananda/netlink"
)

// Addrs returns a list of CIDRs currently assigned to the interface.
func (i *linuxLink) Addrs() ([]string, error) {
	addrs, err := netlink.AddrList(i.link, netlink.FAMILY_ALL)
	if err != nil {
		return nil, fmt.Errorf("listing %q addresses: %w", i.name, err)
	}
	var out []string
	for _, addr := range addrs {
		out = append(out, addr.IPNet.String())
	}
	return out, nil
}

// EnsureAddrs adds the CIDRs to the interface, skipping any already assigned.
func (i *linuxLink) EnsureAddrs(cidrs []string) error {
	for _, cidr := range cidrs {
		addr, err := netlink.ParseAddr(cidr)
		if err != nil {
			return fmt.Errorf("parsing IP address %q: %w", cidr, err)
		}
		err = netlink.AddrAdd(i.link, addr)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("adding IP address %q to %q: %w", cidr, i.name, err)
		}
	}
	return nil
}
