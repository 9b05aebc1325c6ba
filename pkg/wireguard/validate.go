package wireguard

import (
	"fmt"
	"net"
	"sort"
	"strconv"

	"go.uber.org/multierr"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

const (
	maxPort              = 65535
	maxKeepAliveInterval = 65535
)

// Validate checks that the interface can be applied to a device. It does not
// resolve endpoint host names. Every problem found is reported.
func (i *Interface) Validate() error {
	if i == nil {
		return fmt.Errorf("interface config is nil")
	}
	var err error

	var privateKey *wgtypes.Key
	if i.PrivateKey != "" {
		k, pErr := parseKey(i.PrivateKey)
		if pErr != nil {
			err = multierr.Append(err, fmt.Errorf("privateKey: %w", pErr))
		} else {
			privateKey = &k
		}
	}
	if i.PublicKey != "" {
		k, pErr := parseKey(i.PublicKey)
		switch {
		case pErr != nil:
			err = multierr.Append(err, fmt.Errorf("publicKey: %w", pErr))
		case privateKey != nil && privateKey.PublicKey() != k:
			err = multierr.Append(err, fmt.Errorf("publicKey does not match privateKey"))
		}
	}
	if i.PortListen < 0 || i.PortListen > maxPort {
		err = multierr.Append(err, fmt.Errorf("portListen %d out of range", i.PortListen))
	}
	if i.FirewallMark < 0 {
		err = multierr.Append(err, fmt.Errorf("fwmark %d is negative", i.FirewallMark))
	}
	for _, addr := range i.Address {
		if _, _, pErr := net.ParseCIDR(addr); pErr != nil {
			err = multierr.Append(err, fmt.Errorf("Address %q: %w", addr, pErr))
		}
	}

	keys := make([]string, 0, len(i.Peers))
	for key := range i.Peers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if pErr := validatePeer(key, i.Peers[key]); pErr != nil {
			err = multierr.Append(err, fmt.Errorf("peer %q: %w", key, pErr))
		}
	}
	return err
}

func validatePeer(publicKey string, p *PeerConfig) error {
	var err error
	if _, pErr := parseKey(publicKey); pErr != nil {
		err = multierr.Append(err, fmt.Errorf("public key: %w", pErr))
	}
	if p == nil {
		return err
	}
	if p.PresharedKey != "" {
		if _, pErr := parseKey(p.PresharedKey); pErr != nil {
			err = multierr.Append(err, fmt.Errorf("presharedKey: %w", pErr))
		}
	}
	if p.Endpoint != "" {
		if eErr := validateEndpoint(p.Endpoint); eErr != nil {
			err = multierr.Append(err, eErr)
		}
	}
	for _, cidr := range p.AllowedIPs {
		if _, _, pErr := net.ParseCIDR(cidr); pErr != nil {
			err = multierr.Append(err, fmt.Errorf("allowedIPs %q: %w", cidr, pErr))
		}
	}
	if p.KeepInterval < 0 || p.KeepInterval > maxKeepAliveInterval {
		err = multierr.Append(err, fmt.Errorf("keepInterval %d out of range", p.KeepInterval))
	}
	return err
}

// parseKey accepts only the canonical base64 form of a key. Devices report
// keys canonically, so any other spelling of the same key would not match.
func parseKey(s string) (wgtypes.Key, error) {
	k, err := wgtypes.ParseKey(s)
	if err != nil {
		return k, err
	}
	if canonical := k.String(); canonical != s {
		return k, fmt.Errorf("key is not canonical; expected %q", canonical)
	}
	return k, nil
}

func validateEndpoint(endpoint string) error {
	host, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		return fmt.Errorf("endpoint %q: %w", endpoint, err)
	}
	if host == "" {
		return fmt.Errorf("endpoint %q: missing host", endpoint)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > maxPort {
		return fmt.Errorf("endpoint %q: invalid port %q", endpoint, port)
	}
	return nil
}
