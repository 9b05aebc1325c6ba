package wireguard

import (
	"time"
)

// PeerConfig describes one peer of a WireGuard interface. Peers are keyed by
// their public key in Interface.Peers, so the key itself isn't repeated here.
type PeerConfig struct {
	// PresharedKey is an optional symmetric secret shared with the peer.
	PresharedKey string `json:"presharedKey,omitempty" yaml:"presharedKey,omitempty"`

	// Endpoint is the host:port of the peer's last known address.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// AllowedIPs are the CIDR ranges routed to this peer.
	AllowedIPs []string `json:"allowedIPs,omitempty" yaml:"allowedIPs,omitempty"`

	// RxBytes and TxBytes are reported by the kernel and are never applied.
	RxBytes int64 `json:"rxBytes,omitempty" yaml:"rxBytes,omitempty"`
	TxBytes int64 `json:"txBytes,omitempty" yaml:"txBytes,omitempty"`

	// KeepInterval is the persistent keepalive interval in seconds.
	KeepInterval int `json:"keepInterval,omitempty" yaml:"keepInterval,omitempty"`

	// LastHandshake is nil until a handshake has completed. Read-only.
	LastHandshake *time.Time `json:"lastHandshake,omitempty" yaml:"lastHandshake,omitempty"`
}

// Interface is the configuration and live state of a WireGuard interface. The
// interface name is not part of the struct; it is the key used to look it up.
type Interface struct {
	PublicKey  string `json:"publicKey,omitempty" yaml:"publicKey,omitempty"`
	PrivateKey string `json:"privateKey,omitempty" yaml:"privateKey,omitempty"`

	// PortListen is the UDP listen port. 0 lets the kernel pick one.
	PortListen int `json:"portListen,omitempty" yaml:"portListen,omitempty"`

	// FirewallMark tags outgoing WireGuard packets for policy routing.
	FirewallMark int `json:"fwmark,omitempty" yaml:"fwmark,omitempty"`

	// Address lists the CIDRs assigned to the network link.
	Address []string `json:"Address,omitempty" yaml:"Address,omitempty"`

	Peers map[string]*PeerConfig `json:"peers" yaml:"peers"`
}

// WithoutStatistics returns a deep copy of the interface with every live-only
// field (traffic counters, handshake time) cleared. These describe kernel
// state and can't be configured.
func (i *Interface) WithoutStatistics() *Interface {
	if i == nil {
		return nil
	}
	out := &Interface{
		PublicKey:    i.PublicKey,
		PrivateKey:   i.PrivateKey,
		PortListen:   i.PortListen,
		FirewallMark: i.FirewallMark,
		Address:      copyStrings(i.Address),
		Peers:        make(map[string]*PeerConfig, len(i.Peers)),
	}
	for key, p := range i.Peers {
		if p == nil {
			out.Peers[key] = &PeerConfig{}
			continue
		}
		out.Peers[key] = &PeerConfig{
			PresharedKey: p.PresharedKey,
			Endpoint:     p.Endpoint,
			AllowedIPs:   copyStrings(p.AllowedIPs),
			KeepInterval: p.KeepInterval,
		}
	}
	return out
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
