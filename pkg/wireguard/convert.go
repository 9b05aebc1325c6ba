package wireguard

import (
	"fmt"
	"net"
	"sort"
	"time"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// Config translates the interface into a wgctrl configuration. Peers replace
// any peers already on the device, and are emitted in key order. Read-only
// fields are ignored. Endpoint host names are resolved.
func (i *Interface) Config() (wgtypes.Config, error) {
	cfg := wgtypes.Config{
		ReplacePeers: true,
	}
	if i.PrivateKey != "" {
		k, err := wgtypes.ParseKey(i.PrivateKey)
		if err != nil {
			return wgtypes.Config{}, fmt.Errorf("parsing private key: %w", err)
		}
		cfg.PrivateKey = &k
	}
	if i.PortListen != 0 {
		port := i.PortListen
		cfg.ListenPort = &port
	}
	if i.FirewallMark != 0 {
		mark := i.FirewallMark
		cfg.FirewallMark = &mark
	}

	keys := make([]string, 0, len(i.Peers))
	for key := range i.Peers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		peer, err := peerConfig(key, i.Peers[key])
		if err != nil {
			return wgtypes.Config{}, fmt.Errorf("peer %q: %w", key, err)
		}
		cfg.Peers = append(cfg.Peers, peer)
	}
	return cfg, nil
}

func peerConfig(publicKey string, p *PeerConfig) (wgtypes.PeerConfig, error) {
	k, err := wgtypes.ParseKey(publicKey)
	if err != nil {
		return wgtypes.PeerConfig{}, fmt.Errorf("parsing public key: %w", err)
	}
	out := wgtypes.PeerConfig{
		PublicKey:         k,
		ReplaceAllowedIPs: true,
	}
	if p == nil {
		return out, nil
	}
	if p.PresharedKey != "" {
		psk, err := wgtypes.ParseKey(p.PresharedKey)
		if err != nil {
			return wgtypes.PeerConfig{}, fmt.Errorf("parsing preshared key: %w", err)
		}
		out.PresharedKey = &psk
	}
	if p.Endpoint != "" {
		addr, err := net.ResolveUDPAddr("udp", p.Endpoint)
		if err != nil {
			return wgtypes.PeerConfig{}, fmt.Errorf("resolving endpoint %q: %w", p.Endpoint, err)
		}
		out.Endpoint = addr
	}
	if p.KeepInterval > 0 {
		keepalive := time.Duration(p.KeepInterval) * time.Second
		out.PersistentKeepaliveInterval = &keepalive
	}
	for _, cidr := range p.AllowedIPs {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return wgtypes.PeerConfig{}, fmt.Errorf("parsing allowed IP %q: %w", cidr, err)
		}
		out.AllowedIPs = append(out.AllowedIPs, *ipNet)
	}
	return out, nil
}

// FromDevice builds an Interface from the live state of a device. addrs are
// the CIDRs assigned to the link, which wgctrl doesn't report.
func FromDevice(d *wgtypes.Device, addrs []string) *Interface {
	var zero wgtypes.Key
	out := &Interface{
		PortListen:   d.ListenPort,
		FirewallMark: d.FirewallMark,
		Address:      addrs,
		Peers:        make(map[string]*PeerConfig, len(d.Peers)),
	}
	if d.PrivateKey != zero {
		out.PrivateKey = d.PrivateKey.String()
	}
	if d.PublicKey != zero {
		out.PublicKey = d.PublicKey.String()
	}
	for _, p := range d.Peers {
		pc := &PeerConfig{
			RxBytes:      p.ReceiveBytes,
			TxBytes:      p.TransmitBytes,
			KeepInterval: int(p.PersistentKeepaliveInterval / time.Second),
		}
		if p.PresharedKey != zero {
			pc.PresharedKey = p.PresharedKey.String()
		}
		if p.Endpoint != nil {
			pc.Endpoint = p.Endpoint.String()
		}
		for _, ipNet := range p.AllowedIPs {
			pc.AllowedIPs = append(pc.AllowedIPs, ipNet.String())
		}
		if !p.LastHandshakeTime.IsZero() {
			t := p.LastHandshakeTime
			pc.LastHandshake = &t
		}
		out.Peers[p.PublicKey.String()] = pc
	}
	return out
}
