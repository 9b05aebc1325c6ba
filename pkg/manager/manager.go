// Package manager enumerates, inspects, creates and destroys WireGuard
// interfaces on top of a ControlSurface.
package manager

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/jcodybaker/wgbridge/pkg/wireguard"
)

// ControlSurface performs privileged operations against the operating
// system's WireGuard implementation.
type ControlSurface interface {
	// Devices returns every WireGuard interface keyed by name.
	Devices() (map[string]*wireguard.Interface, error)

	// Device returns a single interface. A missing device is an error.
	Device(name string) (*wireguard.Interface, error)

	// AddDevice creates a bare WireGuard device.
	AddDevice(name string) error

	// SetupInterface applies cfg to an existing device.
	SetupInterface(name string, cfg *wireguard.Interface) (wireguard.ResultCode, error)

	// DelDevice deletes a device.
	DelDevice(name string) (wireguard.ResultCode, error)
}

// Manager validates requests and dispatches them to a ControlSurface. It holds
// no interface state; every call queries the surface again.
type Manager struct {
	surface  ControlSurface
	ll       log.FieldLogger
	rollback bool
}

// New returns a Manager backed by surface.
func New(surface ControlSurface, opts ...OptionFunc) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager{
		surface:  surface,
		ll:       o.ll,
		rollback: o.rollback,
	}
}

// All returns every WireGuard interface with its peers, keyed by name.
func (m *Manager) All() (map[string]*wireguard.Interface, error) {
	devices, err := m.surface.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing wireguard devices: %w", err)
	}
	if devices == nil {
		devices = make(map[string]*wireguard.Interface)
	}
	return devices, nil
}

// Get returns the named interface.
func (m *Manager) Get(name string) (*wireguard.Interface, error) {
	iface, err := m.surface.Device(name)
	if err != nil {
		return nil, &Error{Kind: ErrNotFoundOrSystem, Op: "show", Name: name, Err: err}
	}
	if iface == nil {
		return nil, &Error{Kind: ErrNotFoundOrSystem, Op: "show", Name: name}
	}
	return iface, nil
}

// Names returns the sorted names of every WireGuard interface.
func (m *Manager) Names() ([]string, error) {
	devices, err := m.All()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Create adds a WireGuard interface named name, applies cfg to it, and returns
// the resulting live state. Traffic counters and handshake times in cfg are
// ignored.
func (m *Manager) Create(name string, cfg *wireguard.Interface) (*wireguard.Interface, error) {
	if err := ValidateInterfaceName("create", name); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &wireguard.Interface{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Kind: ErrInvalidConfig, Op: "create", Name: name, Err: err}
	}
	cfg = cfg.WithoutStatistics()

	ll := m.ll.WithField("interface", name)
	ll.Debugln("adding wireguard device")
	if err := m.surface.AddDevice(name); err != nil {
		return nil, &Error{Kind: ErrDeviceCreateFailed, Op: "create", Name: name, Err: err}
	}

	ll.WithField("peers", len(cfg.Peers)).Debugln("configuring wireguard device")
	code, setupErr := m.surface.SetupInterface(name, cfg)
	if err := setupError(name, code, setupErr); err != nil {
		m.rollbackDevice(ll, name)
		return nil, err
	}
	ll.Infoln("created wireguard interface")
	return m.Get(name)
}

func (m *Manager) rollbackDevice(ll log.FieldLogger, name string) {
	if !m.rollback {
		ll.Warnln("leaving unconfigured device in place")
		return
	}
	ll.Infoln("removing unconfigured device")
	code, err := m.surface.DelDevice(name)
	if err != nil || code != wireguard.ResultOK {
		ll.WithError(err).WithField("code", int(code)).Warnln("failed to remove unconfigured device")
	}
}

// Delete removes the named interface. Deleting an interface which doesn't
// exist is not an error.
func (m *Manager) Delete(name string) error {
	if err := ValidateInterfaceName("delete", name); err != nil {
		return err
	}
	devices, err := m.All()
	if err != nil {
		return err
	}
	ll := m.ll.WithField("interface", name)
	if _, ok := devices[name]; !ok {
		ll.Debugln("interface does not exist; nothing to delete")
		return nil
	}
	code, err := m.surface.DelDevice(name)
	if err != nil || code != wireguard.ResultOK {
		return &Error{Kind: ErrDeviceDeleteFailed, Op: "delete", Name: name, Code: code, Err: err}
	}
	ll.Infoln("deleted wireguard interface")
	return nil
}
