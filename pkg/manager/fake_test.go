package manager

import (
	"errors"
	"os"

	"github.com/jcodybaker/wgbridge/pkg/wireguard"
)

// fakeSurface is an in-memory ControlSurface which counts calls.
type fakeSurface struct {
	devices map[string]*wireguard.Interface

	devicesErr  error
	addErr      error
	setupCode   wireguard.ResultCode
	setupErr    error
	delCode     wireguard.ResultCode
	delErr      error
	lastSetup   *wireguard.Interface
	derivedKeys map[string]string

	devicesCalls int
	deviceCalls  int
	addCalls     int
	setupCalls   int
	delCalls     int
}

var _ ControlSurface = &fakeSurface{}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		devices:     make(map[string]*wireguard.Interface),
		derivedKeys: make(map[string]string),
	}
}

func (f *fakeSurface) privilegedCalls() int {
	return f.addCalls + f.setupCalls + f.delCalls
}

func (f *fakeSurface) Devices() (map[string]*wireguard.Interface, error) {
	f.devicesCalls++
	if f.devicesErr != nil {
		return nil, f.devicesErr
	}
	out := make(map[string]*wireguard.Interface, len(f.devices))
	for name, iface := range f.devices {
		out[name] = iface
	}
	return out, nil
}

func (f *fakeSurface) Device(name string) (*wireguard.Interface, error) {
	f.deviceCalls++
	iface, ok := f.devices[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return iface, nil
}

func (f *fakeSurface) AddDevice(name string) error {
	f.addCalls++
	if f.addErr != nil {
		return f.addErr
	}
	if _, ok := f.devices[name]; ok {
		return os.ErrExist
	}
	f.devices[name] = &wireguard.Interface{Peers: map[string]*wireguard.PeerConfig{}}
	return nil
}

func (f *fakeSurface) SetupInterface(name string, cfg *wireguard.Interface) (wireguard.ResultCode, error) {
	f.setupCalls++
	f.lastSetup = cfg
	if f.setupCode != wireguard.ResultOK || f.setupErr != nil {
		return f.setupCode, f.setupErr
	}
	if _, ok := f.devices[name]; !ok {
		return wireguard.ResultAddFailed, errors.New("no such device")
	}
	applied := cfg.WithoutStatistics()
	if pub, ok := f.derivedKeys[cfg.PrivateKey]; ok {
		applied.PublicKey = pub
	}
	f.devices[name] = applied
	return wireguard.ResultOK, nil
}

func (f *fakeSurface) DelDevice(name string) (wireguard.ResultCode, error) {
	f.delCalls++
	if f.delCode != wireguard.ResultOK || f.delErr != nil {
		return f.delCode, f.delErr
	}
	delete(f.devices, name)
	return wireguard.ResultOK, nil
}
