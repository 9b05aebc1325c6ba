package interfaces

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"

	"golang.zx2c4.com/wireguard/wgctrl"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/jcodybaker/wgbridge/pkg/log"
	"github.com/jcodybaker/wgbridge/pkg/manager"
	"github.com/jcodybaker/wgbridge/pkg/wireguard"
)

// wgClient is the subset of *wgctrl.Client used by Control.
type wgClient interface {
	io.Closer
	Devices() ([]*wgtypes.Device, error)
	Device(name string) (*wgtypes.Device, error)
	ConfigureDevice(name string, cfg wgtypes.Config) error
}

// Control reads and changes WireGuard devices on the host through wgctrl and
// netlink.
type Control struct {
	ctx      context.Context
	options  ControlOptions
	wgClient wgClient
	links    linkProvider
}

var _ manager.ControlSurface = &Control{}

// NewControl opens a wgctrl client. The context's logger is used for
// diagnostics, and cancelling it aborts userspace driver startup.
func NewControl(ctx context.Context, options *ControlOptions) (*Control, error) {
	c, err := wgctrl.New()
	if err != nil {
		return nil, fmt.Errorf("initializing wgctrl client: %w", err)
	}
	return newControl(ctx, options, c, newLinkProvider()), nil
}

func newControl(ctx context.Context, options *ControlOptions, client wgClient, links linkProvider) *Control {
	c := &Control{
		ctx:      ctx,
		wgClient: client,
		links:    links,
	}
	if options != nil {
		c.options = *options
	}
	return c
}

// Close releases the wgctrl client.
func (c *Control) Close() error {
	return c.wgClient.Close()
}

// Devices returns every WireGuard device on the host. A device whose link
// disappears while it is being listed is left out.
func (c *Control) Devices() (map[string]*wireguard.Interface, error) {
	devices, err := c.wgClient.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing wireguard devices: %w", err)
	}
	out := make(map[string]*wireguard.Interface, len(devices))
	for _, d := range devices {
		iface, err := c.fromDevice(d)
		if errors.Is(err, errLinkNotFound) {
			log.FromContext(c.ctx).WithField("interface", d.Name).WithError(err).Debugln("skipping vanished device")
			continue
		}
		if err != nil {
			return nil, err
		}
		out[d.Name] = iface
	}
	return out, nil
}

// Device returns the named WireGuard device.
func (c *Control) Device(name string) (*wireguard.Interface, error) {
	d, err := c.wgClient.Device(name)
	if err != nil {
		return nil, fmt.Errorf("loading wireguard device %q: %w", name, err)
	}
	return c.fromDevice(d)
}

func (c *Control) fromDevice(d *wgtypes.Device) (*wireguard.Interface, error) {
	link, err := c.links.LinkByName(d.Name)
	if err != nil {
		return nil, err
	}
	addrs, err := link.Addrs()
	if err != nil {
		return nil, err
	}
	return wireguard.FromDevice(d, addrs), nil
}

// AddDevice creates a bare WireGuard link using the configured driver.
func (c *Control) AddDevice(name string) error {
	ll := log.FromContext(c.ctx).WithField("interface", name)
	ll.WithField("driver", c.options.Driver).Debugln("creating wireguard link")
	_, err := c.links.AddLink(c.ctx, name, &c.options)
	return err
}

// SetupInterface applies cfg to the named device, assigns its addresses and
// brings it up. If cfg has no private key one is generated.
func (c *Control) SetupInterface(name string, cfg *wireguard.Interface) (wireguard.ResultCode, error) {
	link, err := c.links.LinkByName(name)
	if err != nil {
		return wireguard.ResultAddFailed, err
	}
	wgCfg, err := cfg.Config()
	if err != nil {
		return wireguard.ResultConfigureFailed, err
	}
	if wgCfg.PrivateKey == nil {
		log.FromContext(c.ctx).WithField("interface", name).Debugln("generating private key")
		k, err := wgtypes.GeneratePrivateKey()
		if err != nil {
			return wireguard.ResultConfigureFailed, fmt.Errorf("generating wireguard private key: %w", err)
		}
		wgCfg.PrivateKey = &k
	}
	if err = c.wgClient.ConfigureDevice(name, wgCfg); err != nil {
		return wireguard.ResultConfigureFailed, fmt.Errorf("configuring wireguard device %q: %w", name, err)
	}
	if err = link.EnsureAddrs(cfg.Address); err != nil {
		return wireguard.ResultConfigureFailed, err
	}
	if err = link.EnsureUp(); err != nil {
		return wireguard.ResultConfigureFailed, err
	}
	return wireguard.ResultOK, nil
}

// DelDevice deletes the named link. On failure the code is the negated errno
// when the kernel reported one.
func (c *Control) DelDevice(name string) (wireguard.ResultCode, error) {
	link, err := c.links.LinkByName(name)
	if err != nil {
		return errorCode(err), err
	}
	if err = link.Delete(); err != nil {
		return errorCode(err), err
	}
	return wireguard.ResultOK, nil
}

func errorCode(err error) wireguard.ResultCode {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return wireguard.ResultCode(-int(errno))
	}
	if errors.Is(err, errLinkNotFound) {
		return wireguard.ResultCode(-int(syscall.ENODEV))
	}
	return -1
}
