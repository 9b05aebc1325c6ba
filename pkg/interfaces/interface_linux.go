package interfaces

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/jcodybaker/wgbridge/pkg/log"
)

type linuxLink struct {
	name string
	link netlink.Link
}

type netlinkProvider struct{}

func newLinkProvider() linkProvider {
	return netlinkProvider{}
}

func (netlinkProvider) LinkByName(name string) (Link, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, unix.ENODEV) {
			return nil, fmt.Errorf("finding interface %q: %w", name, errLinkNotFound)
		}
		return nil, fmt.Errorf("finding interface %q: %w", name, err)
	}
	return &linuxLink{
		name: name,
		link: link,
	}, nil
}

func (netlinkProvider) AddLink(ctx context.Context, name string, options *ControlOptions) (Link, error) {
	return createWGLinkWithName(ctx, name, options)
}

func waitForLink(ctx context.Context, exit <-chan error, name string) (Link, error) {
	updates := make(chan netlink.LinkUpdate) // netlink.LinkSubscribe... will close
	done := make(chan struct{})
	defer close(done)

	err := netlink.LinkSubscribeWithOptions(updates, done, netlink.LinkSubscribeOptions{
		ListExisting: true,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing link subscription: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, interfaceTimeout)
	defer cancel()

	ll := log.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, errors.New("timeout")
			}
			return nil, ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil, errors.New("link subscription closed")
			}
			attr := update.Attrs()
			if attr == nil {
				return nil, errors.New("netlink update had nil link attributes")
			}
			if attr.Name == name {
				// SUCCESS
				return &linuxLink{
					name: name,
					link: update.Link,
				}, nil
			}
			ll.WithFields(logrus.Fields{
				"interface.name":    attr.Name,
				"interface.desired": name,
			}).Debug("ignoring update about irrelevant interface")
		case err := <-exit:
			if err == nil {
				// The driver daemonized; keep waiting for its link.
				exit = nil
				continue
			}
			var eErr *exec.ExitError
			if errors.As(err, &eErr) && eErr.ProcessState != nil {
				return nil, fmt.Errorf("userspace driver exited %d", eErr.ProcessState.ExitCode())
			}
			return nil, fmt.Errorf("monitoring userspace driver: %w", err)
		}
	}
}

// EnsureUp sets the interface to the "UP" state if it is not currently up.
func (i *linuxLink) EnsureUp() error {
	err := netlink.LinkSetUp(i.link)
	if err != nil {
		return fmt.Errorf("setting link %q up: %w", i.name, err)
	}
	return nil
}

func (i *linuxLink) Name() string {
	return i.name
}

// Delete removes the link.
func (i *linuxLink) Delete() error {
	err := netlink.LinkDel(i.link)
	if os.IsNotExist(err) || errors.Is(err, unix.ENODEV) {
		return nil // Don't error if the interface is already gone.
	}
	if err != nil {
		return fmt.Errorf("deleting interface %q: %w", i.name, err)
	}
	return nil
}
