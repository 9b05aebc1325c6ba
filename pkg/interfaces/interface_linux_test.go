// +build integration

package interfaces

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netns"
)

func testInNetworkNamespace(t *testing.T, f func()) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	origns, _ := netns.Get()
	defer origns.Close()

	newns, _ := netns.New()
	defer newns.Close()

	defer netns.Set(origns)

	f()
}

func ipCommand(t *testing.T, args ...string) {
	out, err := exec.Command("ip", args...).CombinedOutput()
	require.NoErrorf(t, err, "failed: ip %s: %s", strings.Join(args, " "), string(out))
}

func deleteLinkQuietly(name string) {
	out, err := exec.Command("ip", "link", "delete", name).CombinedOutput()
	if err != nil && !strings.Contains(string(out), "Cannot find device") {
		panic(fmt.Errorf("failed: ip link delete %s: %w - %s", name, err, string(out)))
	}
}

func TestWaitForLink(t *testing.T) {
	tcs := []struct {
		name           string
		cmd            string
		contextTimeout time.Duration
		expectError    string
		expectLink     bool
		expectMaxWait  time.Duration
		expectMinWait  time.Duration
	}{
		{
			name:           "success",
			cmd:            "ip link add dev dummy type dummy",
			expectLink:     true,
			expectMaxWait:  5 * time.Second,
			contextTimeout: time.Minute,
		},
		{
			name:           "daemonized driver",
			cmd:            "(sleep 3 && ip link add dev dummy type dummy) &",
			expectLink:     true,
			expectMinWait:  3 * time.Second,
			expectMaxWait:  6 * time.Second,
			contextTimeout: time.Minute,
		},
		{
			name:           "timeout",
			cmd:            "sleep 15 && ip link add dev dummy type dummy",
			expectError:    "timeout",
			expectMinWait:  9 * time.Second,
			expectMaxWait:  12 * time.Second,
			contextTimeout: time.Minute,
		},
		{
			name:           "driver exits",
			cmd:            "false",
			expectError:    "userspace driver exited 1",
			expectMaxWait:  5 * time.Second,
			contextTimeout: time.Minute,
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			testInNetworkNamespace(t, func() {
				defer deleteLinkQuietly("dummy")

				ctx, cancel := context.WithTimeout(context.Background(), tc.contextTimeout)
				defer cancel()

				cmd := exec.CommandContext(ctx, "sh", "-c", tc.cmd)
				before := time.Now()
				require.NoError(t, cmd.Start())
				exit := cmdExit(cmd)

				link, err := waitForLink(ctx, exit, "dummy")
				duration := time.Since(before)
				if tc.expectError == "" {
					require.NoError(t, err)
					require.Equal(t, "dummy", link.Name())
				} else {
					require.EqualError(t, err, tc.expectError)
				}
				require.Less(t, duration.Seconds(), tc.expectMaxWait.Seconds())
				require.GreaterOrEqual(t, duration.Seconds(), tc.expectMinWait.Seconds())

				cancel()
				<-exit

				out, err := exec.Command("ip", "link", "show", "dummy").CombinedOutput()
				if tc.expectLink {
					require.NoErrorf(t, err, "failed: ip link show dummy: %s", string(out))
				} else {
					require.Contains(t, string(out), "does not exist")
				}
			})
		})
	}
}

func TestLinkByName(t *testing.T) {
	testInNetworkNamespace(t, func() {
		defer deleteLinkQuietly("dummy")
		ipCommand(t, "link", "add", "dev", "dummy", "type", "dummy")

		link, err := newLinkProvider().LinkByName("dummy")
		require.NoError(t, err)
		require.Equal(t, "dummy", link.Name())
		ll, ok := link.(*linuxLink)
		require.True(t, ok)
		require.Equal(t, "dummy", ll.link.Attrs().Name)

		_, err = newLinkProvider().LinkByName("missing")
		require.Error(t, err)
		require.Equal(t, -19, int(errorCode(err)))
	})
}

func TestLinkEnsureUp(t *testing.T) {
	testInNetworkNamespace(t, func() {
		defer deleteLinkQuietly("dummy")
		ipCommand(t, "link", "add", "dev", "dummy", "type", "dummy")

		link, err := newLinkProvider().LinkByName("dummy")
		require.NoError(t, err)
		require.NoError(t, link.EnsureUp())
		require.NoError(t, link.EnsureUp())

		out, err := exec.Command("ip", "link", "show", "dummy").CombinedOutput()
		require.NoError(t, err)
		flagRe := regexp.MustCompile(`<[_A-Z0-9,]+>`)
		found := flagRe.Find(out)
		require.Greaterf(t, len(found), 2, "link status match is too short")
		require.Contains(t, strings.Split(string(found[1:len(found)-1]), ","), "UP")
	})
}

func TestLinkAddrs(t *testing.T) {
	testInNetworkNamespace(t, func() {
		defer deleteLinkQuietly("dummy")
		ipCommand(t, "link", "add", "dev", "dummy", "type", "dummy")
		ipCommand(t, "addr", "add", "192.168.1.1/24", "dev", "dummy")

		link, err := newLinkProvider().LinkByName("dummy")
		require.NoError(t, err)

		// 192.168.1.1/24 already exists and must not fail.
		err = link.EnsureAddrs([]string{"192.168.1.1/24", "192.168.2.1/24", "fd00::1/64"})
		require.NoError(t, err)

		addrs, err := link.Addrs()
		require.NoError(t, err)
		require.Subset(t, addrs, []string{"192.168.1.1/24", "192.168.2.1/24", "fd00::1/64"})

		require.Error(t, link.EnsureAddrs([]string{"not-an-address"}))
	})
}

func TestLinkDelete(t *testing.T) {
	testInNetworkNamespace(t, func() {
		defer deleteLinkQuietly("dummy")
		ipCommand(t, "link", "add", "dev", "dummy", "type", "dummy")

		link, err := newLinkProvider().LinkByName("dummy")
		require.NoError(t, err)
		require.NoError(t, link.Delete())
		// Already gone.
		require.NoError(t, link.Delete())

		out, err := exec.Command("ip", "link", "show", "dummy").CombinedOutput()
		require.Error(t, err)
		require.Contains(t, string(out), "does not exist")
	})
}
