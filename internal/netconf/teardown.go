package netconf

import (
	"errors"
	"fmt"

	"github.com/amadigan/teardown/internal/applog"
	"github.com/amadigan/teardown/internal/util"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

var log = applog.New("netconf")

// bonding_masters is the bonding driver's control file in /sys/class/net,
// not a device.
var skipDevices = util.NewSet("lo", "bonding_masters")

func isGone(err error) bool {
	var notFound netlink.LinkNotFoundError

	return errors.As(err, &notFound) || errors.Is(err, unix.ENODEV)
}

// Teardown removes every network device except loopback. Devices that cannot
// be deleted (physical NICs) are set down and have their addresses flushed.
// The device list is read once; each entry is looked up again before it is
// touched because deleting a bond, bridge or VLAN can take other entries with it.
func Teardown(nl Netlinker) error {
	links, err := nl.LinkList()
	if err != nil {
		return fmt.Errorf("failed to list network devices: %w", err)
	}

	names := make([]string, 0, len(links))
	for _, link := range links {
		names = append(names, link.Attrs().Name)
	}

	for _, name := range names {
		if skipDevices.Contains(name) {
			continue
		}

		link, err := nl.LinkByName(name)
		if isGone(err) {
			log.Debugf("network device %s disappeared, skipping", name)

			continue
		} else if err != nil {
			return fmt.Errorf("failed to look up network device %s: %w", name, err)
		}

		if err := downLink(nl, link); err != nil {
			return err
		}
	}

	return nil
}

func downLink(nl Netlinker, link netlink.Link) error {
	name := link.Attrs().Name

	log.Infof("taking down network device: %s", name)

	err := nl.LinkDel(link)
	if err == nil {
		return nil
	}

	log.Debugf("could not delete %s (%v), setting down and flushing addresses", name, err)

	if err := nl.LinkSetDown(link); isGone(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to set %s down: %w", name, err)
	}

	return flushAddrs(nl, link)
}

func flushAddrs(nl Netlinker, link netlink.Link) error {
	name := link.Attrs().Name

	addrs, err := nl.AddrList(link, netlink.FAMILY_ALL)
	if isGone(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to list addresses of %s: %w", name, err)
	}

	for i := range addrs {
		err := nl.AddrDel(link, &addrs[i])
		if err == nil || errors.Is(err, unix.EADDRNOTAVAIL) || isGone(err) {
			continue
		}

		return fmt.Errorf("failed to remove %s from %s: %w", addrs[i].IPNet, name, err)
	}

	return nil
}
