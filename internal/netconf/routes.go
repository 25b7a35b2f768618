package netconf

import (
	"errors"
	"fmt"

	"github.com/amadigan/teardown/internal/sysctl"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// FlushRoutes removes every IPv4 route in the main table and then flushes the
// IPv4 route cache through procRoot.
func FlushRoutes(nl Netlinker, procRoot string) error {
	log.Info("flushing all routing")

	routes, err := nl.RouteListFiltered(netlink.FAMILY_V4, &netlink.Route{Table: unix.RT_TABLE_MAIN}, netlink.RT_FILTER_TABLE)
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	for i := range routes {
		if err := nl.RouteDel(&routes[i]); err != nil && !errors.Is(err, unix.ESRCH) {
			return fmt.Errorf("failed to delete route %s: %w", routes[i], err)
		}
	}

	if err := sysctl.Set(procRoot, "net.ipv4.route.flush", "1"); err != nil {
		return fmt.Errorf("failed to flush route cache: %w", err)
	}

	return nil
}
