package netconf

import (
	"github.com/stretchr/testify/mock"
	"github.com/vishvananda/netlink"
)

type mockNetlinker struct {
	mock.Mock
}

func (m *mockNetlinker) LinkList() ([]netlink.Link, error) {
	args := m.Called()
	return args.Get(0).([]netlink.Link), args.Error(1)
}

func (m *mockNetlinker) LinkByName(name string) (netlink.Link, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(netlink.Link), args.Error(1)
}

func (m *mockNetlinker) LinkDel(link netlink.Link) error {
	return m.Called(link).Error(0)
}

func (m *mockNetlinker) LinkSetDown(link netlink.Link) error {
	return m.Called(link).Error(0)
}

func (m *mockNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	args := m.Called(link, family)
	return args.Get(0).([]netlink.Addr), args.Error(1)
}

func (m *mockNetlinker) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	return m.Called(link, addr).Error(0)
}

func (m *mockNetlinker) RouteListFiltered(family int, filter *netlink.Route, filterMask uint64) ([]netlink.Route, error) {
	args := m.Called(family, filter, filterMask)
	return args.Get(0).([]netlink.Route), args.Error(1)
}

func (m *mockNetlinker) RouteDel(route *netlink.Route) error {
	return m.Called(route).Error(0)
}

func device(name string) netlink.Link {
	return &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: name}}
}

func vlan(name string) netlink.Link {
	return &netlink.Vlan{LinkAttrs: netlink.LinkAttrs{Name: name}, VlanId: 10}
}
