// Package ipargs decodes dracut ip= kernel arguments.
//
// Accepted forms:
//
//	ip={dhcp|on|any|dhcp6|auto6|either6|single-dhcp|...}
//	ip=<ipv4>                        (anaconda style, see gateway= netmask= hostname= ksdevice= mtu=)
//	ip=<interface>:{dhcp|on|any|dhcp6|auto6|either6}[:[<mtu>][:<macaddr>]]
//	ip=<client-IP>:[<peer>]:<gateway-IP>:<netmask>:<client_hostname>:<interface>:<autoconf>[:[<mtu>|<dns1>][:<macaddr>|<dns2>]]
//
// IPv6 addresses are written in square brackets.
package ipargs

import (
	"net"
	"strings"

	"github.com/amadigan/teardown/internal/cmdline"
	"github.com/amadigan/teardown/internal/util"
)

const AutoconfError = "error"

var dynamicModes = []string{"dhcp", "on", "any", "dhcp6", "auto6", "either6"}

type Config struct {
	Address  string
	Peer     string
	Gateway  string
	Netmask  string
	Hostname string
	Device   string
	Autoconf string
	MTU      string
	MAC      string
	DNS1     string
	DNS2     string
}

// split breaks an ip= value on colons, keeping bracketed IPv6 addresses whole.
func split(value string) []string {
	var fields []string

	v := value + ":"

	for v != "" {
		if strings.HasPrefix(v, "[") {
			if end := strings.Index(v, "]:"); end > 0 && strings.Count(v[:end], ":") >= 2 {
				fields = append(fields, v[1:end])
				v = v[end+2:]

				continue
			}
		}

		field, rest, _ := strings.Cut(v, ":")
		fields = append(fields, field)
		v = rest
	}

	return fields
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}

	return ""
}

func joinMAC(fields []string, start int) string {
	if field(fields, start) == "" {
		return ""
	}

	if field(fields, start+1) == "" {
		return fields[start]
	}

	for i := start; i < start+6; i++ {
		if field(fields, i) == "" {
			return ""
		}
	}

	return strings.Join(fields[start:start+6], ":")
}

// isDynamic also accepts comma separated combinations such as "dhcp,dhcp6",
// which NetworkManager understands.
func isDynamic(mode string) bool {
	if mode == "" {
		return false
	}

	for _, m := range strings.Split(mode, ",") {
		if !util.Contains(dynamicModes, m) {
			return false
		}
	}

	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Parse decodes one ip= value. cl supplies the companion arguments of the
// anaconda form and may be nil.
func Parse(value string, cl *cmdline.Cmdline) Config {
	var cfg Config

	fields := split(value)

	if len(fields) == 0 {
		cfg.Autoconf = AutoconfError

		return cfg
	}

	if len(fields) == 1 {
		cfg.Autoconf = fields[0]

		if ip := net.ParseIP(fields[0]); ip != nil && ip.To4() != nil && cl != nil {
			cfg.Address = fields[0]
			cfg.Gateway, _ = cl.GetArg("gateway")
			cfg.Netmask, _ = cl.GetArg("netmask")
			cfg.Hostname, _ = cl.GetArg("hostname")
			cfg.Device, _ = cl.GetArg("ksdevice")
			cfg.MTU, _ = cl.GetArg("mtu")
			cfg.Autoconf = "none"

			switch cfg.Device {
			case "link", "ibft", "bootif", "BOOTIF":
				cfg.Device = ""
			}
		}

		return cfg
	}

	if isDynamic(fields[1]) {
		cfg.Device = fields[0]
		cfg.Autoconf = fields[1]
		cfg.MTU = field(fields, 2)
		cfg.MAC = joinMAC(fields, 3)

		return cfg
	}

	cfg.Address = field(fields, 0)
	cfg.Peer = field(fields, 1)
	cfg.Gateway = field(fields, 2)
	cfg.Netmask = field(fields, 3)
	cfg.Hostname = field(fields, 4)
	cfg.Device = field(fields, 5)
	cfg.Autoconf = field(fields, 6)

	switch eighth := field(fields, 7); {
	case eighth == "":
		cfg.MAC = joinMAC(fields, 8)
	case strings.Contains(eighth, ".") || (strings.Contains(eighth, ":") && isHex(eighth[0])):
		cfg.DNS1 = eighth
		cfg.DNS2 = field(fields, 8)
	case isDigit(eighth[0]):
		cfg.MTU = eighth
		cfg.MAC = joinMAC(fields, 8)
	default:
		cfg.MAC = joinMAC(fields, 8)
	}

	return cfg
}

// Hostname walks every ip= argument in order and returns the last non-empty
// hostname. Only the static form and the anaconda form carry one.
func Hostname(cl *cmdline.Cmdline) string {
	last := ""

	for _, value := range cl.GetArgs("ip") {
		if cfg := Parse(value, cl); cfg.Hostname != "" {
			last = cfg.Hostname
		}
	}

	return last
}
