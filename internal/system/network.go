package system

import (
	"errors"
	"net"
)

// ErrNoLANAddress is returned when no interface has a usable IPv4 address.
var ErrNoLANAddress = errors.New("no LAN IPv4 address found")

// LANIPv4 returns the first private, non-loopback IPv4 address of this host,
// falling back to any non-loopback IPv4 address.
func LANIPv4() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	return pickIPv4(addrs)
}

func pickIPv4(addrs []net.Addr) (string, error) {
	var fallback string
	for _, addr := range addrs {
		ip := ipOf(addr)
		if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}
		v4 := ip.To4()
		if v4 == nil {
			continue
		}
		if v4.IsPrivate() {
			return v4.String(), nil
		}
		if fallback == "" {
			fallback = v4.String()
		}
	}
	if fallback == "" {
		return "", ErrNoLANAddress
	}
	return fallback, nil
}

func ipOf(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPNet:
		return a.IP
	case *net.IPAddr:
		return a.IP
	default:
		return nil
	}
}
