//go:build !android

package localaddr

import "net"

func interfaces() ([]net.Interface, error) {
	return net.Interfaces()
}

func interfaceAddrs(iface *net.Interface) ([]net.Addr, error) {
	return iface.Addrs()
}
