package localaddr

import (
	"net"

	"github.com/wlynxg/anet"
)

// Android 上 net.Interfaces 受 netlink 权限限制，改用 anet。

func interfaces() ([]net.Interface, error) {
	return anet.Interfaces()
}

func interfaceAddrs(iface *net.Interface) ([]net.Addr, error) {
	return anet.InterfaceAddrsByInterface(iface)
}
