package localaddr

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/jackpal/gateway"

	"github.com/dep2p/go-selfaddr/pkg/types"
)

// Host 本机网络层
//
// 抽象出来以便测试注入假的接口列表和解析结果。
type Host interface {
	// Hostname 返回本机主机名
	Hostname() (string, error)

	// LookupIP 解析主机名
	LookupIP(ctx context.Context, host string) ([]net.IP, error)

	// Interfaces 返回所有网络接口
	Interfaces() ([]net.Interface, error)

	// InterfaceAddrs 返回接口上绑定的地址
	InterfaceAddrs(iface *net.Interface) ([]net.Addr, error)

	// DefaultRouteIP 返回默认路由所在接口的地址
	DefaultRouteIP() (net.IP, error)
}

// SystemHost 返回使用操作系统网络栈的 Host
func SystemHost() Host {
	return systemHost{resolver: net.DefaultResolver}
}

type systemHost struct {
	resolver *net.Resolver
}

func (systemHost) Hostname() (string, error) {
	return os.Hostname()
}

func (h systemHost) LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	return h.resolver.LookupIP(ctx, "ip", host)
}

func (systemHost) Interfaces() ([]net.Interface, error) {
	return interfaces()
}

func (systemHost) InterfaceAddrs(iface *net.Interface) ([]net.Addr, error) {
	return interfaceAddrs(iface)
}

func (systemHost) DefaultRouteIP() (net.IP, error) {
	return gateway.DiscoverInterface()
}

// LocalHostAddress 解析本机主机名得到的地址
//
// 返回解析结果中的第一个地址，可能是回环地址。
func LocalHostAddress(ctx context.Context, h Host) (types.Address, error) {
	name, err := h.Hostname()
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: hostname: %w", ErrLocalHost, err)
	}

	ips, err := h.LookupIP(ctx, name)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: lookup %s: %w", ErrLocalHost, name, err)
	}

	for _, ip := range ips {
		if addr, ok := types.AddressFromIP(ip); ok {
			return addr, nil
		}
	}
	return types.Address{}, fmt.Errorf("%w: no address for %s", ErrLocalHost, name)
}
