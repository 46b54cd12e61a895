package globaladdr

import (
	"context"
	"fmt"
	"time"

	"github.com/huin/goupnp/dcps/internetgateway1"
	"github.com/huin/goupnp/dcps/internetgateway2"

	selfaddrif "github.com/dep2p/go-selfaddr/pkg/interfaces/selfaddr"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

// igdClient UPnP IGD 客户端中本包用到的部分
//
// goupnp 的 WANIPConnection1 和 WANPPPConnection1 都实现了此方法。
type igdClient interface {
	GetExternalIPAddress() (string, error)
}

// UPnPProber 向局域网内的 UPnP IGD 询问外部地址
type UPnPProber struct {
	timeout  time.Duration
	discover func() (igdClient, error)
}

// 确保实现接口
var _ selfaddrif.Prober = (*UPnPProber)(nil)

// NewUPnPProber 创建 UPnP 探测器
func NewUPnPProber(timeout time.Duration) *UPnPProber {
	if timeout <= 0 {
		timeout = DefaultUPnPTimeout
	}
	return &UPnPProber{
		timeout:  timeout,
		discover: discoverIGD,
	}
}

// Name 返回 "upnp"
func (p *UPnPProber) Name() string {
	return "upnp"
}

// Probe 发现 IGD 并查询外部地址
//
// goupnp 的 SSDP 发现可能持续数秒，放在 goroutine 中执行以受超时控制。
func (p *UPnPProber) Probe(ctx context.Context) (types.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type result struct {
		addr types.Address
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		addr, err := p.query()
		resultCh <- result{addr: addr, err: err}
	}()

	select {
	case res := <-resultCh:
		return res.addr, res.err
	case <-ctx.Done():
		return types.Address{}, fmt.Errorf("upnp: %w after %v: %w", ErrProbeTimeout, p.timeout, ctx.Err())
	}
}

func (p *UPnPProber) query() (types.Address, error) {
	client, err := p.discover()
	if err != nil {
		return types.Address{}, err
	}

	ext, err := client.GetExternalIPAddress()
	if err != nil {
		return types.Address{}, fmt.Errorf("upnp: external address: %w", err)
	}

	addr, err := types.ParseAddress(ext)
	if err != nil {
		return types.Address{}, fmt.Errorf("upnp: %w: %q", ErrInvalidAddress, ext)
	}
	if addr.IsAnyLocal() {
		return types.Address{}, fmt.Errorf("upnp: %w: gateway reported %s", ErrInvalidAddress, addr)
	}
	return addr, nil
}

// discoverIGD 依次尝试 IGDv2 和 IGDv1 的 IP/PPP 连接服务
func discoverIGD() (igdClient, error) {
	if clients, _, err := internetgateway2.NewWANIPConnection1Clients(); err == nil && len(clients) > 0 {
		return clients[0], nil
	}
	if clients, _, err := internetgateway2.NewWANPPPConnection1Clients(); err == nil && len(clients) > 0 {
		return clients[0], nil
	}
	if clients, _, err := internetgateway1.NewWANIPConnection1Clients(); err == nil && len(clients) > 0 {
		return clients[0], nil
	}
	if clients, _, err := internetgateway1.NewWANPPPConnection1Clients(); err == nil && len(clients) > 0 {
		return clients[0], nil
	}
	return nil, fmt.Errorf("upnp: %w", ErrNoGateway)
}
