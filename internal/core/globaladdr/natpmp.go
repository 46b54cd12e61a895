package globaladdr

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jackpal/gateway"
	natpmp "github.com/jackpal/go-nat-pmp"

	selfaddrif "github.com/dep2p/go-selfaddr/pkg/interfaces/selfaddr"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

// natpmpClient NAT-PMP 客户端中本包用到的部分
type natpmpClient interface {
	GetExternalAddress() (*natpmp.GetExternalAddressResult, error)
}

// NATPMPProber 向默认网关的 NAT-PMP 服务询问外部地址
type NATPMPProber struct {
	timeout time.Duration

	discoverGateway func() (net.IP, error)
	newClient       func(gw net.IP, timeout time.Duration) natpmpClient
}

// 确保实现接口
var _ selfaddrif.Prober = (*NATPMPProber)(nil)

// NewNATPMPProber 创建 NAT-PMP 探测器
func NewNATPMPProber(timeout time.Duration) *NATPMPProber {
	if timeout <= 0 {
		timeout = DefaultNATPMPTimeout
	}
	return &NATPMPProber{
		timeout:         timeout,
		discoverGateway: gateway.DiscoverGateway,
		newClient: func(gw net.IP, timeout time.Duration) natpmpClient {
			return natpmp.NewClientWithTimeout(gw, timeout)
		},
	}
}

// Name 返回 "natpmp"
func (p *NATPMPProber) Name() string {
	return "natpmp"
}

// Probe 发现网关并查询外部地址
//
// 网关发现和查询都是阻塞调用，放在 goroutine 中执行以受 ctx 和超时控制。
func (p *NATPMPProber) Probe(ctx context.Context) (types.Address, error) {
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
		return types.Address{}, fmt.Errorf("natpmp: %w after %v: %w", ErrProbeTimeout, p.timeout, ctx.Err())
	}
}

func (p *NATPMPProber) query() (types.Address, error) {
	gw, err := p.discoverGateway()
	if err != nil {
		return types.Address{}, fmt.Errorf("natpmp: %w: %w", ErrNoGateway, err)
	}

	res, err := p.newClient(gw, p.timeout).GetExternalAddress()
	if err != nil {
		return types.Address{}, fmt.Errorf("natpmp: external address from %s: %w", gw, err)
	}

	addr, err := types.AddressFromSlice(res.ExternalIPAddress[:])
	if err != nil {
		return types.Address{}, fmt.Errorf("natpmp: %w: %w", ErrInvalidAddress, err)
	}
	if addr.IsAnyLocal() {
		return types.Address{}, fmt.Errorf("natpmp: %w: gateway reported %s", ErrInvalidAddress, addr)
	}
	return addr, nil
}
