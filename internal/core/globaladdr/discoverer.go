package globaladdr

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	selfaddrif "github.com/dep2p/go-selfaddr/pkg/interfaces/selfaddr"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

// Discoverer 全局地址发现器
//
// 每次 Discover 都是一次完整的投票：新的监听器、所有探测器各运行一次。
// 结果缓存由上层服务负责。
type Discoverer struct {
	probers  []selfaddrif.Prober
	listener ListenerConfig
}

// NewDiscoverer 使用给定的探测器创建发现器
func NewDiscoverer(probers []selfaddrif.Prober, listener ListenerConfig) *Discoverer {
	return &Discoverer{
		probers:  append([]selfaddrif.Prober(nil), probers...),
		listener: listener,
	}
}

// NewDiscovererFromConfig 按配置创建发现器
func NewDiscovererFromConfig(cfg Config) *Discoverer {
	return NewDiscoverer(Probers(cfg), ListenerConfig{ReceiveTimeout: cfg.ReceiveTimeout})
}

// Probers 按配置创建探测器：每个回显服务一个，加上启用的网关探测器
//
// 所有回显探测器共享一个 HTTP 客户端。
func Probers(cfg Config) []selfaddrif.Prober {
	probers := make([]selfaddrif.Prober, 0, len(cfg.Endpoints)+2)

	if len(cfg.Endpoints) > 0 {
		client := NewEchoClient(cfg.ConnectTimeout, cfg.ReadTimeout)
		for _, e := range cfg.Endpoints {
			p := NewEchoProber(e, client).WithTimeout(cfg.ConnectTimeout + cfg.ReadTimeout)
			probers = append(probers, p)
		}
	}
	if cfg.EnableNATPMP {
		probers = append(probers, NewNATPMPProber(cfg.NATPMPTimeout))
	}
	if cfg.EnableUPnP {
		probers = append(probers, NewUPnPProber(cfg.UPnPTimeout))
	}
	return probers
}

// ProberNames 返回探测器名称
func (d *Discoverer) ProberNames() []string {
	names := make([]string, len(d.probers))
	for i, p := range d.probers {
		names[i] = p.Name()
	}
	return names
}

// Discover 执行一次全局地址发现
//
// 从不返回错误：绑定失败、全部探测失败或 panic 都得到空列表。
// 所有探测器结束之后才会请求监听器停止。
func (d *Discoverer) Discover(ctx context.Context) (result []types.Address) {
	start := time.Now()
	runLog := log.With("run", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			runLog.Warn("全局地址发现异常", "panic", r)
			result = []types.Address{}
		}
		metricDiscoveryDuration.Observe(time.Since(start).Seconds())
		metricDiscoveredAddresses.Set(float64(len(result)))
	}()

	if len(d.probers) == 0 {
		runLog.Debug("没有配置探测器，跳过全局地址发现")
		return []types.Address{}
	}

	// 1. 先绑定监听端口，任何探测器都还没有启动
	listener, err := Listen(d.listener)
	if err != nil {
		runLog.Warn("启动投票监听器失败", "err", err)
		return []types.Address{}
	}
	defer func() { _ = listener.Close() }()

	// 2. 端口在启动探测器之前读取
	port := listener.Port()
	runLog.Debug("开始全局地址发现", "port", port, "probers", len(d.probers))

	// 3. 每个探测器一个 goroutine
	var g errgroup.Group
	for _, p := range d.probers {
		g.Go(func() error {
			RunProbe(ctx, p, port)
			return nil
		})
	}

	// 4. 等待所有探测器结束
	_ = g.Wait()

	// 5. 停止监听器
	listener.RequestStop()
	if err := listener.AwaitStopped(ctx); err != nil {
		runLog.Warn("等待投票监听器停止失败", "err", err)
		return []types.Address{}
	}

	// 6. 取出结果
	addrs, err := listener.Results()
	if err != nil {
		runLog.Warn("读取投票结果失败", "err", err)
		return []types.Address{}
	}

	runLog.Info("全局地址发现完成",
		"addresses", addrs,
		"duration", time.Since(start))
	return addrs
}
