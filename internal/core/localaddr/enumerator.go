// Package localaddr 枚举本机网络接口地址
//
// 枚举结果去重、过滤回环和组播地址，并按排名升序排列，
// 排名相同的地址保持发现顺序。
package localaddr

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/dep2p/go-selfaddr/internal/util/logger"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

var log = logger.Logger("localaddr")

// Config 枚举配置
type Config struct {
	// UseDefaultRoute 是否把默认路由接口的地址作为额外来源
	UseDefaultRoute bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{UseDefaultRoute: true}
}

// Enumerator 本地地址枚举器
type Enumerator struct {
	host Host
	cfg  Config
}

// NewEnumerator 创建枚举器，host 为 nil 时使用系统网络栈
func NewEnumerator(host Host, cfg Config) *Enumerator {
	if host == nil {
		host = SystemHost()
	}
	return &Enumerator{host: host, cfg: cfg}
}

// Enumerate 枚举本地地址
//
// 任何一步失败都只记录警告并继续，返回已收集到的部分结果。
// 返回的 error 汇总了所有被恢复的失败（multierr），结果本身始终可用。
func (e *Enumerator) Enumerate(ctx context.Context) ([]types.Address, error) {
	var (
		errs  error
		addrs []types.Address
		seen  = make(map[types.Address]struct{})
	)

	add := func(a types.Address) {
		if !a.IsValid() || a.IsLoopback() || a.IsMulticast() {
			return
		}
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		addrs = append(addrs, a)
	}

	// 1. 本机主机名
	if a, err := LocalHostAddress(ctx, e.host); err != nil {
		log.Warn("解析本机主机名失败", "err", err)
		errs = multierr.Append(errs, err)
	} else {
		add(a)
	}

	// 2. 默认路由接口
	if e.cfg.UseDefaultRoute {
		if ip, err := e.host.DefaultRouteIP(); err != nil {
			err = fmt.Errorf("%w: %w", ErrDefaultRoute, err)
			log.Warn("获取默认路由接口地址失败", "err", err)
			errs = multierr.Append(errs, err)
		} else if a, ok := types.AddressFromIP(ip); ok {
			add(a)
		}
	}

	// 3. 所有接口
	ifaces, err := e.host.Interfaces()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInterfaces, err)
		log.Warn("列出网络接口失败", "err", err)
		errs = multierr.Append(errs, err)
	}

	for i := range ifaces {
		iface := &ifaces[i]
		ifAddrs, err := e.host.InterfaceAddrs(iface)
		if err != nil {
			err = fmt.Errorf("%w %s: %w", ErrInterfaceAddrs, iface.Name, err)
			log.Warn("读取接口地址失败", "iface", iface.Name, "err", err)
			errs = multierr.Append(errs, err)
			continue
		}
		for _, ifAddr := range ifAddrs {
			if a, ok := types.AddressFromNetAddr(ifAddr); ok {
				add(a)
			}
		}
	}

	types.SortByRank(addrs)

	log.Debug("本地地址枚举完成", "count", len(addrs), "failures", len(multierr.Errors(errs)))
	return addrs, errs
}
