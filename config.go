package selfaddr

import (
	"slices"

	"github.com/dep2p/go-selfaddr/config"
	"github.com/dep2p/go-selfaddr/internal/core/globaladdr"
	"github.com/dep2p/go-selfaddr/internal/core/localaddr"
	core "github.com/dep2p/go-selfaddr/internal/core/selfaddr"
)

// toServiceConfig 把用户配置转换为服务配置
func toServiceConfig(cfg *config.Config) core.Config {
	return core.Config{
		Global: globaladdr.Config{
			Endpoints:      slices.Clone(cfg.Discovery.EchoEndpoints),
			ConnectTimeout: cfg.Discovery.ConnectTimeout.Duration(),
			ReadTimeout:    cfg.Discovery.ReadTimeout.Duration(),
			ReceiveTimeout: cfg.Discovery.ReceiveTimeout.Duration(),
			EnableNATPMP:   cfg.NAT.EnableNATPMP,
			NATPMPTimeout:  cfg.NAT.NATPMPTimeout.Duration(),
			EnableUPnP:     cfg.NAT.EnableUPnP,
			UPnPTimeout:    cfg.NAT.UPnPTimeout.Duration(),
		},
		Local: localaddr.Config{
			UseDefaultRoute: cfg.Local.UseDefaultRoute,
		},
		WarmUp: cfg.Discovery.WarmUp,
	}
}
