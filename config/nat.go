package config

import (
	"errors"

	"github.com/dep2p/go-selfaddr/internal/core/globaladdr"
)

// NATConfig 网关探测配置
//
// 启用后向局域网网关询问外部地址，结果与回显服务的结果一起投票：
//   - NAT-PMP: 向默认网关发 NAT-PMP 请求
//   - UPnP: 通过 SSDP 发现 IGD 并调用 GetExternalIPAddress
type NATConfig struct {
	// EnableNATPMP 是否启用 NAT-PMP 探测
	EnableNATPMP bool `json:"enable_natpmp"`

	// NATPMPTimeout NAT-PMP 超时（网关发现和查询）
	// 默认: 5s
	NATPMPTimeout Duration `json:"natpmp_timeout"`

	// EnableUPnP 是否启用 UPnP 探测
	EnableUPnP bool `json:"enable_upnp"`

	// UPnPTimeout UPnP 超时（设备发现和查询）
	// 默认: 5s
	UPnPTimeout Duration `json:"upnp_timeout"`
}

// DefaultNATConfig 返回默认网关探测配置
func DefaultNATConfig() NATConfig {
	return NATConfig{
		NATPMPTimeout: Duration(globaladdr.DefaultNATPMPTimeout),
		UPnPTimeout:   Duration(globaladdr.DefaultUPnPTimeout),
	}
}

// Validate 验证网关探测配置
func (c NATConfig) Validate() error {
	if c.EnableNATPMP && c.NATPMPTimeout <= 0 {
		return errors.New("natpmp_timeout must be positive")
	}
	if c.EnableUPnP && c.UPnPTimeout <= 0 {
		return errors.New("upnp_timeout must be positive")
	}
	return nil
}
