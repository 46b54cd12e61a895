// Package config 提供 selfaddr 的统一配置管理
//
// 配置按功能分为三部分：
//   - Discovery: 回显服务与全局地址投票
//   - NAT: 网关探测（NAT-PMP / UPnP）
//   - Local: 本地接口枚举
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.NAT.EnableUPnP = true
//
//	// 应用预设
//	config.ApplyPreset(cfg, "lan")
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import "fmt"

// Config 是 selfaddr 的完整配置结构
type Config struct {
	// Discovery 全局地址发现配置
	Discovery DiscoveryConfig `json:"discovery"`

	// NAT 网关探测配置
	NAT NATConfig `json:"nat"`

	// Local 本地地址枚举配置
	Local LocalConfig `json:"local"`
}

// NewConfig 创建默认配置
//
// 默认使用内置的回显服务列表，不启用网关探测。
func NewConfig() *Config {
	return &Config{
		Discovery: DefaultDiscoveryConfig(),
		NAT:       DefaultNATConfig(),
		Local:     DefaultLocalConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.Discovery.Validate(); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if err := c.NAT.Validate(); err != nil {
		return fmt.Errorf("nat: %w", err)
	}
	return nil
}
