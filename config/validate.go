package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，额外处理 nil。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并修复常见问题
//
// 可修复的问题：
//   - 超时为零或负数 -> 使用默认值
//
// 重复的回显服务保留：每个条目各投一票。
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	defDiscovery := DefaultDiscoveryConfig()
	if c.Discovery.ConnectTimeout <= 0 {
		c.Discovery.ConnectTimeout = defDiscovery.ConnectTimeout
	}
	if c.Discovery.ReadTimeout <= 0 {
		c.Discovery.ReadTimeout = defDiscovery.ReadTimeout
	}
	if c.Discovery.ReceiveTimeout <= 0 {
		c.Discovery.ReceiveTimeout = defDiscovery.ReceiveTimeout
	}

	defNAT := DefaultNATConfig()
	if c.NAT.NATPMPTimeout <= 0 {
		c.NAT.NATPMPTimeout = defNAT.NATPMPTimeout
	}
	if c.NAT.UPnPTimeout <= 0 {
		c.NAT.UPnPTimeout = defNAT.UPnPTimeout
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
