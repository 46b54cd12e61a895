package config

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-selfaddr/internal/core/globaladdr"
)

// DefaultEchoEndpoints 默认的回显服务，与发现器使用同一份列表
var DefaultEchoEndpoints = globaladdr.DefaultEndpoints

// DiscoveryConfig 全局地址发现配置
//
// 每个回显服务运行一个探测器，响应体第一行就是本机的外部 IP。
type DiscoveryConfig struct {
	// EchoEndpoints 回显服务 URL 列表
	// 为空时不做回显探测，全局地址只能来自网关探测
	EchoEndpoints []string `json:"echo_endpoints"`

	// ConnectTimeout 连接超时
	// 默认: 20s
	ConnectTimeout Duration `json:"connect_timeout"`

	// ReadTimeout 等待响应的超时
	// 默认: 20s
	ReadTimeout Duration `json:"read_timeout"`

	// ReceiveTimeout 投票监听器单次读取超时
	// 默认: 2s
	ReceiveTimeout Duration `json:"receive_timeout"`

	// WarmUp 启动时在后台提前执行发现
	WarmUp bool `json:"warm_up"`
}

// DefaultDiscoveryConfig 返回默认发现配置
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		EchoEndpoints:  append([]string(nil), DefaultEchoEndpoints...),
		ConnectTimeout: Duration(globaladdr.DefaultConnectTimeout),
		ReadTimeout:    Duration(globaladdr.DefaultReadTimeout),
		ReceiveTimeout: Duration(globaladdr.DefaultReceiveTimeout),
	}
}

// Validate 验证发现配置
func (c DiscoveryConfig) Validate() error {
	if c.ConnectTimeout <= 0 {
		return errors.New("connect_timeout must be positive")
	}
	if c.ReadTimeout <= 0 {
		return errors.New("read_timeout must be positive")
	}
	if c.ReceiveTimeout <= 0 {
		return errors.New("receive_timeout must be positive")
	}
	for _, e := range c.EchoEndpoints {
		if err := globaladdr.ValidateEndpoint(e); err != nil {
			return fmt.Errorf("echo_endpoints: %w", err)
		}
	}
	return nil
}

// WithEchoEndpoints 设置回显服务列表
func (c DiscoveryConfig) WithEchoEndpoints(endpoints ...string) DiscoveryConfig {
	c.EchoEndpoints = append([]string(nil), endpoints...)
	return c
}
