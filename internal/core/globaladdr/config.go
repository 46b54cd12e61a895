package globaladdr

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// 默认值
const (
	// DefaultConnectTimeout 回显服务连接超时
	DefaultConnectTimeout = 20 * time.Second

	// DefaultReadTimeout 回显服务响应超时
	DefaultReadTimeout = 20 * time.Second

	// DefaultReceiveTimeout 监听器单次读取的超时，也是停止请求的最大响应延迟
	DefaultReceiveTimeout = 2 * time.Second

	// DefaultNATPMPTimeout NAT-PMP 网关发现和查询的超时
	DefaultNATPMPTimeout = 5 * time.Second

	// DefaultUPnPTimeout UPnP 设备发现和查询的超时
	DefaultUPnPTimeout = 5 * time.Second
)

// DefaultEndpoints 默认的回显服务
//
// 每个服务返回的响应体第一行是调用方的外部 IP。
var DefaultEndpoints = []string{
	"https://api.ipify.org",
	"https://icanhazip.com",
	"https://checkip.amazonaws.com",
	"https://ifconfig.me/ip",
	"https://api.ip.sb/ip",
}

// Config 全局地址发现配置
type Config struct {
	// Endpoints 回显服务 URL 列表，为空时不运行回显探测
	Endpoints []string

	// ConnectTimeout 回显服务连接超时
	ConnectTimeout time.Duration

	// ReadTimeout 回显服务响应超时
	ReadTimeout time.Duration

	// ReceiveTimeout 监听器单次读取超时
	ReceiveTimeout time.Duration

	// EnableNATPMP 是否向 NAT-PMP 网关询问外部地址
	EnableNATPMP bool

	// NATPMPTimeout NAT-PMP 超时
	NATPMPTimeout time.Duration

	// EnableUPnP 是否向 UPnP IGD 询问外部地址
	EnableUPnP bool

	// UPnPTimeout UPnP 超时
	UPnPTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Endpoints:      append([]string(nil), DefaultEndpoints...),
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
		ReceiveTimeout: DefaultReceiveTimeout,
		NATPMPTimeout:  DefaultNATPMPTimeout,
		UPnPTimeout:    DefaultUPnPTimeout,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.ConnectTimeout <= 0 {
		return errors.New("connect timeout must be positive")
	}
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be positive")
	}
	if c.ReceiveTimeout <= 0 {
		return errors.New("receive timeout must be positive")
	}
	if c.EnableNATPMP && c.NATPMPTimeout <= 0 {
		return errors.New("NAT-PMP timeout must be positive")
	}
	if c.EnableUPnP && c.UPnPTimeout <= 0 {
		return errors.New("UPnP timeout must be positive")
	}
	for _, e := range c.Endpoints {
		if err := ValidateEndpoint(e); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEndpoint 检查回显服务 URL：http 或 https，且带主机名
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	return nil
}
