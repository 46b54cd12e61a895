package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保持默认值。
//
// 示例 JSON:
//
//	{
//	  "discovery": {"echo_endpoints": ["https://api.ipify.org"], "connect_timeout": "5s"},
//	  "nat": {"enable_upnp": true},
//	  "local": {"use_default_route": false}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return FromJSON(data)
}

// ToJSON 将配置序列化为带缩进的 JSON
func ToJSON(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// ApplyPreset 应用预设配置
//
// 支持的预设：
//   - "default": 保持基础配置不变（默认即回显服务投票，不访问网关）
//   - "lan": 只询问局域网网关（NAT-PMP + UPnP），不访问外部服务
//   - "full": 回显服务和网关同时投票，启动时预热
//   - "offline": 只枚举本地地址
func ApplyPreset(cfg *Config, presetName string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch presetName {
	case "default", "":
		// 默认配置本身就是基础配置，不做任何修改
	case "lan":
		cfg.Discovery.EchoEndpoints = nil
		cfg.NAT.EnableNATPMP = true
		cfg.NAT.EnableUPnP = true
	case "full":
		if len(cfg.Discovery.EchoEndpoints) == 0 {
			cfg.Discovery.EchoEndpoints = slices.Clone(DefaultEchoEndpoints)
		}
		cfg.NAT.EnableNATPMP = true
		cfg.NAT.EnableUPnP = true
		cfg.Discovery.WarmUp = true
	case "offline":
		cfg.Discovery.EchoEndpoints = nil
		cfg.Discovery.WarmUp = false
		cfg.NAT.EnableNATPMP = false
		cfg.NAT.EnableUPnP = false
	default:
		return fmt.Errorf("unknown preset: %s", presetName)
	}
	return nil
}

// CloneConfig 深拷贝配置
func CloneConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	cloned := *cfg
	cloned.Discovery.EchoEndpoints = slices.Clone(cfg.Discovery.EchoEndpoints)
	return &cloned
}
