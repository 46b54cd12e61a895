package selfaddr

import (
	"fmt"

	"github.com/dep2p/go-selfaddr/internal/core/globaladdr"
	"github.com/dep2p/go-selfaddr/internal/core/localaddr"
)

// Config 自寻址服务配置
type Config struct {
	// Global 全局地址发现配置
	Global globaladdr.Config

	// Local 本地地址枚举配置
	Local localaddr.Config

	// WarmUp 启动时是否在后台提前执行全局地址发现
	WarmUp bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Global: globaladdr.DefaultConfig(),
		Local:  localaddr.DefaultConfig(),
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if err := c.Global.Validate(); err != nil {
		return fmt.Errorf("global: %w", err)
	}
	return nil
}
