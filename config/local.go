package config

// LocalConfig 本地地址枚举配置
type LocalConfig struct {
	// UseDefaultRoute 是否把默认路由接口的地址作为额外来源
	// 默认: true
	UseDefaultRoute bool `json:"use_default_route"`
}

// DefaultLocalConfig 返回默认本地枚举配置
func DefaultLocalConfig() LocalConfig {
	return LocalConfig{UseDefaultRoute: true}
}
