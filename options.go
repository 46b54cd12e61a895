package selfaddr

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-selfaddr/config"
	"github.com/dep2p/go-selfaddr/internal/core/localaddr"
	"github.com/dep2p/go-selfaddr/internal/core/publicaddr"
	selfaddrif "github.com/dep2p/go-selfaddr/pkg/interfaces/selfaddr"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置（WithConfig / WithConfigFile），nil 表示默认配置
	config *config.Config

	// 预设，在基础配置之上应用
	preset string

	// 覆盖项，nil 表示未设置
	echoEndpoints *[]string
	natpmp        *bool
	upnp          *bool
	warmUp        *bool
	timeouts      struct {
		connect *time.Duration
		read    *time.Duration
	}

	// 注入（主要用于测试）
	host    localaddr.Host
	reverse publicaddr.ReverseResolver
	probers []selfaddrif.Prober

	// 用户扩展
	fxOptions []fx.Option
}

func newOptions() *options {
	return &options{}
}

func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// toUserConfig 合并基础配置、预设和覆盖项
func (o *options) toUserConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if o.config != nil {
		cfg = config.CloneConfig(o.config)
	}

	if err := config.ApplyPreset(cfg, o.preset); err != nil {
		return nil, err
	}

	if o.echoEndpoints != nil {
		cfg.Discovery = cfg.Discovery.WithEchoEndpoints(*o.echoEndpoints...)
	}
	if o.natpmp != nil {
		cfg.NAT.EnableNATPMP = *o.natpmp
	}
	if o.upnp != nil {
		cfg.NAT.EnableUPnP = *o.upnp
	}
	if o.warmUp != nil {
		cfg.Discovery.WarmUp = *o.warmUp
	}
	if o.timeouts.connect != nil {
		cfg.Discovery.ConnectTimeout = config.Duration(*o.timeouts.connect)
	}
	if o.timeouts.read != nil {
		cfg.Discovery.ReadTimeout = config.Duration(*o.timeouts.read)
	}

	return config.ValidateAndFix(cfg)
}

// ============================================================================
//                              配置选项
// ============================================================================

// WithConfig 使用完整配置作为基础
//
// 其他选项在它之上覆盖，与选项的先后顺序无关。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = config.CloneConfig(cfg)
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载基础配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		o.config = cfg
		return nil
	}
}

// WithPreset 应用预设："default"、"lan"、"full"、"offline"
func WithPreset(name string) Option {
	return func(o *options) error {
		if err := config.ApplyPreset(config.NewConfig(), name); err != nil {
			return err
		}
		o.preset = name
		return nil
	}
}

// WithEchoEndpoints 设置回显服务列表
//
// 不传参数表示不做回显探测。
func WithEchoEndpoints(endpoints ...string) Option {
	return func(o *options) error {
		eps := append([]string{}, endpoints...)
		o.echoEndpoints = &eps
		return nil
	}
}

// WithNATPMP 启用或禁用 NAT-PMP 探测
func WithNATPMP(enable bool) Option {
	return func(o *options) error {
		o.natpmp = &enable
		return nil
	}
}

// WithUPnP 启用或禁用 UPnP 探测
func WithUPnP(enable bool) Option {
	return func(o *options) error {
		o.upnp = &enable
		return nil
	}
}

// WithWarmUp 启动时在后台提前执行全局地址发现
func WithWarmUp(enable bool) Option {
	return func(o *options) error {
		o.warmUp = &enable
		return nil
	}
}

// WithTimeouts 设置回显服务的连接和读取超时
func WithTimeouts(connect, read time.Duration) Option {
	return func(o *options) error {
		if connect <= 0 || read <= 0 {
			return fmt.Errorf("timeouts must be positive: connect=%s read=%s", connect, read)
		}
		o.timeouts.connect = &connect
		o.timeouts.read = &read
		return nil
	}
}

// WithProbers 使用给定的探测器替代按配置创建的探测器
func WithProbers(probers ...selfaddrif.Prober) Option {
	return func(o *options) error {
		o.probers = append([]selfaddrif.Prober{}, probers...)
		return nil
	}
}

// WithReverseResolver 设置反向 DNS 解析器
func WithReverseResolver(r publicaddr.ReverseResolver) Option {
	return func(o *options) error {
		o.reverse = r
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
