package selfaddr

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-selfaddr/internal/core/globaladdr"
	"github.com/dep2p/go-selfaddr/internal/core/localaddr"
	"github.com/dep2p/go-selfaddr/internal/core/publicaddr"
	selfaddrif "github.com/dep2p/go-selfaddr/pkg/interfaces/selfaddr"
)

// ============================================================================
//                              模块输入依赖
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	// Config 配置（可选）
	Config *Config `optional:"true"`

	// Host 本机网络层（可选，测试时注入）
	Host localaddr.Host `optional:"true"`

	// Reverse 反向 DNS 解析（可选）
	Reverse publicaddr.ReverseResolver `optional:"true"`

	// Probers 外部地址探测器（可选，提供时替代配置中的探测器）
	Probers []selfaddrif.Prober `optional:"true"`
}

// ============================================================================
//                              模块输出服务
// ============================================================================

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	// Service 自寻址服务
	Service selfaddrif.Service

	// Impl 具体实现，供生命周期管理使用
	Impl *Service
}

// ============================================================================
//                              服务提供
// ============================================================================

// ProvideServices 提供模块服务
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	cfg := DefaultConfig()
	if input.Config != nil {
		cfg = *input.Config
	}
	if err := cfg.Validate(); err != nil {
		return ModuleOutput{}, err
	}

	host := input.Host
	if host == nil {
		host = localaddr.SystemHost()
	}

	discoverer := globaladdr.NewDiscovererFromConfig(cfg.Global)
	if input.Probers != nil {
		discoverer = globaladdr.NewDiscoverer(input.Probers, globaladdr.ListenerConfig{ReceiveTimeout: cfg.Global.ReceiveTimeout})
	}

	service := NewService(
		localaddr.NewEnumerator(host, cfg.Local),
		discoverer,
		publicaddr.NewResolver(host, input.Reverse),
	)

	return ModuleOutput{
		Service: service,
		Impl:    service,
	}, nil
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("selfaddr",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC      fx.Lifecycle
	Service *Service
	Config  *Config `optional:"true"`
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if input.Config != nil && input.Config.WarmUp {
				input.Service.WarmUp()
			}
			log.Info("自寻址模块启动")
			return nil
		},
		OnStop: func(_ context.Context) error {
			log.Info("自寻址模块停止")
			return input.Service.Close()
		},
	})
}
