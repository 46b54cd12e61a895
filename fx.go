package selfaddr

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-selfaddr/internal/core/localaddr"
	"github.com/dep2p/go-selfaddr/internal/core/publicaddr"
	core "github.com/dep2p/go-selfaddr/internal/core/selfaddr"
	selfaddrif "github.com/dep2p/go-selfaddr/pkg/interfaces/selfaddr"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序：
//  1. 配置注入
//  2. 可选注入（网络层、反向解析、探测器）
//  3. 自寻址模块
//  4. 用户扩展
//  5. Identity 组件注入
func buildFxApp(o *options, id *Identity) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置
	// ════════════════════════════════════════════════════════════════════════
	userCfg, err := o.toUserConfig()
	if err != nil {
		return nil, err
	}
	cfg := toServiceConfig(userCfg)
	id.config = userCfg

	modules := []fx.Option{
		fx.Supply(&cfg),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 可选注入
	// ════════════════════════════════════════════════════════════════════════
	if o.host != nil {
		host := o.host
		modules = append(modules, fx.Provide(func() localaddr.Host { return host }))
	}
	if o.reverse != nil {
		reverse := o.reverse
		modules = append(modules, fx.Provide(func() publicaddr.ReverseResolver { return reverse }))
	}
	if o.probers != nil {
		probers := o.probers
		modules = append(modules, fx.Provide(func() []selfaddrif.Prober { return probers }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 自寻址模块
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, core.Module())

	// ════════════════════════════════════════════════════════════════════════
	// 4. 用户扩展
	// ════════════════════════════════════════════════════════════════════════
	if len(o.fxOptions) > 0 {
		modules = append(modules, o.fxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 5. 组件注入与 Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		fx.Populate(&id.service),
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}
