package selfaddr

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/fx"

	"github.com/dep2p/go-selfaddr/config"
	"github.com/dep2p/go-selfaddr/internal/util/logger"
	selfaddrif "github.com/dep2p/go-selfaddr/pkg/interfaces/selfaddr"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

var log = logger.Logger("selfaddr/identity")

// Identity 本机网络身份
//
// 对内部自寻址服务的封装，负责 Fx 应用的生命周期。
// 地址查询在 New 之后即可使用；Start 只负责启动后台预热等生命周期钩子。
type Identity struct {
	mu      sync.Mutex
	app     *fx.App
	service selfaddrif.Service
	config  *config.Config

	started bool
	closed  bool
}

// New 创建 Identity，不启动
func New(ctx context.Context, opts ...Option) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, fmt.Errorf("apply options: %w", err)
	}

	id := &Identity{}
	app, err := buildFxApp(o, id)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	id.app = app
	return id, nil
}

// Start 创建并启动 Identity
func Start(ctx context.Context, opts ...Option) (*Identity, error) {
	id, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := id.Start(ctx); err != nil {
		_ = id.Close()
		return nil, err
	}
	return id, nil
}

// Start 启动生命周期钩子
func (id *Identity) Start(ctx context.Context) error {
	id.mu.Lock()
	defer id.mu.Unlock()

	if id.closed {
		return ErrClosed
	}
	if id.started {
		return ErrAlreadyStarted
	}

	if err := id.app.Start(ctx); err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	id.started = true
	log.Debug("Identity 已启动")
	return nil
}

// Stop 停止生命周期钩子
func (id *Identity) Stop(ctx context.Context) error {
	id.mu.Lock()
	defer id.mu.Unlock()

	if id.closed {
		return ErrClosed
	}
	if !id.started {
		return ErrNotStarted
	}

	id.started = false
	if err := id.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop app: %w", err)
	}
	log.Debug("Identity 已停止")
	return nil
}

// Close 停止并释放资源，可以重复调用
func (id *Identity) Close() error {
	id.mu.Lock()
	defer id.mu.Unlock()

	if id.closed {
		return nil
	}
	id.closed = true

	if !id.started {
		return nil
	}
	id.started = false

	ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := id.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop app: %w", err)
	}
	return nil
}

// ============================================================================
//                              地址查询
// ============================================================================

// Local 返回本地接口地址，按排名升序
func (id *Identity) Local(ctx context.Context) []types.Address {
	return id.service.LocalAddresses(ctx)
}

// Global 返回外部回显服务报告的地址，按票数降序
func (id *Identity) Global(ctx context.Context) []types.Address {
	return id.service.GlobalAddresses(ctx)
}

// Public 返回最佳猜测的公网地址及其名称
func (id *Identity) Public(ctx context.Context) types.PublicAddress {
	return id.service.PublicAddress(ctx)
}

// Service 返回底层服务
func (id *Identity) Service() selfaddrif.Service {
	return id.service
}

// Config 返回生效的配置副本
func (id *Identity) Config() *config.Config {
	return config.CloneConfig(id.config)
}
