// Package selfaddr 实现网络自寻址服务
//
// Service 把本地地址枚举、全局地址发现和公网地址解析组合在一起，
// 每个结果在首次访问时计算一次并缓存。并发的首次访问只会触发一次计算。
package selfaddr

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/dep2p/go-selfaddr/internal/core/globaladdr"
	"github.com/dep2p/go-selfaddr/internal/core/localaddr"
	"github.com/dep2p/go-selfaddr/internal/core/publicaddr"
	"github.com/dep2p/go-selfaddr/internal/util/logger"
	selfaddrif "github.com/dep2p/go-selfaddr/pkg/interfaces/selfaddr"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

var log = logger.Logger("selfaddr")

// 缓存键
const (
	keyLocal  = "local"
	keyGlobal = "global"
	keyPublic = "public"
)

// Service 网络自寻址服务
type Service struct {
	enumerator *localaddr.Enumerator
	discoverer *globaladdr.Discoverer
	resolver   *publicaddr.Resolver

	local  atomic.Pointer[[]types.Address]
	global atomic.Pointer[[]types.Address]
	public atomic.Pointer[types.PublicAddress]
	group  singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// 确保实现接口
var _ selfaddrif.Service = (*Service)(nil)

// NewService 使用给定的组件创建服务
func NewService(enumerator *localaddr.Enumerator, discoverer *globaladdr.Discoverer, resolver *publicaddr.Resolver) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		enumerator: enumerator,
		discoverer: discoverer,
		resolver:   resolver,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// LocalAddresses 返回本地接口地址
func (s *Service) LocalAddresses(ctx context.Context) []types.Address {
	addrs := memoize(ctx, &s.group, keyLocal, &s.local, func(ctx context.Context) []types.Address {
		addrs, err := s.enumerator.Enumerate(ctx)
		if err != nil {
			log.Warn("本地地址枚举不完整", "err", err)
		}
		if addrs == nil {
			addrs = []types.Address{}
		}
		return addrs
	})
	return slices.Clone(addrs)
}

// GlobalAddresses 返回全局地址
func (s *Service) GlobalAddresses(ctx context.Context) []types.Address {
	addrs := memoize(ctx, &s.group, keyGlobal, &s.global, s.discoverer.Discover)
	return slices.Clone(addrs)
}

// PublicAddress 返回最佳公网地址及其显示名
func (s *Service) PublicAddress(ctx context.Context) types.PublicAddress {
	return memoize(ctx, &s.group, keyPublic, &s.public, func(ctx context.Context) types.PublicAddress {
		return s.resolver.Resolve(ctx, s.LocalAddresses(ctx), s.GlobalAddresses(ctx))
	})
}

// WarmUp 在后台执行全局地址发现，使之后的查询直接命中缓存
//
// 发现受 Close 控制，Close 会取消并等待它结束。
func (s *Service) WarmUp() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		addrs := s.GlobalAddresses(s.ctx)
		log.Info("全局地址预热完成", "addresses", addrs)
	}()
}

// Close 取消后台发现并等待其结束
func (s *Service) Close() error {
	s.cancel()
	s.wg.Wait()
	return nil
}

// memoize 返回缓存值，没有时计算一次
//
// 并发的首次调用由 singleflight 合并。ctx 已取消时计算出的结果照常返回，
// 但不写入缓存，下次调用会重新计算。
func memoize[T any](ctx context.Context, group *singleflight.Group, key string, slot *atomic.Pointer[T], compute func(context.Context) T) T {
	if v := slot.Load(); v != nil {
		return *v
	}

	v, _, _ := group.Do(key, func() (any, error) {
		if v := slot.Load(); v != nil {
			return *v, nil
		}
		res := compute(ctx)
		if ctx.Err() == nil {
			slot.Store(&res)
		}
		return res, nil
	})
	return v.(T)
}
