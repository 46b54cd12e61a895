// Package publicaddr 综合本地和全局地址，选出最佳公网地址并解析显示名
package publicaddr

import (
	"context"
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/dep2p/go-selfaddr/internal/core/localaddr"
	"github.com/dep2p/go-selfaddr/internal/util/logger"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

var log = logger.Logger("publicaddr")

// localhostName 回环地址的显示名
const localhostName = "localhost"

// ReverseResolver 反向 DNS 解析
//
// *net.Resolver 满足此接口。
type ReverseResolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// Resolver 公网地址解析器
type Resolver struct {
	host    localaddr.Host
	reverse ReverseResolver
}

// NewResolver 创建解析器
//
// host 用于两个地址集合都为空时解析本机主机名；reverse 用于解析显示名。
// 任一参数为 nil 时使用系统默认实现。
func NewResolver(host localaddr.Host, reverse ReverseResolver) *Resolver {
	if host == nil {
		host = localaddr.SystemHost()
	}
	if reverse == nil {
		reverse = net.DefaultResolver
	}
	return &Resolver{host: host, reverse: reverse}
}

// Select 选出最佳公网地址
//
// 按以下顺序：
//  1. 全局地址中第一个同时出现在本地地址里的
//  2. 第一个全局地址
//  3. 第一个本地地址
//  4. 本机主机名解析出的地址
//  5. 127.0.0.1
func (r *Resolver) Select(ctx context.Context, local, global []types.Address) types.Address {
	for _, g := range global {
		if slices.Contains(local, g) {
			return g
		}
	}
	if len(global) > 0 {
		return global[0]
	}
	if len(local) > 0 {
		return local[0]
	}

	addr, err := localaddr.LocalHostAddress(ctx, r.host)
	if err != nil {
		log.Warn("解析本机主机名失败，使用回环地址", "err", err)
		return types.LoopbackAddress
	}
	return addr
}

// Name 返回地址的显示名
//
// 回环地址固定为 "localhost"；其他地址做反向解析，取第一个名称并去掉末尾的点。
// 解析失败时返回地址字面量。
func (r *Resolver) Name(ctx context.Context, addr types.Address) string {
	if addr.IsLoopback() {
		return localhostName
	}

	name, err := r.lookup(ctx, addr)
	if err != nil {
		log.Warn("反向解析失败，使用地址字面量", "addr", addr, "err", err)
		return addr.String()
	}
	return name
}

func (r *Resolver) lookup(ctx context.Context, addr types.Address) (string, error) {
	names, err := r.reverse.LookupAddr(ctx, addr.String())
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", addr, err)
	}
	for _, n := range names {
		if n = strings.TrimSuffix(n, "."); n != "" {
			return n, nil
		}
	}
	return "", fmt.Errorf("lookup %s: %w", addr, ErrNoName)
}

// Resolve 选出最佳公网地址并解析显示名
func (r *Resolver) Resolve(ctx context.Context, local, global []types.Address) types.PublicAddress {
	addr := r.Select(ctx, local, global)
	pub := types.PublicAddress{Addr: addr, Name: r.Name(ctx, addr)}
	log.Debug("公网地址已确定", "addr", pub.Addr, "name", pub.Name)
	return pub
}
