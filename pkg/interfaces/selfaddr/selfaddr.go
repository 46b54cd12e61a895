// Package selfaddr 定义网络自寻址服务接口
//
// 自寻址服务负责回答"本机在网络上叫什么"：
// - 本地接口上绑定的地址
// - 外部视角下的全局地址（通过回显服务投票得出）
// - 综合两者得到的最佳公网地址及其名称
package selfaddr

import (
	"context"

	"github.com/dep2p/go-selfaddr/pkg/types"
)

// ============================================================================
//                              Service 接口
// ============================================================================

// Service 网络自寻址服务
//
// 三个查询结果都在首次访问时计算并缓存，之后的调用返回相同的值。
// 所有方法都不返回错误：失败时退化为空集合或回环地址。
type Service interface {
	// LocalAddresses 返回本地接口地址，按排名升序
	//
	// 不包含回环和组播地址。
	LocalAddresses(ctx context.Context) []types.Address

	// GlobalAddresses 返回外部回显服务报告的地址，按票数降序
	GlobalAddresses(ctx context.Context) []types.Address

	// PublicAddress 返回最佳猜测的公网地址及其显示名
	PublicAddress(ctx context.Context) types.PublicAddress
}

// ============================================================================
//                              Prober 接口
// ============================================================================

// Prober 外部地址探测器
//
// 每个探测器向一个外部来源询问本机的外部 IP，一次运行最多投出一票。
type Prober interface {
	// Name 返回探测器名称，用于日志和指标
	// 如回显服务 URL、"natpmp"、"upnp"
	Name() string

	// Probe 执行一次探测，返回报告的外部地址
	Probe(ctx context.Context) (types.Address, error)
}
