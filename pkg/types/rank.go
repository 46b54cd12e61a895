package types

import (
	"cmp"
	"math"
	"slices"
)

// ============================================================================
//                              RankScore - 地址排名
// ============================================================================

// RankScore 地址排名，越小越"有意义"
//
// 每个特殊属性贡献一个独立的位，位从高到低依次为：回环、组播、节点本地组播、
// 链路本地组播、全局组播、站点本地、链路本地、通配地址。没有任何特殊属性的
// 单播地址得分为 0，更可能是外部可达的地址。
type RankScore int

const (
	rankAnyLocal RankScore = 1 << iota
	rankLinkLocal
	rankSiteLocal
	rankGlobalMulticast
	rankLinkLocalMulticast
	rankNodeLocalMulticast
	rankMulticast
	rankLoopback
)

// MaxRank 无法评估的地址的排名
const MaxRank RankScore = math.MaxInt

// Rank 计算地址排名
//
// 纯函数，不做 I/O，不会失败：无效地址或检查过程中的 panic 都返回 MaxRank。
func Rank(a Address) (score RankScore) {
	defer func() {
		if recover() != nil {
			score = MaxRank
		}
	}()

	if !a.IsValid() {
		return MaxRank
	}

	if a.IsLoopback() {
		score |= rankLoopback
	}
	if a.IsMulticast() {
		score |= rankMulticast
	}
	if a.IsNodeLocalMulticast() {
		score |= rankNodeLocalMulticast
	}
	if a.IsLinkLocalMulticast() {
		score |= rankLinkLocalMulticast
	}
	if a.IsGlobalMulticast() {
		score |= rankGlobalMulticast
	}
	if a.IsSiteLocal() {
		score |= rankSiteLocal
	}
	if a.IsLinkLocal() {
		score |= rankLinkLocal
	}
	if a.IsAnyLocal() {
		score |= rankAnyLocal
	}
	return score
}

// SortByRank 按排名升序稳定排序，排名相同时保持原有顺序
func SortByRank(addrs []Address) {
	slices.SortStableFunc(addrs, func(a, b Address) int {
		return cmp.Compare(Rank(a), Rank(b))
	})
}
