package globaladdr

import (
	"cmp"
	"slices"

	"github.com/dep2p/go-selfaddr/pkg/types"
)

// Tally 投票计数
//
// 记录每个地址的票数以及首次出现的顺序。Tally 不是并发安全的，
// 由监听器的接收 goroutine 独占写入。
type Tally struct {
	counts map[types.Address]int
	order  []types.Address
}

// NewTally 创建空的计数
func NewTally() *Tally {
	return &Tally{counts: make(map[types.Address]int)}
}

// Add 为地址加一票，返回新的票数
func (t *Tally) Add(a types.Address) int {
	n, ok := t.counts[a]
	if !ok {
		t.order = append(t.order, a)
	}
	n++
	t.counts[a] = n
	return n
}

// Count 返回地址的票数
func (t *Tally) Count(a types.Address) int {
	return t.counts[a]
}

// Len 返回不同地址的数量
func (t *Tally) Len() int {
	return len(t.order)
}

// Sorted 返回排序后的地址
//
// 票数降序，票数相同按排名升序，排名相同按首次出现顺序。
func (t *Tally) Sorted() []types.Address {
	out := slices.Clone(t.order)
	if out == nil {
		out = []types.Address{}
	}
	slices.SortStableFunc(out, func(a, b types.Address) int {
		if c := cmp.Compare(t.counts[b], t.counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(types.Rank(a), types.Rank(b))
	})
	return out
}
