package types

import "fmt"

// PublicAddress 最佳猜测的公网地址及其显示名
type PublicAddress struct {
	// Addr 选中的地址
	Addr Address `json:"addr"`

	// Name 反向解析得到的名称，失败时为地址字面量
	Name string `json:"name"`
}

// String 返回 "name (addr)" 形式
func (p PublicAddress) String() string {
	if p.Name == "" || p.Name == p.Addr.String() {
		return p.Addr.String()
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Addr)
}
