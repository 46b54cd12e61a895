// Package types 定义 selfaddr 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 selfaddr 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - address.go - Address 候选地址及其属性判断
//   - rank.go    - RankScore 地址排名
//   - public.go  - PublicAddress 公网地址及显示名
//   - errors.go  - 公共错误定义
package types
