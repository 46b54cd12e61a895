// Package selfaddr 回答"本机在网络上叫什么"
//
// 需要对外公布自身地址的服务端程序可以用它得到：
//
//   - Local: 本地接口上绑定的地址（去掉回环和组播，按排名排序）
//   - Global: 外部回显服务看到的地址（多个服务投票，得票多的在前）
//   - Public: 综合两者的最佳公网地址，以及反向解析出的名称
//
// 三个结果都在首次访问时计算并缓存，之后的调用直接返回。
//
// # 快速开始
//
//	import "github.com/dep2p/go-selfaddr"
//
//	id, err := selfaddr.Start(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer id.Close()
//
//	pub := id.Public(ctx)
//	fmt.Println(pub.Name, pub.Addr)
//
// # 全局地址投票
//
// 每个回显服务由一个独立的 goroutine 请求，得到的地址以原始字节的形式
// 通过 UDP 发送到 127.0.0.1 上的临时端口，由监听器计票。可选的 NAT-PMP
// 和 UPnP 探测器向局域网网关询问外部地址，走同一条投票路径。
//
// # 文件组织
//
//   - selfaddr.go - Identity 入口
//   - options.go  - 用户配置选项
//   - fx.go       - Fx 应用组装
//   - errors.go   - 公共错误定义
//   - config.go   - 配置转换
//   - version.go  - 版本信息
package selfaddr
