// Package globaladdr 通过外部回显服务投票发现本机的全局地址
//
// # 工作方式
//
// 一次发现（Discoverer.Discover）按严格顺序执行：
//
//  1. 在 127.0.0.1 的临时 UDP 端口上启动投票监听器（Listener）
//  2. 读取监听端口
//  3. 为每个探测器启动一个 goroutine（回显服务、可选的 NAT-PMP 和 UPnP）
//  4. 等待所有探测器结束
//  5. 请求监听器停止并等待接收循环退出
//  6. 取出按票数排序的结果
//
// 探测器成功时向监听端口发送一个 UDP 数据报，内容就是 4 或 16 字节的
// 原始地址，没有任何头部。进程外的上报者也可以按相同格式投票。
//
// # 结果排序
//
// 票数降序；票数相同时按 types.Rank 升序；排名也相同时先发现的在前。
//
// # 错误处理
//
// 所有失败都只记录 Warn 日志：绑定失败得到空结果，单个探测失败只是少一票，
// 不会影响其他探测器。
package globaladdr
