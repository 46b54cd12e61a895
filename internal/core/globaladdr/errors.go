package globaladdr

import "errors"

// 错误定义
var (
	// ErrListenerBind 投票监听器无法绑定 UDP 端口
	ErrListenerBind = errors.New("bind vote listener")

	// ErrListenerRunning 接收循环尚未退出时读取结果
	ErrListenerRunning = errors.New("vote listener still running")

	// ErrInvalidResponse 回显服务返回了无法使用的响应
	ErrInvalidResponse = errors.New("invalid echo response")

	// ErrInvalidAddress 探测结果不是有效的 IP 地址
	ErrInvalidAddress = errors.New("probe returned invalid address")

	// ErrSendVote 无法向监听器发送投票
	ErrSendVote = errors.New("send vote")

	// ErrNoGateway 没有可用的 NAT 网关
	ErrNoGateway = errors.New("no NAT gateway found")

	// ErrProbeTimeout 探测超时
	ErrProbeTimeout = errors.New("probe timeout")
)
