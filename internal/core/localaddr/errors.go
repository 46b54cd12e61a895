package localaddr

import "errors"

// 错误定义
var (
	// ErrLocalHost 无法解析本机主机名
	ErrLocalHost = errors.New("resolve local host")

	// ErrDefaultRoute 无法确定默认路由接口地址
	ErrDefaultRoute = errors.New("default route address")

	// ErrInterfaces 无法列出网络接口
	ErrInterfaces = errors.New("list interfaces")

	// ErrInterfaceAddrs 无法读取某个接口的地址
	ErrInterfaceAddrs = errors.New("interface addresses")
)
