package selfaddr

import "errors"

// 公共错误定义
var (
	// ErrNotStarted 尚未启动
	ErrNotStarted = errors.New("identity not started")

	// ErrAlreadyStarted 已经启动
	ErrAlreadyStarted = errors.New("identity already started")

	// ErrClosed 已关闭
	ErrClosed = errors.New("identity closed")
)
