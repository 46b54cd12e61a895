package publicaddr

import "errors"

// 错误定义
var (
	// ErrNoName 反向解析没有返回名称
	ErrNoName = errors.New("reverse lookup returned no names")
)
