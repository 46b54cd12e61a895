package types

import "errors"

var (
	// ErrInvalidAddress 无法解析为 IP 地址
	ErrInvalidAddress = errors.New("invalid IP address")

	// ErrInvalidAddressLength 原始地址字节长度不是 4 或 16
	ErrInvalidAddressLength = errors.New("invalid address length: must be 4 or 16 bytes")
)
