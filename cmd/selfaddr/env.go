package main

import (
	"os"
	"strings"

	"github.com/dep2p/go-selfaddr"
)

// 环境变量
const (
	envPrefix        = "SELFADDR_"
	envPreset        = envPrefix + "PRESET"
	envEchoEndpoints = envPrefix + "ECHO_ENDPOINTS"
	envNATPMP        = envPrefix + "NATPMP"
	envUPnP          = envPrefix + "UPNP"
)

// envOptions 读取环境变量覆盖
//
// 环境变量优先级高于配置文件，但低于命令行参数：
//   - SELFADDR_PRESET: 预设名称
//   - SELFADDR_ECHO_ENDPOINTS: 回显服务（逗号分隔）
//   - SELFADDR_NATPMP: 启用 NAT-PMP
//   - SELFADDR_UPNP: 启用 UPnP
func envOptions() []selfaddr.Option {
	var opts []selfaddr.Option

	if v := os.Getenv(envEchoEndpoints); v != "" {
		opts = append(opts, selfaddr.WithEchoEndpoints(splitAndTrim(v, ",")...))
	}
	if v := os.Getenv(envNATPMP); v != "" {
		opts = append(opts, selfaddr.WithNATPMP(parseBool(v)))
	}
	if v := os.Getenv(envUPnP); v != "" {
		opts = append(opts, selfaddr.WithUPnP(parseBool(v)))
	}
	return opts
}

// parseBool 解析布尔值字符串
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitAndTrim 分割字符串并去除空白
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
