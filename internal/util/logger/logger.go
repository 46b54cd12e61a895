// Package logger 提供 selfaddr 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（SELFADDR_LOG_LEVEL, SELFADDR_LOG_FORMAT）
//   - 结构化日志
//
// 使用示例:
//
//	package globaladdr
//
//	import "github.com/dep2p/go-selfaddr/internal/util/logger"
//
//	var log = logger.Logger("globaladdr")
//
//	func probe() {
//	    log.Warn("echo probe failed", "endpoint", url, "err", err)
//	}
package logger

import (
	"io"
	"log/slog"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// handlers 缓存各子系统的 Handler（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler

	// globalLevel 非空时覆盖所有子系统（包括之后创建的）的级别
	globalLevel   *slog.Level
	globalLevelMu sync.RWMutex
)

// Logger 获取指定子系统的 Logger
//
// 同一子系统多次调用返回相同的实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	level := cfg.LevelForSubsystem(subsystem)

	globalLevelMu.RLock()
	if globalLevel != nil {
		level = *globalLevel
	}
	globalLevelMu.RUnlock()

	handler := newHandler(subsystem, level, cfg.Format, cfg.AddSource)
	actual, loaded := loggers.LoadOrStore(subsystem, slog.New(handler))
	if !loaded {
		handlers.Store(subsystem, handler)
	}
	return actual.(*slog.Logger)
}

// SetLevel 动态设置子系统的日志级别
func SetLevel(subsystem string, level slog.Level) {
	Logger(subsystem)
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// SetGlobalLevel 设置所有子系统的日志级别
func SetGlobalLevel(level slog.Level) {
	globalLevelMu.Lock()
	globalLevel = &level
	globalLevelMu.Unlock()

	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).SetLevel(level)
		return true
	})
}

// Discard 返回一个丢弃所有日志的 Logger
func Discard() *slog.Logger {
	return slog.New(DiscardHandler())
}

// With 创建带有预设属性的 Logger
//
//	log := logger.With("globaladdr", "run", runID)
//	log.Info("discovery finished")
func With(subsystem string, args ...any) *slog.Logger {
	return Logger(subsystem).With(args...)
}

// SetOutput 设置全局日志输出目标
//
// 已创建的 Logger 同样生效。
func SetOutput(w io.Writer) {
	globalOutputMu.Lock()
	globalOutput = w
	globalOutputMu.Unlock()
}
