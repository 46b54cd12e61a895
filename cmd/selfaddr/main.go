// Package main 提供 selfaddr 命令行入口
//
// 打印本机的本地地址、全局地址和公网地址：
//
//	selfaddr -endpoint https://api.ipify.org -endpoint https://icanhazip.com
//	selfaddr -preset lan -json
//	selfaddr -metrics 127.0.0.1:9090
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-selfaddr"
	"github.com/dep2p/go-selfaddr/config"
	"github.com/dep2p/go-selfaddr/internal/util/logger"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

var log = logger.Logger("selfaddr/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
//   命令行参数：这次运行的覆盖项
//   JSON 配置文件：持久化配置
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile = flag.String("config", "", "配置文件路径")
	preset     = flag.String("preset", "", "预设配置 (default/lan/full/offline)")
	natpmp     = flag.Bool("natpmp", false, "启用 NAT-PMP 探测")
	upnp       = flag.Bool("upnp", false, "启用 UPnP 探测")
	jsonOutput = flag.Bool("json", false, "以 JSON 输出")
	logLevel   = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")
	metrics    = flag.String("metrics", "", "在该地址提供 /metrics 并保持运行")
	timeout    = flag.Duration("timeout", time.Minute, "整体超时")

	showVersion = flag.Bool("version", false, "显示版本信息")
)

// endpointList 可重复的 -endpoint 参数
type endpointList []string

func (l *endpointList) String() string { return strings.Join(*l, ",") }

func (l *endpointList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

var (
	endpoints      endpointList
	connectTimeout config.Duration
	readTimeout    config.Duration
)

func init() {
	flag.Var(&endpoints, "endpoint", "回显服务 URL（可重复）")
	flag.Var(&connectTimeout, "connect-timeout", "回显服务连接超时，如 5s")
	flag.Var(&readTimeout, "read-timeout", "回显服务读取超时，如 5s")
}

// report 输出内容
type report struct {
	Local  []types.Address     `json:"local"`
	Global []types.Address     `json:"global"`
	Public types.PublicAddress `json:"public"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(selfaddr.VersionInfo())
		return nil
	}

	if *logLevel != "" {
		level, ok := logger.ParseLevel(*logLevel)
		if !ok {
			return fmt.Errorf("未知的日志级别: %s", *logLevel)
		}
		logger.SetGlobalLevel(level)
	}

	opts, err := buildOptions()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	id, err := selfaddr.Start(ctx, opts...)
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = id.Close() }()

	r := report{
		Local:  id.Local(ctx),
		Global: id.Global(ctx),
	}
	r.Public = id.Public(ctx)

	if err := printReport(r); err != nil {
		return err
	}

	if *metrics != "" {
		return serveMetrics(*metrics)
	}
	return nil
}

// buildOptions 构建选项
//
// 优先级（从高到低）：命令行参数、环境变量、配置文件、预设
func buildOptions() ([]selfaddr.Option, error) {
	var opts []selfaddr.Option

	if *configFile != "" {
		opts = append(opts, selfaddr.WithConfigFile(*configFile))
	}

	presetName := *preset
	if presetName == "" {
		presetName = os.Getenv(envPreset)
	}
	if presetName != "" {
		opts = append(opts, selfaddr.WithPreset(presetName))
	}

	opts = append(opts, envOptions()...)

	if len(endpoints) > 0 {
		opts = append(opts, selfaddr.WithEchoEndpoints(endpoints...))
	}
	if isFlagSet("natpmp") {
		opts = append(opts, selfaddr.WithNATPMP(*natpmp))
	}
	if isFlagSet("upnp") {
		opts = append(opts, selfaddr.WithUPnP(*upnp))
	}
	if isFlagSet("connect-timeout") || isFlagSet("read-timeout") {
		connect, read := connectTimeout.Duration(), readTimeout.Duration()
		if connect == 0 {
			connect = 20 * time.Second
		}
		if read == 0 {
			read = 20 * time.Second
		}
		opts = append(opts, selfaddr.WithTimeouts(connect, read))
	}

	return opts, nil
}

// printReport 打印结果
func printReport(r report) error {
	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Println("本地地址:")
	printAddrs(r.Local)
	fmt.Println("全局地址:")
	printAddrs(r.Global)
	fmt.Printf("公网地址:\n  %s\n", r.Public)
	return nil
}

func printAddrs(addrs []types.Address) {
	if len(addrs) == 0 {
		fmt.Println("  (无)")
		return
	}
	for _, a := range addrs {
		fmt.Printf("  %s\n", a)
	}
}

// serveMetrics 提供 Prometheus 指标，直到收到退出信号
func serveMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("指标服务已启动", "addr", addr)
	fmt.Printf("指标服务: http://%s/metrics，按 Ctrl+C 退出\n", addr)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("指标服务: %w", err)
	case <-signals:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
