package globaladdr

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	selfaddrif "github.com/dep2p/go-selfaddr/pkg/interfaces/selfaddr"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

// maxLineLength 响应第一行的最大长度
const maxLineLength = 1024

// userAgent 请求回显服务时使用的 User-Agent
const userAgent = "go-selfaddr/1.0"

// EchoProber 回显服务探测器
//
// 向一个 HTTP 回显服务发 GET 请求，响应体第一行就是调用方的外部 IP。
// 部分服务会在地址前加上说明文字，因此只保留最后一个空格之后的部分。
type EchoProber struct {
	url         string
	client      *http.Client
	overallTime time.Duration
}

// 确保实现接口
var _ selfaddrif.Prober = (*EchoProber)(nil)

// NewEchoClient 创建回显探测使用的 HTTP 客户端
//
// connectTimeout 限制建连和 TLS 握手，readTimeout 限制等待响应头。
func NewEchoClient(connectTimeout, readTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: connectTimeout,
			}).DialContext,
			TLSHandshakeTimeout:   connectTimeout,
			ResponseHeaderTimeout: readTimeout,
			MaxIdleConns:          10,
			IdleConnTimeout:       30 * time.Second,
			DisableCompression:    true,
		},
	}
}

// NewEchoProber 创建回显探测器，client 为 nil 时使用默认超时的客户端
func NewEchoProber(url string, client *http.Client) *EchoProber {
	if client == nil {
		client = NewEchoClient(DefaultConnectTimeout, DefaultReadTimeout)
	}
	return &EchoProber{
		url:         url,
		client:      client,
		overallTime: DefaultConnectTimeout + DefaultReadTimeout,
	}
}

// WithTimeout 设置单次探测的总时限（含读取响应体）
func (p *EchoProber) WithTimeout(d time.Duration) *EchoProber {
	if d > 0 {
		p.overallTime = d
	}
	return p
}

// Name 返回回显服务 URL
func (p *EchoProber) Name() string {
	return p.url
}

// Probe 请求回显服务并解析响应中的地址
func (p *EchoProber) Probe(ctx context.Context) (types.Address, error) {
	// 连接和响应头之外，响应体读取同样受限
	ctx, cancel := context.WithTimeout(ctx, p.overallTime)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return types.Address{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return types.Address{}, fmt.Errorf("request %s: %w", p.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return types.Address{}, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	line, err := readFirstLine(resp.Body)
	if err != nil {
		return types.Address{}, err
	}

	literal := ParseEchoLine(line)
	addr, err := types.ParseAddress(literal)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, literal)
	}
	return addr, nil
}

// ParseEchoLine 从响应第一行提取地址字面量
//
// 去掉首尾空白；如果仍包含空格，只保留最后一个空格之后的部分。
func ParseEchoLine(line string) string {
	line = strings.TrimSpace(line)
	if i := strings.LastIndexByte(line, ' '); i >= 0 {
		line = line[i+1:]
	}
	return line
}

// readFirstLine 读取响应体第一行
//
// 第一行超过 maxLineLength 字节时返回错误，不截断。
func readFirstLine(r io.Reader) (string, error) {
	br := bufio.NewReaderSize(io.LimitReader(r, maxLineLength+1), maxLineLength)
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read response: %w", err)
	}
	if !strings.HasSuffix(line, "\n") && len(line) > maxLineLength {
		return "", fmt.Errorf("%w: first line exceeds %d bytes", ErrInvalidResponse, maxLineLength)
	}
	if strings.TrimSpace(line) == "" {
		return "", fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}
	return line, nil
}
