package globaladdr

import (
	"context"
	"fmt"
	"net"

	selfaddrif "github.com/dep2p/go-selfaddr/pkg/interfaces/selfaddr"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

// RunProbe 运行一次探测，成功时向本地监听端口发送一票
//
// 所有失败（包括探测器 panic）都只记录日志，不会影响其他探测器。
// 返回是否成功投出一票。
func RunProbe(ctx context.Context, p selfaddrif.Prober, port int) (voted bool) {
	name := "unknown"
	defer func() {
		if r := recover(); r != nil {
			log.Warn("探测器异常", "prober", name, "panic", r)
			voted = false
		}
		result := resultFailed
		if voted {
			result = resultVote
		}
		metricProbeResults.WithLabelValues(name, result).Inc()
	}()

	name = p.Name()
	addr, err := p.Probe(ctx)
	if err != nil {
		log.Warn("外部地址探测失败", "prober", name, "err", err)
		return false
	}
	if !addr.IsValid() {
		log.Warn("外部地址探测失败", "prober", name, "err", ErrInvalidAddress)
		return false
	}

	if err := SendVote(port, addr); err != nil {
		log.Warn("发送投票失败", "prober", name, "addr", addr, "err", err)
		return false
	}

	log.Debug("探测成功", "prober", name, "addr", addr)
	return true
}

// SendVote 向 127.0.0.1:port 发送一个投票数据报
//
// 数据报内容是地址的原始字节（4 或 16 字节），没有其他头部。
func SendVote(port int, addr types.Address) error {
	b := addr.Bytes()
	if b == nil {
		return fmt.Errorf("%w: %w", ErrSendVote, ErrInvalidAddress)
	}

	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: types.LoopbackAddress.IP(), Port: port})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendVote, err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.Write(b); err != nil {
		return fmt.Errorf("%w: %w", ErrSendVote, err)
	}
	return nil
}
