package globaladdr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-selfaddr/internal/util/logger"
	"github.com/dep2p/go-selfaddr/pkg/types"
)

var log = logger.Logger("globaladdr")

const (
	// receiveBufferSize 接收缓冲区大小，投票只使用前 16 字节
	receiveBufferSize = 512

	// drainTimeout 停止后继续读取已到达数据报的时间
	drainTimeout = 20 * time.Millisecond
)

// ============================================================================
//                              ListenerState
// ============================================================================

// ListenerState 监听器状态
type ListenerState int32

const (
	// StateCreated 已创建，尚未绑定
	StateCreated ListenerState = iota
	// StateListening 接收循环运行中
	StateListening
	// StateStopping 已请求停止或接收循环已退出，套接字尚未关闭
	StateStopping
	// StateStopped 套接字已关闭，结果已取出
	StateStopped
)

// String 返回状态名称
func (s ListenerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateListening:
		return "listening"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// ============================================================================
//                              Listener
// ============================================================================

// ListenPacketFunc 绑定 UDP 套接字的函数，签名同 net.ListenPacket
type ListenPacketFunc func(network, address string) (net.PacketConn, error)

// ListenerConfig 监听器配置
type ListenerConfig struct {
	// ReceiveTimeout 单次读取超时
	ReceiveTimeout time.Duration

	// ListenPacket 绑定函数，nil 时使用 net.ListenPacket
	ListenPacket ListenPacketFunc
}

// Listener 投票监听器
//
// 在 127.0.0.1 的临时端口上接收投票数据报。计数只由接收 goroutine 写入，
// 其他 goroutine 只在观察到 done 关闭之后读取，因此不需要锁。
type Listener struct {
	conn    net.PacketConn
	port    int
	timeout time.Duration

	state atomic.Int32
	tally *Tally

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// Listen 绑定端口并启动接收循环
//
// 返回时端口已可用，可以立即把 Port() 交给探测器。
func Listen(cfg ListenerConfig) (*Listener, error) {
	listen := cfg.ListenPacket
	if listen == nil {
		listen = net.ListenPacket
	}
	timeout := cfg.ReceiveTimeout
	if timeout <= 0 {
		timeout = DefaultReceiveTimeout
	}

	l := &Listener{
		timeout: timeout,
		tally:   NewTally(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	conn, err := listen("udp4", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListenerBind, err)
	}
	port, err := localPort(conn.LocalAddr())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrListenerBind, err)
	}
	l.conn = conn
	l.port = port

	l.state.Store(int32(StateListening))
	go l.receiveLoop()

	log.Debug("投票监听器已启动", "port", port)
	return l, nil
}

func localPort(addr net.Addr) (int, error) {
	if udp, ok := addr.(*net.UDPAddr); ok {
		return udp.Port, nil
	}
	ap, err := netip.ParseAddrPort(addr.String())
	if err != nil {
		return 0, fmt.Errorf("local address %s: %w", addr, err)
	}
	return int(ap.Port()), nil
}

// Port 返回监听端口
func (l *Listener) Port() int {
	return l.port
}

// State 返回当前状态
func (l *Listener) State() ListenerState {
	return ListenerState(l.state.Load())
}

// RequestStop 请求接收循环停止
//
// 幂等，不阻塞。循环最迟在一个读取超时后退出。
func (l *Listener) RequestStop() {
	l.stopOnce.Do(func() {
		l.state.CompareAndSwap(int32(StateListening), int32(StateStopping))
		close(l.stop)
	})
}

// AwaitStopped 等待接收循环退出
func (l *Listener) AwaitStopped(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results 关闭套接字并返回排序后的地址
//
// 只能在接收循环退出之后调用，否则返回 ErrListenerRunning。
func (l *Listener) Results() ([]types.Address, error) {
	select {
	case <-l.done:
	default:
		return nil, ErrListenerRunning
	}

	if err := l.closeConn(); err != nil {
		log.Debug("关闭投票监听套接字失败", "port", l.port, "err", err)
	}
	l.state.Store(int32(StateStopped))
	return l.tally.Sorted(), nil
}

// Close 停止接收并关闭套接字，不等待接收循环退出
//
// 用于异常路径的清理，可以重复调用。
func (l *Listener) Close() error {
	l.RequestStop()
	return l.closeConn()
}

func (l *Listener) closeConn() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.conn.Close()
	})
	return l.closeErr
}

func (l *Listener) stopRequested() bool {
	select {
	case <-l.stop:
		return true
	default:
		return false
	}
}

// receiveLoop 接收循环
func (l *Listener) receiveLoop() {
	defer close(l.done)
	defer l.state.CompareAndSwap(int32(StateListening), int32(StateStopping))

	buf := make([]byte, receiveBufferSize)
	for !l.stopRequested() {
		if err := l.conn.SetReadDeadline(time.Now().Add(l.timeout)); err != nil {
			log.Warn("设置读取超时失败", "port", l.port, "err", err)
			return
		}
		if err := l.readOne(buf); err != nil && !isTimeout(err) {
			if !l.stopRequested() {
				log.Warn("接收投票失败", "port", l.port, "err", err)
			}
			return
		}
	}

	// 停止前已经到达的数据报仍然计票
	if err := l.conn.SetReadDeadline(time.Now().Add(drainTimeout)); err != nil {
		return
	}
	for l.readOne(buf) == nil {
	}
}

// readOne 读取并处理一个数据报
//
// 无效数据报记录日志后丢弃，不返回错误。
func (l *Listener) readOne(buf []byte) error {
	n, from, err := l.conn.ReadFrom(buf)
	if err != nil {
		return err
	}

	addr, err := types.AddressFromSlice(buf[:n])
	if err != nil {
		metricVotes.WithLabelValues(resultRejected).Inc()
		log.Warn("忽略无效投票", "from", from, "len", n, "err", err)
		return nil
	}

	count := l.tally.Add(addr)
	metricVotes.WithLabelValues(resultCounted).Inc()
	log.Debug("收到投票", "addr", addr, "votes", count)
	return nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
