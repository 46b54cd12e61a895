package globaladdr

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-selfaddr/pkg/types"
)

// testReceiveTimeout 测试使用较短的读取超时，加快停止
const testReceiveTimeout = 50 * time.Millisecond

func startListener(t *testing.T) *Listener {
	t.Helper()
	l, err := Listen(ListenerConfig{ReceiveTimeout: testReceiveTimeout})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func stopAndCollect(t *testing.T, l *Listener) []types.Address {
	t.Helper()
	l.RequestStop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.AwaitStopped(ctx))
	got, err := l.Results()
	require.NoError(t, err)
	return got
}

// ============================================================================
//                              生命周期测试
// ============================================================================

func TestListener_Lifecycle(t *testing.T) {
	l := startListener(t)

	assert.Greater(t, l.Port(), 0)
	assert.Equal(t, StateListening, l.State())

	l.RequestStop()
	l.RequestStop() // 幂等
	assert.Equal(t, StateStopping, l.State())

	require.NoError(t, l.AwaitStopped(context.Background()))
	got, err := l.Results()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, StateStopped, l.State())

	// 重复读取结果不会再次关闭失败
	_, err = l.Results()
	assert.NoError(t, err)
}

func TestListener_ResultsBeforeStop(t *testing.T) {
	l, err := Listen(ListenerConfig{ReceiveTimeout: time.Minute})
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	_, err = l.Results()
	assert.ErrorIs(t, err, ErrListenerRunning)
}

func TestListener_AwaitStoppedContext(t *testing.T) {
	l, err := Listen(ListenerConfig{ReceiveTimeout: time.Minute})
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// 没有请求停止，循环不会退出
	assert.ErrorIs(t, l.AwaitStopped(ctx), context.DeadlineExceeded)
}

func TestListener_BindFailure(t *testing.T) {
	bindErr := errors.New("address already in use")
	_, err := Listen(ListenerConfig{
		ListenPacket: func(string, string) (net.PacketConn, error) {
			return nil, bindErr
		},
	})
	assert.ErrorIs(t, err, ErrListenerBind)
	assert.ErrorIs(t, err, bindErr)
}

func TestListenerState_String(t *testing.T) {
	assert.Equal(t, "created", StateCreated.String())
	assert.Equal(t, "listening", StateListening.String())
	assert.Equal(t, "stopping", StateStopping.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "unknown(9)", ListenerState(9).String())
}

// ============================================================================
//                              投票测试
// ============================================================================

func TestListener_CountsVotes(t *testing.T) {
	l := startListener(t)

	votes := []string{"203.0.113.5", "2001:db8::1", "203.0.113.5", "203.0.113.5", "2001:db8::1", "198.51.100.7"}
	for _, v := range votes {
		require.NoError(t, SendVote(l.Port(), types.MustParseAddress(v)))
	}

	got := stopAndCollect(t, l)
	assert.Equal(t, mustAddrs("203.0.113.5", "2001:db8::1", "198.51.100.7"), got)
}

func TestListener_IgnoresMalformedDatagrams(t *testing.T) {
	l := startListener(t)

	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: l.Port()})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	for _, payload := range [][]byte{
		{1, 2, 3},
		make([]byte, 5),
		[]byte("203.0.113.5"),
		make([]byte, 17),
	} {
		_, err := conn.Write(payload)
		require.NoError(t, err)
	}
	_, err = conn.Write([]byte{203, 0, 113, 5})
	require.NoError(t, err)

	got := stopAndCollect(t, l)
	assert.Equal(t, mustAddrs("203.0.113.5"), got)
}

func TestListener_CloseWhileRunning(t *testing.T) {
	l, err := Listen(ListenerConfig{ReceiveTimeout: time.Minute})
	require.NoError(t, err)

	require.NoError(t, l.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.AwaitStopped(ctx), "关闭套接字后接收循环应立即退出")

	got, err := l.Results()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSendVote_InvalidAddress(t *testing.T) {
	err := SendVote(9, types.Address{})
	assert.ErrorIs(t, err, ErrSendVote)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}
