package globaladdr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-selfaddr/pkg/types"
)

func echoServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ============================================================================
//                              响应解析测试
// ============================================================================

func TestParseEchoLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"纯地址", "203.0.113.5", "203.0.113.5"},
		{"首尾空白", "  203.0.113.5 \r\n", "203.0.113.5"},
		{"带说明文字", "Current IP Address: 203.0.113.5", "203.0.113.5"},
		{"IPv6", "your ip is 2001:db8::1\n", "2001:db8::1"},
		{"空行", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEchoLine(tt.line))
		})
	}
}

// ============================================================================
//                              探测测试
// ============================================================================

func TestEchoProber_Success(t *testing.T) {
	srv := echoServer(t, "203.0.113.5\n")

	addr, err := NewEchoProber(srv.URL, nil).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.MustParseAddress("203.0.113.5"), addr)
}

func TestEchoProber_FirstLineOnly(t *testing.T) {
	srv := echoServer(t, "Current IP Address: 203.0.113.9\nsecond line 198.51.100.1\n")

	addr, err := NewEchoProber(srv.URL, nil).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.MustParseAddress("203.0.113.9"), addr)
}

func TestEchoProber_FirstLineTooLong(t *testing.T) {
	t.Run("超长首行报错而不是截断", func(t *testing.T) {
		srv := echoServer(t, strings.Repeat("x", 1100)+" 203.0.113.5\n")

		_, err := NewEchoProber(srv.URL, nil).Probe(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidResponse)
		assert.Contains(t, err.Error(), "exceeds")
	})

	t.Run("恰好达到上限", func(t *testing.T) {
		line := strings.Repeat("x", maxLineLength-len(" 203.0.113.5")) + " 203.0.113.5"
		require.Len(t, line, maxLineLength)
		srv := echoServer(t, line)

		addr, err := NewEchoProber(srv.URL, nil).Probe(context.Background())
		require.NoError(t, err)
		assert.Equal(t, types.MustParseAddress("203.0.113.5"), addr)
	})
}

func TestEchoProber_NoCacheHeaders(t *testing.T) {
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		_, _ = w.Write([]byte("203.0.113.5"))
	}))
	defer srv.Close()

	_, err := NewEchoProber(srv.URL, nil).Probe(context.Background())
	require.NoError(t, err)

	h := <-headers
	assert.Equal(t, "no-cache", h.Get("Cache-Control"))
	assert.Equal(t, "no-cache", h.Get("Pragma"))
	assert.Equal(t, userAgent, h.Get("User-Agent"))
}

func TestEchoProber_Failures(t *testing.T) {
	t.Run("非 IP 响应", func(t *testing.T) {
		srv := echoServer(t, "<html>hello</html>")
		_, err := NewEchoProber(srv.URL, nil).Probe(context.Background())
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("空响应", func(t *testing.T) {
		srv := echoServer(t, "")
		_, err := NewEchoProber(srv.URL, nil).Probe(context.Background())
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("错误状态码", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewEchoProber(srv.URL, nil).Probe(context.Background())
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("连接失败", func(t *testing.T) {
		srv := echoServer(t, "203.0.113.5")
		url := srv.URL
		srv.Close()

		_, err := NewEchoProber(url, nil).Probe(context.Background())
		assert.Error(t, err)
	})

	t.Run("非法 URL", func(t *testing.T) {
		_, err := NewEchoProber("://bad", nil).Probe(context.Background())
		assert.Error(t, err)
	})
}

func TestEchoProber_ReadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte("203.0.113.5"))
	}))
	defer srv.Close()
	defer close(release)

	client := NewEchoClient(time.Second, 100*time.Millisecond)

	start := time.Now()
	_, err := NewEchoProber(srv.URL, client).Probe(context.Background())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestEchoProber_OverallTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	p := NewEchoProber(srv.URL, nil).WithTimeout(100 * time.Millisecond)

	start := time.Now()
	_, err := p.Probe(context.Background())
	assert.Error(t, err, "响应体迟迟不到也要超时")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestEchoProber_Name(t *testing.T) {
	assert.Equal(t, "https://api.ipify.org", NewEchoProber("https://api.ipify.org", nil).Name())
}
