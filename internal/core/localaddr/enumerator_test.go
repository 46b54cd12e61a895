package localaddr

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/dep2p/go-selfaddr/pkg/types"
)

// ============================================================================
//                              假网络层
// ============================================================================

type fakeHost struct {
	hostname    string
	hostnameErr error
	lookup      map[string][]net.IP
	lookupErr   error
	ifaces      []net.Interface
	ifacesErr   error
	addrs       map[string][]net.Addr
	addrsErr    map[string]error
	routeIP     net.IP
	routeErr    error
}

func (h *fakeHost) Hostname() (string, error) {
	return h.hostname, h.hostnameErr
}

func (h *fakeHost) LookupIP(_ context.Context, host string) ([]net.IP, error) {
	if h.lookupErr != nil {
		return nil, h.lookupErr
	}
	return h.lookup[host], nil
}

func (h *fakeHost) Interfaces() ([]net.Interface, error) {
	return h.ifaces, h.ifacesErr
}

func (h *fakeHost) InterfaceAddrs(iface *net.Interface) ([]net.Addr, error) {
	if err := h.addrsErr[iface.Name]; err != nil {
		return nil, err
	}
	return h.addrs[iface.Name], nil
}

func (h *fakeHost) DefaultRouteIP() (net.IP, error) {
	if h.routeErr != nil {
		return nil, h.routeErr
	}
	return h.routeIP, nil
}

func ipNet(s string) net.Addr {
	ip, n, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return &net.IPNet{IP: ip, Mask: n.Mask}
}

func addrs(ss ...string) []types.Address {
	out := make([]types.Address, 0, len(ss))
	for _, s := range ss {
		out = append(out, types.MustParseAddress(s))
	}
	return out
}

func typicalHost() *fakeHost {
	return &fakeHost{
		hostname: "box",
		lookup:   map[string][]net.IP{"box": {net.ParseIP("192.168.1.10")}},
		ifaces: []net.Interface{
			{Index: 1, Name: "lo"},
			{Index: 2, Name: "eth0"},
			{Index: 3, Name: "wlan0"},
		},
		addrs: map[string][]net.Addr{
			"lo":   {ipNet("127.0.0.1/8"), ipNet("::1/128")},
			"eth0": {ipNet("192.168.1.10/24"), ipNet("fe80::1/64"), ipNet("203.0.113.5/24")},
			"wlan0": {
				ipNet("10.0.0.7/8"),
				&net.IPAddr{IP: net.ParseIP("224.0.0.251")},
				&net.IPAddr{IP: net.ParseIP("ff02::fb")},
			},
		},
	}
}

// ============================================================================
//                              枚举测试
// ============================================================================

func TestEnumerate_FiltersAndRanks(t *testing.T) {
	e := NewEnumerator(typicalHost(), Config{})

	got, err := e.Enumerate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, addrs("203.0.113.5", "fe80::1", "192.168.1.10", "10.0.0.7"), got)
	for _, a := range got {
		assert.False(t, a.IsLoopback(), "不应包含回环地址 %s", a)
		assert.False(t, a.IsMulticast(), "不应包含组播地址 %s", a)
	}
}

func TestEnumerate_Deduplicates(t *testing.T) {
	h := typicalHost()
	h.routeIP = net.ParseIP("192.168.1.10")
	h.addrs["wlan0"] = append(h.addrs["wlan0"], ipNet("192.168.1.10/24"))

	got, err := NewEnumerator(h, Config{UseDefaultRoute: true}).Enumerate(context.Background())
	require.NoError(t, err)

	count := 0
	for _, a := range got {
		if a == types.MustParseAddress("192.168.1.10") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEnumerate_LoopbackHostnameSkipped(t *testing.T) {
	h := typicalHost()
	h.lookup["box"] = []net.IP{net.ParseIP("127.0.1.1")}
	h.ifaces = h.ifaces[:1]

	got, err := NewEnumerator(h, Config{}).Enumerate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got, "只有回环地址时结果为空")
}

func TestEnumerate_DefaultRouteAddedFirst(t *testing.T) {
	h := typicalHost()
	h.hostnameErr = errors.New("no hostname")
	h.routeIP = net.ParseIP("198.51.100.20")

	got, err := NewEnumerator(h, Config{UseDefaultRoute: true}).Enumerate(context.Background())
	require.Error(t, err)
	assert.Equal(t, addrs("198.51.100.20", "203.0.113.5", "fe80::1", "192.168.1.10", "10.0.0.7"), got,
		"同排名时默认路由地址先于接口地址")
}

func TestEnumerate_PartialFailure(t *testing.T) {
	h := typicalHost()
	h.lookupErr = errors.New("dns down")
	h.routeErr = errors.New("no route")
	h.addrsErr = map[string]error{"eth0": errors.New("permission denied")}

	got, err := NewEnumerator(h, Config{UseDefaultRoute: true}).Enumerate(context.Background())

	assert.Equal(t, addrs("10.0.0.7"), got, "保留其他接口的结果")
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.ErrorIs(t, err, ErrLocalHost)
	assert.ErrorIs(t, err, ErrDefaultRoute)
	assert.ErrorIs(t, err, ErrInterfaceAddrs)
}

func TestEnumerate_TotalFailure(t *testing.T) {
	h := &fakeHost{
		hostnameErr: errors.New("no hostname"),
		ifacesErr:   errors.New("netlink denied"),
	}

	got, err := NewEnumerator(h, Config{}).Enumerate(context.Background())
	assert.Empty(t, got)
	assert.ErrorIs(t, err, ErrInterfaces)
	assert.ErrorIs(t, err, ErrLocalHost)
}

// ============================================================================
//                              主机名解析测试
// ============================================================================

func TestLocalHostAddress(t *testing.T) {
	t.Run("返回第一个地址", func(t *testing.T) {
		h := &fakeHost{
			hostname: "box",
			lookup:   map[string][]net.IP{"box": {net.ParseIP("10.1.1.1"), net.ParseIP("10.1.1.2")}},
		}
		a, err := LocalHostAddress(context.Background(), h)
		require.NoError(t, err)
		assert.Equal(t, types.MustParseAddress("10.1.1.1"), a)
	})

	t.Run("无解析结果", func(t *testing.T) {
		h := &fakeHost{hostname: "box", lookup: map[string][]net.IP{}}
		_, err := LocalHostAddress(context.Background(), h)
		assert.ErrorIs(t, err, ErrLocalHost)
	})
}

func TestSystemHost_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("跳过集成测试")
	}

	got, _ := NewEnumerator(nil, DefaultConfig()).Enumerate(context.Background())
	for _, a := range got {
		assert.False(t, a.IsLoopback())
		assert.False(t, a.IsMulticast())
	}
	t.Logf("本地地址: %v", got)
}
