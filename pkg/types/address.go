package types

import (
	"fmt"
	"net"
	"net/netip"
)

// ============================================================================
//                              Address - 候选地址
// ============================================================================

// Address 候选网络地址
//
// 4 字节 (IPv4) 或 16 字节 (IPv6) 的不可变地址值。相等性只比较原始字节：
// 构造时去掉 IPv6 zone，并把 IPv4-mapped IPv6 还原为 IPv4，因此 Address
// 可以直接作为 map 键使用。零值是无效地址。
type Address struct {
	ip netip.Addr
}

// LoopbackAddress IPv4 回环地址 127.0.0.1
var LoopbackAddress = Address{ip: netip.AddrFrom4([4]byte{127, 0, 0, 1})}

// AddressFrom 从 netip.Addr 创建地址
func AddressFrom(ip netip.Addr) Address {
	if !ip.IsValid() {
		return Address{}
	}
	return Address{ip: ip.WithZone("").Unmap()}
}

// AddressFromSlice 从原始字节创建地址
//
// 只接受 4 或 16 字节，这也是投票数据报的格式。
func AddressFromSlice(b []byte) (Address, error) {
	if len(b) != net.IPv4len && len(b) != net.IPv6len {
		return Address{}, fmt.Errorf("%w: got %d", ErrInvalidAddressLength, len(b))
	}
	ip, _ := netip.AddrFromSlice(b)
	return AddressFrom(ip), nil
}

// AddressFromIP 从 net.IP 创建地址
func AddressFromIP(ip net.IP) (Address, bool) {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return Address{}, false
	}
	return AddressFrom(addr), true
}

// AddressFromNetAddr 从接口地址（*net.IPNet、*net.IPAddr 等）创建地址
func AddressFromNetAddr(a net.Addr) (Address, bool) {
	switch v := a.(type) {
	case *net.IPNet:
		return AddressFromIP(v.IP)
	case *net.IPAddr:
		return AddressFromIP(v.IP)
	case *net.UDPAddr:
		return AddressFromIP(v.IP)
	case *net.TCPAddr:
		return AddressFromIP(v.IP)
	default:
		return Address{}, false
	}
}

// ParseAddress 解析 IP 字面量
func ParseAddress(s string) (Address, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return AddressFrom(ip), nil
}

// MustParseAddress 解析 IP 字面量，失败时 panic
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsValid 是否是有效地址
func (a Address) IsValid() bool {
	return a.ip.IsValid()
}

// Is4 是否是 IPv4 地址
func (a Address) Is4() bool {
	return a.ip.Is4()
}

// Netip 返回 netip.Addr 形式
func (a Address) Netip() netip.Addr {
	return a.ip
}

// IP 返回 net.IP 形式
func (a Address) IP() net.IP {
	if !a.ip.IsValid() {
		return nil
	}
	return net.IP(a.Bytes())
}

// Bytes 返回原始地址字节（IPv4 为 4 字节，IPv6 为 16 字节）
func (a Address) Bytes() []byte {
	switch {
	case a.ip.Is4():
		b := a.ip.As4()
		return b[:]
	case a.ip.Is6():
		b := a.ip.As16()
		return b[:]
	default:
		return nil
	}
}

// String 返回地址的文本形式
func (a Address) String() string {
	if !a.ip.IsValid() {
		return "invalid"
	}
	return a.ip.String()
}

// MarshalText 实现 encoding.TextMarshaler
func (a Address) MarshalText() ([]byte, error) {
	if !a.ip.IsValid() {
		return []byte{}, nil
	}
	return a.ip.MarshalText()
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (a *Address) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ============================================================================
//                              地址属性
// ============================================================================

// IsLoopback 回环地址（127.0.0.0/8, ::1）
func (a Address) IsLoopback() bool {
	return a.ip.IsLoopback()
}

// IsMulticast 组播地址
func (a Address) IsMulticast() bool {
	return a.ip.IsMulticast()
}

// IsAnyLocal 通配地址（0.0.0.0, ::）
func (a Address) IsAnyLocal() bool {
	return a.ip.IsUnspecified()
}

// IsLinkLocal 链路本地单播地址（169.254.0.0/16, fe80::/10）
func (a Address) IsLinkLocal() bool {
	return a.ip.IsLinkLocalUnicast()
}

// IsSiteLocal 站点本地地址
//
// IPv4: 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16
// IPv6: fec0::/10（已废弃的 site-local）以及 fc00::/7（ULA）
func (a Address) IsSiteLocal() bool {
	if a.ip.IsPrivate() {
		return true
	}
	if a.ip.Is6() {
		b := a.ip.As16()
		return b[0] == 0xfe && b[1]&0xc0 == 0xc0
	}
	return false
}

// IsNodeLocalMulticast 节点本地组播（ff01::/16）
func (a Address) IsNodeLocalMulticast() bool {
	return a.ip.IsInterfaceLocalMulticast()
}

// IsLinkLocalMulticast 链路本地组播（224.0.0.0/24, ff02::/16）
func (a Address) IsLinkLocalMulticast() bool {
	return a.ip.IsLinkLocalMulticast()
}

// IsGlobalMulticast 全局范围组播
//
// IPv4: 224.0.1.0 - 238.255.255.255
// IPv6: 组播范围字段为 0xE
func (a Address) IsGlobalMulticast() bool {
	if !a.ip.IsMulticast() {
		return false
	}
	if a.ip.Is4() {
		b := a.ip.As4()
		return b[0] <= 238 && !(b[0] == 224 && b[1] == 0 && b[2] == 0)
	}
	b := a.ip.As16()
	return b[1]&0x0f == 0x0e
}

// Rank 返回地址排名，见 Rank
func (a Address) Rank() RankScore {
	return Rank(a)
}
