// Package cidr provides IPv4 CIDR math: dotted-quad/uint32 conversions,
// prefix parsing, network/broadcast/host-range computation and usable-pool
// generation. All arithmetic assumes 32-bit addressing; IPv6 is rejected.
package cidr

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"go4.org/netipx"
)

// IPToInt parses a dotted-quad IPv4 address into its 32-bit integer form.
func IPToInt(s string) (uint32, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:]), nil
}

// IntToIP formats a 32-bit integer as a dotted-quad IPv4 address.
// Inverse of IPToInt: IntToIP(IPToInt(x)) == x for every valid x.
func IntToIP(n uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return netip.AddrFrom4(b).String()
}

// Parse validates a CIDR string ("a.b.c.d/n", prefix 0-32) and returns the
// prefix as written, without masking the base address.
func Parse(s string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(s)
	if err != nil || !p.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("%w: %q", ErrInvalidCIDR, s)
	}
	return p, nil
}

// Info describes the address layout of one IPv4 block.
type Info struct {
	Network   netip.Addr
	Broadcast netip.Addr
	FirstHost netip.Addr
	LastHost  netip.Addr
	Total     uint64
	Usable    uint64
}

// NetworkInfo computes the layout of the block denoted by cidr.
//
// A /32 is a single host: network, broadcast, first and last host all equal
// the address itself. A /31 is a point-to-point link where both addresses
// are usable. For /30 and shorter the network and broadcast addresses are
// excluded, so usable = total - 2.
func NetworkInfo(cidr string) (Info, error) {
	p, err := Parse(cidr)
	if err != nil {
		return Info{}, err
	}

	r := netipx.RangeOfPrefix(p.Masked())
	info := Info{
		Network:   r.From(),
		Broadcast: r.To(),
		Total:     1 << (32 - p.Bits()),
	}

	switch p.Bits() {
	case 32, 31:
		info.FirstHost = info.Network
		info.LastHost = info.Broadcast
		info.Usable = info.Total
	default:
		info.FirstHost = info.Network.Next()
		info.LastHost = info.Broadcast.Prev()
		info.Usable = info.Total - 2
	}

	return info, nil
}

// UsableIPs materializes the usable host addresses of the block in ascending
// order. The result has exactly NetworkInfo(cidr).Usable entries and is
// reproducible: the same cidr always yields the same sequence.
func UsableIPs(cidr string) ([]string, error) {
	info, err := NetworkInfo(cidr)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, info.Usable)
	for a := info.FirstHost; a.Compare(info.LastHost) <= 0; a = a.Next() {
		out = append(out, a.String())
	}
	return out, nil
}
