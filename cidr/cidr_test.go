package cidr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPToIntRoundTrip(t *testing.T) {
	tests := []string{
		"0.0.0.0",
		"0.0.0.1",
		"10.0.0.1",
		"172.16.254.3",
		"192.168.1.254",
		"203.0.113.5",
		"255.255.255.255",
	}

	for _, ip := range tests {
		t.Run(ip, func(t *testing.T) {
			n, err := IPToInt(ip)
			require.NoError(t, err)
			assert.Equal(t, ip, IntToIP(n))
		})
	}
}

func TestIPToIntValues(t *testing.T) {
	tests := []struct {
		ip       string
		expected uint32
	}{
		{"0.0.0.0", 0},
		{"0.0.0.255", 255},
		{"1.0.0.0", 1 << 24},
		{"203.0.113.5", 3405803781},
		{"255.255.255.255", 4294967295},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			n, err := IPToInt(tt.ip)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestIPToIntRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"10.0.0",
		"10.0.0.0.1",
		"256.0.0.1",
		"10.0.0.-1",
		"a.b.c.d",
		"fe80::1",
	}

	for _, ip := range tests {
		t.Run(ip, func(t *testing.T) {
			_, err := IPToInt(ip)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"10.0.0.0",
		"10.0.0.0/33",
		"10.0.0.0/-1",
		"300.0.0.0/24",
		"fe80::/64",
		"not-a-cidr",
	}

	for _, cidr := range tests {
		t.Run(cidr, func(t *testing.T) {
			_, err := Parse(cidr)
			assert.ErrorIs(t, err, ErrInvalidCIDR)
		})
	}
}

func TestNetworkInfo(t *testing.T) {
	tests := []struct {
		cidr      string
		network   string
		broadcast string
		firstHost string
		lastHost  string
		total     uint64
		usable    uint64
	}{
		{"192.0.2.0/29", "192.0.2.0", "192.0.2.7", "192.0.2.1", "192.0.2.6", 8, 6},
		{"10.0.0.0/24", "10.0.0.0", "10.0.0.255", "10.0.0.1", "10.0.0.254", 256, 254},
		{"10.0.0.0/30", "10.0.0.0", "10.0.0.3", "10.0.0.1", "10.0.0.2", 4, 2},
		// /31 point-to-point: both addresses usable, no broadcast exclusion.
		{"203.0.113.0/31", "203.0.113.0", "203.0.113.1", "203.0.113.0", "203.0.113.1", 2, 2},
		// /32 single host: every field collapses to the address itself.
		{"203.0.113.5/32", "203.0.113.5", "203.0.113.5", "203.0.113.5", "203.0.113.5", 1, 1},
		// Base address need not be masked; the network is derived.
		{"192.0.2.5/29", "192.0.2.0", "192.0.2.7", "192.0.2.1", "192.0.2.6", 8, 6},
	}

	for _, tt := range tests {
		t.Run(tt.cidr, func(t *testing.T) {
			info, err := NetworkInfo(tt.cidr)
			require.NoError(t, err)

			assert.Equal(t, tt.network, info.Network.String())
			assert.Equal(t, tt.broadcast, info.Broadcast.String())
			assert.Equal(t, tt.firstHost, info.FirstHost.String())
			assert.Equal(t, tt.lastHost, info.LastHost.String())
			assert.Equal(t, tt.total, info.Total)
			assert.Equal(t, tt.usable, info.Usable)
		})
	}
}

func TestUsableIPs(t *testing.T) {
	t.Run("/29 excludes network and broadcast", func(t *testing.T) {
		ips, err := UsableIPs("192.0.2.0/29")
		require.NoError(t, err)

		assert.Equal(t, []string{
			"192.0.2.1", "192.0.2.2", "192.0.2.3",
			"192.0.2.4", "192.0.2.5", "192.0.2.6",
		}, ips)
		assert.NotContains(t, ips, "192.0.2.0")
		assert.NotContains(t, ips, "192.0.2.7")
	})

	t.Run("/31 yields both addresses", func(t *testing.T) {
		ips, err := UsableIPs("203.0.113.0/31")
		require.NoError(t, err)
		assert.Equal(t, []string{"203.0.113.0", "203.0.113.1"}, ips)
	})

	t.Run("/32 yields the host itself", func(t *testing.T) {
		ips, err := UsableIPs("203.0.113.5/32")
		require.NoError(t, err)
		assert.Equal(t, []string{"203.0.113.5"}, ips)
	})

	t.Run("length matches usable count", func(t *testing.T) {
		for _, cidr := range []string{"10.0.0.0/24", "10.0.0.0/22", "192.0.2.0/26"} {
			info, err := NetworkInfo(cidr)
			require.NoError(t, err)

			ips, err := UsableIPs(cidr)
			require.NoError(t, err)
			assert.Len(t, ips, int(info.Usable), cidr)
		}
	})

	t.Run("reproducible", func(t *testing.T) {
		first, err := UsableIPs("10.20.30.0/28")
		require.NoError(t, err)
		second, err := UsableIPs("10.20.30.0/28")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := UsableIPs("10.0.0.0/40")
		assert.ErrorIs(t, err, ErrInvalidCIDR)
	})
}
