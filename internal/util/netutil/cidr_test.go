package netutil

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		name    string
		cidr    string
		wantErr string
	}{
		{"ipv4", "10.0.0.0/24", ""},
		{"ipv6", "2001:db8::/64", ""},
		{"host bits set", "10.0.0.5/24", "use 10.0.0.0/24"},
		{"garbage", "not-a-cidr", "invalid CIDR"},
		{"missing mask", "10.0.0.0", "invalid CIDR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrefix(tt.cidr)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestHost(t *testing.T) {
	prefix := netip.MustParsePrefix("10.0.0.0/24")
	tests := []struct {
		hostnum int
		want    string
		wantErr bool
	}{
		{0, "10.0.0.0", false},
		{1, "10.0.0.1", false},
		{-1, "10.0.0.255", false},
		{-2, "10.0.0.254", false},
		{256, "", true},
		{-257, "", true},
	}
	for _, tt := range tests {
		got, err := Host(prefix, tt.hostnum)
		if tt.wantErr {
			assert.Error(t, err, "hostnum %d", tt.hostnum)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String())
	}

	_, err := Host(netip.MustParsePrefix("2001:db8::/64"), 1)
	assert.ErrorContains(t, err, "only IPv4")
}

func TestCheckAddress(t *testing.T) {
	prefix := netip.MustParsePrefix("192.168.1.0/24")

	_, err := CheckAddress(prefix, "192.168.1.1")
	assert.NoError(t, err)

	_, err = CheckAddress(prefix, "192.168.2.1")
	assert.ErrorContains(t, err, "outside")

	_, err = CheckAddress(prefix, "192.168.1.255")
	assert.ErrorContains(t, err, "broadcast")

	_, err = CheckAddress(prefix, "192.168.1.0")
	assert.ErrorContains(t, err, "network")

	_, err = CheckAddress(netip.MustParsePrefix("2001:db8::/64"), "2001:db8::")
	assert.NoError(t, err, "IPv6 has no broadcast address")
}

func TestCheckSubnet(t *testing.T) {
	assert.NoError(t, CheckSubnet("10.1.0.0/16", "10.1.0.1", [][2]string{{"10.1.1.0", "10.1.1.200"}}))
	assert.NoError(t, CheckSubnet("10.1.0.0/16", "", nil))

	assert.ErrorContains(t, CheckSubnet("10.1.0.0/16", "10.2.0.1", nil), "gateway")
	assert.ErrorContains(t, CheckSubnet("10.1.0.0/16", "", [][2]string{{"10.1.1.200", "10.1.1.10"}}), "ends before it starts")
	assert.ErrorContains(t, CheckSubnet("10.1.0.0/16", "", [][2]string{{"10.1.1.10", "10.9.0.1"}}), "allocation pool")
	assert.ErrorContains(t, CheckSubnet("10.1.0.1/16", "", nil), "host bits")
}
