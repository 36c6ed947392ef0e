// Package netutil checks the addressing of subnet specs before they reach
// Neutron.
package netutil

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// ParsePrefix parses a CIDR and requires the canonical form, e.g.
// "10.0.0.0/24" and not "10.0.0.5/24". Neutron stores the canonical form,
// so any other spelling would never compare equal to what it reports.
func ParsePrefix(cidr string) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	if masked := prefix.Masked(); masked != prefix {
		return netip.Prefix{}, fmt.Errorf("CIDR %q has host bits set, use %s", cidr, masked)
	}
	return prefix, nil
}

// Host returns host number hostnum of an IPv4 prefix. Negative numbers
// count from the end, so -1 is the broadcast address.
func Host(prefix netip.Prefix, hostnum int) (netip.Addr, error) {
	if !prefix.Addr().Is4() {
		return netip.Addr{}, fmt.Errorf("only IPv4 prefixes are supported, got %s", prefix)
	}
	hostBits := 32 - prefix.Bits()
	maxHosts := uint64(1) << hostBits

	var offset uint64
	if hostnum < 0 {
		abs := uint64(-hostnum)
		if abs > maxHosts {
			return netip.Addr{}, fmt.Errorf("host number %d exceeds max hosts %d", hostnum, maxHosts)
		}
		offset = maxHosts - abs
	} else {
		offset = uint64(hostnum)
		if offset >= maxHosts {
			return netip.Addr{}, fmt.Errorf("host number %d exceeds max hosts %d", hostnum, maxHosts)
		}
	}

	base := prefix.Masked().Addr().As4()
	// #nosec G115
	n := binary.BigEndian.Uint32(base[:]) + uint32(offset)
	var out [4]byte
	binary.BigEndian.PutUint32(out[:], n)
	return netip.AddrFrom4(out), nil
}

// CheckAddress verifies that addr is a usable address of prefix. For IPv4
// the network and broadcast addresses are not usable.
func CheckAddress(prefix netip.Prefix, addr string) (netip.Addr, error) {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if !prefix.Contains(ip) {
		return netip.Addr{}, fmt.Errorf("address %s is outside %s", ip, prefix)
	}
	if ip.Is4() && prefix.Bits() < 31 {
		first, _ := Host(prefix, 0)
		last, _ := Host(prefix, -1)
		if ip == first || ip == last {
			return netip.Addr{}, fmt.Errorf("address %s is the network or broadcast address of %s", ip, prefix)
		}
	}
	return ip, nil
}

// CheckRange verifies an inclusive address range inside prefix.
func CheckRange(prefix netip.Prefix, start, end string) error {
	first, err := CheckAddress(prefix, start)
	if err != nil {
		return err
	}
	last, err := CheckAddress(prefix, end)
	if err != nil {
		return err
	}
	if last.Less(first) {
		return fmt.Errorf("range %s-%s ends before it starts", first, last)
	}
	return nil
}

// CheckSubnet validates a subnet CIDR with its optional gateway and
// allocation pools, given as start/end pairs.
func CheckSubnet(cidr, gateway string, pools [][2]string) error {
	prefix, err := ParsePrefix(cidr)
	if err != nil {
		return err
	}
	if gateway != "" {
		if _, err := CheckAddress(prefix, gateway); err != nil {
			return fmt.Errorf("gateway: %w", err)
		}
	}
	for _, p := range pools {
		if err := CheckRange(prefix, p[0], p[1]); err != nil {
			return fmt.Errorf("allocation pool: %w", err)
		}
	}
	return nil
}
