package fakeapi

import (
	"fmt"
	"net/netip"
	"strings"
)

// maxExpand caps how many addresses a single range may produce.
const maxExpand = 4096

// ExpandRange turns a single address, a CIDR block or a "start-end" pair
// into a list of addresses. CIDR blocks exclude the network and broadcast
// addresses unless the block is too small to have any other hosts.
func ExpandRange(text string) ([]string, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return nil, fmt.Errorf("empty range")
	}

	if strings.Contains(cleaned, "-") {
		parts := strings.SplitN(cleaned, "-", 2)
		start, err := netip.ParseAddr(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid start address: %w", err)
		}
		end, err := netip.ParseAddr(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid end address: %w", err)
		}
		if start.Is4() != end.Is4() || end.Less(start) {
			return nil, fmt.Errorf("Invalid IP range ordering")
		}
		var out []string
		for a := start; ; a = a.Next() {
			out = append(out, a.String())
			if len(out) > maxExpand {
				return nil, fmt.Errorf("range expands to more than %d addresses", maxExpand)
			}
			if a == end {
				break
			}
		}
		return out, nil
	}

	if strings.Contains(cleaned, "/") {
		prefix, err := netip.ParsePrefix(cleaned)
		if err != nil {
			return nil, fmt.Errorf("invalid network: %w", err)
		}
		prefix = prefix.Masked()

		var all []string
		for a := prefix.Addr(); prefix.Contains(a); a = a.Next() {
			all = append(all, a.String())
			if len(all) > maxExpand+2 {
				return nil, fmt.Errorf("range expands to more than %d addresses", maxExpand)
			}
			if !a.Next().IsValid() {
				break
			}
		}
		if prefix.Addr().Is4() && prefix.Bits() <= 30 && len(all) > 2 {
			return all[1 : len(all)-1], nil
		}
		return all, nil
	}

	addr, err := netip.ParseAddr(cleaned)
	if err != nil {
		return nil, fmt.Errorf("'%s' does not appear to be an IPv4 or IPv6 address", cleaned)
	}
	return []string{addr.String()}, nil
}
