package security

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"
)

const mappedIPv4Prefix = "::ffff:"

// NetworkRule is a single allowlist entry: an exact address or a CIDR block.
type NetworkRule struct {
	raw    string
	addr   netip.Addr
	prefix int // -1 for an exact address
}

func (r NetworkRule) String() string {
	return r.raw
}

// ParseNetworkRule accepts "10.0.0.5", "10.0.0.0/24", "2001:db8::1" or "2001:db8::/48".
func ParseNetworkRule(s string) (NetworkRule, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return NetworkRule{}, fmt.Errorf("empty network rule")
	}

	if strings.Contains(raw, "/") {
		p, err := netip.ParsePrefix(raw)
		if err != nil {
			return NetworkRule{}, fmt.Errorf("invalid network rule %q: %w", raw, err)
		}
		addr := p.Addr()
		bits := p.Bits()
		if addr.Is4In6() && bits >= 96 {
			addr = addr.Unmap()
			bits -= 96
		}
		return NetworkRule{raw: raw, addr: addr, prefix: bits}, nil
	}

	addr, err := netip.ParseAddr(NormalizeAddress(raw))
	if err != nil {
		return NetworkRule{}, fmt.Errorf("invalid network rule %q: %w", raw, err)
	}
	return NetworkRule{raw: raw, addr: addr.Unmap(), prefix: -1}, nil
}

// NormalizeAddress trims the address and strips the IPv6-mapped IPv4 prefix.
func NormalizeAddress(address string) string {
	address = strings.TrimSpace(address)
	if len(address) > len(mappedIPv4Prefix) && strings.EqualFold(address[:len(mappedIPv4Prefix)], mappedIPv4Prefix) {
		return address[len(mappedIPv4Prefix):]
	}
	return address
}

// IPPolicy decides whether a source address may perform attendance actions.
// It is immutable after construction and safe for concurrent use.
type IPPolicy struct {
	rules         []NetworkRule
	allowLoopback bool
}

func NewIPPolicy(rules []string, allowLoopback bool) (*IPPolicy, error) {
	policy := &IPPolicy{allowLoopback: allowLoopback}
	for _, r := range rules {
		rule, err := ParseNetworkRule(r)
		if err != nil {
			return nil, err
		}
		policy.rules = append(policy.rules, rule)
	}
	return policy, nil
}

// AllowedNetworks returns the configured rules as written.
func (p *IPPolicy) AllowedNetworks() []string {
	networks := make([]string, len(p.rules))
	for i, r := range p.rules {
		networks[i] = r.raw
	}
	return networks
}

// IsAllowed reports whether remoteAddress matches the loopback exemption or any rule.
func (p *IPPolicy) IsAllowed(remoteAddress string) bool {
	address := NormalizeAddress(remoteAddress)

	if p.allowLoopback && (address == "127.0.0.1" || address == "::1") {
		return true
	}

	addr, err := netip.ParseAddr(address)
	parsed := err == nil
	if parsed {
		addr = addr.Unmap()
	}

	for _, rule := range p.rules {
		if rule.prefix < 0 {
			if address == rule.raw || (parsed && addr == rule.addr) {
				return true
			}
			continue
		}
		if parsed && rule.contains(addr) {
			return true
		}
	}
	return false
}

func (r NetworkRule) contains(addr netip.Addr) bool {
	if r.addr.Is4() {
		if !addr.Is4() {
			return false
		}
		mask := ipv4Mask(r.prefix)
		return ipv4ToUint32(addr)&mask == ipv4ToUint32(r.addr)&mask
	}
	if !addr.Is6() {
		return false
	}
	return netip.PrefixFrom(r.addr, r.prefix).Masked().Contains(addr)
}

func ipv4ToUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:])
}

// ipv4Mask keeps the top bits of a 32-bit address.
func ipv4Mask(bits int) uint32 {
	if bits <= 0 {
		return 0
	}
	if bits >= 32 {
		return ^uint32(0)
	}
	return ^uint32(0) << (32 - bits)
}
