// Package subnet turns configured subnet identifiers into concrete IPv4 host lists.
package subnet

import (
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// MaxHosts is the most addresses Hosts will ever list, the usable hosts of a /16
const MaxHosts = 1<<16 - 2

// Expand converts a wildcard identifier such as "10.53.2.*" into CIDR notation
// ("10.53.2.0/24"). Valid CIDR strings are returned unchanged and a bare IPv4
// address becomes a /32.
func Expand(identifier string) (string, error) {
	cidr := identifier

	switch {
	case strings.Contains(identifier, "*"):
		base, ok := strings.CutSuffix(identifier, ".*")
		if !ok || strings.Contains(base, "*") || strings.Count(base, ".") != 2 {
			return "", &InvalidSubnetError{Subnet: identifier, Err: errWildcard}
		}
		cidr = base + ".0/24"
	case !strings.Contains(identifier, "/"):
		addr, err := netip.ParseAddr(identifier)
		if err != nil {
			return "", &InvalidSubnetError{Subnet: identifier, Err: err}
		}
		if !addr.Is4() {
			return "", &InvalidSubnetError{Subnet: identifier, Err: errNotIPv4}
		}
		return identifier + "/32", nil
	}

	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return "", &InvalidSubnetError{Subnet: identifier, Err: err}
	}
	if !prefix.Addr().Is4() {
		return "", &InvalidSubnetError{Subnet: identifier, Err: errNotIPv4}
	}

	return cidr, nil
}

// Parse expands identifier and returns the network it names, with host bits cleared
func Parse(identifier string) (netip.Prefix, error) {
	cidr, err := Expand(identifier)
	if err != nil {
		return netip.Prefix{}, err
	}

	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, &InvalidSubnetError{Subnet: identifier, Err: err}
	}
	return prefix.Masked(), nil
}

// UsableHosts returns how many probe targets a block contains.
// /31 point-to-point links use both addresses; shorter prefixes lose the
// network and broadcast addresses.
func UsableHosts(prefix netip.Prefix) uint64 {
	bits := prefix.Bits()
	switch {
	case bits >= 32:
		return 1
	case bits == 31:
		return 2
	default:
		return (uint64(1) << (32 - bits)) - 2
	}
}

// Hosts lists the usable addresses of prefix in ascending order. Blocks with
// more than limit hosts are refused; a limit outside 1..MaxHosts means MaxHosts.
func Hosts(prefix netip.Prefix, limit int) ([]netip.Addr, error) {
	if limit <= 0 || limit > MaxHosts {
		limit = MaxHosts
	}
	prefix = prefix.Masked()
	if !prefix.IsValid() || !prefix.Addr().Is4() {
		return nil, &InvalidSubnetError{Subnet: prefix.String(), Err: errNotIPv4}
	}

	count := UsableHosts(prefix)
	if count > uint64(limit) {
		return nil, fmt.Errorf("%w: %s has %d hosts, limit is %d", ErrRangeTooLarge, prefix, count, limit)
	}

	r := netipx.RangeOfPrefix(prefix)
	from, to := r.From(), r.To()
	if prefix.Bits() < 31 {
		from, to = from.Next(), to.Prev()
	}

	hosts := make([]netip.Addr, 0, count)
	for addr := from; ; addr = addr.Next() {
		hosts = append(hosts, addr)
		if addr == to {
			break
		}
	}
	return hosts, nil
}
