package snowflake

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
)

var (
	ErrBadCIDR   = errors.New("snowflake: machine CIDR is invalid")
	ErrBadHostIP = errors.New("snowflake: host ip invalid")
	ErrCIDRRange = errors.New("snowflake: the CIDR mask allows too many or too few hosts for a machine id")
)

// MachineIDFromIP derives the machine id from the host bits of a private ip
// address. Operators give every instance the same CIDR and each instance
// derives a distinct id from its own address, so no two instances in the
// subnet can mint colliding ids. The CIDR must leave at least one and at most
// MachineIDBits host bits, which keeps the derived id inside [0, 1024).
func MachineIDFromIP(machineCIDR string, hostIP string) (uint64, error) {
	mask, err := parseMachineMask(machineCIDR)
	if err != nil {
		return 0, err
	}
	ip, err := parseHostIP(hostIP)
	if err != nil {
		return 0, err
	}

	masked := ip.Mask(mask)
	return uint64(binary.BigEndian.Uint16(masked[2:])), nil
}

// parseMachineMask parses the CIDR which configures how many host bits feed
// the machine id, and errors if the allocation exceeds what the id layout
// supports.
func parseMachineMask(machineCIDR string) (net.IPMask, error) {
	_, ipNet, err := net.ParseCIDR(machineCIDR)
	if err != nil {
		return nil, fmt.Errorf("%s - %v: %w", machineCIDR, err, ErrBadCIDR)
	}
	if len(ipNet.Mask) != net.IPv4len {
		return nil, fmt.Errorf("%s - not an ipv4 CIDR: %w", machineCIDR, ErrBadCIDR)
	}

	mask := invertIPMask(ipNet.Mask)
	hostBits := binary.BigEndian.Uint16(mask[2:])
	if mask[0] != 0 || mask[1] != 0 || hostBits > uint16(MaxMachineID) {
		return nil, fmt.Errorf("%s - allows too many hosts: %w", machineCIDR, ErrCIDRRange)
	}
	if hostBits == 0 {
		return nil, fmt.Errorf("%s - allows too few hosts: %w", machineCIDR, ErrCIDRRange)
	}
	return mask, nil
}

// invertIPMask inverts the mask in place and also returns it, turning the
// network mask into a host bit selector.
func invertIPMask(mask net.IPMask) net.IPMask {
	for i := range mask {
		mask[i] = ^mask[i]
	}
	return mask
}

// parseHostIP parses a host address and requires that it is an ipv4 address
// allocated from a known private range.
func parseHostIP(hostIP string) (net.IP, error) {
	ip := net.ParseIP(hostIP)
	if ip == nil {
		return nil, fmt.Errorf("%s - issue parsing ip: %w", hostIP, ErrBadHostIP)
	}
	if ip.To4() == nil {
		return nil, fmt.Errorf("%s - not an ipv4 address: %w", hostIP, ErrBadHostIP)
	}
	if !ip.IsPrivate() {
		return nil, fmt.Errorf("%s - is not a private ip: %w", hostIP, ErrBadHostIP)
	}
	return ip, nil
}
