package wire

import (
	"net"

	"github.com/btcnode/node/nodeerr"
)

// IPv4MappedIPv6 maps an IPv4 address into its IPv4-mapped IPv6 form
// (::ffff:a.b.c.d), the wire representation required for addr fields
// (spec section 2.2/section 6). Non-IPv4 input is returned unchanged if already 16 bytes.
func IPv4MappedIPv6(ip net.IP) [16]byte {
	var out [16]byte
	v4 := ip.To4()
	if v4 != nil {
		out[10] = 0xff
		out[11] = 0xff
		copy(out[12:16], v4)
		return out
	}
	v6 := ip.To16()
	if v6 != nil {
		copy(out[:], v6)
	}
	return out
}

// IPFromWire converts a 16-byte wire address back to a net.IP, unwrapping the
// IPv4-mapped form when present.
func IPFromWire(b [16]byte) net.IP {
	ip := net.IP(b[:])
	if v4 := ip.To4(); v4 != nil {
		return v4
	}
	return ip
}

// ParseIPv4HostPort splits a "host:port" string into an IPv4 address and
// port, rejecting IPv6 peers (spec section 4.2: "IPv6 peers are skipped").
func ParseIPv4HostPort(hostport string) (net.IP, uint16, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return nil, 0, nodeerr.Wrap(nodeerr.KindInvalidFormat, "peer address", err)
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return nil, 0, nodeerr.New(nodeerr.KindInvalidFormat, "not an IPv4 address: "+host)
	}
	port, err := parsePort(portStr)
	if err != nil {
		return nil, 0, err
	}
	return ip.To4(), port, nil
}

func parsePort(s string) (uint16, error) {
	var v int
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, nodeerr.New(nodeerr.KindInvalidFormat, "invalid port: "+s)
		}
		v = v*10 + int(r-'0')
		if v > 0xffff {
			return 0, nodeerr.New(nodeerr.KindInvalidFormat, "port out of range: "+s)
		}
	}
	return uint16(v), nil
}
