package sanitizers

import (
	"net"
	"strings"
)

// AnonymizeIP truncates a client address before it enters the pipeline:
// IPv4 keeps the first three octets and zeroes the last, IPv6 keeps the first
// four groups and zeroes the rest. Unrecognized input maps to "unknown".
func AnonymizeIP(ip string) string {
	if ip == "" {
		return "unknown"
	}

	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "unknown"
	}

	if v4 := parsed.To4(); v4 != nil {
		truncated := make(net.IP, len(v4))
		copy(truncated, v4)
		truncated[3] = 0
		return truncated.String()
	}

	v6 := parsed.To16()
	truncated := make(net.IP, len(v6))
	copy(truncated, v6)
	for i := 8; i < 16; i++ {
		truncated[i] = 0
	}
	return truncated.String()
}
