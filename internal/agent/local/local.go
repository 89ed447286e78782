// Package local decides which captured flows involve this host.
package local

import (
	"net/netip"

	"github.com/google/gopacket/pcap"
)

// Set holds every address considered local to the agent.
type Set map[netip.Addr]struct{}

// Discover builds the set from the capture library's device table plus both
// loopbacks. Enumeration failure degrades silently to loopbacks only; the
// pipeline keeps running with reduced reach.
func Discover() Set {
	s := Set{
		netip.MustParseAddr("127.0.0.1"): {},
		netip.MustParseAddr("::1"):       {},
	}
	ifaces, err := pcap.FindAllDevs()
	if err != nil {
		return s
	}
	for _, iface := range ifaces {
		for _, addr := range iface.Addresses {
			if ip, ok := netip.AddrFromSlice(addr.IP); ok {
				s[ip.Unmap()] = struct{}{}
			}
		}
	}
	return s
}

// Contains reports whether addr belongs to this host.
func (s Set) Contains(addr netip.Addr) bool {
	_, ok := s[addr]
	return ok
}

// Classify flags both endpoints of a flow and reports whether it touches
// this host at all. Flows where keep is false are dropped silently.
func (s Set) Classify(src, dst netip.Addr) (srcLocal, dstLocal, keep bool) {
	srcLocal = s.Contains(src)
	dstLocal = s.Contains(dst)
	return srcLocal, dstLocal, srcLocal || dstLocal
}
