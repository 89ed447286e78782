// Package decode turns captured link-layer frames into flow records.
package decode

import (
	"net/netip"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/arianpg/mikaboshi/internal/model"
)

// sllHeaderLen is the fixed pseudo-header prepended to every frame of a
// Linux cooked capture, which is what libpcap delivers for device "any".
const sllHeaderLen = 16

// Decode extracts a flow record from one frame. The boolean is false when
// the frame carries no parsable IP packet; such frames are dropped without
// logging. Locality flags and the record size are filled by the caller.
func Decode(data []byte, lt layers.LinkType) (model.RawRecord, bool) {
	switch lt {
	case layers.LinkTypeLinuxSLL:
		if len(data) <= sllHeaderLen {
			return model.RawRecord{}, false
		}
		return decodeIP(data[sllHeaderLen:])
	default:
		// Ethernet, and a best-effort attempt for anything unexpected.
		return fromPacket(gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default))
	}
}

// decodeIP parses a bare IP packet, choosing the family by version nibble.
func decodeIP(data []byte) (model.RawRecord, bool) {
	switch data[0] >> 4 {
	case 4:
		return fromPacket(gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.Default))
	case 6:
		return fromPacket(gopacket.NewPacket(data, layers.LayerTypeIPv6, gopacket.Default))
	default:
		return model.RawRecord{}, false
	}
}

func fromPacket(packet gopacket.Packet) (model.RawRecord, bool) {
	var key model.FlowKey

	if l := packet.Layer(layers.LayerTypeIPv4); l != nil {
		ip := l.(*layers.IPv4)
		src, ok1 := netip.AddrFromSlice(ip.SrcIP)
		dst, ok2 := netip.AddrFromSlice(ip.DstIP)
		if !ok1 || !ok2 {
			return model.RawRecord{}, false
		}
		key.SrcIP, key.DstIP = src.Unmap(), dst.Unmap()
	} else if l := packet.Layer(layers.LayerTypeIPv6); l != nil {
		ip := l.(*layers.IPv6)
		src, ok1 := netip.AddrFromSlice(ip.SrcIP)
		dst, ok2 := netip.AddrFromSlice(ip.DstIP)
		if !ok1 || !ok2 {
			return model.RawRecord{}, false
		}
		key.SrcIP, key.DstIP = src.Unmap(), dst.Unmap()
	} else {
		return model.RawRecord{}, false
	}

	if l := packet.Layer(layers.LayerTypeTCP); l != nil {
		tcp := l.(*layers.TCP)
		key.Proto = model.ProtoTCP
		key.SrcPort = uint16(tcp.SrcPort)
		key.DstPort = uint16(tcp.DstPort)
	} else if l := packet.Layer(layers.LayerTypeUDP); l != nil {
		udp := l.(*layers.UDP)
		key.Proto = model.ProtoUDP
		key.SrcPort = uint16(udp.SrcPort)
		key.DstPort = uint16(udp.DstPort)
	} else {
		// ICMP and friends still count toward traffic, just without ports.
		key.Proto = model.ProtoOther
	}

	return model.RawRecord{FlowKey: key}, true
}
