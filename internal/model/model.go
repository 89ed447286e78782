package model

import (
	"fmt"
	"net/netip"

	v1 "github.com/arianpg/mikaboshi/api/gen/v1"
)

// Protocol identifies the transport protocol of a flow.
type Protocol uint8

const (
	ProtoUnknown Protocol = iota
	ProtoTCP
	ProtoUDP
	ProtoOther
)

func (p Protocol) String() string {
	switch p {
	case ProtoTCP:
		return "tcp"
	case ProtoUDP:
		return "udp"
	case ProtoOther:
		return "other"
	default:
		return "unknown"
	}
}

// Wire maps the protocol onto its protobuf enum value.
func (p Protocol) Wire() v1.Protocol {
	switch p {
	case ProtoTCP:
		return v1.Protocol_PROTO_TCP
	case ProtoUDP:
		return v1.Protocol_PROTO_UDP
	case ProtoOther:
		return v1.Protocol_PROTO_OTHER
	default:
		return v1.Protocol_PROTO_UNKNOWN
	}
}

// ProtocolFromWire is the inverse of Wire. Unrecognized enum values collapse
// to ProtoUnknown.
func ProtocolFromWire(p v1.Protocol) Protocol {
	switch p {
	case v1.Protocol_PROTO_TCP:
		return ProtoTCP
	case v1.Protocol_PROTO_UDP:
		return ProtoUDP
	case v1.Protocol_PROTO_OTHER:
		return ProtoOther
	default:
		return ProtoUnknown
	}
}

// FlowKey represents the identity of a unidirectional flow. netip.Addr is
// comparable, so the key can be used directly as a map key; the compactor
// relies on that.
type FlowKey struct {
	SrcIP    netip.Addr
	DstIP    netip.Addr
	SrcLocal bool
	DstLocal bool
	Proto    Protocol
	SrcPort  uint16
	DstPort  uint16
}

// RawRecord holds one decoded packet: a flow key plus the captured wire
// length of that single packet.
type RawRecord struct {
	FlowKey
	Size int
}

// Key returns the flow identity of the record, without the size.
func (r RawRecord) Key() FlowKey { return r.FlowKey }

// Wire converts the record to its protobuf form. Addresses are emitted at
// their natural width, 4 bytes for IPv4 and 16 for IPv6.
func (r RawRecord) Wire() *v1.CompactedRecord {
	return &v1.CompactedRecord{
		SrcIp:      addrBytes(r.SrcIP),
		DstIp:      addrBytes(r.DstIP),
		SrcIsAgent: r.SrcLocal,
		DstIsAgent: r.DstLocal,
		Size:       int32(r.Size),
		Proto:      r.Proto.Wire(),
		SrcPort:    int32(r.SrcPort),
		DstPort:    int32(r.DstPort),
	}
}

// FromWire rebuilds a record from its protobuf form. Address fields must be
// 4 or 16 bytes long.
func FromWire(rec *v1.CompactedRecord) (RawRecord, error) {
	src, ok := netip.AddrFromSlice(rec.GetSrcIp())
	if !ok {
		return RawRecord{}, fmt.Errorf("invalid src_ip length %d", len(rec.GetSrcIp()))
	}
	dst, ok := netip.AddrFromSlice(rec.GetDstIp())
	if !ok {
		return RawRecord{}, fmt.Errorf("invalid dst_ip length %d", len(rec.GetDstIp()))
	}
	return RawRecord{
		FlowKey: FlowKey{
			SrcIP:    src.Unmap(),
			DstIP:    dst.Unmap(),
			SrcLocal: rec.GetSrcIsAgent(),
			DstLocal: rec.GetDstIsAgent(),
			Proto:    ProtocolFromWire(rec.GetProto()),
			SrcPort:  uint16(rec.GetSrcPort()),
			DstPort:  uint16(rec.GetDstPort()),
		},
		Size: int(rec.GetSize()),
	}, nil
}

func addrBytes(a netip.Addr) []byte {
	a = a.Unmap()
	if a.Is4() {
		b := a.As4()
		return b[:]
	}
	b := a.As16()
	return b[:]
}
