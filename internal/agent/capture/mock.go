package capture

import (
	"math/rand"
	"net/netip"
	"time"

	"github.com/arianpg/mikaboshi/internal/model"
)

// mockPeers are the remote endpoints fabricated traffic is exchanged with.
var mockPeers = []netip.Addr{
	netip.MustParseAddr("192.168.1.10"),
	netip.MustParseAddr("192.168.1.20"),
	netip.MustParseAddr("10.0.0.5"),
	netip.MustParseAddr("172.16.0.3"),
}

// Mock fabricates plausible local traffic for demos and for hosts where live
// capture cannot be opened. Records already carry locality flags, so the
// decode and filter stages are bypassed.
type Mock struct {
	rnd   *rand.Rand
	local netip.Addr
}

func NewMock() *Mock {
	return &Mock{
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		local: netip.MustParseAddr("127.0.0.1"),
	}
}

// Next returns one fabricated record: the loopback endpoint exchanging a
// TCP payload of 64..999 bytes with a random peer in a random direction.
func (m *Mock) Next() model.RawRecord {
	peer := mockPeers[m.rnd.Intn(len(mockPeers))]
	size := m.rnd.Intn(936) + 64
	outbound := m.rnd.Intn(2) == 0

	key := model.FlowKey{Proto: model.ProtoTCP}
	if outbound {
		key.SrcIP, key.SrcLocal = m.local, true
		key.DstIP = peer
	} else {
		key.SrcIP = peer
		key.DstIP, key.DstLocal = m.local, true
	}
	return model.RawRecord{FlowKey: key, Size: size}
}

// Delay returns the pause before the next record, 2..7 ms, keeping mock
// traffic well under the flush interval.
func (m *Mock) Delay() time.Duration {
	return time.Duration(m.rnd.Intn(6)+2) * time.Millisecond
}
