package agent

import (
	"io"
	"net"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"go.uber.org/zap"

	"github.com/arianpg/mikaboshi/internal/agent/batch"
	"github.com/arianpg/mikaboshi/internal/agent/capture"
	"github.com/arianpg/mikaboshi/internal/agent/local"
	"github.com/arianpg/mikaboshi/internal/config"
	"github.com/arianpg/mikaboshi/internal/model"
)

type fakeRead struct {
	frame capture.Frame
	err   error
}

// fakeSource replays a queue of reads, then reports poll timeouts forever.
type fakeSource struct {
	mu    sync.Mutex
	queue []fakeRead
}

func (f *fakeSource) ReadFrame() (capture.Frame, error) {
	f.mu.Lock()
	if len(f.queue) == 0 {
		f.mu.Unlock()
		time.Sleep(time.Millisecond)
		return capture.Frame{}, capture.ErrTimeout
	}
	r := f.queue[0]
	f.queue = f.queue[1:]
	f.mu.Unlock()
	return r.frame, r.err
}

func (f *fakeSource) LinkType() layers.LinkType { return layers.LinkTypeEthernet }

func (f *fakeSource) Close() {}

func tcpFrame(t *testing.T, src, dst string, srcPort, dstPort uint16) []byte {
	t.Helper()
	srcIP := net.ParseIP(src)
	dstIP := net.ParseIP(dst)

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	eth := &layers.Ethernet{
		SrcMAC: net.HardwareAddr{0, 1, 2, 3, 4, 5},
		DstMAC: net.HardwareAddr{6, 7, 8, 9, 10, 11},
	}
	tcp := &layers.TCP{SrcPort: layers.TCPPort(srcPort), DstPort: layers.TCPPort(dstPort), SYN: true, Window: 1024}

	var err error
	if v4 := srcIP.To4(); v4 != nil {
		eth.EthernetType = layers.EthernetTypeIPv4
		ip := &layers.IPv4{Version: 4, TTL: 64, SrcIP: v4, DstIP: dstIP.To4(), Protocol: layers.IPProtocolTCP}
		tcp.SetNetworkLayerForChecksum(ip)
		err = gopacket.SerializeLayers(buf, opts, eth, ip, tcp)
	} else {
		eth.EthernetType = layers.EthernetTypeIPv6
		ip := &layers.IPv6{Version: 6, HopLimit: 64, SrcIP: srcIP, DstIP: dstIP, NextHeader: layers.IPProtocolTCP}
		tcp.SetNetworkLayerForChecksum(ip)
		err = gopacket.SerializeLayers(buf, opts, eth, ip, tcp)
	}
	if err != nil {
		t.Fatalf("Failed to serialize frame: %v", err)
	}
	return buf.Bytes()
}

func newTestAgent(t *testing.T, mutate func(*config.Agent)) *Agent {
	t.Helper()
	cfg := config.DefaultAgent()
	cfg.BatchSize = 100
	cfg.BatchInterval = "25ms"
	if mutate != nil {
		mutate(cfg)
	}
	a, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to build agent: %v", err)
	}
	return a
}

func TestLiveLoopKeepsLocalFlowsOnly(t *testing.T) {
	a := newTestAgent(t, nil)
	locals := local.Set{netip.MustParseAddr("192.168.1.5"): {}}

	src := &fakeSource{queue: []fakeRead{
		{frame: capture.Frame{Data: tcpFrame(t, "192.168.1.5", "8.8.8.8", 40000, 443), Length: 150}},
		{frame: capture.Frame{Data: tcpFrame(t, "1.1.1.1", "8.8.8.8", 53, 53), Length: 90}},
	}}

	done := make(chan struct{})
	b := batch.New(a.cfg.BatchSize, a.interval, done)

	finished := make(chan bool, 1)
	go func() { finished <- a.liveLoop(done, b, locals, src) }()

	var got []model.RawRecord
	select {
	case got = <-b.Out():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Expected an interval flush")
	}
	close(done)
	if !<-finished {
		t.Error("Expected the loop to report a clean stop")
	}

	if len(got) != 1 {
		t.Fatalf("Expected only the local flow to survive, got %d records", len(got))
	}
	rec := got[0]
	if rec.SrcIP != netip.MustParseAddr("192.168.1.5") || !rec.SrcLocal || rec.DstLocal {
		t.Errorf("Unexpected record: %+v", rec)
	}
	if rec.Size != 150 {
		t.Errorf("Size should come from capture metadata, got %d", rec.Size)
	}
}

func TestLiveLoopGatesIPv6(t *testing.T) {
	locals := local.Set{
		netip.MustParseAddr("::1"):       {},
		netip.MustParseAddr("127.0.0.1"): {},
	}
	reads := func() []fakeRead {
		return []fakeRead{
			{frame: capture.Frame{Data: tcpFrame(t, "2001:db8::9", "::1", 9000, 22), Length: 120}},
			{frame: capture.Frame{Data: tcpFrame(t, "127.0.0.1", "127.0.0.1", 3000, 3001), Length: 80}},
		}
	}

	// Gate closed: the IPv6 record is dropped.
	a := newTestAgent(t, nil)
	done := make(chan struct{})
	b := batch.New(a.cfg.BatchSize, a.interval, done)
	go a.liveLoop(done, b, locals, &fakeSource{queue: reads()})

	select {
	case got := <-b.Out():
		if len(got) != 1 || got[0].SrcIP != netip.MustParseAddr("127.0.0.1") {
			t.Errorf("Expected only the IPv4 record, got %+v", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Expected a flush")
	}
	close(done)

	// Gate open: both survive.
	a6 := newTestAgent(t, func(c *config.Agent) { c.IPv6 = true })
	done6 := make(chan struct{})
	b6 := batch.New(a6.cfg.BatchSize, a6.interval, done6)
	go a6.liveLoop(done6, b6, locals, &fakeSource{queue: reads()})

	select {
	case got := <-b6.Out():
		if len(got) != 2 {
			t.Errorf("Expected both records with ipv6 enabled, got %d", len(got))
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Expected a flush")
	}
	close(done6)
}

func TestLiveLoopFallsBackOnSourceEOF(t *testing.T) {
	a := newTestAgent(t, nil)
	done := make(chan struct{})
	defer close(done)
	b := batch.New(a.cfg.BatchSize, a.interval, done)

	src := &fakeSource{queue: []fakeRead{{err: io.EOF}}}
	if finished := a.liveLoop(done, b, local.Set{}, src); finished {
		t.Error("Expected the loop to hand over to mock traffic on EOF")
	}
}

func TestMockLoopProducesLocalTraffic(t *testing.T) {
	a := newTestAgent(t, func(c *config.Agent) { c.Mock = true })
	done := make(chan struct{})
	b := batch.New(a.cfg.BatchSize, a.interval, done)

	stopped := make(chan struct{})
	go func() {
		a.mockLoop(done, b)
		close(stopped)
	}()

	select {
	case got := <-b.Out():
		if len(got) == 0 {
			t.Fatal("Expected records in the mock flush")
		}
		for _, rec := range got {
			if rec.SrcLocal == rec.DstLocal {
				t.Errorf("Mock record should have exactly one local endpoint: %+v", rec)
			}
		}
	case <-time.After(time.Second):
		t.Fatal("Expected mock traffic to flush within a few intervals")
	}

	close(done)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Mock loop did not stop after done closed")
	}
}
