package agent

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"

	v1 "github.com/arianpg/mikaboshi/api/gen/v1"
	"github.com/arianpg/mikaboshi/internal/config"
)

// captureSink is a canned collection endpoint that records everything one
// agent streams at it.
type captureSink struct {
	v1.UnimplementedAgentServiceServer
	mu      sync.Mutex
	batches int
	records []*v1.CompactedRecord
}

func (s *captureSink) StreamPackets(stream v1.AgentService_StreamPacketsServer) error {
	for {
		batch, err := stream.Recv()
		if err == io.EOF {
			return stream.SendAndClose(&v1.Empty{})
		}
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.batches++
		s.records = append(s.records, batch.GetRecords()...)
		s.mu.Unlock()
	}
}

func (s *captureSink) snapshot() (int, []*v1.CompactedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches, append([]*v1.CompactedRecord(nil), s.records...)
}

func TestUplinkStreamsMockTraffic(t *testing.T) {
	// 1. Stand up a collection endpoint on a loopback port.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	sink := &captureSink{}
	srv := grpc.NewServer()
	v1.RegisterAgentServiceServer(srv, sink)
	go srv.Serve(lis)
	defer srv.Stop()

	// 2. Run one uplink attempt against it in mock mode.
	a := newTestAgent(t, func(c *config.Agent) {
		c.Server = lis.Addr().String()
		c.Mock = true
		c.BatchSize = 5
		c.BatchInterval = "20ms"
	})
	client, closeConn, err := a.dial()
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer closeConn()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	finished := make(chan error, 1)
	go func() { finished <- a.attempt(ctx, client) }()

	// 3. Wait until a healthy number of records has crossed the wire.
	deadline := time.After(2 * time.Second)
	for {
		if _, records := sink.snapshot(); len(records) >= 10 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for mock records to reach the server")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// 4. Cancel the context and expect the attempt to wind down.
	cancel()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Uplink did not stop after cancel")
	}

	batches, records := sink.snapshot()
	if batches == 0 {
		t.Fatal("Expected at least one batch on the wire")
	}
	for i, rec := range records {
		if rec.GetSrcIsAgent() == rec.GetDstIsAgent() {
			t.Errorf("Record %d: expected exactly one agent-side endpoint, got src=%v dst=%v",
				i, rec.GetSrcIsAgent(), rec.GetDstIsAgent())
		}
		if len(rec.GetSrcIp()) != 4 || len(rec.GetDstIp()) != 4 {
			t.Errorf("Record %d: expected 4-byte addresses, got %d and %d",
				i, len(rec.GetSrcIp()), len(rec.GetDstIp()))
		}
		if rec.GetSize() <= 0 {
			t.Errorf("Record %d: expected a positive size, got %d", i, rec.GetSize())
		}
		if rec.GetProto() != v1.Protocol_PROTO_TCP {
			t.Errorf("Record %d: expected PROTO_TCP, got %v", i, rec.GetProto())
		}
	}
}
