package server

import (
	"context"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	v1 "github.com/arianpg/mikaboshi/api/gen/v1"
	"github.com/arianpg/mikaboshi/internal/server/bus"
)

func startTestServer(t *testing.T, b *bus.Bus) (string, func()) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	srv := grpc.NewServer()
	v1.RegisterAgentServiceServer(srv, NewService(b, zap.NewNop()))
	go srv.Serve(lis)
	return lis.Addr().String(), srv.Stop
}

func dialTest(t *testing.T, addr string) v1.AgentServiceClient {
	t.Helper()
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Failed to connect to test server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return v1.NewAgentServiceClient(conn)
}

func wireRecord(size int32) *v1.CompactedRecord {
	return &v1.CompactedRecord{
		SrcIp:      []byte{192, 168, 1, 5},
		DstIp:      []byte{10, 0, 0, 5},
		SrcIsAgent: true,
		Size:       size,
		Proto:      v1.Protocol_PROTO_TCP,
	}
}

func waitForSubscribers(t *testing.T, b *bus.Bus, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for b.Subscribers() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d bus subscribers, got %d", want, b.Subscribers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStreamPacketsPublishesEachRecord(t *testing.T) {
	b := bus.New(64)
	defer b.Close()
	addr, stop := startTestServer(t, b)
	defer stop()
	client := dialTest(t, addr)

	// 1. Stream two batches of different sizes.
	stream, err := client.StreamPackets(context.Background())
	if err != nil {
		t.Fatalf("Failed to open stream: %v", err)
	}
	if err := stream.Send(&v1.Batch{Records: []*v1.CompactedRecord{wireRecord(100), wireRecord(200)}}); err != nil {
		t.Fatalf("Failed to send first batch: %v", err)
	}
	if err := stream.Send(&v1.Batch{Records: []*v1.CompactedRecord{wireRecord(300)}}); err != nil {
		t.Fatalf("Failed to send second batch: %v", err)
	}

	// 2. The ack arrives only after the server has consumed the stream.
	if _, err := stream.CloseAndRecv(); err != nil {
		t.Fatalf("Failed to close stream: %v", err)
	}
	if got := b.Published(); got != 3 {
		t.Errorf("Expected 3 published records, got %d", got)
	}
}

func TestStreamPacketsAcksEmptyStream(t *testing.T) {
	b := bus.New(64)
	defer b.Close()
	addr, stop := startTestServer(t, b)
	defer stop()
	client := dialTest(t, addr)

	stream, err := client.StreamPackets(context.Background())
	if err != nil {
		t.Fatalf("Failed to open stream: %v", err)
	}
	if _, err := stream.CloseAndRecv(); err != nil {
		t.Fatalf("Expected clean ack for empty stream, got %v", err)
	}
	if got := b.Published(); got != 0 {
		t.Errorf("Expected no published records, got %d", got)
	}
}

func TestSubscribeDeliversIngestedRecords(t *testing.T) {
	b := bus.New(64)
	defer b.Close()
	addr, stop := startTestServer(t, b)
	defer stop()
	client := dialTest(t, addr)

	// 1. Attach a viewer and wait until it reaches the bus, so the batch
	// below cannot race past the subscription.
	subCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	viewer, err := client.Subscribe(subCtx, &v1.Empty{})
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	waitForSubscribers(t, b, 1)

	// 2. Ingest one batch from a pretend agent.
	stream, err := client.StreamPackets(context.Background())
	if err != nil {
		t.Fatalf("Failed to open agent stream: %v", err)
	}
	sizes := []int32{100, 150, 200}
	batch := &v1.Batch{}
	for _, s := range sizes {
		batch.Records = append(batch.Records, wireRecord(s))
	}
	if err := stream.Send(batch); err != nil {
		t.Fatalf("Failed to send batch: %v", err)
	}
	if _, err := stream.CloseAndRecv(); err != nil {
		t.Fatalf("Failed to close agent stream: %v", err)
	}

	// 3. The viewer sees every record individually, in batch order.
	for i, want := range sizes {
		rec, err := viewer.Recv()
		if err != nil {
			t.Fatalf("Failed to receive record %d: %v", i, err)
		}
		if rec.GetSize() != want {
			t.Errorf("Record %d: expected size %d, got %d", i, want, rec.GetSize())
		}
		if !rec.GetSrcIsAgent() || rec.GetProto() != v1.Protocol_PROTO_TCP {
			t.Errorf("Record %d lost fields in transit: %+v", i, rec)
		}
	}

	// 4. Dropping the viewer releases its bus subscription.
	cancel()
	waitForSubscribers(t, b, 0)
}
