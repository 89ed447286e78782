package agent

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	v1 "github.com/arianpg/mikaboshi/api/gen/v1"
	"github.com/arianpg/mikaboshi/internal/agent/batch"
	"github.com/arianpg/mikaboshi/internal/agent/local"
)

// dial creates the client connection once; gRPC re-establishes transport
// under it, while stream-level recovery stays with the supervisor.
func (a *Agent) dial() (v1.AgentServiceClient, func() error, error) {
	conn, err := grpc.NewClient(a.cfg.Server, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server %s: %w", a.cfg.Server, err)
	}
	return v1.NewAgentServiceClient(conn), conn.Close, nil
}

// attempt runs one uplink stream to completion: open the stream, stand up a
// fresh capture pipeline, then forward compacted batches until the stream or
// the context breaks. Closing done stops the capture goroutine, including
// one parked on a full hand-off channel.
func (a *Agent) attempt(ctx context.Context, client v1.AgentServiceClient) error {
	stream, err := client.StreamPackets(ctx)
	if err != nil {
		return fmt.Errorf("failed to open uplink stream: %w", err)
	}

	done := make(chan struct{})
	defer close(done)

	b := batch.New(a.cfg.BatchSize, a.interval, done)
	locals := local.Discover()
	go a.captureLoop(done, b, locals)

	for {
		select {
		case <-ctx.Done():
			// Best effort: the server acknowledges the close unless the
			// connection is already gone.
			stream.CloseAndRecv()
			return nil
		case raw, ok := <-b.Out():
			if !ok {
				return fmt.Errorf("capture pipeline stopped")
			}
			if err := stream.Send(&v1.Batch{Records: batch.Compact(raw)}); err != nil {
				return fmt.Errorf("failed to send batch: %w", err)
			}
		}
	}
}
