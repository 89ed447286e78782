// Package server implements the collection side of the pipeline: agent
// streams come in over gRPC, every record crosses the fanout bus, and
// viewers take them back out over a streaming subscription.
package server

import (
	"context"
	"io"

	"go.uber.org/zap"
	"google.golang.org/grpc/peer"

	v1 "github.com/arianpg/mikaboshi/api/gen/v1"
	"github.com/arianpg/mikaboshi/internal/server/bus"
)

// subscriberQueueSize bounds the private queue between a bus subscription
// and its RPC sender.
const subscriberQueueSize = 100

// Service implements v1.AgentServiceServer on top of the fanout bus.
type Service struct {
	v1.UnimplementedAgentServiceServer
	bus *bus.Bus
	log *zap.Logger
}

func NewService(b *bus.Bus, log *zap.Logger) *Service {
	return &Service{bus: b, log: log}
}

// StreamPackets receives batches from one agent and republishes every
// record individually, so subscribers see a uniform record stream no matter
// how agents batched.
func (s *Service) StreamPackets(stream v1.AgentService_StreamPacketsServer) error {
	addr := peerAddr(stream)
	s.log.Info("agent connected", zap.String("peer", addr))

	var records uint64
	for {
		batch, err := stream.Recv()
		if err == io.EOF {
			s.log.Info("agent stream closed", zap.String("peer", addr), zap.Uint64("records", records))
			return stream.SendAndClose(&v1.Empty{})
		}
		if err != nil {
			s.log.Warn("agent stream broke", zap.String("peer", addr), zap.Uint64("records", records), zap.Error(err))
			return err
		}
		for _, rec := range batch.GetRecords() {
			if err := s.bus.Publish(rec); err != nil {
				return err
			}
			records++
		}
	}
}

// Subscribe attaches the caller to the bus for the lifetime of the RPC. A
// forwarder goroutine owns the bus subscription and feeds a private bounded
// queue; the handler drains the queue to the client. A viewer slower than
// the bus loses records on the bus side, never here.
func (s *Service) Subscribe(_ *v1.Empty, stream v1.AgentService_SubscribeServer) error {
	sub, err := s.bus.Subscribe()
	if err != nil {
		return err
	}
	addr := peerAddr(stream)
	s.log.Info("viewer subscribed", zap.String("peer", addr))

	ctx := stream.Context()
	queue := make(chan *v1.CompactedRecord, subscriberQueueSize)
	go func() {
		defer sub.Cancel()
		defer close(queue)
		for {
			select {
			case <-ctx.Done():
				return
			case rec, ok := <-sub.C():
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case queue <- rec:
				}
			}
		}
	}()

	for rec := range queue {
		if err := stream.Send(rec); err != nil {
			s.log.Info("viewer disconnected", zap.String("peer", addr),
				zap.Uint64("dropped", sub.Dropped()), zap.Error(err))
			return err
		}
	}
	// The bus shut down underneath the subscription.
	s.log.Info("viewer released", zap.String("peer", addr), zap.Uint64("dropped", sub.Dropped()))
	return nil
}

func peerAddr(stream interface{ Context() context.Context }) string {
	p, ok := peer.FromContext(stream.Context())
	if !ok {
		return "unknown"
	}
	return p.Addr.String()
}
