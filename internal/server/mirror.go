package server

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	"github.com/arianpg/mikaboshi/internal/server/bus"
)

// MirrorSubject is the NATS subject the mirror republishes every ingested
// record to.
const MirrorSubject = "mikaboshi.traffic.v1"

// Mirror forwards every bus record to NATS so other systems can tap the
// stream without speaking our gRPC. It subscribes like any viewer, which
// means a slow broker loses records instead of stalling ingest.
type Mirror struct {
	nc      *nats.Conn
	sub     *bus.Subscription
	log     *zap.Logger
	stopped chan struct{}
}

// StartMirror connects to the NATS server at url and attaches a forwarder
// to the bus.
func StartMirror(url string, b *bus.Bus, log *zap.Logger) (*Mirror, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	sub, err := b.Subscribe()
	if err != nil {
		nc.Close()
		return nil, err
	}

	m := &Mirror{nc: nc, sub: sub, log: log, stopped: make(chan struct{})}
	go m.run()
	log.Info("NATS mirror started", zap.String("url", url), zap.String("subject", MirrorSubject))
	return m, nil
}

func (m *Mirror) run() {
	defer close(m.stopped)
	for rec := range m.sub.C() {
		data, err := proto.Marshal(rec)
		if err != nil {
			m.log.Warn("failed to marshal record for mirror", zap.Error(err))
			continue
		}
		if err := m.nc.Publish(MirrorSubject, data); err != nil {
			m.log.Warn("failed to publish record to NATS", zap.Error(err))
		}
	}
}

// Close detaches the mirror from the bus and drains the NATS connection so
// buffered publishes still go out.
func (m *Mirror) Close() {
	m.sub.Cancel()
	<-m.stopped
	if err := m.nc.Drain(); err != nil {
		m.log.Warn("failed to drain NATS connection", zap.Error(err))
	}
	m.log.Info("NATS mirror stopped", zap.Uint64("dropped", m.sub.Dropped()))
}
