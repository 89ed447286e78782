// Package agent runs the capture side of the pipeline: read frames, decode,
// keep flows that touch this host, batch, compact, stream to the server.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/arianpg/mikaboshi/internal/agent/batch"
	"github.com/arianpg/mikaboshi/internal/agent/capture"
	"github.com/arianpg/mikaboshi/internal/agent/decode"
	"github.com/arianpg/mikaboshi/internal/agent/local"
	"github.com/arianpg/mikaboshi/internal/config"
)

// reconnectDelay is the fixed pause between uplink attempts. Reconnects are
// rare and cheap enough that no escalating back-off is warranted.
const reconnectDelay = 5 * time.Second

// Agent owns one capture pipeline and its uplink connection.
type Agent struct {
	cfg      *config.Agent
	log      *zap.Logger
	interval time.Duration
}

func New(cfg *config.Agent, log *zap.Logger) (*Agent, error) {
	interval, err := time.ParseDuration(cfg.BatchInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid batch_interval: %w", err)
	}
	return &Agent{cfg: cfg, log: log, interval: interval}, nil
}

// Run connects to the server and keeps the pipeline alive until ctx ends.
// Every broken stream tears the whole pipeline down; the retry builds a
// fresh locality set, batcher and capture loop so stale state never leaks
// across connections.
func (a *Agent) Run(ctx context.Context) error {
	client, closeConn, err := a.dial()
	if err != nil {
		return err
	}
	defer closeConn()

	for {
		if err := a.attempt(ctx, client); err != nil {
			a.log.Warn("uplink stream ended, reconnecting",
				zap.Error(err), zap.Duration("retry_in", reconnectDelay))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

// captureLoop feeds the batcher until done closes. A source that cannot be
// opened, or that dies mid-stream, degrades to mock traffic for the rest of
// this connection attempt.
func (a *Agent) captureLoop(done <-chan struct{}, b *batch.Batcher, locals local.Set) {
	defer b.Close()

	if !a.cfg.Mock {
		src, err := a.openSource()
		if err != nil {
			a.log.Warn("capture unavailable, falling back to mock traffic", zap.Error(err))
		} else {
			if finished := a.liveLoop(done, b, locals, src); finished {
				return
			}
		}
	}
	a.mockLoop(done, b)
}

// openSource opens either the configured device or, when pcap_file is set,
// a recorded capture for replay.
func (a *Agent) openSource() (capture.Source, error) {
	if a.cfg.PcapFile != "" {
		return capture.OpenFile(a.cfg.PcapFile)
	}
	return capture.OpenLive(capture.Options{
		Device:      a.cfg.Device,
		Snapshot:    a.cfg.Snapshot,
		Promiscuous: a.cfg.Promiscuous,
		ControlPort: a.cfg.ControlPort(),
	})
}

// liveLoop returns true when the pipeline is shutting down and false when
// the source died and mock traffic should take over.
func (a *Agent) liveLoop(done <-chan struct{}, b *batch.Batcher, locals local.Set, src capture.Source) bool {
	defer src.Close()
	linkType := src.LinkType()

	source := a.cfg.Device
	if a.cfg.PcapFile != "" {
		source = a.cfg.PcapFile
	}
	a.log.Info("capture started",
		zap.String("source", source), zap.String("link_type", linkType.String()))

	for {
		select {
		case <-done:
			return true
		default:
		}
		if !b.TickFlush() {
			return true
		}

		frame, err := src.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrTimeout) {
				continue
			}
			if errors.Is(err, io.EOF) {
				a.log.Warn("capture source exhausted, falling back to mock traffic")
				return false
			}
			a.log.Warn("capture read failed", zap.Error(err))
			continue
		}

		rec, ok := decode.Decode(frame.Data, linkType)
		if !ok {
			continue
		}
		srcLocal, dstLocal, keep := locals.Classify(rec.SrcIP, rec.DstIP)
		if !keep {
			continue
		}
		if !a.cfg.IPv6 && (rec.SrcIP.Is6() || rec.DstIP.Is6()) {
			continue
		}
		rec.SrcLocal, rec.DstLocal = srcLocal, dstLocal
		rec.Size = frame.Length

		if !b.Add(rec) {
			return true
		}
	}
}

func (a *Agent) mockLoop(done <-chan struct{}, b *batch.Batcher) {
	gen := capture.NewMock()
	a.log.Info("mock traffic started")

	for {
		select {
		case <-done:
			return
		case <-time.After(gen.Delay()):
		}
		if !b.TickFlush() {
			return
		}
		if !b.Add(gen.Next()) {
			return
		}
	}
}
