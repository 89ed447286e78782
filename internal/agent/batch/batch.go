// Package batch accumulates decoded records and folds finished batches into
// per-flow summaries for the uplink.
package batch

import (
	"time"

	"github.com/arianpg/mikaboshi/internal/model"
)

// Batcher buffers records until a size or time threshold passes, then hands
// the batch downstream over a bounded channel. The hand-off send blocks when
// the uplink falls behind; that blocking is what throttles capture.
type Batcher struct {
	size     int
	interval time.Duration

	buf       []model.RawRecord
	lastFlush time.Time

	out  chan []model.RawRecord
	done <-chan struct{}
}

// New creates a batcher flushing at size records or interval, whichever
// comes first. A closed done channel aborts any blocked hand-off, so the
// producer is never stuck sending to a consumer that went away.
func New(size int, interval time.Duration, done <-chan struct{}) *Batcher {
	return &Batcher{
		size:      size,
		interval:  interval,
		buf:       make([]model.RawRecord, 0, size),
		lastFlush: time.Now(),
		out:       make(chan []model.RawRecord, size),
		done:      done,
	}
}

// Out is the consumer side of the hand-off.
func (b *Batcher) Out() <-chan []model.RawRecord { return b.out }

// Add buffers one record, flushing when the buffer reaches the size
// threshold. It returns false when the consumer is gone.
func (b *Batcher) Add(rec model.RawRecord) bool {
	b.buf = append(b.buf, rec)
	if len(b.buf) >= b.size {
		return b.flush()
	}
	return true
}

// TickFlush performs the interval check. It runs at the top of every capture
// iteration, including after poll timeouts, so a quiet link still flushes on
// time. An empty buffer never flushes and never advances the flush clock.
func (b *Batcher) TickFlush() bool {
	if len(b.buf) == 0 || time.Since(b.lastFlush) < b.interval {
		return true
	}
	return b.flush()
}

// Close releases the consumer after the producer has stopped adding.
func (b *Batcher) Close() {
	close(b.out)
}

func (b *Batcher) flush() bool {
	batch := b.buf
	b.buf = make([]model.RawRecord, 0, b.size)
	select {
	case b.out <- batch:
		b.lastFlush = time.Now()
		return true
	case <-b.done:
		return false
	}
}
