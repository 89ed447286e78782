// Package bus is the lossy fanout between the ingest service and its
// subscribers. Publishing never blocks: a subscriber that cannot keep up
// loses its oldest queued records, and everyone else is unaffected.
package bus

import (
	"errors"
	"sync"
	"sync/atomic"

	v1 "github.com/arianpg/mikaboshi/api/gen/v1"
)

// ErrClosed reports an operation on a bus that has been shut down.
var ErrClosed = errors.New("bus: closed")

// DefaultCapacity is the per-subscriber backlog used when no capacity is
// configured.
const DefaultCapacity = 4096

// Bus broadcasts records to every active subscription.
type Bus struct {
	capacity  int
	published atomic.Uint64

	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// Subscription is one subscriber's private backlog.
type Subscription struct {
	bus     *Bus
	ch      chan *v1.CompactedRecord
	dropped atomic.Uint64
}

func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{
		capacity: capacity,
		subs:     make(map[*Subscription]struct{}),
	}
}

// Publish fans the record out to every subscription. A full subscription
// sheds its oldest queued record to make room; when another producer refills
// the gap first, the new record is counted dropped instead. Either way the
// caller never waits.
func (b *Bus) Publish(rec *v1.CompactedRecord) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	b.published.Add(1)

	for sub := range b.subs {
		select {
		case sub.ch <- rec:
			continue
		default:
		}
		select {
		case <-sub.ch:
			sub.dropped.Add(1)
		default:
		}
		select {
		case sub.ch <- rec:
		default:
			sub.dropped.Add(1)
		}
	}
	return nil
}

// Subscribe registers a new subscription. It only sees records published
// after this call returns.
func (b *Bus) Subscribe() (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	sub := &Subscription{
		bus: b,
		ch:  make(chan *v1.CompactedRecord, b.capacity),
	}
	b.subs[sub] = struct{}{}
	return sub, nil
}

// Close detaches and closes every subscription. Further publishes and
// subscribes return ErrClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Published is the total number of records accepted by the bus.
func (b *Bus) Published() uint64 { return b.published.Load() }

// Subscribers is the number of active subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// C is the receive side of the subscription. It is closed by Cancel and by
// a bus shutdown.
func (s *Subscription) C() <-chan *v1.CompactedRecord { return s.ch }

// Dropped counts records this subscriber lost by lagging.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Cancel detaches the subscription and closes its channel. Calling it more
// than once is harmless.
func (s *Subscription) Cancel() {
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; !ok {
		return
	}
	delete(b.subs, s)
	close(s.ch)
}
