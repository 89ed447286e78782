package batch

import (
	"net/netip"
	"testing"
	"time"

	"github.com/arianpg/mikaboshi/internal/model"
)

func testRecord(src, dst string, size int) model.RawRecord {
	return model.RawRecord{
		FlowKey: model.FlowKey{
			SrcIP:    netip.MustParseAddr(src),
			DstIP:    netip.MustParseAddr(dst),
			SrcLocal: true,
			Proto:    model.ProtoTCP,
			SrcPort:  1234,
			DstPort:  80,
		},
		Size: size,
	}
}

func TestFlushOnSize(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	b := New(5, time.Hour, done)

	for i := 0; i < 5; i++ {
		if !b.Add(testRecord("127.0.0.1", "8.8.8.8", 100)) {
			t.Fatal("Add reported a dead consumer")
		}
	}

	select {
	case batch := <-b.Out():
		if len(batch) != 5 {
			t.Errorf("Expected a batch of 5, got %d", len(batch))
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Expected the size threshold to flush without waiting for the interval")
	}
}

func TestFlushOnInterval(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	b := New(1000, 30*time.Millisecond, done)

	for i := 0; i < 3; i++ {
		b.Add(testRecord("127.0.0.1", "8.8.8.8", 100))
	}

	// Nothing flushes before the interval passes.
	select {
	case batch := <-b.Out():
		t.Fatalf("Unexpected early flush of %d records", len(batch))
	case <-time.After(10 * time.Millisecond):
	}

	time.Sleep(25 * time.Millisecond)
	b.TickFlush()

	select {
	case batch := <-b.Out():
		if len(batch) != 3 {
			t.Errorf("Expected a partial batch of 3, got %d", len(batch))
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Expected the interval to flush the partial batch")
	}
}

func TestEmptyBufferNeverFlushes(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	b := New(10, 10*time.Millisecond, done)

	time.Sleep(30 * time.Millisecond)
	b.TickFlush()

	select {
	case batch := <-b.Out():
		t.Fatalf("Empty buffer produced a batch of %d", len(batch))
	case <-time.After(30 * time.Millisecond):
	}
}

func TestIdleBufferFlushesOnFirstTickAfterRecord(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	b := New(1000, 20*time.Millisecond, done)

	// Stay idle well past the interval, then deliver one record. The flush
	// clock only advances on flushes, so the next tick fires immediately.
	time.Sleep(50 * time.Millisecond)
	b.Add(testRecord("127.0.0.1", "8.8.8.8", 42))
	b.TickFlush()

	select {
	case batch := <-b.Out():
		if len(batch) != 1 {
			t.Errorf("Expected a batch of 1, got %d", len(batch))
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Expected an immediate flush after the idle period")
	}
}

func TestDoneAbortsBlockedHandoff(t *testing.T) {
	done := make(chan struct{})
	b := New(1, time.Hour, done)

	// Size 1 means every Add flushes; the first fills the channel.
	if !b.Add(testRecord("127.0.0.1", "8.8.8.8", 1)) {
		t.Fatal("First add should succeed")
	}

	result := make(chan bool, 1)
	go func() {
		result <- b.Add(testRecord("127.0.0.1", "8.8.8.8", 2))
	}()

	select {
	case <-result:
		t.Fatal("Second add should block while the channel is full")
	case <-time.After(20 * time.Millisecond):
	}

	close(done)

	select {
	case ok := <-result:
		if ok {
			t.Error("Expected the aborted hand-off to report failure")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Closing done should unblock the hand-off")
	}
}
