package eventbus

import (
	"sync"
	"testing"
)

func TestPublishFanOut(t *testing.T) {
	b := New[int]()
	a := b.Subscribe(4)
	c := b.Subscribe(4)
	b.Publish(7)
	if got := <-a; got != 7 {
		t.Fatalf("subscriber a got %d", got)
	}
	if got := <-c; got != 7 {
		t.Fatalf("subscriber c got %d", got)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	b := New[int]()
	b.Subscribe(1) // never read
	for i := 0; i < 100; i++ {
		b.Publish(i) // must not deadlock on the full buffer
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New[string]()
	ch := b.Subscribe(1)
	b.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("channel still open after unsubscribe")
	}
	b.Publish("late") // no subscribers left, must be a no-op
}

func TestCloseStopsDelivery(t *testing.T) {
	b := New[int]()
	ch := b.Subscribe(2)
	b.Close()
	if _, ok := <-ch; ok {
		t.Fatalf("channel still open after close")
	}
	b.Publish(1)
	b.Close() // idempotent
	if ch := b.Subscribe(1); func() bool { _, ok := <-ch; return ok }() {
		t.Fatalf("subscribe after close returned an open channel")
	}
}

func TestDrainDeliversAllBufferedEvents(t *testing.T) {
	b := New[int]()
	var mu sync.Mutex
	var got []int
	stop := b.Drain(16, func(e int) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	for i := 0; i < 10; i++ {
		b.Publish(i)
	}
	stop()
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 10 {
		t.Fatalf("expected 10 events, got %d", len(got))
	}
	for i, e := range got {
		if e != i {
			t.Fatalf("event %d out of order: %d", i, e)
		}
	}
}

func TestDrainStopWaitsForCallback(t *testing.T) {
	b := New[int]()
	seen := 0
	stop := b.Drain(1, func(int) { seen++ })
	b.Publish(1)
	stop()
	// stop must not return until the goroutine exited, so the write to
	// seen happens-before this read.
	if seen != 1 {
		t.Fatalf("callback ran %d times", seen)
	}
}
