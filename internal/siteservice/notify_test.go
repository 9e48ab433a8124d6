package siteservice

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestNotifier(t *testing.T) *Notifier {
	t.Helper()
	n := NewNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(n.Close)
	return n
}

func TestNotifierDeliversToAllSubscribers(t *testing.T) {
	n := newTestNotifier(t)
	a := n.Subscribe()
	b := n.Subscribe()

	n.Publish(Event{Kind: EventReload})

	for _, sub := range []chan Event{a, b} {
		select {
		case ev := <-sub:
			if ev.Kind != EventReload {
				t.Fatalf("got %q, want %q", ev.Kind, EventReload)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestNotifierUnsubscribeClosesChannel(t *testing.T) {
	n := newTestNotifier(t)
	sub := n.Subscribe()
	n.Unsubscribe(sub)

	select {
	case _, ok := <-sub:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}

	// Events after unsubscribe must not panic or block.
	n.Publish(Event{Kind: EventMessage})
}

func TestNotifierCloseClosesSubscribers(t *testing.T) {
	n := NewNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	sub := n.Subscribe()
	n.Close()

	select {
	case _, ok := <-sub:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Close")
	}

	// All operations after Close must be safe no-ops.
	n.Publish(Event{Kind: EventReload})
	n.Unsubscribe(sub)
	if ch := n.Subscribe(); ch != nil {
		if _, ok := <-ch; ok {
			t.Fatal("subscribe after close returned open channel")
		}
	}
	n.Close()
}

func TestNotifierSlowSubscriberDoesNotBlock(t *testing.T) {
	n := newTestNotifier(t)
	slow := n.Subscribe()
	_ = slow // never read

	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			n.Publish(Event{Kind: EventMessage})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on slow subscriber")
	}
}
