package siteservice

import (
	"log/slog"
	"sync/atomic"
)

// Event describes a change to the underlying store.
type Event struct {
	// Kind is "reload" when the data file changed on disk and "message"
	// when a contact submission was appended.
	Kind string
}

const (
	EventReload  = "reload"
	EventMessage = "message"
)

// Notifier fans store change events out to subscribers. A single goroutine
// owns the subscriber set; Subscribe, Unsubscribe, and Publish are messages
// to that goroutine, so no locking is needed around the map.
type Notifier struct {
	logger *slog.Logger

	subscribeCh   chan chan Event
	unsubscribeCh chan chan Event
	publishCh     chan Event

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

func NewNotifier(logger *slog.Logger) *Notifier {
	n := &Notifier{
		logger:        logger,
		subscribeCh:   make(chan chan Event),
		unsubscribeCh: make(chan chan Event),
		publishCh:     make(chan Event, 16),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *Notifier) run() {
	defer close(n.stopped)

	subs := make(map[chan Event]struct{})
	for {
		select {
		case <-n.stopCh:
			for ch := range subs {
				close(ch)
			}
			return

		case ch := <-n.subscribeCh:
			subs[ch] = struct{}{}

		case ch := <-n.unsubscribeCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case ev := <-n.publishCh:
			for ch := range subs {
				select {
				case ch <- ev:
				default:
					n.logger.Warn("notifier: subscriber buffer full, dropping event", "kind", ev.Kind)
				}
			}
		}
	}
}

// Subscribe registers a consumer. The channel is closed on Unsubscribe or
// Close.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 8)
	if n.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case n.subscribeCh <- ch:
	case <-n.stopped:
		close(ch)
	}
	return ch
}

func (n *Notifier) Unsubscribe(ch chan Event) {
	if n.closed.Load() {
		return
	}
	select {
	case n.unsubscribeCh <- ch:
	case <-n.stopped:
	}
}

// Publish delivers an event to all subscribers. Safe to call after Close.
func (n *Notifier) Publish(ev Event) {
	if n.closed.Load() {
		return
	}
	select {
	case n.publishCh <- ev:
	case <-n.stopped:
	}
}

func (n *Notifier) Close() {
	if n.closed.CompareAndSwap(false, true) {
		close(n.stopCh)
	}
	<-n.stopped
}
