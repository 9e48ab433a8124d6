package browse

import (
	"sync/atomic"
	"time"

	"github.com/maurobossio/portfolio/internal/models"
)

// Controller owns the browse state (the project store, the active tag, and
// the committed search query) and turns events into View snapshots.
//
// Concurrency model mirrors a single-threaded UI loop: one goroutine owns
// all mutable state and processes events in arrival order. Tag clicks and
// search input arrive as messages rather than captured closures, so every
// handler is testable in isolation. Subscribers receive each view through a
// buffered channel; a slow subscriber drops frames instead of blocking the
// loop.
type Controller struct {
	deb *Debouncer

	setProjectsCh chan []models.Project
	selectTagCh   chan string
	commitCh      chan commitReq
	viewReqCh     chan chan View
	subscribeCh   chan chan View
	unsubscribeCh chan chan View

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

type commitReq struct {
	query string
	focus bool
	done  chan struct{} // non-nil when the caller waits for the render
}

// NewController starts the event loop. debounce is the search quiet window;
// zero selects DefaultDelay.
func NewController(debounce time.Duration) *Controller {
	c := &Controller{
		setProjectsCh: make(chan []models.Project),
		selectTagCh:   make(chan string),
		commitCh:      make(chan commitReq),
		viewReqCh:     make(chan chan View),
		subscribeCh:   make(chan chan View),
		unsubscribeCh: make(chan chan View),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	c.deb = NewDebouncer(debounce, func(q string) {
		c.submitCommit(commitReq{query: q})
	})
	go c.run()
	return c
}

func (c *Controller) run() {
	defer close(c.stopped)

	var (
		projects  []models.Project
		activeTag = AllTag
		query     string
		subs      = make(map[chan View]struct{})
	)

	render := func(focus bool) View {
		filtered := FilterProjects(projects, activeTag, query)
		cards, empty := RenderProjectGrid(filtered, activeTag, query)
		v := View{
			TagBar:      RenderTagBar(TagUniverse(projects), activeTag),
			Cards:       cards,
			Empty:       empty,
			FocusSearch: focus,
		}
		for ch := range subs {
			select {
			case ch <- v:
			default:
				// Subscriber buffer full; drop the frame.
			}
		}
		return v
	}

	for {
		select {
		case <-c.stopCh:
			for ch := range subs {
				close(ch)
			}
			return

		case p := <-c.setProjectsCh:
			projects = p
			render(false)

		case tag := <-c.selectTagCh:
			activeTag = tag
			render(false)

		case req := <-c.commitCh:
			query = req.query
			render(req.focus)
			if req.done != nil {
				close(req.done)
			}

		case resp := <-c.viewReqCh:
			// Snapshot without broadcasting.
			filtered := FilterProjects(projects, activeTag, query)
			cards, empty := RenderProjectGrid(filtered, activeTag, query)
			resp <- View{
				TagBar: RenderTagBar(TagUniverse(projects), activeTag),
				Cards:  cards,
				Empty:  empty,
			}

		case ch := <-c.subscribeCh:
			subs[ch] = struct{}{}

		case ch := <-c.unsubscribeCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
		}
	}
}

func (c *Controller) submitCommit(req commitReq) {
	select {
	case c.commitCh <- req:
		if req.done != nil {
			<-req.done
		}
	case <-c.stopped:
	}
}

// SetProjects replaces the project store (one network fetch populates it)
// and re-renders. Projects are treated as immutable after this call.
func (c *Controller) SetProjects(projects []models.Project) {
	select {
	case c.setProjectsCh <- projects:
	case <-c.stopped:
	}
}

// SelectTag sets the active tag filter and re-renders both the tag bar and
// the project view.
func (c *Controller) SelectTag(tag string) {
	select {
	case c.selectTagCh <- tag:
	case <-c.stopped:
	}
}

// Input feeds a keystroke's current value through the debouncer. The query
// commits, and the view re-renders once, after input has been quiet for the
// delay.
func (c *Controller) Input(query string) {
	c.deb.Input(query)
}

// ClearSearch bypasses the debounce: it cancels any pending commit, resets
// the query synchronously, and re-renders with the focus flag set. When it
// returns, the cleared view has been published.
func (c *Controller) ClearSearch() {
	c.deb.Cancel()
	c.submitCommit(commitReq{query: "", focus: true, done: make(chan struct{})})
}

// CurrentView returns a snapshot of the current state without broadcasting.
func (c *Controller) CurrentView() View {
	resp := make(chan View, 1)
	select {
	case c.viewReqCh <- resp:
		return <-resp
	case <-c.stopped:
		return View{}
	}
}

// Subscribe registers a view consumer. Every state change delivers one View;
// the channel is closed on Unsubscribe or Close.
func (c *Controller) Subscribe() chan View {
	ch := make(chan View, 16)
	if c.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case c.subscribeCh <- ch:
	case <-c.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a consumer and closes its channel.
func (c *Controller) Unsubscribe(ch chan View) {
	if c.closed.Load() {
		return
	}
	select {
	case c.unsubscribeCh <- ch:
	case <-c.stopped:
	}
}

// Close stops the debouncer and the event loop and closes all subscriber
// channels.
func (c *Controller) Close() {
	if c.closed.CompareAndSwap(false, true) {
		c.deb.Stop()
		close(c.stopCh)
	}
	<-c.stopped
}
