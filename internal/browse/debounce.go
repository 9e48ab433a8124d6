package browse

import (
	"sync/atomic"
	"time"
)

// Debouncer delays search commits until typing pauses, so a burst of
// keystrokes produces a single re-filter carrying the last value.
//
// Concurrency model: a single internal loop goroutine owns the pending value
// and the timer, so no mutexes are required. Each Input restarts the delay
// window (last write wins); exactly one commit fires per quiet window.
type Debouncer struct {
	delay  time.Duration
	commit func(string)

	inputCh  chan string
	cancelCh chan chan struct{}

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// DefaultDelay is the quiet window after the last keystroke before a search
// commits.
const DefaultDelay = 120 * time.Millisecond

// NewDebouncer starts a debouncer that invokes commit from its internal
// goroutine once input has been quiet for delay.
func NewDebouncer(delay time.Duration, commit func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer{
		delay:    delay,
		commit:   commit,
		inputCh:  make(chan string),
		cancelCh: make(chan chan struct{}),
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Debouncer) run() {
	defer close(d.stopped)

	var pending string
	var timer *time.Timer
	var fire <-chan time.Time

	arm := func() {
		if timer == nil {
			timer = time.NewTimer(d.delay)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d.delay)
	}
	disarm := func() {
		if timer != nil && !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}

	for {
		select {
		case <-d.stopCh:
			disarm()
			return

		case q := <-d.inputCh:
			pending = q
			arm()

		case done := <-d.cancelCh:
			disarm()
			pending = ""
			close(done)

		case <-fire:
			d.commit(pending)
		}
	}
}

// Input registers the current input value and restarts the delay window.
func (d *Debouncer) Input(query string) {
	select {
	case d.inputCh <- query:
	case <-d.stopped:
	}
}

// Cancel drops any pending commit without firing it. It blocks until the
// cancellation has been applied, so a caller may safely act on the cleared
// state as soon as it returns.
func (d *Debouncer) Cancel() {
	done := make(chan struct{})
	select {
	case d.cancelCh <- done:
		<-done
	case <-d.stopped:
	}
}

// Stop terminates the loop; no further commits fire.
func (d *Debouncer) Stop() {
	if d.closed.CompareAndSwap(false, true) {
		close(d.stopCh)
	}
	<-d.stopped
}
