package browse

import (
	"testing"
	"time"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c := NewController(20 * time.Millisecond)
	t.Cleanup(c.Close)
	return c
}

func waitForView(t *testing.T, c *Controller, ok func(View) bool) View {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		v := c.CurrentView()
		if ok(v) {
			return v
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for view, last: %+v", v)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestControllerInitialView(t *testing.T) {
	c := newTestController(t)
	v := c.CurrentView()

	if len(v.TagBar) != 1 || v.TagBar[0].Label != AllTag || !v.TagBar[0].Active {
		t.Fatalf("initial tag bar = %+v, want active %s only", v.TagBar, AllTag)
	}
	if v.Empty == nil {
		t.Fatal("empty store should render an empty state")
	}
}

func TestControllerSetProjects(t *testing.T) {
	c := newTestController(t)
	c.SetProjects(sampleProjects())

	v := waitForView(t, c, func(v View) bool { return len(v.Cards) == 3 })
	if len(v.TagBar) != 4 {
		t.Fatalf("tag bar has %d buttons, want 4", len(v.TagBar))
	}
	if v.Empty != nil {
		t.Fatalf("unexpected empty state: %+v", v.Empty)
	}
}

func TestControllerSelectTag(t *testing.T) {
	c := newTestController(t)
	c.SetProjects(sampleProjects())
	c.SelectTag("JavaScript")

	v := waitForView(t, c, func(v View) bool {
		return len(v.Cards) == 1 && v.Cards[0].Title == "Mini calculadora"
	})
	for _, b := range v.TagBar {
		if b.Active != (b.Label == "JavaScript") {
			t.Fatalf("tag bar active flag wrong: %+v", v.TagBar)
		}
	}
}

func TestControllerSearchDebounced(t *testing.T) {
	c := newTestController(t)
	c.SetProjects(sampleProjects())

	sub := c.Subscribe()
	defer c.Unsubscribe(sub)
	drainViews(sub)

	for _, q := range []string{"d", "da", "das", "dash"} {
		c.Input(q)
	}

	// The burst must produce exactly one committed render.
	var commits int
	deadline := time.After(2 * time.Second)
	for commits == 0 {
		select {
		case v := <-sub:
			if len(v.Cards) == 1 && v.Cards[0].Title == "Dashboard básico" {
				commits++
			}
		case <-deadline:
			t.Fatal("timed out waiting for debounced commit")
		}
	}
	select {
	case v, ok := <-sub:
		if ok {
			t.Fatalf("unexpected extra view after commit: %+v", v)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestControllerClearSearch(t *testing.T) {
	c := newTestController(t)
	c.SetProjects(sampleProjects())

	c.Input("dash")
	waitForView(t, c, func(v View) bool { return len(v.Cards) == 1 })

	sub := c.Subscribe()
	defer c.Unsubscribe(sub)

	c.ClearSearch()

	// ClearSearch is synchronous: the cleared view is already published.
	select {
	case v := <-sub:
		if len(v.Cards) != 3 {
			t.Fatalf("cleared view has %d cards, want 3", len(v.Cards))
		}
		if !v.FocusSearch {
			t.Fatal("cleared view should request search focus")
		}
	default:
		t.Fatal("no view published by ClearSearch")
	}
}

func TestControllerClearDropsPendingInput(t *testing.T) {
	c := newTestController(t)
	c.SetProjects(sampleProjects())

	c.Input("dash")
	c.ClearSearch()

	time.Sleep(100 * time.Millisecond)
	v := c.CurrentView()
	if len(v.Cards) != 3 {
		t.Fatalf("pending input committed after clear: %d cards", len(v.Cards))
	}
}

func TestControllerEmptyState(t *testing.T) {
	c := newTestController(t)
	c.SetProjects(sampleProjects())
	c.SelectTag("HTML")
	c.Input("react")

	v := waitForView(t, c, func(v View) bool { return v.Empty != nil })
	if v.Empty.Query != "react" || v.Empty.Tag != "HTML" {
		t.Fatalf("empty state = %+v, want query react tag HTML", v.Empty)
	}
}

func TestControllerCloseClosesSubscribers(t *testing.T) {
	c := NewController(10 * time.Millisecond)
	sub := c.Subscribe()
	c.Close()

	select {
	case _, ok := <-sub:
		if ok {
			// Drain any buffered frame; the channel must close eventually.
			for range sub {
			}
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber channel not closed on Close")
	}

	// Calls after Close must not block.
	c.SetProjects(nil)
	c.SelectTag(AllTag)
	c.ClearSearch()
	if ch := c.Subscribe(); ch != nil {
		if _, ok := <-ch; ok {
			t.Fatal("subscribe after close returned open channel")
		}
	}
}

func drainViews(ch chan View) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
