package webclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maurobossio/portfolio/internal/api"
	"github.com/maurobossio/portfolio/internal/models"
	"github.com/maurobossio/portfolio/internal/siteservice"
	"github.com/maurobossio/portfolio/internal/storage"
)

func newTestBackend(t *testing.T, doc models.Document) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	if err := storage.WriteDocument(path, doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	store, err := storage.NewJSONFile(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	svc := siteservice.NewService(store)
	srv := httptest.NewServer(api.NewRouter(svc, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchProjects(t *testing.T) {
	srv := newTestBackend(t, models.Document{Projects: []models.Project{
		{Title: "Landing simple", Tags: []string{"HTML", "CSS"}, Year: "2025"},
	}})

	c := New(srv.URL)
	projects, err := c.FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("fetch projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Title != "Landing simple" {
		t.Fatalf("unexpected projects: %+v", projects)
	}
}

func TestFetchProjectsNetworkError(t *testing.T) {
	c := New("http://127.0.0.1:1") // nothing listens here

	_, err := c.FetchProjects(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestFetchProjectsSupersededByNewerFetch(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL)

	firstErr := make(chan error, 1)
	go func() {
		_, err := c.FetchProjects(context.Background())
		firstErr <- err
	}()

	// Let the first request reach the server, then start a newer fetch.
	time.Sleep(50 * time.Millisecond)
	secondErr := make(chan error, 1)
	go func() {
		_, err := c.FetchProjects(context.Background())
		secondErr <- err
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	if err := <-firstErr; err != ErrSuperseded {
		t.Fatalf("first fetch err = %v, want ErrSuperseded", err)
	}
	if err := <-secondErr; err != nil {
		t.Fatalf("second fetch err = %v, want nil", err)
	}
}

func TestPostContact(t *testing.T) {
	srv := newTestBackend(t, models.Document{})

	c := New(srv.URL)
	err := c.PostContact(context.Background(), ContactForm{
		Name: "Ada", Email: "ada@example.com", Message: "Hola",
	})
	if err != nil {
		t.Fatalf("post contact: %v", err)
	}
}

func TestPostContactValidationError(t *testing.T) {
	srv := newTestBackend(t, models.Document{})

	c := New(srv.URL)
	err := c.PostContact(context.Background(), ContactForm{Name: "Ada"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !isValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := "Faltan campos: name, email, message"
	if err.Error() != want {
		t.Fatalf("reason = %q, want %q", err.Error(), want)
	}
}

func newTestSubmitter(t *testing.T, srvURL string) (*Submitter, *atomic.Int32, *atomic.Int32) {
	t.Helper()
	var closes, clears atomic.Int32
	s := NewSubmitter(New(srvURL),
		func() { closes.Add(1) },
		func() { clears.Add(1) },
	)
	s.closeDelay = 20 * time.Millisecond
	return s, &closes, &clears
}

func waitForState(t *testing.T, s *Submitter, want SubmitState) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for s.State() != want {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for state %v, at %v", want, s.State())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSubmitSuccessLifecycle(t *testing.T) {
	srv := newTestBackend(t, models.Document{})
	s, closes, clears := newTestSubmitter(t, srv.URL)

	s.Submit(context.Background(), ContactForm{
		Name: "Ada", Email: "ada@example.com", Message: "Hola",
	})

	if got := s.State(); got != StateSuccess {
		t.Fatalf("state after submit = %v, want success", got)
	}
	if got := s.Status(); got != statusSent {
		t.Fatalf("status = %q, want %q", got, statusSent)
	}
	if clears.Load() != 1 {
		t.Fatalf("form cleared %d times, want 1", clears.Load())
	}

	// The success state closes itself after the delay.
	waitForState(t, s, StateIdle)
	if closes.Load() != 1 {
		t.Fatalf("dialog closed %d times, want 1", closes.Load())
	}
	if s.Status() != "" {
		t.Fatalf("status after close = %q, want empty", s.Status())
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	srv := newTestBackend(t, models.Document{})
	s, closes, clears := newTestSubmitter(t, srv.URL)

	s.Submit(context.Background(), ContactForm{Name: "Ada"})

	if got := s.State(); got != StateFailure {
		t.Fatalf("state = %v, want failure", got)
	}
	if got := s.Status(); got != "Faltan campos: name, email, message" {
		t.Fatalf("status = %q", got)
	}
	if clears.Load() != 0 {
		t.Fatal("form cleared on failure")
	}

	// Failure sticks; no auto-close.
	time.Sleep(100 * time.Millisecond)
	if s.State() != StateFailure || closes.Load() != 0 {
		t.Fatalf("failure state did not stick: %v, closes %d", s.State(), closes.Load())
	}
}

func TestSubmitNetworkFailure(t *testing.T) {
	s, _, _ := newTestSubmitter(t, "http://127.0.0.1:1")

	s.Submit(context.Background(), ContactForm{
		Name: "Ada", Email: "ada@example.com", Message: "Hola",
	})

	if got := s.State(); got != StateFailure {
		t.Fatalf("state = %v, want failure", got)
	}
	if got := s.Status(); got != statusNetworkErr {
		t.Fatalf("status = %q, want %q", got, statusNetworkErr)
	}
}

func TestSubmitServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	s, _, _ := newTestSubmitter(t, srv.URL)

	s.Submit(context.Background(), ContactForm{
		Name: "Ada", Email: "ada@example.com", Message: "Hola",
	})

	if got := s.Status(); got != statusServerError {
		t.Fatalf("status = %q, want %q", got, statusServerError)
	}
}

func TestResetAfterFailure(t *testing.T) {
	srv := newTestBackend(t, models.Document{})
	s, _, _ := newTestSubmitter(t, srv.URL)

	s.Submit(context.Background(), ContactForm{})
	if s.State() != StateFailure {
		t.Fatalf("state = %v, want failure", s.State())
	}

	s.Reset()
	if s.State() != StateIdle || s.Status() != "" {
		t.Fatalf("reset left state %v status %q", s.State(), s.Status())
	}
}
