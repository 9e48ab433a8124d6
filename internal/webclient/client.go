// Package webclient is the site front end's data layer: it fetches the
// project list and submits the contact form against the JSON API. Errors are
// classified so the UI can choose wording, and stale fetch responses are
// discarded so a reload burst cannot paint old data over new.
package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/maurobossio/portfolio/internal/models"
)

var (
	// ErrNetwork marks transport failures (no response from the server).
	ErrNetwork = errors.New("network error")
	// ErrSuperseded marks a fetch whose response arrived after a newer
	// fetch had already started.
	ErrSuperseded = errors.New("response superseded")
)

// ValidationError carries the server's 4xx rejection reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

type Client struct {
	base string
	http *http.Client

	loadGen atomic.Uint64
}

// New creates a client for the API at base, e.g. "http://localhost:4000/api".
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchProjects retrieves the project list. When several fetches overlap,
// only the most recently started one may deliver; earlier ones return
// ErrSuperseded even if their response arrives last.
func (c *Client) FetchProjects(ctx context.Context) ([]models.Project, error) {
	gen := c.loadGen.Add(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/projects", nil)
	if err != nil {
		return nil, fmt.Errorf("webclient: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("webclient: fetch projects: status %d", resp.StatusCode)
	}
	var projects []models.Project
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, fmt.Errorf("webclient: decode projects: %w", err)
	}

	if c.loadGen.Load() != gen {
		return nil, ErrSuperseded
	}
	return projects, nil
}

// PostContact submits a contact form. A 4xx response becomes a
// *ValidationError carrying the server's message; transport failures wrap
// ErrNetwork.
func (c *Client) PostContact(ctx context.Context, form ContactForm) error {
	payload, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("webclient: encode form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/contact", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("webclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
			return &ValidationError{Reason: fmt.Sprintf("rejected with status %d", resp.StatusCode)}
		}
		return &ValidationError{Reason: body.Error}
	default:
		return fmt.Errorf("webclient: post contact: status %d", resp.StatusCode)
	}
}
