package webclient

import (
	"context"
	"errors"
	"sync"
	"time"
)

// SubmitState is the contact form's lifecycle state.
type SubmitState int

const (
	StateIdle SubmitState = iota
	StateSubmitting
	StateSuccess
	StateFailure
)

func (s SubmitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Status lines shown next to the form. The site copy is Spanish.
const (
	statusSending     = "Enviando..."
	statusSent        = "¡Gracias! Tu mensaje fue enviado."
	statusServerError = "No se pudo enviar. Intentá de nuevo más tarde."
	statusNetworkErr  = "Error de red. Intentá de nuevo más tarde."
)

// DefaultCloseDelay is how long the success state stays visible before the
// form dialog closes and the state resets to idle.
const DefaultCloseDelay = 900 * time.Millisecond

// ContactForm is the payload the form submits.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submitter drives the contact form through idle, submitting, and terminal
// states. On success the form is cleared and, after a short delay, the
// dialog is closed and the state returns to idle. On failure the state
// sticks so the user can retry with the form contents intact.
type Submitter struct {
	client     *Client
	closeDelay time.Duration

	onClose   func() // invoked when the success delay elapses
	clearForm func() // invoked right after a successful submit

	mu     sync.Mutex
	state  SubmitState
	status string
}

func NewSubmitter(client *Client, onClose, clearForm func()) *Submitter {
	return &Submitter{
		client:     client,
		closeDelay: DefaultCloseDelay,
		onClose:    onClose,
		clearForm:  clearForm,
	}
}

// State returns the current lifecycle state.
func (s *Submitter) State() SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the current status line.
func (s *Submitter) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Submit posts the form and walks the state machine. A submit while another
// is in flight is ignored.
func (s *Submitter) Submit(ctx context.Context, form ContactForm) {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return
	}
	s.state = StateSubmitting
	s.status = statusSending
	s.mu.Unlock()

	err := s.client.PostContact(ctx, form)

	s.mu.Lock()
	var clear func()
	switch {
	case err == nil:
		s.state = StateSuccess
		s.status = statusSent
		clear = s.clearForm
		s.scheduleClose()
	case isValidation(err):
		s.state = StateFailure
		var verr *ValidationError
		errors.As(err, &verr)
		s.status = verr.Reason
	case errors.Is(err, ErrNetwork):
		s.state = StateFailure
		s.status = statusNetworkErr
	default:
		s.state = StateFailure
		s.status = statusServerError
	}
	s.mu.Unlock()

	// Callbacks run outside the lock.
	if clear != nil {
		clear()
	}
}

// scheduleClose arms the success timer. Called with the mutex held.
func (s *Submitter) scheduleClose() {
	time.AfterFunc(s.closeDelay, func() {
		s.mu.Lock()
		if s.state != StateSuccess {
			s.mu.Unlock()
			return
		}
		s.state = StateIdle
		s.status = ""
		onClose := s.onClose
		s.mu.Unlock()

		if onClose != nil {
			onClose()
		}
	})
}

// Reset returns the submitter to idle, e.g. when the dialog is dismissed
// manually after a failure.
func (s *Submitter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return
	}
	s.state = StateIdle
	s.status = ""
}

func isValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
