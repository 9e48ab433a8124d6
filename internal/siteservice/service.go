// Package siteservice holds the business logic for the portfolio site: it
// serves the project list and validates and stores contact messages. Handlers
// and the MCP server both talk to storage only through this package.
package siteservice

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/maurobossio/portfolio/internal/apperr"
	"github.com/maurobossio/portfolio/internal/models"
	"github.com/maurobossio/portfolio/internal/storage"
)

type Service struct {
	store    storage.Provider
	notifier *Notifier

	now   func() time.Time
	newID func() string
}

func NewService(store storage.Provider) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// SetNotifier wires change notifications into the service. Must be called
// before the service handles requests.
func (s *Service) SetNotifier(n *Notifier) {
	s.notifier = n
}

// ListProjects returns the projects in stored order. The result is never nil
// so an empty store encodes as a JSON array.
func (s *Service) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.store.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// Messages returns the stored contact messages in arrival order.
func (s *Service) Messages(ctx context.Context) ([]models.Message, error) {
	messages, err := s.store.Messages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// ContactInput is a contact form submission before it becomes a stored
// message. All three fields are required.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (in ContactInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Message, validation.Required),
	)
}

// AddMessage validates the submission, assigns it an ID and a timestamp, and
// appends it to storage. Validation failures wrap apperr.ErrInvalid.
func (s *Service) AddMessage(ctx context.Context, in ContactInput) (*models.Message, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalid, err)
	}

	msg := models.Message{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	if s.notifier != nil {
		s.notifier.Publish(Event{Kind: EventMessage})
	}
	return &msg, nil
}
