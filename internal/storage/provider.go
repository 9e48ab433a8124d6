// Package storage implements persistence for the portfolio document.
package storage

import (
	"context"

	"github.com/maurobossio/portfolio/internal/models"
)

// Provider is the interface for persisted-document operations. Projects are
// read-only through this interface (they are maintained out-of-band);
// messages are append-only.
type Provider interface {
	// Projects returns every project in stored order.
	Projects(ctx context.Context) ([]models.Project, error)
	// Messages returns every recorded contact message in stored order.
	Messages(ctx context.Context) ([]models.Message, error)
	// AppendMessage durably records a new contact message.
	AppendMessage(ctx context.Context, msg models.Message) error
	// Close releases resources held by the provider.
	Close() error
}
