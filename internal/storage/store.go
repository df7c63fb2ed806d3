// Package storage defines the ticket persistence interface implemented by
// the PostgreSQL store and the in-memory fallback.
package storage

import (
	"context"
	"errors"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

// ErrTicketNotFound is returned when no ticket exists for the requested id.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketStore persists support tickets. Implementations must be safe for
// concurrent use.
type TicketStore interface {
	// CreateTicket persists a new ticket.
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	// GetTicket returns the ticket with the given id, or ErrTicketNotFound.
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	// ListTickets returns up to limit tickets ordered by creation time
	// descending, skipping offset rows.
	ListTickets(ctx context.Context, limit, offset int) ([]models.Ticket, error)
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
	// Close releases store resources.
	Close() error
}
