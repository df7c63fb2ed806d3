// Package memory implements an in-memory ticket store used when PostgreSQL
// is not configured or unreachable. Data does not survive restarts.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/storage"
)

// Store is a mutex-guarded in-memory ticket store.
type Store struct {
	mu      sync.RWMutex
	tickets map[string]models.Ticket
	logger  *logrus.Logger
}

// NewStore creates an empty in-memory ticket store.
func NewStore(logger *logrus.Logger) *Store {
	return &Store{
		tickets: make(map[string]models.Ticket),
		logger:  logger,
	}
}

// CreateTicket stores a copy of the ticket.
func (s *Store) CreateTicket(_ context.Context, ticket *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets[ticket.ID] = *ticket
	s.logger.WithField("ticket_id", ticket.ID).Debug("Ticket stored in memory")
	return nil
}

// GetTicket returns the ticket with the given id.
func (s *Store) GetTicket(_ context.Context, id string) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, storage.ErrTicketNotFound
	}
	return &ticket, nil
}

// ListTickets returns tickets ordered by creation time descending.
func (s *Store) ListTickets(_ context.Context, limit, offset int) ([]models.Ticket, error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	all := make([]models.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		all = append(all, ticket)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []models.Ticket{}, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
