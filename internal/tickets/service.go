// Package tickets assembles and persists support tickets: it obtains the
// routing decision, merges priorities, writes to the ticket store, and
// dispatches the ticket.created notification.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client/notify"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/routing"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/storage"
)

// notifyTimeout bounds the detached webhook dispatch after creation.
const notifyTimeout = 15 * time.Second

// Service orchestrates the ticket intake flow.
type Service struct {
	engine   *routing.Engine
	store    storage.TicketStore
	notifier *notify.Client
	logger   *logrus.Logger
}

// NewService creates the ticket service.
func NewService(
	engine *routing.Engine,
	store storage.TicketStore,
	notifier *notify.Client,
	logger *logrus.Logger,
) *Service {
	return &Service{
		engine:   engine,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Analyze produces a routing decision for the submission without creating a
// ticket. It never fails: classifier unavailability yields the degraded
// fallback decision.
func (s *Service) Analyze(ctx context.Context, req models.TicketRequest) *models.RoutingDecision {
	return s.engine.Decide(ctx, req)
}

// Create validates the submission, obtains the routing decision, merges the
// user-selected priority, persists the ticket, and dispatches the creation
// notification asynchronously.
func (s *Service) Create(ctx context.Context, req models.TicketRequest) (*models.Ticket, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	decision := s.engine.Decide(ctx, req)
	priority := routing.MergePriority(req.Priority, decision.Priority)

	now := time.Now().UTC()
	ticket := &models.Ticket{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		StudioID:    req.StudioID,
		MemberID:    req.MemberID,
		Status:      models.TicketOpen,
		Priority:    priority,
		Routing:     *decision,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to persist ticket: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id":  ticket.ID,
		"department": ticket.Routing.Department,
		"priority":   ticket.Priority,
	}).Info("Ticket created")

	// Fire-and-forget: dispatch outlives the request context but is
	// bounded so a hung webhook cannot leak the goroutine forever.
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		s.notifier.TicketCreated(notifyCtx, ticket)
	}()

	return ticket, nil
}

// Get returns a ticket by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Ticket, error) {
	return s.store.GetTicket(ctx, id)
}

// List returns recent tickets.
func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Ticket, error) {
	return s.store.ListTickets(ctx, limit, offset)
}

// validate checks the required submission fields.
func validate(req models.TicketRequest) error {
	if req.Title == "" {
		return errors.New("title is required")
	}
	if req.Description == "" {
		return errors.New("description is required")
	}
	return nil
}
