// Package notify dispatches ticket events to a configured webhook. Dispatch
// is fire-and-forget: failures are logged but never block ticket creation.
package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

// TicketCreatedEvent is the webhook payload for a newly created ticket.
type TicketCreatedEvent struct {
	Event  string         `json:"event"`
	Ticket *models.Ticket `json:"ticket"`
}

// Client posts ticket events to the configured webhook endpoint. A client
// constructed without a URL is a no-op.
type Client struct {
	base    *client.BaseClient
	enabled bool
	logger  *logrus.Logger
}

// NewClient creates a webhook notification client. An empty webhookURL
// disables dispatch entirely.
func NewClient(webhookURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	c := &Client{
		enabled: webhookURL != "",
		logger:  logger,
	}
	if c.enabled {
		c.base = client.NewBaseClient(webhookURL, timeout, logger)
	}
	return c
}

// TicketCreated sends a ticket.created event. Errors are logged and
// swallowed; the caller's flow is never interrupted.
func (c *Client) TicketCreated(ctx context.Context, ticket *models.Ticket) {
	if !c.enabled {
		return
	}

	event := TicketCreatedEvent{Event: "ticket.created", Ticket: ticket}

	resp, err := c.base.Do(ctx, http.MethodPost, "", nil, event)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"ticket_id": ticket.ID,
			"error":     err,
		}).Warn("Failed to dispatch ticket.created webhook")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"ticket_id": ticket.ID,
			"status":    resp.StatusCode,
		}).Warn("Ticket.created webhook returned non-success status")
		return
	}

	c.logger.WithField("ticket_id", ticket.ID).Debug("Ticket.created webhook dispatched")
}
