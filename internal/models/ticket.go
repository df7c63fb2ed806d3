package models

import "time"

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// TicketRequest is the inbound ticket submission payload.
type TicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	StudioID    string   `json:"studioId,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	MemberID    string   `json:"memberId,omitempty"`
}

// Ticket is a persisted support ticket, carrying the routing decision that
// was produced at submission time.
type Ticket struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Subcategory string       `json:"subcategory"`
	StudioID    string       `json:"studioId"`
	MemberID    string       `json:"memberId"`
	Status      TicketStatus `json:"status"`
	Priority    Priority     `json:"priority"`

	Routing RoutingDecision `json:"routing"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
