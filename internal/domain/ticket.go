package domain

import (
	"encoding/json"
	"time"
)

// Statuses the unsolved-ticket search asks the backend for.
const (
	TicketStatusOpen                  = "open"
	TicketStatusNew                   = "new"
	TicketStatusPending               = "pending"
	TicketStatusFeatureRequestPending = "Feature Request Review Pending"
	TicketStatusEngConfirmedBug       = "ENG Confirmed Bug"
)

// TagSLAEnterprise marks tickets covered by an enterprise SLA.
const TagSLAEnterprise = "sla_enterprise"

// Ticket is a read-only snapshot of a backend ticket.
type Ticket struct {
	ID         int64     `json:"id"`
	Subject    string    `json:"subject"`
	Status     string    `json:"status"`
	Tags       []string  `json:"tags"`
	AssigneeID *int64    `json:"assignee_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Raw is the ticket object exactly as the backend returned it.
	Raw json.RawMessage `json:"-"`
}

// HasTag reports whether the ticket carries tag.
func (t *Ticket) HasTag(tag string) bool {
	for _, candidate := range t.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}
