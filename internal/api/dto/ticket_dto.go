package dto

import (
	"time"

	"github.com/spec-kit/zendesk-mcp/internal/domain"
)

// TicketSummary is the reduced ticket shape returned by agent searches.
type TicketSummary struct {
	ID         int64     `json:"id"`
	Status     string    `json:"status"`
	Subject    string    `json:"subject"`
	AssigneeID *int64    `json:"assignee_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CommentSummary is the reduced comment shape.
type CommentSummary struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	HTMLBody  string    `json:"html_body"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthResponse is the fixed /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// NewTicketSummaries projects tickets; the result is never nil.
func NewTicketSummaries(tickets []domain.Ticket) []TicketSummary {
	out := make([]TicketSummary, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TicketSummary{
			ID:         t.ID,
			Status:     t.Status,
			Subject:    t.Subject,
			AssigneeID: t.AssigneeID,
			CreatedAt:  t.CreatedAt,
			UpdatedAt:  t.UpdatedAt,
		})
	}
	return out
}

// NewCommentSummaries projects comments; the result is never nil.
func NewCommentSummaries(comments []domain.Comment) []CommentSummary {
	out := make([]CommentSummary, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentSummary(c))
	}
	return out
}
