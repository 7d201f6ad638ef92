package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/zendesk-mcp/internal/domain"
	apperrors "github.com/spec-kit/zendesk-mcp/pkg/util"
)

// TicketBackend is the subset of the Zendesk API the service relies on.
type TicketBackend interface {
	ShowTicket(ctx context.Context, id string) (*domain.Ticket, error)
	ListComments(ctx context.Context, ticketID string) ([]domain.Comment, error)
	Search(ctx context.Context, query string) ([]domain.Ticket, error)
}

// UnsolvedStatuses are the statuses treated as "still on the agent's plate".
var UnsolvedStatuses = []string{
	domain.TicketStatusOpen,
	domain.TicketStatusPending,
	domain.TicketStatusFeatureRequestPending,
	domain.TicketStatusEngConfirmedBug,
}

// TicketService wraps backend calls with argument checks and error mapping.
type TicketService struct {
	backend TicketBackend
	logger  *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(backend TicketBackend, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{backend: backend, logger: logger}
}

// FetchTicket returns a ticket snapshot.
func (s *TicketService) FetchTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("Ticket id is required", nil)
	}
	ticket, err := s.backend.ShowTicket(ctx, id)
	if err != nil {
		return nil, apperrors.NewGatewayError(err)
	}
	return ticket, nil
}

// FetchComments returns the ticket's comments in backend order.
func (s *TicketService) FetchComments(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, apperrors.NewValidationError("Ticket ID is required", nil)
	}
	comments, err := s.backend.ListComments(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewGatewayError(err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// SearchTickets runs a raw backend search query.
func (s *TicketService) SearchTickets(ctx context.Context, query string) ([]domain.Ticket, error) {
	tickets, err := s.backend.Search(ctx, query)
	if err != nil {
		return nil, apperrors.NewGatewayError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// SearchUnsolvedByAssignee lists the agent's tickets in any unsolved status.
func (s *TicketService) SearchUnsolvedByAssignee(ctx context.Context, agentID int64) ([]domain.Ticket, error) {
	query := UnsolvedByAssigneeQuery(agentID)
	tickets, err := s.SearchTickets(ctx, query)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[string]int, len(UnsolvedStatuses))
	for _, ticket := range tickets {
		breakdown[ticket.Status]++
	}
	s.logger.Debug("unsolved ticket search",
		zap.Int64("agent_id", agentID),
		zap.Int("total", len(tickets)),
		zap.Any("status_breakdown", breakdown))
	return tickets, nil
}

// UnsolvedByAssigneeQuery builds the search expression. Repeated status terms are ORed by the backend.
func UnsolvedByAssigneeQuery(agentID int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "assignee:%d", agentID)
	for _, status := range UnsolvedStatuses {
		b.WriteString(" status:")
		if strings.Contains(status, " ") {
			b.WriteString(`"` + status + `"`)
		} else {
			b.WriteString(status)
		}
	}
	return b.String()
}
