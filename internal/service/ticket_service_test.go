package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/zendesk-mcp/internal/domain"
	apperrors "github.com/spec-kit/zendesk-mcp/pkg/util"
)

type fakeBackend struct {
	tickets  map[string]*domain.Ticket
	comments map[string][]domain.Comment
	results  []domain.Ticket
	err      error

	calls   int
	queries []string
}

func (f *fakeBackend) ShowTicket(_ context.Context, id string) (*domain.Ticket, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tickets[id], nil
}

func (f *fakeBackend) ListComments(_ context.Context, ticketID string) ([]domain.Comment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.comments[ticketID], nil
}

func (f *fakeBackend) Search(_ context.Context, query string) ([]domain.Ticket, error) {
	f.calls++
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func TestUnsolvedByAssigneeQuery(t *testing.T) {
	assert.Equal(t,
		`assignee:12345 status:open status:pending status:"Feature Request Review Pending" status:"ENG Confirmed Bug"`,
		UnsolvedByAssigneeQuery(12345))
}

func TestFetchTicketRejectsEmptyID(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewTicketService(backend, nil)

	_, err := svc.FetchTicket(context.Background(), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	assert.Equal(t, "Ticket id is required", err.Error())
	assert.Zero(t, backend.calls)
}

func TestFetchCommentsRejectsEmptyID(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewTicketService(backend, nil)

	_, err := svc.FetchComments(context.Background(), " ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	assert.Zero(t, backend.calls)
}

func TestBackendFailuresBecomeGatewayErrors(t *testing.T) {
	backend := &fakeBackend{err: errors.New("zendesk GET /api/v2/tickets/1.json: 500 Internal Server Error")}
	svc := NewTicketService(backend, nil)
	ctx := context.Background()

	_, err := svc.FetchTicket(ctx, "1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGateway))
	assert.Equal(t, backend.err.Error(), err.Error())

	_, err = svc.FetchComments(ctx, "1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGateway))

	_, err = svc.SearchUnsolvedByAssignee(ctx, 9)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGateway))
}

func TestSearchUnsolvedByAssignee(t *testing.T) {
	backend := &fakeBackend{results: []domain.Ticket{{ID: 1, Status: "open"}, {ID: 2, Status: "pending"}}}
	svc := NewTicketService(backend, nil)

	tickets, err := svc.SearchUnsolvedByAssignee(context.Background(), 77)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
	require.Len(t, backend.queries, 1)
	assert.Contains(t, backend.queries[0], "assignee:77 ")
}

func TestNilBackendListsBecomeEmpty(t *testing.T) {
	svc := NewTicketService(&fakeBackend{}, nil)
	ctx := context.Background()

	tickets, err := svc.SearchTickets(ctx, "assignee:1")
	require.NoError(t, err)
	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)

	comments, err := svc.FetchComments(ctx, "1")
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}
