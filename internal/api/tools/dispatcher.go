// Package tools exposes the helpdesk operations as MCP tools.
//
// Tool handlers never return a Go error: every failure is rendered as a
// normal text result starting with "Error: ", which is what existing callers
// expect.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/zendesk-mcp/internal/api/dto"
	"github.com/spec-kit/zendesk-mcp/internal/domain"
	"github.com/spec-kit/zendesk-mcp/internal/observability"
	"github.com/spec-kit/zendesk-mcp/internal/repository"
	"github.com/spec-kit/zendesk-mcp/internal/service"
	apperrors "github.com/spec-kit/zendesk-mcp/pkg/util"
)

// Tool names.
const (
	ToolGetTicketFields    = "get_ticket_fields_by_id"
	ToolGetUnsolvedByAgent = "get_unsolved_ticket_ids_by_agent_name"
	ToolGetTicketComments  = "get_ticket_comments"
	ToolGetTicketPriority  = "get_ticket_priority"
)

const (
	errorPrefix             = "Error: "
	ticketIDRequiredMessage = "Ticket ID is required"
)

// Dependencies bundles what the dispatcher needs.
type Dependencies struct {
	Agents  repository.AgentRepository
	Tickets *service.TicketService
	Scorer  *service.PriorityScorer
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// Dispatcher implements the tool handlers.
type Dispatcher struct {
	agents  repository.AgentRepository
	tickets *service.TicketService
	scorer  *service.PriorityScorer
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewDispatcher constructs the dispatcher.
func NewDispatcher(deps Dependencies) *Dispatcher {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	scorer := deps.Scorer
	if scorer == nil {
		scorer = service.NewPriorityScorer(nil)
	}
	return &Dispatcher{
		agents:  deps.Agents,
		tickets: deps.Tickets,
		scorer:  scorer,
		logger:  logger,
		metrics: deps.Metrics,
	}
}

// Register adds the four tools to s.
func (d *Dispatcher) Register(s *server.MCPServer) {
	s.AddTool(
		mcp.NewTool(ToolGetTicketFields,
			mcp.WithDescription("Returns an object of all ticket fields, including title, comments, and all custom fields for a ticket of a specified ID. If you're just trying to get comments, use get_ticket_comments instead"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Ticket ID")),
		),
		d.instrument(ToolGetTicketFields, d.GetTicketFields),
	)
	s.AddTool(
		mcp.NewTool(ToolGetUnsolvedByAgent,
			mcp.WithDescription("Returns a list of ticket ids given an agents first name or full name"),
			mcp.WithString("agent_name", mcp.Required(), mcp.Description("Agent first name, full name or numeric user id")),
		),
		d.instrument(ToolGetUnsolvedByAgent, d.GetUnsolvedTicketsByAgent),
	)
	s.AddTool(
		mcp.NewTool(ToolGetTicketComments,
			mcp.WithDescription("Get all comments for a specific ticket"),
			mcp.WithNumber("ticket_id", mcp.Required(), mcp.Description("Ticket ID")),
		),
		d.instrument(ToolGetTicketComments, d.GetTicketComments),
	)
	s.AddTool(
		mcp.NewTool(ToolGetTicketPriority,
			mcp.WithDescription("Calculate the priority of a ticket based on SLA tag, age, time since last response, and status. Returns a dictionary with priority score and breakdown of factors."),
			mcp.WithNumber("ticket_id", mcp.Required(), mcp.Description("Ticket ID")),
		),
		d.instrument(ToolGetTicketPriority, d.GetTicketPriority),
	)
}

// GetTicketFields returns the raw ticket object.
func (d *Dispatcher) GetTicketFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(req.GetArguments(), "id")
	ticket, err := d.tickets.FetchTicket(ctx, id)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if ticket == nil {
		return errorResult(apperrors.NewNotFound("ticket", nil).Error()), nil
	}
	return rawJSONResult(ticket.Raw), nil
}

// GetUnsolvedTicketsByAgent lists the agent's open, pending and escalated tickets.
func (d *Dispatcher) GetUnsolvedTicketsByAgent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentName := stringArg(req.GetArguments(), "agent_name")
	agentID, err := d.agents.Resolve(agentName)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	tickets, err := d.tickets.SearchUnsolvedByAssignee(ctx, agentID)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	d.logger.Debug("resolved agent",
		zap.String("agent_name", agentName),
		zap.Int64("agent_id", agentID),
		zap.Int("tickets", len(tickets)))
	return jsonResult(dto.NewTicketSummaries(tickets)), nil
}

// GetTicketComments lists a ticket's comments.
func (d *Dispatcher) GetTicketComments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticketID, err := ticketIDArg(req.GetArguments())
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to get comments for ticket %d: %s", ticketID, err)), nil
	}
	comments, err := d.tickets.FetchComments(ctx, strconv.FormatInt(ticketID, 10))
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to get comments for ticket %d: %s", ticketID, err)), nil
	}
	return jsonResult(dto.NewCommentSummaries(comments)), nil
}

// GetTicketPriority scores a ticket. Ticket and comments are fetched concurrently.
func (d *Dispatcher) GetTicketPriority(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticketID, err := ticketIDArg(req.GetArguments())
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to calculate priority for ticket %d: %s", ticketID, err)), nil
	}
	id := strconv.FormatInt(ticketID, 10)

	var (
		ticket   *domain.Ticket
		comments []domain.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ticket, err = d.tickets.FetchTicket(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = d.tickets.FetchComments(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return errorResult(fmt.Sprintf("Failed to calculate priority for ticket %d: %s", ticketID, err)), nil
	}
	if ticket == nil {
		return errorResult(fmt.Sprintf("Failed to calculate priority for ticket %d: %s", ticketID, apperrors.NewNotFound("ticket", nil))), nil
	}

	return jsonResult(d.scorer.Score(ticket, comments)), nil
}

// instrument logs and counts each call and turns panics into error text.
func (d *Dispatcher) instrument(name string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("tool panicked", zap.String("tool", name), zap.Any("panic", r))
				result, err = errorResult(apperrors.NewInternalError(fmt.Errorf("%v", r)).Error()), nil
			}

			outcome := observability.ToolOutcomeSuccess
			if isErrorResult(result) {
				outcome = observability.ToolOutcomeError
			}
			duration := time.Since(start)
			d.metrics.RecordToolCall(name, outcome, duration)
			d.logger.Info("tool call",
				zap.String("tool", name),
				zap.String("outcome", outcome),
				zap.Duration("duration", duration))
		}()
		return next(ctx, req)
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return mcp.NewToolResultText(errorPrefix + message)
}

func isErrorResult(result *mcp.CallToolResult) bool {
	if result == nil || len(result.Content) == 0 {
		return true
	}
	if text, ok := result.Content[0].(mcp.TextContent); ok {
		return strings.HasPrefix(text.Text, errorPrefix)
	}
	return false
}

// jsonResult renders v with two-space indentation and without HTML escaping.
func jsonResult(v any) *mcp.CallToolResult {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errorResult(err.Error())
	}
	return mcp.NewToolResultText(string(bytes.TrimRight(buf.Bytes(), "\n")))
}

func rawJSONResult(raw json.RawMessage) *mcp.CallToolResult {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return errorResult(err.Error())
	}
	return mcp.NewToolResultText(buf.String())
}

func stringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}

// ticketIDArg reads a positive integral ticket id. Numeric strings are accepted.
func ticketIDArg(args map[string]any) (int64, error) {
	var id int64
	switch v := args["ticket_id"].(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, apperrors.NewValidationError("Ticket ID must be an integer", nil)
		}
		id = int64(v)
	case int:
		id = int64(v)
	case int64:
		id = v
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, apperrors.NewValidationError("Ticket ID must be an integer", nil)
		}
		id = parsed
	case string:
		if v == "" {
			break
		}
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, apperrors.NewValidationError("Ticket ID must be an integer", nil)
		}
		id = parsed
	}
	if id <= 0 {
		return id, apperrors.NewValidationError(ticketIDRequiredMessage, nil)
	}
	return id, nil
}
