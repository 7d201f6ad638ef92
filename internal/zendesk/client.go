// Package zendesk is a minimal Zendesk Support REST client covering ticket
// lookup, comment listing and search.
package zendesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/spec-kit/zendesk-mcp/internal/domain"
)

// Config represents client configuration.
type Config struct {
	BaseURL   string
	Username  string
	APIToken  string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to a single Zendesk account.
type Client struct {
	httpClient *resty.Client
	baseURL    string
}

// APIError is a non-2xx answer from Zendesk.
type APIError struct {
	StatusCode  int
	Method      string
	Path        string
	Title       string
	Description string
}

func (e *APIError) Error() string {
	msg := e.Title
	if e.Description != "" {
		if msg != "" {
			msg += ": "
		}
		msg += e.Description
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("zendesk %s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// errorEnvelope covers both shapes Zendesk uses: {"error":"X","description":"Y"}
// and {"error":{"title":"X","message":"Y"}}.
type errorEnvelope struct {
	Error       json.RawMessage `json:"error"`
	Description string          `json:"description"`
}

// NewClient creates a client. Requests are never retried.
func NewClient(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "zendesk-mcp/1.0"
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetBasicAuth(cfg.Username+"/token", cfg.APIToken).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: httpClient, baseURL: cfg.BaseURL}
}

// ShowTicket fetches a single ticket, keeping the raw object alongside the decoded fields.
func (c *Client) ShowTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	var envelope struct {
		Ticket json.RawMessage `json:"ticket"`
	}
	if err := c.get(ctx, "/api/v2/tickets/{id}.json", map[string]string{"id": id}, nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Ticket) == 0 || string(envelope.Ticket) == "null" {
		return nil, fmt.Errorf("zendesk: ticket %s missing from response", id)
	}
	return decodeTicket(envelope.Ticket)
}

// ListComments returns the first page of a ticket's comments in backend order.
func (c *Client) ListComments(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	var envelope struct {
		Comments []domain.Comment `json:"comments"`
	}
	if err := c.get(ctx, "/api/v2/tickets/{id}/comments.json", map[string]string{"id": ticketID}, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Comments == nil {
		return []domain.Comment{}, nil
	}
	return envelope.Comments, nil
}

// Search runs a search query and returns the ticket results of the first page.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Ticket, error) {
	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := c.get(ctx, "/api/v2/search.json", nil, map[string]string{"query": query}, &envelope); err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(envelope.Results))
	for _, raw := range envelope.Results {
		var kind struct {
			ResultType string `json:"result_type"`
		}
		if err := json.Unmarshal(raw, &kind); err != nil {
			return nil, fmt.Errorf("zendesk: decode search result: %w", err)
		}
		if kind.ResultType != "" && kind.ResultType != "ticket" {
			continue
		}
		ticket, err := decodeTicket(raw)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, nil
}

func (c *Client) get(ctx context.Context, path string, pathParams, query map[string]string, result any) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&errorEnvelope{})
	if pathParams != nil {
		req.SetPathParams(pathParams)
	}
	if query != nil {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("zendesk GET %s: %w", path, err)
	}
	if resp.IsError() {
		return newAPIError(resp)
	}
	return nil
}

func newAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Method:     resp.Request.Method,
	}
	if raw := resp.Request.RawRequest; raw != nil && raw.URL != nil {
		apiErr.Path = raw.URL.Path
	}
	envelope, ok := resp.Error().(*errorEnvelope)
	if !ok || envelope == nil {
		return apiErr
	}
	apiErr.Description = envelope.Description

	var title string
	if err := json.Unmarshal(envelope.Error, &title); err == nil {
		apiErr.Title = title
		return apiErr
	}
	var detailed struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detailed); err == nil {
		apiErr.Title = detailed.Title
		if apiErr.Description == "" {
			apiErr.Description = detailed.Message
		}
	}
	return apiErr
}

func decodeTicket(raw json.RawMessage) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return nil, fmt.Errorf("zendesk: decode ticket: %w", err)
	}
	ticket.Raw = append(json.RawMessage(nil), raw...)
	return &ticket, nil
}
