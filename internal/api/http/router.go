package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/spec-kit/zendesk-mcp/internal/api/http/handlers"
	"github.com/spec-kit/zendesk-mcp/internal/api/tools"
	"github.com/spec-kit/zendesk-mcp/internal/auth"
	"github.com/spec-kit/zendesk-mcp/internal/observability"
	apperrors "github.com/spec-kit/zendesk-mcp/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	AuthMiddleware *auth.AuthMiddleware
	SSE            nethttp.Handler
	Streamable     nethttp.Handler
}

// NewApp builds the public fiber app with middlewares and routes.
func NewApp(name string, logger *zap.Logger, metrics *observability.Metrics, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		CaseSensitive:         true,
		StrictRouting:         true,
	})
	RegisterMiddlewares(app, logger, metrics)
	RegisterRoutes(app, routes)
	return app
}

// RegisterRoutes wires HTTP routes. Only /health, matched exactly, is reachable without credentials;
// the gate runs before route matching for everything else, so unknown paths
// answer 401 before 404.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.All("/health", cfg.Health.Check)

	app.Use(cfg.AuthMiddleware.Handle)

	sse := streamingHandler(cfg.SSE)
	app.All(tools.SSEPath, sse)
	app.All(tools.SSEMessagePath, sse)
	app.All(tools.StreamablePath, streamingHandler(cfg.Streamable))

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("route", map[string]any{"path": c.Path()})
	})
}

// NewMetricsApp serves prometheus metrics on its own listener, outside the gate.
func NewMetricsApp(metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	return app
}
