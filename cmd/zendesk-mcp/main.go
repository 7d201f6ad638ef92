package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/zendesk-mcp/internal/api/http"
	"github.com/spec-kit/zendesk-mcp/internal/api/http/handlers"
	"github.com/spec-kit/zendesk-mcp/internal/api/tools"
	"github.com/spec-kit/zendesk-mcp/internal/auth"
	"github.com/spec-kit/zendesk-mcp/internal/config"
	"github.com/spec-kit/zendesk-mcp/internal/observability"
	"github.com/spec-kit/zendesk-mcp/internal/repository"
	"github.com/spec-kit/zendesk-mcp/internal/service"
	"github.com/spec-kit/zendesk-mcp/internal/zendesk"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "zendesk-mcp",
		Short:         "Zendesk helpdesk tools over MCP",
		Long:          "zendesk-mcp exposes Zendesk ticket lookup, comments, agent search and priority scoring as MCP tools.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStdioCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zendesk-mcp %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over HTTP (/sse, /mcp)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func newStdioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve the tools over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// stdout carries the protocol.
			cfg.Logger.Output = "stderr"
			return serveStdio(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()
	mcpServer, err := buildMCPServer(cfg, logger, metrics)
	if err != nil {
		return err
	}

	sseServer := tools.NewSSEServer(mcpServer)
	streamableServer := tools.NewStreamableServer(mcpServer)

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		AuthMiddleware: auth.NewAuthMiddleware(cfg.Auth, cfg.App.Name),
		SSE:            sseServer,
		Streamable:     streamableServer,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Bool("auth_required", cfg.Auth.Required))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	if cfg.Metrics.Addr != "" {
		metricsApp := httptransport.NewMetricsApp(metrics)
		go func() {
			if err := metricsApp.Listen(cfg.Metrics.Addr); err != nil {
				logger.Error("metrics listen", zap.Error(err))
			}
		}()
		defer func() { _ = metricsApp.Shutdown() }()
	}

	waitForShutdown(logger)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sseServer.Shutdown(ctx); err != nil {
		logger.Warn("sse shutdown", zap.Error(err))
	}
	if err := streamableServer.Shutdown(ctx); err != nil {
		logger.Warn("streamable shutdown", zap.Error(err))
	}
	return app.ShutdownWithTimeout(shutdownTimeout)
}

func serveStdio(cfg *config.Config) error {
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	mcpServer, err := buildMCPServer(cfg, logger, observability.NewMetrics())
	if err != nil {
		return err
	}
	logger.Info("serving on stdio")
	return server.ServeStdio(mcpServer)
}

// buildMCPServer wires the directory, backend client, services and tools.
func buildMCPServer(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*server.MCPServer, error) {
	agents, err := repository.LoadAgentRepository(cfg.Directory.File)
	if err != nil {
		return nil, err
	}
	logger.Info("agent directory loaded",
		zap.String("file", cfg.Directory.File),
		zap.Int("agents", len(agents.List())))

	client := zendesk.NewClient(zendesk.Config{
		BaseURL:   cfg.Zendesk.URL(),
		Username:  cfg.Zendesk.Username,
		APIToken:  cfg.Zendesk.APIToken,
		Timeout:   cfg.Zendesk.Timeout(),
		UserAgent: fmt.Sprintf("zendesk-mcp/%s", cfg.App.Version),
	})

	dispatcher := tools.NewDispatcher(tools.Dependencies{
		Agents:  agents,
		Tickets: service.NewTicketService(client, logger),
		Scorer:  service.NewPriorityScorer(time.Now),
		Logger:  logger,
		Metrics: metrics,
	})
	return tools.NewServer(cfg.App.Name, cfg.App.Version, dispatcher), nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
