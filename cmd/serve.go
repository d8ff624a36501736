package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/logging"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/server"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/tools/gmail_tools"
)

// Transport types.
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// serveOptions holds the serve command flags.
type serveOptions struct {
	transport        string
	httpAddr         string
	disableStreaming bool
	metricsEnabled   bool
	metricsAddr      string
}

func (o serveOptions) validate() error {
	switch o.transport {
	case transportStdio, transportStreamableHTTP:
		return nil
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", o.transport)
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var serve serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the Gmail tools
list_gmail_messages, get_gmail_message, search_gmail and export_gmail_to_csv.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp, with /healthz and
    /readyz endpoints and a separate Prometheus /metrics listener

The first tool call runs the browser authorization flow when no token is
stored yet. Run 'gmail-extractor auth' beforehand to avoid that.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := serve.validate(); err != nil {
				return err
			}
			return runServe(cmd, opts, serve)
		},
	}

	cmd.Flags().StringVar(&serve.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&serve.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&serve.disableStreaming, "disable-streaming", false, "Answer streamable-http requests with plain JSON instead of event streams")
	cmd.Flags().BoolVar(&serve.metricsEnabled, "metrics", true, "Serve Prometheus metrics (streamable-http transport only)")
	cmd.Flags().StringVar(&serve.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, serve serveOptions) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cmd, opts, true)
	if err != nil {
		return err
	}
	defer a.Close()

	serverContext, err := server.NewServerContext(ctx, a.service,
		server.WithMetrics(a.metrics()),
		server.WithAuditLogger(instrumentation.NewAuditLogger(a.logger, a.cfg.Instrumentation.AuditLogging)),
		server.WithLogger(a.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv, err := newMCPServer(serverContext)
	if err != nil {
		return err
	}

	switch serve.transport {
	case transportStreamableHTTP:
		return runStreamableHTTPServer(serverContext.Context(), a, mcpSrv, serverContext, serve)
	default:
		return runStdioServer(serverContext.Context(), cmd, a.logger, mcpSrv)
	}
}

// newMCPServer creates the MCP server with all tools registered.
func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("gmail-extractor", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	if err := gmail_tools.RegisterGmailTools(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register Gmail tools: %w", err)
	}
	return mcpSrv, nil
}

func runStdioServer(ctx context.Context, cmd *cobra.Command, logger *slog.Logger, mcpSrv *mcpserver.MCPServer) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	logger.Info("serving MCP over stdio")
	err := stdio.Listen(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, a *app, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, serve serveOptions) error {
	logger := logging.WithOperation(a.logger, "serve")

	healthChecker := server.NewHealthChecker(sc)
	healthChecker.AddCheck("client_secret", func() error { return a.oauthErr })
	healthChecker.AddCheck("token", func() error {
		if !a.store.Exists() {
			return errors.New("no stored token; run the auth command")
		}
		return nil
	})

	if serve.metricsEnabled && a.instr.PrometheusHandler() != nil {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    serve.metricsAddr,
			InstrumentationProvider: a.instr,
			Logger:                  a.logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", logging.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              serve.httpAddr,
		Handler:           server.NewHTTPHandler(mcpSrv, sc, healthChecker, serve.disableStreaming),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	logger.Info("serving MCP over streamable HTTP",
		slog.String("addr", serve.httpAddr),
		slog.String("endpoint", server.MCPEndpointPath),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server stopped")
	return nil
}
