package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxmeet/internal/config"
	"github.com/teemow/inboxmeet/internal/logging"
	"github.com/teemow/inboxmeet/internal/server"
	"github.com/teemow/inboxmeet/internal/tools/calendar_tools"
	"github.com/teemow/inboxmeet/internal/tools/gmail_tools"
	"github.com/teemow/inboxmeet/internal/tools/google_tools"
	"github.com/teemow/inboxmeet/internal/tools/meeting_tools"
	"github.com/teemow/inboxmeet/internal/tools/signal_tools"
)

// Supported MCP transports.
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

func newServeCmd() *cobra.Command {
	var (
		transport        string
		httpAddr         string
		disableStreaming bool
		metricsEnabled   bool
		metricsAddr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server exposing the meeting tools.

Transports:
  stdio            Standard input/output (default), for local AI clients
  streamable-http  HTTP on --http-addr, MCP endpoint at /mcp

With --metrics (or instrumentation.enabled in the config) and the
streamable-http transport, Prometheus metrics and health probes are served
on --metrics-addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateTransport(transport); err != nil {
				return err
			}
			return runServe(serveOptions{
				transport:        transport,
				httpAddr:         httpAddr,
				disableStreaming: disableStreaming,
				metricsEnabled:   metricsEnabled,
				metricsAddr:      metricsAddr,
				metricsAddrSet:   cmd.Flags().Changed("metrics-addr"),
			})
		},
	}

	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&disableStreaming, "disable-streaming", false, "Answer streamable-http requests with plain JSON instead of SSE streams")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics", false, "Enable instrumentation and the metrics server")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address (overrides instrumentation.metrics_addr)")

	return cmd
}

type serveOptions struct {
	transport        string
	httpAddr         string
	disableStreaming bool
	metricsEnabled   bool
	metricsAddr      string
	metricsAddrSet   bool
}

func validateTransport(transport string) error {
	switch transport {
	case transportStdio, transportStreamableHTTP:
		return nil
	}
	return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", transport, transportStdio, transportStreamableHTTP)
}

func runServe(opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(shutdownCtx, func(cfg *config.Config) {
		if opts.metricsEnabled {
			cfg.Instrumentation.Enabled = true
		}
	})
	if err != nil {
		return err
	}
	logger := logging.WithOperation(rt.logger, "serve")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := rt.Close(ctx); err != nil {
			logger.Warn("error during shutdown", logging.Err(err))
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("inboxmeet", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := registerAllTools(mcpSrv, rt.sc); err != nil {
		return err
	}

	if opts.transport == transportStdio {
		return runStdioServer(mcpSrv)
	}

	health := server.NewHealthChecker(rt.sc)

	metricsAddr := rt.cfg.Instrumentation.MetricsAddr
	if opts.metricsAddrSet || metricsAddr == "" {
		metricsAddr = opts.metricsAddr
	}
	if rt.provider.Enabled() && rt.provider.ServesPrometheus() {
		metricsServer, err := server.NewMetricsServer(metricsAddr, rt.provider, health)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Error("metrics server stopped", logging.Err(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
		logger.Info("metrics server started", "addr", metricsServer.Addr())
	}

	return runStreamableHTTPServer(shutdownCtx, mcpSrv, health, opts, logger)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Meeting",
			register: func() error {
				return meeting_tools.RegisterMeetingTools(mcpSrv, sc)
			},
		},
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, sc)
			},
		},
		{
			name: "Gmail",
			register: func() error {
				return gmail_tools.RegisterGmailTools(mcpSrv, sc)
			},
		},
		{
			name: "Google",
			register: func() error {
				return google_tools.RegisterGoogleTools(mcpSrv, sc)
			},
		},
		{
			name: "Signal",
			register: func() error {
				return signal_tools.RegisterSignalTools(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}
	return nil
}

// newHTTPHandler mounts the MCP endpoint at /mcp next to the health probes.
func newHTTPHandler(mcpSrv *mcpserver.MCPServer, health *server.HealthChecker, disableStreaming bool) http.Handler {
	httpOpts := []mcpserver.StreamableHTTPOption{mcpserver.WithEndpointPath("/mcp")}
	if disableStreaming {
		httpOpts = append(httpOpts, mcpserver.WithDisableStreaming(true))
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv, httpOpts...))
	health.RegisterHealthEndpoints(mux)
	return mux
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, health *server.HealthChecker, opts serveOptions, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              opts.httpAddr,
		Handler:           newHTTPHandler(mcpSrv, health, opts.disableStreaming),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()
	logger.Info("MCP server listening", "addr", opts.httpAddr, "endpoint", "/mcp")

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping HTTP server")
	health.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during HTTP server shutdown: %w", err)
	}
	return nil
}
