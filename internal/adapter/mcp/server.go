// Package mcp exposes the weather lookups as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/thejokers69/Weather-MCP-Server/internal/observability"
)

// ServerName is the name announced during the MCP handshake.
const ServerName = "weather"

// Tool names and argument keys.
const (
	ToolGetAlerts   = "get-alerts"
	ToolGetForecast = "get-forecast"

	argState     = "state"
	argLatitude  = "latitude"
	argLongitude = "longitude"
)

// codeInvalidArguments prefixes results for calls whose arguments are missing
// or of the wrong type. It is a protocol-level failure outside the lookup
// error codes.
const codeInvalidArguments = "INVALID_ARGUMENTS"

const sseShutdownTimeout = 5 * time.Second

// WeatherService performs the lookups behind the tools.
type WeatherService interface {
	GetAlerts(ctx context.Context, state string) (string, error)
	GetForecast(ctx context.Context, lat, lon float64) (string, error)
}

// Server registers the weather tools on an MCP server and runs a transport.
type Server struct {
	mcp     *server.MCPServer
	svc     WeatherService
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewServer creates an MCP server with get-alerts and get-forecast registered.
func NewServer(svc WeatherService, version string, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		mcp: server.NewMCPServer(ServerName, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}

	s.mcp.AddTool(mcplib.NewTool(ToolGetAlerts,
		mcplib.WithDescription("Get weather alerts for a US state"),
		mcplib.WithString(argState,
			mcplib.Required(),
			mcplib.Description("Two-letter US state code (e.g. CA, NY)"),
			mcplib.MinLength(2),
			mcplib.MaxLength(2),
		),
	), s.handleGetAlerts)

	s.mcp.AddTool(mcplib.NewTool(ToolGetForecast,
		mcplib.WithDescription("Get weather forecast for a location"),
		mcplib.WithNumber(argLatitude,
			mcplib.Required(),
			mcplib.Description("Latitude of the location"),
			mcplib.Min(-90),
			mcplib.Max(90),
		),
		mcplib.WithNumber(argLongitude,
			mcplib.Required(),
			mcplib.Description("Longitude of the location"),
			mcplib.Min(-180),
			mcplib.Max(180),
		),
	), s.handleGetForecast)

	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves JSON-RPC over in/out until ctx is cancelled or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.Info("mcp server listening", "transport", "stdio")
	s.metrics.ServerRunning.Set(1)
	defer s.metrics.ServerRunning.Set(0)

	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sse := server.NewSSEServer(s.mcp)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mcp server listening", "transport", "sse", "addr", addr)
		errCh <- sse.Start(addr)
	}()
	s.metrics.ServerRunning.Set(1)
	defer s.metrics.ServerRunning.Set(0)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("sse transport: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), sseShutdownTimeout)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("sse shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleGetAlerts(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	state, err := req.RequireString(argState)
	if err != nil {
		return invalidArguments(err), nil
	}

	text, err := s.svc.GetAlerts(ctx, state)
	if err != nil {
		return errorResult(err), nil
	}
	return mcplib.NewToolResultText(text), nil
}

func (s *Server) handleGetForecast(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	lat, err := req.RequireFloat(argLatitude)
	if err != nil {
		return invalidArguments(err), nil
	}
	lon, err := req.RequireFloat(argLongitude)
	if err != nil {
		return invalidArguments(err), nil
	}

	text, err := s.svc.GetForecast(ctx, lat, lon)
	if err != nil {
		return errorResult(err), nil
	}
	return mcplib.NewToolResultText(text), nil
}

// errorResult renders a lookup failure as "Error: <CODE>: <message>".
func errorResult(err error) *mcplib.CallToolResult {
	return mcplib.NewToolResultError("Error: " + err.Error())
}

func invalidArguments(err error) *mcplib.CallToolResult {
	return mcplib.NewToolResultError(fmt.Sprintf("Error: %s: %v", codeInvalidArguments, err))
}
