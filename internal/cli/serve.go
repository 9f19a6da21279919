package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thejokers69/Weather-MCP-Server/internal/adapter/httpadapter"
	kafkaadapter "github.com/thejokers69/Weather-MCP-Server/internal/adapter/kafka"
	mcpadapter "github.com/thejokers69/Weather-MCP-Server/internal/adapter/mcp"
	"github.com/thejokers69/Weather-MCP-Server/internal/config"
	"github.com/thejokers69/Weather-MCP-Server/internal/observability"
	"github.com/thejokers69/Weather-MCP-Server/internal/service"
)

const defaultVersion = "dev"

// NewServeCmd creates the "serve" subcommand.
func NewServeCmd(newWeather WeatherFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the weather MCP server",
		Long: "Run the weather MCP server on stdio or SSE, together with the health/metrics " +
			"listener (HTTP_ADDR) and the optional lookup-event publisher (KAFKA_BROKERS).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, newWeather)
		},
	}

	cmd.Flags().String("transport", config.TransportStdio, "MCP transport: stdio or sse (overrides MCP_TRANSPORT)")
	cmd.Flags().String("sse-addr", ":8081", "SSE listen address (overrides MCP_SSE_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, newWeather WeatherFactory) error {
	cfg, err := config.Load()
	if err != nil {
		return exitError(exitUsage, "load config: %v", err)
	}
	if cmd.Flags().Changed("transport") {
		cfg.MCPTransport, _ = cmd.Flags().GetString("transport")
	}
	if cmd.Flags().Changed("sse-addr") {
		cfg.MCPSSEAddr, _ = cmd.Flags().GetString("sse-addr")
	}
	if err := cfg.Validate(); err != nil {
		return exitError(exitUsage, "%v", err)
	}

	// stdout belongs to the stdio transport.
	logger := observability.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := observability.NewTracerProvider(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer provider shutdown error", "error", err)
		}
	}()

	var opts []service.Option
	if cfg.KafkaEnabled {
		pub := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger, metrics)
		defer func() {
			if err := pub.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		opts = append(opts, service.WithEventRecorder(pub))
		logger.Info("lookup events enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("lookup events disabled")
	}

	svc := newWeather(logger, metrics, opts...)

	version := cmd.Root().Version
	if version == "" {
		version = defaultVersion
	}
	mcpSrv := mcpadapter.NewServer(svc, version, logger, metrics)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.HTTPAddr != "" {
		httpSrv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)
		g.Go(func() error { return httpSrv.Run(gctx, cfg.ShutdownTimeout) })
	}
	g.Go(func() error {
		// The transport ending (stdin closed, listener failed) stops everything else.
		defer stop()
		svc.MarkStarted()
		if cfg.MCPTransport == config.TransportSSE {
			return mcpSrv.ServeSSE(gctx, cfg.MCPSSEAddr)
		}
		return mcpSrv.ServeStdio(gctx, cmd.InOrStdin(), cmd.OutOrStdout())
	})

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}
