package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/thejokers69/Weather-MCP-Server/internal/observability"
	"github.com/thejokers69/Weather-MCP-Server/internal/service"
)

// NewAlertsCmd creates the "alerts" subcommand.
func NewAlertsCmd(newWeather WeatherFactory) *cobra.Command {
	return &cobra.Command{
		Use:     "alerts <STATE>",
		Short:   "Print active weather alerts for a US state",
		Example: "  weather-mcp alerts CA",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, newWeather, func(ctx context.Context, svc *service.Weather) (string, error) {
				return svc.GetAlerts(ctx, args[0])
			})
		},
	}
}

// NewForecastCmd creates the "forecast" subcommand.
func NewForecastCmd(newWeather WeatherFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "forecast <LAT> <LON>",
		Short: "Print the forecast for a coordinate",
		Long:  "Print the forecast for a coordinate. Put negative values after -- so they are not read as flags.",
		Example: "  weather-mcp forecast 39.7456 -- -97.0892\n" +
			"  weather-mcp forecast -- 40.7128 -74.0060",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return exitError(exitUsage, "latitude %q is not a number", args[0])
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return exitError(exitUsage, "longitude %q is not a number", args[1])
			}
			return runLookup(cmd, newWeather, func(ctx context.Context, svc *service.Weather) (string, error) {
				return svc.GetForecast(ctx, lat, lon)
			})
		},
	}
}

// runLookup performs one lookup and prints the same text the MCP tool would
// return. Lookup errors print as "Error: <CODE>: <message>" and exit 1.
func runLookup(cmd *cobra.Command, newWeather WeatherFactory, lookup func(context.Context, *service.Weather) (string, error)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := "error"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger := observability.NewLogger(cmd.ErrOrStderr(), level, "text")
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())

	text, err := lookup(ctx, newWeather(logger, metrics))
	if err != nil {
		return exitError(exitLookupFailed, "%s", err.Error())
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

