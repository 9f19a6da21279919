package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thejokers69/Weather-MCP-Server/internal/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "weather-mcp",
	Short: "Weather alerts and forecasts from the National Weather Service over MCP",
	Long: "weather-mcp serves the get-alerts and get-forecast MCP tools backed by " +
		"api.weather.gov, and runs the same lookups from the command line.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging for one-shot lookups")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("weather-mcp version %s\n", version))

	rootCmd.AddCommand(cli.NewServeCmd(cli.NewWeather))
	rootCmd.AddCommand(cli.NewAlertsCmd(cli.NewWeather))
	rootCmd.AddCommand(cli.NewForecastCmd(cli.NewWeather))
}
