package cli

import (
	"log/slog"

	"github.com/thejokers69/Weather-MCP-Server/internal/adapter/nws"
	"github.com/thejokers69/Weather-MCP-Server/internal/observability"
	"github.com/thejokers69/Weather-MCP-Server/internal/service"
)

// WeatherFactory builds the weather service a command runs against.
type WeatherFactory func(logger *slog.Logger, metrics *observability.Metrics, opts ...service.Option) *service.Weather

// NewWeather wires the service to the public NWS API.
func NewWeather(logger *slog.Logger, metrics *observability.Metrics, opts ...service.Option) *service.Weather {
	client := nws.NewClient(nws.DefaultConfig(), metrics, logger)
	return service.New(client, logger, metrics, opts...)
}
