package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thejokers69/Weather-MCP-Server/internal/domain"
	"github.com/thejokers69/Weather-MCP-Server/internal/observability"
)

type fakeWeather struct {
	alertsText string
	alertsErr  error
	gotState   string

	forecastText string
	forecastErr  error
	gotLat       float64
	gotLon       float64
}

func (f *fakeWeather) GetAlerts(_ context.Context, state string) (string, error) {
	f.gotState = state
	return f.alertsText, f.alertsErr
}

func (f *fakeWeather) GetForecast(_ context.Context, lat, lon float64) (string, error) {
	f.gotLat, f.gotLon = lat, lon
	return f.forecastText, f.forecastErr
}

func newTestServer(svc WeatherService) *Server {
	return NewServer(svc, "test", slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func callRequest(name string, args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestHandleGetAlerts_Success(t *testing.T) {
	svc := &fakeWeather{alertsText: "No active alerts for CA"}
	s := newTestServer(svc)

	res, err := s.handleGetAlerts(context.Background(), callRequest(ToolGetAlerts, map[string]any{"state": "ca"}))
	require.NoError(t, err)

	assert.False(t, res.IsError)
	assert.Equal(t, "No active alerts for CA", resultText(t, res))
	assert.Equal(t, "ca", svc.gotState)
}

func TestHandleGetAlerts_LookupError(t *testing.T) {
	s := newTestServer(&fakeWeather{alertsErr: domain.NewAPIRequestFailed(http.StatusServiceUnavailable, true)})

	res, err := s.handleGetAlerts(context.Background(), callRequest(ToolGetAlerts, map[string]any{"state": "CA"}))
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Equal(t, "Error: API_REQUEST_FAILED: upstream returned HTTP status 503", resultText(t, res))
}

func TestHandleGetAlerts_MissingArgument(t *testing.T) {
	svc := &fakeWeather{}
	s := newTestServer(svc)

	for name, args := range map[string]map[string]any{
		"missing":    {},
		"wrong type": {"state": 12},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := s.handleGetAlerts(context.Background(), callRequest(ToolGetAlerts, args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.True(t, strings.HasPrefix(resultText(t, res), "Error: INVALID_ARGUMENTS: "))
		})
	}
	assert.Empty(t, svc.gotState)
}

func TestHandleGetForecast_Success(t *testing.T) {
	svc := &fakeWeather{forecastText: "Forecast for 40.7128, -74.006:\n\n..."}
	s := newTestServer(svc)

	res, err := s.handleGetForecast(context.Background(), callRequest(ToolGetForecast, map[string]any{
		"latitude":  40.7128,
		"longitude": -74.006,
	}))
	require.NoError(t, err)

	assert.False(t, res.IsError)
	assert.Equal(t, svc.forecastText, resultText(t, res))
	assert.Equal(t, 40.7128, svc.gotLat)
	assert.Equal(t, -74.006, svc.gotLon)
}

func TestHandleGetForecast_LookupError(t *testing.T) {
	werr := domain.NewForecastURLMissing(domain.Coordinates{Lat: 10, Lon: -150})
	s := newTestServer(&fakeWeather{forecastErr: werr})

	res, err := s.handleGetForecast(context.Background(), callRequest(ToolGetForecast, map[string]any{
		"latitude":  10.0,
		"longitude": -150.0,
	}))
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Equal(t, "Error: FORECAST_URL_MISSING: no forecast URL for point 10.0000,-150.0000", resultText(t, res))
}

func TestHandleGetForecast_MissingLongitude(t *testing.T) {
	s := newTestServer(&fakeWeather{})

	res, err := s.handleGetForecast(context.Background(), callRequest(ToolGetForecast, map[string]any{"latitude": 1.0}))
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "INVALID_ARGUMENTS")
	assert.Contains(t, resultText(t, res), "longitude")
}

func handle(t *testing.T, s *Server, msg string) map[string]any {
	t.Helper()
	resp := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(msg))
	require.NotNil(t, resp)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestServer_ListsTools(t *testing.T) {
	s := newTestServer(&fakeWeather{})

	out := handle(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "unexpected response: %v", out)

	tools, ok := result["tools"].([]any)
	require.True(t, ok)

	names := make([]string, 0, len(tools))
	required := map[string][]any{}
	for _, raw := range tools {
		tool := raw.(map[string]any)
		name := tool["name"].(string)
		names = append(names, name)
		schema := tool["inputSchema"].(map[string]any)
		required[name], _ = schema["required"].([]any)
	}
	assert.ElementsMatch(t, []string{ToolGetAlerts, ToolGetForecast}, names)
	assert.ElementsMatch(t, []any{"state"}, required[ToolGetAlerts])
	assert.ElementsMatch(t, []any{"latitude", "longitude"}, required[ToolGetForecast])
}

func TestServer_CallToolOverJSONRPC(t *testing.T) {
	svc := &fakeWeather{alertsText: "No active alerts for TX"}
	s := newTestServer(svc)

	out := handle(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get-alerts","arguments":{"state":"tx"}}}`)

	raw, err := json.Marshal(out["result"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "No active alerts for TX")
	assert.Equal(t, "tx", svc.gotState)
}

func TestServeStdio_StopsOnContextCancel(t *testing.T) {
	s := newTestServer(&fakeWeather{})
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeStdio(ctx, pr, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stdio transport did not stop after cancel")
	}
}

func TestServeSSE_StartsAndStops(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := newTestServer(&fakeWeather{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeSSE(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/sse")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ServerRunning))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("sse transport did not stop after cancel")
	}
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.ServerRunning))
}
